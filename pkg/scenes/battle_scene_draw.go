package scenes

import (
	"fmt"
	"image/color"

	"github.com/decker502/lanedefense/pkg/components"
	"github.com/decker502/lanedefense/pkg/config"
	"github.com/decker502/lanedefense/pkg/fsm"
	"github.com/decker502/lanedefense/pkg/systems"
	"github.com/decker502/lanedefense/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// 单位绘制尺寸
const (
	unitWidth      = 22.0
	unitHeight     = 34.0
	flyerHeight    = 18.0
	hpBarHeight    = 4.0
	projectileSize = 3.0
	turretSize     = 26.0
	// damageNumberRise 飘字整个生命周期内额外上升的像素
	damageNumberRise = 12.0
)

var (
	colorSky       = color.RGBA{120, 170, 220, 255}
	colorGround    = color.RGBA{90, 140, 70, 255}
	colorPlayer    = color.RGBA{60, 120, 230, 255}
	colorEnemy     = color.RGBA{210, 60, 60, 255}
	colorDying     = color.RGBA{90, 90, 90, 160}
	colorHPBack    = color.RGBA{40, 10, 10, 255}
	colorHPFill    = color.RGBA{80, 220, 90, 255}
	colorHeal      = color.RGBA{90, 240, 120, 255}
	colorDamage    = color.RGBA{255, 90, 70, 255}
	colorShotAlly  = color.RGBA{250, 250, 160, 255}
	colorShotEnemy = color.RGBA{255, 150, 60, 255}
)

// Draw 绘制场景
func (s *BattleScene) Draw(screen *ebiten.Image) {
	snap := s.battle.Snapshot()

	s.drawBackground(screen)
	s.drawBases(screen, snap)
	s.drawTurrets(screen, snap)
	s.drawUnits(screen, snap)
	s.drawProjectiles(screen, snap)
	s.drawDamageNumbers(screen, snap)
	s.drawHUD(screen, snap)
	s.drawLoadout(screen, snap)
	s.drawBanner(screen, snap)
}

func (s *BattleScene) drawBackground(screen *ebiten.Image) {
	screen.Fill(colorSky)
	vector.DrawFilledRect(screen, 0, config.LaneY, config.FieldWidth, barY-config.LaneY-8, colorGround, false)
}

func (s *BattleScene) drawBases(screen *ebiten.Image, snap systems.Snapshot) {
	player := utils.Rect{X: config.PlayerBaseX - config.BaseWidth, Y: config.LaneY - config.BaseHeight, W: config.BaseWidth, H: config.BaseHeight}
	enemy := utils.Rect{X: config.EnemyBaseX, Y: config.LaneY - config.BaseHeight, W: config.BaseWidth, H: config.BaseHeight}

	s.drawBase(screen, player, snap.PlayerBase, colorPlayer)
	s.drawBase(screen, enemy, snap.EnemyBase, colorEnemy)
}

func (s *BattleScene) drawBase(screen *ebiten.Image, r utils.Rect, base systems.BaseView, clr color.RGBA) {
	drawRect(screen, r, baseColor(clr, base.DamageState))
	vector.StrokeRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), 2, colorBorder, false)

	bar := utils.Rect{X: r.X, Y: r.Y - 10, W: r.W, H: hpBarHeight + 2}
	drawHPBar(screen, bar, base.HP, base.MaxHP)

	label := fmt.Sprintf("%d", base.HP)
	x := utils.CenteredX(label, s.face, int(r.X), int(r.W))
	s.drawText(screen, label, x, int(r.Y+r.H/2), colorText)
}

// baseColor 按受损状态调暗基地颜色
func baseColor(clr color.RGBA, state components.DamageState) color.RGBA {
	var scale float64
	switch state {
	case components.DamageDamaged:
		scale = 0.75
	case components.DamageCritical:
		scale = 0.5
	default:
		return clr
	}
	return color.RGBA{
		R: uint8(float64(clr.R) * scale),
		G: uint8(float64(clr.G) * scale),
		B: uint8(float64(clr.B) * scale),
		A: clr.A,
	}
}

func (s *BattleScene) drawTurrets(screen *ebiten.Image, snap systems.Snapshot) {
	for _, t := range snap.Turrets {
		clr := colorPlayer
		if t.Role == components.RoleEnemy {
			clr = colorEnemy
		}
		r := utils.CenteredRect(t.X, t.Y+turretSize/2, turretSize, turretSize)
		drawRect(screen, r, clr)
		vector.StrokeRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), 1, colorBorder, false)
		x := utils.CenteredX(t.Tier, s.face, int(r.X), int(r.W))
		s.drawText(screen, t.Tier, x, int(r.Y)-4, colorText)
	}
}

func (s *BattleScene) drawUnits(screen *ebiten.Image, snap systems.Snapshot) {
	for _, u := range snap.Units {
		x, y := utils.UnitScreenPosition(u.X, u.Y, u.IsFlying)
		h := unitHeight
		if u.IsFlying {
			h = flyerHeight
		}
		r := utils.CenteredRect(x, y, unitWidth, h)

		clr := color.Color(colorPlayer)
		if u.Role == components.RoleEnemy {
			clr = colorEnemy
		}
		if u.State == fsm.StateDying {
			drawRect(screen, r, colorDying)
			continue
		}
		drawRect(screen, r, clr)
		if u.State == fsm.StateHolding {
			vector.StrokeRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), 2, colorGold, false)
		}

		bar := utils.Rect{X: r.X, Y: r.Y - hpBarHeight - 3, W: r.W, H: hpBarHeight}
		drawHPBar(screen, bar, u.HP, u.MaxHP)
	}
}

func (s *BattleScene) drawProjectiles(screen *ebiten.Image, snap systems.Snapshot) {
	for _, p := range snap.Projectiles {
		clr := colorShotAlly
		if p.Faction == components.RoleEnemy {
			clr = colorShotEnemy
		}
		vector.DrawFilledCircle(screen, float32(p.X), float32(p.Y), projectileSize, clr, true)
	}
}

func (s *BattleScene) drawDamageNumbers(screen *ebiten.Image, snap systems.Snapshot) {
	for _, n := range snap.DamageNumbers {
		label, clr := damageNumberLabel(n)
		y := n.Y - damageNumberRise*utils.EaseOutQuad(n.Fade)
		x := utils.CenteredX(label, s.face, int(n.X), 0)
		s.drawText(screen, label, x, int(y), clr)
	}
}

// damageNumberLabel 飘字文本和颜色，越接近消失越透明
func damageNumberLabel(n systems.DamageNumberView) (string, color.RGBA) {
	label, clr := fmt.Sprintf("-%d", n.Amount), colorDamage
	if n.IsHealing {
		label, clr = fmt.Sprintf("+%d", n.Amount), colorHeal
	}
	alpha := 1 - utils.EaseInQuad(n.Fade)
	// 预乘 alpha
	clr.R = uint8(float64(clr.R) * alpha)
	clr.G = uint8(float64(clr.G) * alpha)
	clr.B = uint8(float64(clr.B) * alpha)
	clr.A = uint8(float64(clr.A) * alpha)
	return label, clr
}

func drawHPBar(screen *ebiten.Image, r utils.Rect, hp, maxHP int) {
	drawRect(screen, r, colorHPBack)
	fill := utils.BarWidth(hp, maxHP, r.W)
	if fill > 0 {
		vector.DrawFilledRect(screen, float32(r.X), float32(r.Y), float32(fill), float32(r.H), colorHPFill, false)
	}
}
