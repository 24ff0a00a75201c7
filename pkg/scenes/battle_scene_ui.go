package scenes

import (
	"fmt"
	"image/color"

	"github.com/decker502/lanedefense/pkg/config"
	"github.com/decker502/lanedefense/pkg/systems"
	"github.com/decker502/lanedefense/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// 底部操作栏布局
const (
	hudHeight = 28.0

	barY       = config.FieldHeight - 76.0
	slotX      = 16.0
	slotWidth  = 70.0
	slotHeight = 60.0
	slotGap    = 4.0
	maxSlots   = 9

	// slotLabelRunes 格子宽度能放下的字符数（basicfont 每字符 7 像素）
	slotLabelRunes = 8

	buttonWidth  = 120.0
	buttonHeight = 28.0
)

var (
	upgradeButtonRect = utils.Rect{X: config.FieldWidth - 2*buttonWidth - 24, Y: barY + 16, W: buttonWidth, H: buttonHeight}
	waveButtonRect    = utils.Rect{X: config.FieldWidth - buttonWidth - 16, Y: barY + 16, W: buttonWidth, H: buttonHeight}
)

var (
	colorHUD         = color.RGBA{20, 24, 32, 220}
	colorText        = color.RGBA{235, 235, 235, 255}
	colorGold        = color.RGBA{250, 210, 70, 255}
	colorDim         = color.RGBA{130, 130, 130, 255}
	colorSlot        = color.RGBA{40, 60, 100, 255}
	colorSlotHover   = color.RGBA{60, 90, 150, 255}
	colorSlotBlocked = color.RGBA{50, 50, 55, 255}
	colorBorder      = color.RGBA{200, 200, 210, 255}
	colorOverlay     = color.RGBA{0, 0, 0, 150}
)

// loadoutSlotRect 出兵栏第 i 格的区域
func loadoutSlotRect(i int) utils.Rect {
	return utils.Rect{
		X: slotX + float64(i)*(slotWidth+slotGap),
		Y: barY,
		W: slotWidth,
		H: slotHeight,
	}
}

// loadoutSlotAt 返回屏幕坐标所在的出兵栏格子下标，没有时返回 -1
func loadoutSlotAt(x, y, count int) int {
	if count > maxSlots {
		count = maxSlots
	}
	for i := 0; i < count; i++ {
		if loadoutSlotRect(i).Contains(x, y) {
			return i
		}
	}
	return -1
}

// slotLabel 出兵栏格子标题，按格子宽度截断
func slotLabel(i int, name string) string {
	label := []rune(fmt.Sprintf("%d:%s", i+1, name))
	if len(label) > slotLabelRunes {
		label = label[:slotLabelRunes]
	}
	return string(label)
}

// waveLabel HUD 中的波次文本
func waveLabel(snap systems.Snapshot) string {
	label := fmt.Sprintf("Wave %d/%d", snap.Wave, snap.TotalWaves)
	if snap.WaveScheduled {
		label += fmt.Sprintf("  next in %.1fs", snap.NextWaveInMs/1000)
	}
	return label
}

// resultLabel 结算横幅文本
func resultLabel(outcome systems.Outcome, hasNext bool) (string, string) {
	switch outcome {
	case systems.OutcomeVictory:
		if hasNext {
			return "VICTORY", "Enter: next level   R: replay"
		}
		return "VICTORY", "all levels cleared   R: replay"
	case systems.OutcomeDefeat:
		return "DEFEAT", "Enter or R: retry"
	default:
		return "", ""
	}
}

func (s *BattleScene) drawHUD(screen *ebiten.Image, snap systems.Snapshot) {
	vector.DrawFilledRect(screen, 0, 0, config.FieldWidth, hudHeight, colorHUD, false)

	s.drawText(screen, fmt.Sprintf("Gold %d", snap.Gold), 12, 19, colorGold)
	s.drawText(screen, waveLabel(snap), 120, 19, colorText)

	if s.upgrades != nil {
		s.drawText(screen, fmt.Sprintf("Upgrade points %d", s.upgrades.Points()), 420, 19, colorDim)
	}
	if s.message != "" {
		x := utils.CenteredX(s.message, s.face, 0, int(config.FieldWidth))
		s.drawText(screen, s.message, x, int(hudHeight)+20, colorText)
	}
	help := "1-9 spawn  U turret  N wave  P pause  D numbers  M sound"
	s.drawText(screen, help, int(config.FieldWidth)-utils.MeasureText(help, s.face)-12, 19, colorDim)
}

func (s *BattleScene) drawLoadout(screen *ebiten.Image, snap systems.Snapshot) {
	for i, entry := range snap.Loadout {
		if i >= maxSlots {
			break
		}
		r := loadoutSlotRect(i)
		fill := colorSlot
		switch {
		case entry.CooldownMs > 0 || !entry.Affordable:
			fill = colorSlotBlocked
		case i == s.hoverSlot:
			fill = colorSlotHover
		}
		drawRect(screen, r, fill)
		vector.StrokeRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), 1, colorBorder, false)

		x, y := int(r.X)+6, int(r.Y)
		s.drawText(screen, slotLabel(i, entry.Name), x, y+16, colorText)
		costColor := colorGold
		if !entry.Affordable {
			costColor = colorDim
		}
		s.drawText(screen, fmt.Sprintf("%dg", entry.Cost), x, y+34, costColor)
		if entry.CooldownMs > 0 {
			s.drawText(screen, fmt.Sprintf("%.1fs", entry.CooldownMs/1000), x, y+52, colorDim)
		}
	}

	upgrade := "Turret maxed"
	if snap.TurretUpgrade != nil {
		upgrade = fmt.Sprintf("%s %dg", snap.TurretUpgrade.Name, snap.TurretUpgrade.UpgradeCost)
	}
	s.drawButton(screen, upgradeButtonRect, upgrade, snap.TurretUpgrade != nil && snap.Gold >= snap.TurretUpgrade.UpgradeCost)
	s.drawButton(screen, waveButtonRect, "Next wave", snap.Wave < snap.TotalWaves)
}

func (s *BattleScene) drawButton(screen *ebiten.Image, r utils.Rect, label string, enabled bool) {
	fill, fg := colorSlot, colorText
	if !enabled {
		fill, fg = colorSlotBlocked, colorDim
	}
	drawRect(screen, r, fill)
	vector.StrokeRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), 1, colorBorder, false)
	x := utils.CenteredX(label, s.face, int(r.X), int(r.W))
	s.drawText(screen, label, x, int(r.Y+r.H/2)+4, fg)
}

func (s *BattleScene) drawBanner(screen *ebiten.Image, snap systems.Snapshot) {
	title, hint := resultLabel(snap.Outcome, s.nextLevelID != "")
	if title == "" {
		if !snap.Paused {
			return
		}
		title, hint = "PAUSED", "P or Space: resume"
	}

	vector.DrawFilledRect(screen, 0, config.FieldHeight/2-50, config.FieldWidth, 90, colorOverlay, false)
	x := utils.CenteredX(title, s.face, 0, int(config.FieldWidth))
	s.drawText(screen, title, x, int(config.FieldHeight/2)-15, colorGold)
	x = utils.CenteredX(hint, s.face, 0, int(config.FieldWidth))
	s.drawText(screen, hint, x, int(config.FieldHeight/2)+15, colorText)
}

// drawText 以基线坐标绘制文字
func (s *BattleScene) drawText(screen *ebiten.Image, str string, x, baseline int, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(baseline)-s.labelFace.Metrics().HAscent)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, str, s.labelFace, op)
}

func drawRect(screen *ebiten.Image, r utils.Rect, clr color.Color) {
	vector.DrawFilledRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), clr, false)
}
