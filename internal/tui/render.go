package tui

import (
	"fmt"
	"unicode"

	"github.com/decker502/lanedefense/pkg/components"
	"github.com/decker502/lanedefense/pkg/config"
	"github.com/decker502/lanedefense/pkg/fsm"
	"github.com/decker502/lanedefense/pkg/systems"
	"github.com/gdamore/tcell/v2"
)

// 战场在终端中的行布局
const (
	hudRow     = 0
	baseRow    = 1
	messageRow = 2
	turretRow  = 4
	airRow     = 5
	shotRow    = 6
	groundRow  = 7
	numberRow  = 8
	loadoutRow = 10
	helpRow    = 12
)

var (
	styleDefault = tcell.StyleDefault
	stylePlayer  = tcell.StyleDefault.Foreground(tcell.ColorDodgerBlue)
	styleEnemy   = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleDim     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleHeal    = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleGold    = tcell.StyleDefault.Foreground(tcell.ColorGold)
	styleBanner  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true).Reverse(true)
)

// columnFor 把世界X坐标映射到终端列
func columnFor(x float64, width int) int {
	if width <= 1 {
		return 0
	}
	col := int(x / config.FieldWidth * float64(width-1))
	if col < 0 {
		return 0
	}
	if col >= width {
		return width - 1
	}
	return col
}

// unitGlyph 单位的显示字符：玩家大写，敌人小写，死亡中为 x
func unitGlyph(u systems.UnitView) rune {
	if u.State == fsm.StateDying {
		return 'x'
	}
	r := '?'
	for _, c := range u.UnitID {
		r = c
		break
	}
	if u.Role == components.RolePlayer {
		return unicode.ToUpper(r)
	}
	return unicode.ToLower(r)
}

func roleStyle(role components.Role) tcell.Style {
	if role == components.RolePlayer {
		return stylePlayer
	}
	return styleEnemy
}

// Draw 绘制当前战斗快照
func (h *Host) Draw() {
	h.screen.Clear()
	width, _ := h.screen.Size()
	snap := h.battle.Snapshot()

	h.drawHUD(snap)
	h.drawField(snap, width)
	h.drawLoadout(snap)

	switch snap.Outcome {
	case systems.OutcomeVictory:
		h.drawCentered(airRow, width, " VICTORY - press q to quit ", styleBanner)
	case systems.OutcomeDefeat:
		h.drawCentered(airRow, width, " DEFEAT - press q to quit ", styleBanner)
	default:
		if snap.Paused {
			h.drawCentered(airRow, width, " PAUSED ", styleBanner)
		}
	}

	h.screen.Show()
}

func (h *Host) drawHUD(snap systems.Snapshot) {
	wave := fmt.Sprintf("Wave %d/%d", snap.Wave, snap.TotalWaves)
	if snap.WaveScheduled {
		wave += fmt.Sprintf(" (next in %.1fs)", snap.NextWaveInMs/1000)
	}
	x := h.drawText(0, hudRow, fmt.Sprintf("Gold %d", snap.Gold), styleGold)
	h.drawText(x+3, hudRow, wave, styleDefault)

	x = h.drawText(0, baseRow, fmt.Sprintf("Base %d/%d [%s]", snap.PlayerBase.HP, snap.PlayerBase.MaxHP, snap.PlayerBase.DamageState), stylePlayer)
	h.drawText(x+3, baseRow, fmt.Sprintf("Enemy %d/%d [%s]", snap.EnemyBase.HP, snap.EnemyBase.MaxHP, snap.EnemyBase.DamageState), styleEnemy)

	if h.message != "" {
		h.drawText(0, messageRow, h.message, styleDim)
	}
}

func (h *Host) drawField(snap systems.Snapshot, width int) {
	for x := 0; x < width; x++ {
		h.screen.SetContent(x, groundRow+1, '─', nil, styleDim)
	}

	for _, row := range []int{airRow, shotRow, groundRow} {
		h.screen.SetContent(columnFor(config.PlayerBaseX, width), row, '█', nil, stylePlayer)
		h.screen.SetContent(columnFor(config.EnemyBaseX, width), row, '█', nil, styleEnemy)
	}

	for _, t := range snap.Turrets {
		h.screen.SetContent(columnFor(t.X, width), turretRow, '^', nil, roleStyle(t.Role))
	}

	for _, p := range snap.Projectiles {
		h.screen.SetContent(columnFor(p.X, width), shotRow, '·', nil, roleStyle(p.Faction))
	}

	for _, u := range snap.Units {
		row := groundRow
		if u.IsFlying {
			row = airRow
		}
		style := roleStyle(u.Role)
		switch u.State {
		case fsm.StateHolding:
			style = style.Reverse(true)
		case fsm.StateDying:
			style = styleDim
		}
		h.screen.SetContent(columnFor(u.X, width), row, unitGlyph(u), nil, style)
	}

	for _, n := range snap.DamageNumbers {
		if n.Fade > 0.5 {
			continue
		}
		label, style := fmt.Sprintf("-%d", n.Amount), styleEnemy
		if n.IsHealing {
			label, style = fmt.Sprintf("+%d", n.Amount), styleHeal
		}
		h.drawText(columnFor(n.X, width), numberRow, label, style)
	}
}

func (h *Host) drawLoadout(snap systems.Snapshot) {
	x := 0
	for i, entry := range snap.Loadout {
		label := fmt.Sprintf("%d:%s %dg", i+1, entry.Name, entry.Cost)
		style := stylePlayer
		switch {
		case entry.CooldownMs > 0:
			label += fmt.Sprintf(" %.1fs", entry.CooldownMs/1000)
			style = styleDim
		case !entry.Affordable:
			style = styleDim
		}
		x = h.drawText(x, loadoutRow, label, style) + 2
	}

	help := "u:upgrade turret  n:next wave  p:pause  q:quit"
	if snap.TurretUpgrade != nil {
		help = fmt.Sprintf("u:upgrade turret to %s (%dg)  n:next wave  p:pause  q:quit", snap.TurretUpgrade.Name, snap.TurretUpgrade.UpgradeCost)
	}
	h.drawText(0, helpRow, help, styleDim)
}

// drawText 从 (x, y) 开始写字符串，返回结束列
func (h *Host) drawText(x, y int, s string, style tcell.Style) int {
	for _, r := range s {
		h.screen.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}

func (h *Host) drawCentered(y, width int, s string, style tcell.Style) {
	x := (width - len([]rune(s))) / 2
	if x < 0 {
		x = 0
	}
	h.drawText(x, y, s, style)
}
