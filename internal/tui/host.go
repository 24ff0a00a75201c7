// Package tui 终端模式宿主
//
// 用 tcell 在终端中绘制战场，键盘操作出兵、升级炮塔和提前召唤波次。
// 终端事件由单独的 goroutine 读取并送入通道，帧循环在同一个 goroutine 中
// 消费事件并推进 BattleSystem，模拟核心始终是单线程的。
package tui

import (
	"fmt"
	"log"
	"time"

	"github.com/decker502/lanedefense/pkg/systems"
	"github.com/gdamore/tcell/v2"
)

// FrameMs 终端模式每帧推进的模拟时间
const FrameMs = 50

// Host 终端宿主
type Host struct {
	screen tcell.Screen
	battle *systems.BattleSystem

	message     string
	messageLeft float64
	quit        bool
}

// NewHost 创建终端宿主，screen 必须已经 Init
func NewHost(screen tcell.Screen, battle *systems.BattleSystem) *Host {
	return &Host{screen: screen, battle: battle}
}

// Run 运行帧循环直到玩家退出
func (h *Host) Run() {
	ticker := time.NewTicker(FrameMs * time.Millisecond)
	defer ticker.Stop()

	events := make(chan tcell.Event, 64)
	done := make(chan struct{})
	defer close(done)
	go h.pollEvents(events, done)

	h.Draw()
	for !h.quit {
		select {
		case ev := <-events:
			h.handleEvent(ev)
		case <-ticker.C:
			h.Step(FrameMs)
			h.Draw()
		}
	}
}

// pollEvents 把终端事件转发到 events，屏幕关闭或 done 关闭后返回
func (h *Host) pollEvents(events chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := h.screen.PollEvent()
		if ev == nil {
			// 屏幕已关闭
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

// Step 推进一帧模拟并衰减提示消息
func (h *Host) Step(deltaMs float64) {
	h.battle.Update(deltaMs)
	if h.messageLeft > 0 {
		h.messageLeft -= deltaMs
		if h.messageLeft <= 0 {
			h.message = ""
		}
	}
}

func (h *Host) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if !h.HandleKey(ev.Key(), ev.Rune()) {
			h.quit = true
		}
	case *tcell.EventResize:
		h.screen.Sync()
		h.Draw()
	}
}

// HandleKey 处理按键，返回 false 表示退出
//
//	1-9    出兵（按出兵栏顺序）
//	u      升级玩家炮塔
//	n      提前召唤下一波
//	p 空格 暂停/继续
//	q Esc  退出
func (h *Host) HandleKey(key tcell.Key, ch rune) bool {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyRune:
	default:
		return true
	}

	switch {
	case ch == 'q':
		return false
	case ch == 'p' || ch == ' ':
		h.battle.TogglePause()
	case ch == 'u':
		if err := h.battle.UpgradePlayerTurret(); err != nil {
			h.flash(err.Error())
		} else {
			h.flash("turret upgraded")
		}
	case ch == 'n':
		if wave, ok := h.battle.CallNextWave(); ok {
			h.flash(fmt.Sprintf("wave %d called", wave))
		}
	case ch >= '1' && ch <= '9':
		loadout := h.battle.Loadout()
		index := int(ch - '1')
		if index >= len(loadout) {
			return true
		}
		if _, err := h.battle.SpawnUnit(loadout[index]); err != nil {
			log.Printf("[TUI] Spawn %s failed: %v", loadout[index], err)
			h.flash(err.Error())
		}
	}
	return true
}

// Message 返回当前提示消息
func (h *Host) Message() string { return h.message }

func (h *Host) flash(msg string) {
	h.message = msg
	h.messageLeft = 2000
}
