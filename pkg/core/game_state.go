// Package core 战斗模拟共享的基础状态：虚拟时钟、经济状态和音效提示接口
//
// 该包不依赖任何图形或音频库，模拟核心和无头模式只需要它即可运行。
package core

import "math"

// GameState 存储一场战斗的经济状态
// 由驱动器创建并注入到各系统，不使用全局单例
type GameState struct {
	Gold            int     // 当前金币数量
	IncomePerSecond float64 // 被动收入（金币/秒）
	MaxGold         int     // 金币上限，0 表示不限

	incomeRemainder float64 // 尚未结算的小数金币
}

// NewGameState 创建经济状态
func NewGameState(startingGold int, incomePerSecond float64, maxGold int) *GameState {
	gs := &GameState{
		IncomePerSecond: incomePerSecond,
		MaxGold:         maxGold,
	}
	gs.AddGold(startingGold)
	return gs
}

// AddGold 增加金币，带上限检查
func (gs *GameState) AddGold(amount int) {
	if amount <= 0 {
		return
	}
	gs.Gold += amount
	if gs.MaxGold > 0 && gs.Gold > gs.MaxGold {
		gs.Gold = gs.MaxGold
	}
}

// SpendGold 扣除金币，如果金币不足返回 false
// 只有当金币充足时才会扣除
func (gs *GameState) SpendGold(amount int) bool {
	if amount < 0 || gs.Gold < amount {
		return false
	}
	gs.Gold -= amount
	return true
}

// CanAfford 金币是否足够
func (gs *GameState) CanAfford(amount int) bool {
	return gs.Gold >= amount
}

// AccrueIncome 按时间累积被动收入
// 小数部分跨帧保留，保证收入与帧率无关
func (gs *GameState) AccrueIncome(deltaMs float64) {
	if gs.IncomePerSecond <= 0 || deltaMs <= 0 {
		return
	}
	gs.incomeRemainder += gs.IncomePerSecond * deltaMs / 1000
	whole := math.Floor(gs.incomeRemainder)
	if whole >= 1 {
		gs.incomeRemainder -= whole
		gs.AddGold(int(whole))
	}
}

// Clock 战斗虚拟时钟（毫秒）
// 只由驱动器推进，测试可以直接构造并手动推进
type Clock struct {
	nowMs float64
}

// NewClock 创建从 0 开始的时钟
func NewClock() *Clock {
	return &Clock{}
}

// NowMs 返回当前虚拟时间
func (c *Clock) NowMs() float64 {
	return c.nowMs
}

// Advance 推进时钟
func (c *Clock) Advance(deltaMs float64) {
	if deltaMs > 0 {
		c.nowMs += deltaMs
	}
}
