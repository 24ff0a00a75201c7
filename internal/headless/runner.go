// Package headless 无头模式
//
// 不打开窗口也不读取输入，以固定步长推进 BattleSystem，
// 可选地由自动策略代替玩家出兵。用于平衡性验证和回放对比。
package headless

import (
	"fmt"
	"log"

	"github.com/decker502/lanedefense/pkg/systems"
)

// DefaultFrameMs 无头模式默认步长（约 60 帧每秒）
const DefaultFrameMs = 16.0

// Strategy 无头模式下代替玩家操作
type Strategy interface {
	// Act 在每个 tick 推进前调用
	Act(battle *systems.BattleSystem)
}

// GreedyStrategy 按出兵栏顺序购买第一个买得起且不在冷却的单位；
// 金币达到升级费用两倍时升级炮塔
type GreedyStrategy struct {
	Spawned  int
	Upgrades int
}

// Act 实现 Strategy
func (g *GreedyStrategy) Act(battle *systems.BattleSystem) {
	snap := battle.Snapshot()
	if snap.TurretUpgrade != nil && snap.Gold >= 2*snap.TurretUpgrade.UpgradeCost {
		if err := battle.UpgradePlayerTurret(); err == nil {
			g.Upgrades++
			return
		}
	}
	for _, entry := range snap.Loadout {
		if !entry.Affordable || entry.CooldownMs > 0 {
			continue
		}
		if _, err := battle.SpawnUnit(entry.UnitID); err != nil {
			log.Printf("[Headless] Spawn %s failed: %v", entry.UnitID, err)
			continue
		}
		g.Spawned++
		return
	}
}

// Report 一次无头运行的结果
type Report struct {
	Outcome      systems.Outcome
	Ticks        int
	ElapsedMs    float64
	Wave         int
	TotalWaves   int
	Gold         int
	PlayerBaseHP int
	EnemyBaseHP  int
	UnitsAlive   int
}

// String 单行摘要
func (r Report) String() string {
	return fmt.Sprintf("%s after %d ticks (%.1fs): wave %d/%d, gold %d, base %d vs %d, %d units alive",
		r.Outcome, r.Ticks, r.ElapsedMs/1000, r.Wave, r.TotalWaves, r.Gold, r.PlayerBaseHP, r.EnemyBaseHP, r.UnitsAlive)
}

// Runner 固定步长驱动一场战斗
type Runner struct {
	battle   *systems.BattleSystem
	strategy Strategy
	FrameMs  float64
}

// NewRunner 创建无头运行器，strategy 可为 nil（玩家不操作）
func NewRunner(battle *systems.BattleSystem, strategy Strategy) *Runner {
	return &Runner{battle: battle, strategy: strategy, FrameMs: DefaultFrameMs}
}

// Run 推进最多 maxTicks 个 tick，战斗结束时提前返回
func (r *Runner) Run(maxTicks int) Report {
	ticks := 0
	for ; ticks < maxTicks; ticks++ {
		if r.battle.Outcome() != systems.OutcomeOngoing {
			break
		}
		if r.strategy != nil {
			r.strategy.Act(r.battle)
		}
		r.battle.Update(r.FrameMs)
	}

	report := r.report()
	report.Ticks = ticks
	log.Printf("[Headless] %s", report)
	return report
}

func (r *Runner) report() Report {
	snap := r.battle.Snapshot()
	alive := 0
	for _, u := range snap.Units {
		if u.HP > 0 {
			alive++
		}
	}
	return Report{
		Outcome:      snap.Outcome,
		ElapsedMs:    snap.NowMs,
		Wave:         snap.Wave,
		TotalWaves:   snap.TotalWaves,
		Gold:         snap.Gold,
		PlayerBaseHP: snap.PlayerBase.HP,
		EnemyBaseHP:  snap.EnemyBase.HP,
		UnitsAlive:   alive,
	}
}
