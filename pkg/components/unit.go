package components

import (
	"github.com/decker502/lanedefense/pkg/config"
	"github.com/decker502/lanedefense/pkg/ecs"
	"github.com/decker502/lanedefense/pkg/fsm"
)

// Role 实体所属阵营
type Role int

const (
	// RolePlayer 玩家阵营，从左向右推进
	RolePlayer Role = iota
	// RoleEnemy 敌方阵营，从右向左推进
	RoleEnemy
)

// String 返回阵营名称
func (r Role) String() string {
	if r == RoleEnemy {
		return "enemy"
	}
	return "player"
}

// Opponent 返回敌对阵营
func (r Role) Opponent() Role {
	if r == RoleEnemy {
		return RolePlayer
	}
	return RoleEnemy
}

// Direction 返回前进方向（+1 向右，-1 向左）
func (r Role) Direction() float64 {
	if r == RoleEnemy {
		return -1
	}
	return 1
}

// UnitComponent 战斗单位
// Def 是创建时的属性快照（已应用永久升级）
type UnitComponent struct {
	Role    Role
	Def     config.UnitDefinition
	Machine *fsm.StateMachine
}

// State 返回单位当前行为状态
func (u *UnitComponent) State() fsm.State {
	return u.Machine.Current()
}

// CombatComponent 单位的攻击/治疗冷却与当前目标
// 目标是弱引用：使用前必须通过 EntityManager.IsActive 校验
type CombatComponent struct {
	AttackCooldownMs float64      // 剩余攻击冷却，<= 0 时可攻击
	HealCooldownMs   float64      // 剩余治疗冷却
	AttackTarget     ecs.EntityID // 当前攻击目标（单位或基地），0 表示无
	HealTarget       ecs.EntityID // 当前治疗目标，0 表示无
}

// DyingComponent 死亡动画计时
// 计时结束后实体被删除
type DyingComponent struct {
	RemainingMs float64
}

// RewardComponent 敌人被击杀时给予的奖励
type RewardComponent struct {
	GoldDrop int
	Wave     int  // 生成该敌人的波次，0 表示不属于任何波次
	Paid     bool // 奖励只发放一次
}
