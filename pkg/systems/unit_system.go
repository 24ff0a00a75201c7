package systems

import (
	"log"
	"math"

	"github.com/decker502/lanedefense/pkg/components"
	"github.com/decker502/lanedefense/pkg/config"
	"github.com/decker502/lanedefense/pkg/ecs"
	"github.com/decker502/lanedefense/pkg/event"
	"github.com/decker502/lanedefense/pkg/fsm"
)

// DamageSink 伤害显示接收者（飘字等视觉反馈）
// 每次 TakeDamage 都会调用，纯观察性质
type DamageSink interface {
	ShowDamage(x, y float64, amount int)
}

// HealSink 可选接口：DamageSink 同时实现时显示治疗数字
type HealSink interface {
	ShowHeal(x, y float64, amount int)
}

// UnitSystem 单位战斗操作
//
// 职责：
//   - 驱动单位状态机
//   - 攻击/治疗冷却与目标校验
//   - 受伤、死亡序列（死亡动画计时后删除实体）
//   - 飞行单位浮动动画
//
// 所有操作以 EntityID 为参数；实体失效时静默忽略
type UnitSystem struct {
	entityManager *ecs.EntityManager
	dispatcher    *event.Dispatcher
	damageSink    DamageSink
	combatSystem  *CombatSystem
}

// NewUnitSystem 创建单位系统
// damageSink 可为 nil
func NewUnitSystem(em *ecs.EntityManager, dispatcher *event.Dispatcher, damageSink DamageSink) *UnitSystem {
	return &UnitSystem{
		entityManager: em,
		dispatcher:    dispatcher,
		damageSink:    damageSink,
	}
}

// SetCombatSystem 注入战斗系统（两者互相依赖，创建后再连接）
func (s *UnitSystem) SetCombatSystem(cs *CombatSystem) {
	s.combatSystem = cs
}

// Register 为新创建的单位挂接状态变化监听
// 进入 Dying 的副作用（死亡计时、奖励、事件）全部在监听中触发，保证只发生一次
func (s *UnitSystem) Register(id ecs.EntityID) {
	unit, ok := ecs.GetComponent[*components.UnitComponent](s.entityManager, id)
	if !ok {
		return
	}
	unit.Machine.SetOnChange(func(from, to fsm.State) {
		if to == fsm.StateDying {
			s.beginDying(id, unit)
		}
	})
}

// unit 返回存活实体的单位组件
func (s *UnitSystem) unit(id ecs.EntityID) (*components.UnitComponent, bool) {
	if !s.entityManager.IsActive(id) {
		return nil, false
	}
	return ecs.GetComponent[*components.UnitComponent](s.entityManager, id)
}

// IsAlive 实体是否为存活（非 Dying）单位
func (s *UnitSystem) IsAlive(id ecs.EntityID) bool {
	unit, ok := s.unit(id)
	return ok && !unit.Machine.IsDying()
}

// State 返回单位状态；实体失效时返回 false
func (s *UnitSystem) State(id ecs.EntityID) (fsm.State, bool) {
	unit, ok := s.unit(id)
	if !ok {
		return fsm.StateMoving, false
	}
	return unit.Machine.Current(), true
}

// UpdateStateMachine 根据最近敌人和最近受伤友军更新状态
// 每帧每个存活单位调用一次
func (s *UnitSystem) UpdateStateMachine(id ecs.EntityID, enemy, damagedAlly fsm.Target) fsm.State {
	unit, ok := s.unit(id)
	if !ok {
		return fsm.StateMoving
	}
	return unit.Machine.Evaluate(fsm.Context{
		Enemy:       enemy,
		AttackRange: unit.Def.Range,
		IsTank:      unit.Def.IsTank,
		IsHealer:    unit.Def.IsHealer,
		DamagedAlly: damagedAlly,
	})
}

func isAttackState(state fsm.State) bool {
	return state == fsm.StateAttacking || state == fsm.StateHolding
}

// CanAttack 单位存活、处于攻击状态且冷却结束
func (s *UnitSystem) CanAttack(id ecs.EntityID) bool {
	unit, ok := s.unit(id)
	if !ok || !isAttackState(unit.State()) {
		return false
	}
	combat, ok := ecs.GetComponent[*components.CombatComponent](s.entityManager, id)
	return ok && combat.AttackCooldownMs <= 0
}

// UpdateAttack 推进攻击冷却，条件满足时发起攻击
// 远程单位发射子弹，近战单位立即造成伤害
// 返回本帧是否发起了攻击
func (s *UnitSystem) UpdateAttack(id ecs.EntityID, deltaMs float64) bool {
	unit, ok := s.unit(id)
	if !ok {
		return false
	}
	combat, ok := ecs.GetComponent[*components.CombatComponent](s.entityManager, id)
	if !ok {
		return false
	}

	combat.AttackCooldownMs = math.Max(combat.AttackCooldownMs-deltaMs, 0)

	if !isAttackState(unit.State()) {
		return false
	}
	if !s.combatSystem.IsValidTarget(combat.AttackTarget) {
		combat.AttackTarget = 0
		return false
	}
	if combat.AttackCooldownMs > 0 {
		return false
	}

	combat.AttackCooldownMs = unit.Def.AttackInterval()
	if unit.Def.IsRanged() {
		s.combatSystem.FireProjectile(id, combat.AttackTarget)
	} else {
		s.combatSystem.ProcessAttack(id, combat.AttackTarget)
	}
	return true
}

// UpdateHeal 推进治疗冷却，条件满足时治疗目标
// 目标失效、死亡或已满血时清除目标
func (s *UnitSystem) UpdateHeal(id ecs.EntityID, deltaMs float64) bool {
	unit, ok := s.unit(id)
	if !ok {
		return false
	}
	combat, ok := ecs.GetComponent[*components.CombatComponent](s.entityManager, id)
	if !ok {
		return false
	}

	combat.HealCooldownMs = math.Max(combat.HealCooldownMs-deltaMs, 0)

	if unit.State() != fsm.StateHealing {
		return false
	}
	if !s.needsHealing(combat.HealTarget) {
		combat.HealTarget = 0
		return false
	}
	if combat.HealCooldownMs > 0 {
		return false
	}

	combat.HealCooldownMs = config.BaseHealIntervalMs
	s.Heal(combat.HealTarget, unit.Def.HealAmount)
	return true
}

// needsHealing 目标是否为存活且未满血的单位
func (s *UnitSystem) needsHealing(id ecs.EntityID) bool {
	if !s.IsAlive(id) {
		return false
	}
	health, ok := ecs.GetComponent[*components.HealthComponent](s.entityManager, id)
	return ok && health.CurrentHealth < health.MaxHealth
}

// TakeDamage 单位受到伤害
// Dying 状态下忽略；生命值归零时进入 Dying
func (s *UnitSystem) TakeDamage(id ecs.EntityID, amount int) {
	unit, ok := s.unit(id)
	if !ok || unit.Machine.IsDying() || amount <= 0 {
		return
	}
	health, ok := ecs.GetComponent[*components.HealthComponent](s.entityManager, id)
	if !ok {
		return
	}

	if s.damageSink != nil {
		if pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, id); ok {
			s.damageSink.ShowDamage(pos.X, pos.Y, amount)
		}
	}

	health.Apply(amount)
	if health.CurrentHealth == 0 {
		unit.Machine.TransitionToDying()
	}
}

// Heal 回复生命值（不超过上限），返回实际回复量
func (s *UnitSystem) Heal(id ecs.EntityID, amount int) int {
	unit, ok := s.unit(id)
	if !ok || unit.Machine.IsDying() {
		return 0
	}
	health, ok := ecs.GetComponent[*components.HealthComponent](s.entityManager, id)
	if !ok {
		return 0
	}

	healed := health.Restore(amount)
	if healed > 0 {
		if sink, ok := s.damageSink.(HealSink); ok {
			if pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, id); ok {
				sink.ShowHeal(pos.X, pos.Y, healed)
			}
		}
	}
	return healed
}

// IsBlocking 单位是否处于 Holding（阻挡敌方前进）
func (s *UnitSystem) IsBlocking(id ecs.EntityID) bool {
	state, ok := s.State(id)
	return ok && state == fsm.StateHolding
}

// UpdateFlyingBob 推进飞行单位的浮动相位，返回垂直偏移
// 非飞行单位返回 0；结果只由累计时间决定
func (s *UnitSystem) UpdateFlyingBob(id ecs.EntityID, deltaMs float64) float64 {
	if !s.entityManager.IsActive(id) {
		return 0
	}
	flying, ok := ecs.GetComponent[*components.FlyingComponent](s.entityManager, id)
	if !ok {
		return 0
	}
	flying.BobPhase += config.FlyingBobAngularSpeed * deltaMs / 1000
	flying.Offset = config.FlyingBobAmplitude * math.Sin(flying.BobPhase)
	return flying.Offset
}

// SetAttackTarget 设置攻击目标（Dying 时忽略）
func (s *UnitSystem) SetAttackTarget(id, target ecs.EntityID) {
	unit, ok := s.unit(id)
	if !ok || unit.Machine.IsDying() {
		return
	}
	if combat, ok := ecs.GetComponent[*components.CombatComponent](s.entityManager, id); ok {
		combat.AttackTarget = target
	}
}

// SetHealTarget 设置治疗目标（Dying 时忽略）
func (s *UnitSystem) SetHealTarget(id, target ecs.EntityID) {
	unit, ok := s.unit(id)
	if !ok || unit.Machine.IsDying() {
		return
	}
	if combat, ok := ecs.GetComponent[*components.CombatComponent](s.entityManager, id); ok {
		combat.HealTarget = target
	}
}

// UpdateDying 推进死亡动画计时，到期的单位被标记删除
func (s *UnitSystem) UpdateDying(deltaMs float64) {
	for _, id := range ecs.GetEntitiesWith1[*components.DyingComponent](s.entityManager) {
		dying, ok := ecs.GetComponent[*components.DyingComponent](s.entityManager, id)
		if !ok {
			continue
		}
		dying.RemainingMs -= deltaMs
		if dying.RemainingMs <= 0 {
			s.entityManager.DestroyEntity(id)
		}
	}
}

// beginDying 死亡序列：只在进入 Dying 的那一刻执行一次
func (s *UnitSystem) beginDying(id ecs.EntityID, unit *components.UnitComponent) {
	s.entityManager.AddComponent(id, &components.DyingComponent{RemainingMs: config.DeathAnimationMs})

	if combat, ok := ecs.GetComponent[*components.CombatComponent](s.entityManager, id); ok {
		combat.AttackTarget = 0
		combat.HealTarget = 0
	}

	isEnemy := unit.Role == components.RoleEnemy
	log.Printf("[UnitSystem] %s %s died (id=%d)", unit.Role, unit.Def.ID, id)

	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Publish(event.UnitDied, event.UnitDiedData{
		EntityID: uint64(id),
		UnitID:   unit.Def.ID,
		IsEnemy:  isEnemy,
	})
	if !isEnemy {
		return
	}

	wave := 0
	if reward, ok := ecs.GetComponent[*components.RewardComponent](s.entityManager, id); ok {
		wave = reward.Wave
		if !reward.Paid {
			reward.Paid = true
			s.dispatcher.Publish(event.GoldEarned, event.GoldEarnedData{
				Amount: reward.GoldDrop,
				Source: uint64(id),
			})
		}
	}
	s.dispatcher.Publish(event.EnemyKilled, event.EnemyKilledData{
		EntityID: uint64(id),
		EnemyID:  unit.Def.ID,
		Wave:     wave,
	})
}
