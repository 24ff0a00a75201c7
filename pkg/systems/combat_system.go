package systems

import (
	"log"

	"github.com/decker502/lanedefense/pkg/components"
	"github.com/decker502/lanedefense/pkg/ecs"
	"github.com/decker502/lanedefense/pkg/entities"
)

// CombatSystem 伤害计算与结算
//
// ApplyDamage 是唯一的伤害结算入口：根据目标类型路由到 UnitSystem 或 BaseSystem
type CombatSystem struct {
	entityManager *ecs.EntityManager
	unitSystem    *UnitSystem
	baseSystem    *BaseSystem
}

// NewCombatSystem 创建战斗系统，并把自身注入 UnitSystem
func NewCombatSystem(em *ecs.EntityManager, us *UnitSystem, bs *BaseSystem) *CombatSystem {
	cs := &CombatSystem{
		entityManager: em,
		unitSystem:    us,
		baseSystem:    bs,
	}
	us.SetCombatSystem(cs)
	return cs
}

// IsValidTarget 目标是否可以被攻击
// 单位必须存活且不在 Dying；基地必须未被摧毁
func (cs *CombatSystem) IsValidTarget(id ecs.EntityID) bool {
	if !cs.entityManager.IsActive(id) {
		return false
	}
	if ecs.HasComponent[*components.UnitComponent](cs.entityManager, id) {
		return cs.unitSystem.IsAlive(id)
	}
	if base, ok := ecs.GetComponent[*components.BaseComponent](cs.entityManager, id); ok {
		return !base.Destroyed
	}
	return false
}

// CalculateDamage 计算攻击者对目标造成的伤害
// 目前是攻击者的固定伤害值，减伤和增益在此扩展
func (cs *CombatSystem) CalculateDamage(attacker, target ecs.EntityID) int {
	if unit, ok := ecs.GetComponent[*components.UnitComponent](cs.entityManager, attacker); ok {
		return unit.Def.Damage
	}
	if turret, ok := ecs.GetComponent[*components.TurretComponent](cs.entityManager, attacker); ok {
		return turret.Tier.Damage
	}
	return 0
}

// ProcessAttack 近战攻击：立即结算伤害
func (cs *CombatSystem) ProcessAttack(attacker, target ecs.EntityID) {
	cs.ApplyDamage(target, cs.CalculateDamage(attacker, target))
}

// FireProjectile 发射携带预计算伤害的追踪子弹
// 返回子弹实体ID，失败返回 0
func (cs *CombatSystem) FireProjectile(attacker, target ecs.EntityID) ecs.EntityID {
	pos, ok := ecs.GetComponent[*components.PositionComponent](cs.entityManager, attacker)
	if !ok {
		return 0
	}

	spec := entities.ProjectileSpec{
		AttackerID: attacker,
		TargetID:   target,
		X:          pos.X,
		Y:          pos.Y,
		Damage:     cs.CalculateDamage(attacker, target),
	}
	if unit, ok := ecs.GetComponent[*components.UnitComponent](cs.entityManager, attacker); ok {
		spec.Faction = unit.Role
		spec.Speed = unit.Def.ProjectileSpeed
		spec.SplashRadius = unit.Def.SplashRadius
	} else if turret, ok := ecs.GetComponent[*components.TurretComponent](cs.entityManager, attacker); ok {
		spec.Faction = turret.Role
		spec.Speed = turret.Tier.ProjectileSpeed
		spec.SplashRadius = turret.Tier.SplashRadius
	} else {
		return 0
	}

	id, err := entities.NewProjectile(cs.entityManager, spec)
	if err != nil {
		log.Printf("[CombatSystem] Failed to fire projectile from %d: %v", attacker, err)
		return 0
	}
	return id
}

// ApplyDamage 对目标结算伤害
func (cs *CombatSystem) ApplyDamage(target ecs.EntityID, amount int) {
	if amount <= 0 || !cs.entityManager.IsActive(target) {
		return
	}
	if ecs.HasComponent[*components.UnitComponent](cs.entityManager, target) {
		cs.unitSystem.TakeDamage(target, amount)
		return
	}
	if ecs.HasComponent[*components.BaseComponent](cs.entityManager, target) && cs.baseSystem != nil {
		cs.baseSystem.TakeDamage(target, amount)
	}
}
