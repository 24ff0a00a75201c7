package systems

import (
	"math"

	"github.com/decker502/lanedefense/pkg/components"
	"github.com/decker502/lanedefense/pkg/config"
	"github.com/decker502/lanedefense/pkg/ecs"
)

// ProjectileSystem 追踪子弹的飞行、命中和溅射
type ProjectileSystem struct {
	entityManager *ecs.EntityManager
	combatSystem  *CombatSystem
	unitSystem    *UnitSystem
}

// NewProjectileSystem 创建子弹系统
func NewProjectileSystem(em *ecs.EntityManager, cs *CombatSystem, us *UnitSystem) *ProjectileSystem {
	return &ProjectileSystem{
		entityManager: em,
		combatSystem:  cs,
		unitSystem:    us,
	}
}

// Update 更新所有子弹
//
// 目标失效 → 子弹消失，不造成伤害
// 距离小于到达阈值 → 结算伤害和溅射，子弹消失
// 否则向目标移动，单步移动不超过剩余距离
func (s *ProjectileSystem) Update(deltaMs float64) {
	for _, id := range ecs.GetEntitiesWith2[*components.ProjectileComponent, *components.PositionComponent](s.entityManager) {
		if !s.entityManager.IsActive(id) {
			continue
		}
		proj, _ := ecs.GetComponent[*components.ProjectileComponent](s.entityManager, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)

		if !s.combatSystem.IsValidTarget(proj.TargetID) {
			s.entityManager.DestroyEntity(id)
			continue
		}
		targetPos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, proj.TargetID)
		if !ok {
			s.entityManager.DestroyEntity(id)
			continue
		}

		dx := targetPos.X - pos.X
		dy := targetPos.Y - pos.Y
		distance := math.Hypot(dx, dy)

		if distance < config.ProjectileArrivalThreshold {
			impactX, impactY := targetPos.X, targetPos.Y
			s.combatSystem.ApplyDamage(proj.TargetID, proj.Damage)
			if proj.SplashRadius > 0 {
				s.applySplash(proj, impactX, impactY)
			}
			s.entityManager.DestroyEntity(id)
			continue
		}

		move := proj.Speed * deltaMs / 1000
		t := math.Min(move/distance, 1)
		pos.X += dx * t
		pos.Y += dy * t
	}
}

// applySplash 对冲击点半径内的其他敌对单位造成溅射伤害
func (s *ProjectileSystem) applySplash(proj *components.ProjectileComponent, x, y float64) {
	damage := int(math.Round(float64(proj.Damage) * config.SplashDamageFactor))
	if damage <= 0 {
		return
	}
	victimRole := proj.Faction.Opponent()

	for _, id := range ecs.GetEntitiesWith2[*components.UnitComponent, *components.PositionComponent](s.entityManager) {
		if id == proj.TargetID || !s.unitSystem.IsAlive(id) {
			continue
		}
		unit, _ := ecs.GetComponent[*components.UnitComponent](s.entityManager, id)
		if unit.Role != victimRole {
			continue
		}
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		if math.Hypot(pos.X-x, pos.Y-y) <= proj.SplashRadius {
			s.combatSystem.ApplyDamage(id, damage)
		}
	}
}
