package systems

import (
	"github.com/decker502/lanedefense/pkg/components"
	"github.com/decker502/lanedefense/pkg/ecs"
	"github.com/decker502/lanedefense/pkg/entities"
)

// LifetimeSystem 管理实体的生命周期
type LifetimeSystem struct {
	entityManager *ecs.EntityManager
}

// NewLifetimeSystem 创建一个新的生命周期系统
func NewLifetimeSystem(em *ecs.EntityManager) *LifetimeSystem {
	return &LifetimeSystem{
		entityManager: em,
	}
}

// Update 更新所有拥有生命周期组件的实体，过期实体标记删除
func (s *LifetimeSystem) Update(deltaMs float64) {
	for _, id := range ecs.GetEntitiesWith1[*components.LifetimeComponent](s.entityManager) {
		lifetime, ok := ecs.GetComponent[*components.LifetimeComponent](s.entityManager, id)
		if !ok {
			continue
		}

		lifetime.CurrentLifetimeMs += deltaMs
		if lifetime.CurrentLifetimeMs >= lifetime.MaxLifetimeMs {
			lifetime.IsExpired = true
		}

		if lifetime.IsExpired {
			s.entityManager.DestroyEntity(id)
		}
	}
}

// DamageNumberSystem 飘字伤害数字
// 实现 DamageSink 和 HealSink：每次受伤/治疗创建一个短暂的数字实体
type DamageNumberSystem struct {
	entityManager *ecs.EntityManager
	Enabled       bool
}

// NewDamageNumberSystem 创建飘字系统
func NewDamageNumberSystem(em *ecs.EntityManager) *DamageNumberSystem {
	return &DamageNumberSystem{entityManager: em, Enabled: true}
}

// ShowDamage 实现 DamageSink
func (s *DamageNumberSystem) ShowDamage(x, y float64, amount int) {
	if s.Enabled {
		entities.NewDamageNumber(s.entityManager, x, y, amount, false)
	}
}

// ShowHeal 实现 HealSink
func (s *DamageNumberSystem) ShowHeal(x, y float64, amount int) {
	if s.Enabled {
		entities.NewDamageNumber(s.entityManager, x, y, amount, true)
	}
}

// Update 数字向上飘动
func (s *DamageNumberSystem) Update(deltaMs float64) {
	for _, id := range ecs.GetEntitiesWith2[*components.DamageNumberComponent, *components.PositionComponent](s.entityManager) {
		num, _ := ecs.GetComponent[*components.DamageNumberComponent](s.entityManager, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		pos.Y -= num.RiseSpeed * deltaMs / 1000
	}
}
