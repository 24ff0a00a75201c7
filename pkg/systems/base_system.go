package systems

import (
	"log"

	"github.com/decker502/lanedefense/pkg/components"
	"github.com/decker502/lanedefense/pkg/ecs"
	"github.com/decker502/lanedefense/pkg/event"
)

// 基地受损状态阈值（生命值比例）
const (
	damagedThreshold  = 0.66
	criticalThreshold = 0.33
)

// DamageStateFor 根据生命值比例计算受损状态
// > 66% 完好，33%-66% 受损，<= 33% 严重受损
func DamageStateFor(ratio float64) components.DamageState {
	switch {
	case ratio > damagedThreshold:
		return components.DamageHealthy
	case ratio > criticalThreshold:
		return components.DamageDamaged
	default:
		return components.DamageCritical
	}
}

// BaseSystem 阵营基地
type BaseSystem struct {
	entityManager *ecs.EntityManager
	dispatcher    *event.Dispatcher
	damageSink    DamageSink

	// OnStateChange 受损状态变化时调用
	OnStateChange func(id ecs.EntityID, from, to components.DamageState)
}

// NewBaseSystem 创建基地系统
func NewBaseSystem(em *ecs.EntityManager, dispatcher *event.Dispatcher, damageSink DamageSink) *BaseSystem {
	return &BaseSystem{
		entityManager: em,
		dispatcher:    dispatcher,
		damageSink:    damageSink,
	}
}

// TakeDamage 基地受到伤害
// 生命值归零时发布一次 BaseDestroyed 事件
func (s *BaseSystem) TakeDamage(id ecs.EntityID, amount int) {
	base, ok := ecs.GetComponent[*components.BaseComponent](s.entityManager, id)
	if !ok || base.Destroyed || amount <= 0 {
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

	next := DamageStateFor(health.Ratio())
	if next != base.DamageState {
		prev := base.DamageState
		base.DamageState = next
		log.Printf("[BaseSystem] %s base %s -> %s (%d/%d)", base.Role, prev, next, health.CurrentHealth, health.MaxHealth)
		if s.OnStateChange != nil {
			s.OnStateChange(id, prev, next)
		}
	}

	if health.CurrentHealth == 0 {
		base.Destroyed = true
		log.Printf("[BaseSystem] %s base destroyed", base.Role)
		if s.dispatcher != nil {
			s.dispatcher.Publish(event.BaseDestroyed, event.BaseDestroyedData{
				IsEnemy: base.Role == components.RoleEnemy,
			})
		}
	}
}

// Health 返回基地当前和最大生命值
func (s *BaseSystem) Health(id ecs.EntityID) (int, int) {
	health, ok := ecs.GetComponent[*components.HealthComponent](s.entityManager, id)
	if !ok {
		return 0, 0
	}
	return health.CurrentHealth, health.MaxHealth
}
