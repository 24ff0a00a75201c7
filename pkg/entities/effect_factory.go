package entities

import (
	"fmt"

	"github.com/decker502/lanedefense/pkg/components"
	"github.com/decker502/lanedefense/pkg/config"
	"github.com/decker502/lanedefense/pkg/ecs"
)

// NewDamageNumber 创建飘字伤害数字实体
// 数字从 (x, y) 向上飘动，DamageNumberLifetimeMs 后由 LifetimeSystem 删除
func NewDamageNumber(em *ecs.EntityManager, x, y float64, amount int, healing bool) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}

	id := em.CreateEntity()
	em.AddComponent(id, &components.PositionComponent{X: x, Y: y})
	em.AddComponent(id, &components.DamageNumberComponent{
		Amount:    amount,
		RiseSpeed: config.DamageNumberRiseSpeed,
		IsHealing: healing,
	})
	em.AddComponent(id, &components.LifetimeComponent{
		MaxLifetimeMs: config.DamageNumberLifetimeMs,
	})
	return id, nil
}
