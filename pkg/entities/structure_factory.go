package entities

import (
	"fmt"

	"github.com/decker502/lanedefense/pkg/components"
	"github.com/decker502/lanedefense/pkg/config"
	"github.com/decker502/lanedefense/pkg/ecs"
)

// NewBase 创建阵营基地实体
// 基地位于各自的前沿X坐标，生命值耗尽即判定胜负
func NewBase(em *ecs.EntityManager, role components.Role, maxHP int) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	if maxHP <= 0 {
		return 0, fmt.Errorf("base HP must be positive, got %d", maxHP)
	}

	x := config.PlayerBaseX
	if role == components.RoleEnemy {
		x = config.EnemyBaseX
	}

	id := em.CreateEntity()
	em.AddComponent(id, &components.PositionComponent{X: x, Y: config.LaneY})
	em.AddComponent(id, &components.HealthComponent{CurrentHealth: maxHP, MaxHealth: maxHP})
	em.AddComponent(id, &components.BaseComponent{Role: role, DamageState: components.DamageHealthy})
	return id, nil
}

// NewTurret 创建炮塔实体
// 玩家炮塔可升级；敌方炮塔固定等级
func NewTurret(em *ecs.EntityManager, turrets *config.TurretConfig, role components.Role, tierID string) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	tier, index, err := turrets.Tier(tierID)
	if err != nil {
		return 0, err
	}

	x, y := config.PlayerTurretPosition()
	if role == components.RoleEnemy {
		x, y = config.EnemyTurretPosition()
	}

	id := em.CreateEntity()
	em.AddComponent(id, &components.PositionComponent{X: x, Y: y})
	em.AddComponent(id, &components.TurretComponent{
		Role:        role,
		Tier:        tier,
		TierIndex:   index,
		Upgradeable: role == components.RolePlayer,
	})
	return id, nil
}
