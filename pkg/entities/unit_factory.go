// Package entities 提供战斗实体的工厂函数
//
// 工厂只负责组装组件，不注册任何系统回调；
// 调用方（通常是 BattleSystem）在创建后把实体交给 UnitSystem.Register。
package entities

import (
	"fmt"
	"log"

	"github.com/decker502/lanedefense/pkg/components"
	"github.com/decker502/lanedefense/pkg/config"
	"github.com/decker502/lanedefense/pkg/ecs"
	"github.com/decker502/lanedefense/pkg/fsm"
)

// UpgradeSource 提供玩家单位的永久升级等级
// 只在单位创建时读取一次
type UpgradeSource interface {
	Tiers(unitID string) config.UpgradeTiers
}

// NoUpgrades 不提供任何升级
type NoUpgrades struct{}

// Tiers 实现 UpgradeSource
func (NoUpgrades) Tiers(string) config.UpgradeTiers {
	return config.UpgradeTiers{}
}

// NewPlayerUnit 创建玩家单位实体
// 单位属性按值复制并应用永久升级，出生在玩家出生点
//
// 返回:
//   - ecs.EntityID: 创建的单位实体ID
//   - config.UnitDefinition: 应用升级后的属性快照（调用方用于扣费和冷却）
//   - error: 单位ID未知时返回包装的 config.ErrUnknownDefinition
func NewPlayerUnit(em *ecs.EntityManager, roster *config.UnitRoster, upgrades UpgradeSource, unitID string) (ecs.EntityID, config.UnitDefinition, error) {
	if em == nil {
		return 0, config.UnitDefinition{}, fmt.Errorf("entity manager cannot be nil")
	}
	def, err := roster.Get(unitID)
	if err != nil {
		return 0, config.UnitDefinition{}, err
	}
	if upgrades != nil {
		def = config.ApplyUpgrades(def, upgrades.Tiers(unitID))
	}

	id := newUnit(em, components.RolePlayer, def, config.PlayerSpawnX)
	log.Printf("[Entities] Player unit %s spawned (id=%d, hp=%d, dmg=%d)", def.ID, id, def.MaxHP, def.Damage)
	return id, def, nil
}

// NewEnemyUnit 创建敌方单位实体
// 敌人额外携带金币掉落奖励和所属波次，出生在敌方出生点
func NewEnemyUnit(em *ecs.EntityManager, roster *config.EnemyRoster, enemyID string, wave int) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	def, err := roster.Get(enemyID)
	if err != nil {
		return 0, err
	}

	id := newUnit(em, components.RoleEnemy, def.UnitDefinition, config.EnemySpawnX)
	em.AddComponent(id, &components.RewardComponent{GoldDrop: def.GoldDrop, Wave: wave})
	return id, nil
}

func newUnit(em *ecs.EntityManager, role components.Role, def config.UnitDefinition, spawnX float64) ecs.EntityID {
	id := em.CreateEntity()

	em.AddComponent(id, &components.PositionComponent{X: spawnX, Y: config.LaneY})
	em.AddComponent(id, &components.HealthComponent{
		CurrentHealth: def.MaxHP,
		MaxHealth:     def.MaxHP,
	})
	em.AddComponent(id, &components.UnitComponent{
		Role:    role,
		Def:     def,
		Machine: fsm.New(),
	})
	em.AddComponent(id, &components.CombatComponent{})

	if def.IsFlying {
		em.AddComponent(id, &components.FlyingComponent{})
	}
	return id
}
