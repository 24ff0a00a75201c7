package systems

import (
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/decker502/lanedefense/pkg/components"
	"github.com/decker502/lanedefense/pkg/config"
	"github.com/decker502/lanedefense/pkg/core"
	"github.com/decker502/lanedefense/pkg/ecs"
)

var (
	// ErrMaxTier 炮塔已是最高等级
	ErrMaxTier = errors.New("turret already at max tier")
	// ErrNotUpgradeable 炮塔不可升级（敌方炮塔）
	ErrNotUpgradeable = errors.New("turret is not upgradeable")
)

// TurretSystem 基地炮塔
// 炮塔固定位置，自动攻击射程内最近的敌对单位
type TurretSystem struct {
	entityManager *ecs.EntityManager
	combatSystem  *CombatSystem
	unitSystem    *UnitSystem
	turrets       *config.TurretConfig
	gameState     *core.GameState
	cues          core.CueSink
}

// NewTurretSystem 创建炮塔系统
func NewTurretSystem(em *ecs.EntityManager, cs *CombatSystem, us *UnitSystem, turrets *config.TurretConfig, gs *core.GameState, cues core.CueSink) *TurretSystem {
	if cues == nil {
		cues = core.NopCues{}
	}
	return &TurretSystem{
		entityManager: em,
		combatSystem:  cs,
		unitSystem:    us,
		turrets:       turrets,
		gameState:     gs,
		cues:          cues,
	}
}

// Update 推进炮塔冷却并开火
func (s *TurretSystem) Update(deltaMs float64) {
	for _, id := range ecs.GetEntitiesWith2[*components.TurretComponent, *components.PositionComponent](s.entityManager) {
		turret, _ := ecs.GetComponent[*components.TurretComponent](s.entityManager, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)

		turret.CooldownMs -= deltaMs
		if turret.CooldownMs > 0 {
			continue
		}

		target, found := s.FindTarget(turret.Role.Opponent(), pos.X, pos.Y, turret.Tier.Range)
		if !found {
			// 保持就绪，目标进入射程后立即开火
			turret.CooldownMs = 0
			continue
		}
		s.combatSystem.FireProjectile(id, target)
		turret.CooldownMs = turret.Tier.CooldownMs
	}
}

// FindTarget 查找射程内最近的存活单位
// 距离严格更近者胜出；距离相等时保留先创建的单位
func (s *TurretSystem) FindTarget(role components.Role, x, y, maxRange float64) (ecs.EntityID, bool) {
	var best ecs.EntityID
	bestDist := math.Inf(1)

	for _, id := range ecs.GetEntitiesWith2[*components.UnitComponent, *components.PositionComponent](s.entityManager) {
		unit, _ := ecs.GetComponent[*components.UnitComponent](s.entityManager, id)
		if unit.Role != role || !s.unitSystem.IsAlive(id) {
			continue
		}
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		d := math.Hypot(pos.X-x, pos.Y-y)
		if d <= maxRange && d < bestDist {
			best, bestDist = id, d
		}
	}
	return best, best != 0
}

// NextUpgrade 返回炮塔的下一级，不可升级或已满级时返回 false
func (s *TurretSystem) NextUpgrade(id ecs.EntityID) (config.TurretTier, bool) {
	turret, ok := ecs.GetComponent[*components.TurretComponent](s.entityManager, id)
	if !ok || !turret.Upgradeable {
		return config.TurretTier{}, false
	}
	return s.turrets.Next(turret.TierIndex)
}

// Upgrade 花费金币将炮塔升级到下一级
// 冷却保留，新属性从下一次开火开始生效
func (s *TurretSystem) Upgrade(id ecs.EntityID) error {
	turret, ok := ecs.GetComponent[*components.TurretComponent](s.entityManager, id)
	if !ok {
		return fmt.Errorf("entity %d is not a turret", id)
	}
	if !turret.Upgradeable {
		return ErrNotUpgradeable
	}
	next, ok := s.turrets.Next(turret.TierIndex)
	if !ok {
		return ErrMaxTier
	}
	if !s.gameState.SpendGold(next.UpgradeCost) {
		s.cues.PlayCue(core.CuePurchaseFail)
		return fmt.Errorf("upgrade to %s costs %d: %w", next.ID, next.UpgradeCost, ErrInsufficientGold)
	}

	log.Printf("[TurretSystem] Turret %d upgraded %s -> %s", id, turret.Tier.ID, next.ID)
	turret.Tier = next
	turret.TierIndex++
	s.cues.PlayCue(core.CueTurretUpgrade)
	return nil
}
