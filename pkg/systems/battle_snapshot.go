package systems

import (
	"github.com/decker502/lanedefense/pkg/components"
	"github.com/decker502/lanedefense/pkg/config"
	"github.com/decker502/lanedefense/pkg/ecs"
	"github.com/decker502/lanedefense/pkg/fsm"
)

// UnitView 单位的只读视图
type UnitView struct {
	ID       ecs.EntityID
	UnitID   string
	Role     components.Role
	X, Y     float64 // Y 已包含飞行浮动偏移
	HP       int
	MaxHP    int
	State    fsm.State
	IsFlying bool
}

// ProjectileView 子弹的只读视图
type ProjectileView struct {
	X, Y    float64
	Faction components.Role
}

// TurretView 炮塔的只读视图
type TurretView struct {
	Role components.Role
	X, Y float64
	Tier string
}

// DamageNumberView 飘字的只读视图
type DamageNumberView struct {
	X, Y      float64
	Amount    int
	IsHealing bool
	Fade      float64 // 0 刚出现，1 即将消失
}

// LoadoutEntry 出兵栏的一项
type LoadoutEntry struct {
	UnitID     string
	Name       string
	Cost       int
	CooldownMs float64 // 剩余出兵冷却
	Affordable bool
}

// BaseView 基地的只读视图
type BaseView struct {
	HP          int
	MaxHP       int
	DamageState components.DamageState
}

// Snapshot 一帧战斗状态，供渲染宿主使用
type Snapshot struct {
	NowMs         float64
	Gold          int
	Wave          int
	TotalWaves    int
	NextWaveInMs  float64
	WaveScheduled bool
	Outcome       Outcome
	Paused        bool

	PlayerBase BaseView
	EnemyBase  BaseView

	Units         []UnitView
	Projectiles   []ProjectileView
	Turrets       []TurretView
	DamageNumbers []DamageNumberView
	Loadout       []LoadoutEntry

	// TurretUpgrade 玩家炮塔下一级，没有时为 nil
	TurretUpgrade *config.TurretTier
}

// Snapshot 收集当前状态
func (b *BattleSystem) Snapshot() Snapshot {
	em := b.entityManager
	snap := Snapshot{
		NowMs:         b.clock.NowMs(),
		Gold:          b.gameState.Gold,
		Wave:          b.waveManager.CurrentWave(),
		TotalWaves:    b.waveManager.TotalWaves(),
		NextWaveInMs:  b.nextWaveInMs,
		WaveScheduled: b.waveScheduled,
		Outcome:       b.outcome,
		Paused:        b.paused,
		PlayerBase:    b.baseView(b.playerBase),
		EnemyBase:     b.baseView(b.enemyBase),
	}

	for _, id := range ecs.GetEntitiesWith3[*components.UnitComponent, *components.PositionComponent, *components.HealthComponent](em) {
		if !em.IsActive(id) {
			continue
		}
		unit, _ := ecs.GetComponent[*components.UnitComponent](em, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
		health, _ := ecs.GetComponent[*components.HealthComponent](em, id)
		view := UnitView{
			ID:     id,
			UnitID: unit.Def.ID,
			Role:   unit.Role,
			X:      pos.X,
			Y:      pos.Y,
			HP:     health.CurrentHealth,
			MaxHP:  health.MaxHealth,
			State:  unit.State(),
		}
		if flying, ok := ecs.GetComponent[*components.FlyingComponent](em, id); ok {
			view.IsFlying = true
			view.Y += flying.Offset
		}
		snap.Units = append(snap.Units, view)
	}

	for _, id := range ecs.GetEntitiesWith2[*components.ProjectileComponent, *components.PositionComponent](em) {
		if !em.IsActive(id) {
			continue
		}
		proj, _ := ecs.GetComponent[*components.ProjectileComponent](em, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
		snap.Projectiles = append(snap.Projectiles, ProjectileView{X: pos.X, Y: pos.Y, Faction: proj.Faction})
	}

	for _, id := range ecs.GetEntitiesWith2[*components.TurretComponent, *components.PositionComponent](em) {
		turret, _ := ecs.GetComponent[*components.TurretComponent](em, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
		snap.Turrets = append(snap.Turrets, TurretView{Role: turret.Role, X: pos.X, Y: pos.Y, Tier: turret.Tier.ID})
	}

	for _, id := range ecs.GetEntitiesWith3[*components.DamageNumberComponent, *components.PositionComponent, *components.LifetimeComponent](em) {
		if !em.IsActive(id) {
			continue
		}
		num, _ := ecs.GetComponent[*components.DamageNumberComponent](em, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
		life, _ := ecs.GetComponent[*components.LifetimeComponent](em, id)
		fade := 0.0
		if life.MaxLifetimeMs > 0 {
			fade = life.CurrentLifetimeMs / life.MaxLifetimeMs
		}
		snap.DamageNumbers = append(snap.DamageNumbers, DamageNumberView{
			X: pos.X, Y: pos.Y, Amount: num.Amount, IsHealing: num.IsHealing, Fade: fade,
		})
	}

	for _, unitID := range b.loadout {
		base, err := b.catalog.Units.Get(unitID)
		if err != nil {
			continue
		}
		def := config.ApplyUpgrades(base, b.upgrades.Tiers(unitID))
		snap.Loadout = append(snap.Loadout, LoadoutEntry{
			UnitID:     unitID,
			Name:       def.Name,
			Cost:       def.Cost,
			CooldownMs: b.spawnCooldowns[unitID],
			Affordable: b.gameState.CanAfford(def.Cost),
		})
	}

	if b.playerTurret != 0 {
		if next, ok := b.turretSystem.NextUpgrade(b.playerTurret); ok {
			snap.TurretUpgrade = &next
		}
	}
	return snap
}

func (b *BattleSystem) baseView(id ecs.EntityID) BaseView {
	cur, max := b.baseSystem.Health(id)
	view := BaseView{HP: cur, MaxHP: max}
	if base, ok := ecs.GetComponent[*components.BaseComponent](b.entityManager, id); ok {
		view.DamageState = base.DamageState
	}
	return view
}
