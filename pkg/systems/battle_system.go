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
	"github.com/decker502/lanedefense/pkg/entities"
	"github.com/decker502/lanedefense/pkg/event"
	"github.com/decker502/lanedefense/pkg/fsm"
)

var (
	// ErrInsufficientGold 金币不足
	ErrInsufficientGold = errors.New("insufficient gold")
	// ErrOnCooldown 单位出兵冷却中
	ErrOnCooldown = errors.New("unit is on spawn cooldown")
	// ErrNotInLoadout 单位不在本关可用列表中
	ErrNotInLoadout = errors.New("unit is not in loadout")
	// ErrBattleOver 战斗已结束
	ErrBattleOver = errors.New("battle is over")
)

// Outcome 战斗结果
type Outcome int

const (
	OutcomeOngoing Outcome = iota
	OutcomeVictory
	OutcomeDefeat
)

// String 返回结果名称
func (o Outcome) String() string {
	switch o {
	case OutcomeVictory:
		return "victory"
	case OutcomeDefeat:
		return "defeat"
	default:
		return "ongoing"
	}
}

// BattleOptions 创建战斗所需的依赖
type BattleOptions struct {
	Catalog  *config.Catalog
	Level    *config.LevelConfig
	Upgrades entities.UpgradeSource // 可为 nil（无升级）
	Cues     core.CueSink           // 可为 nil（静音）
	Clock    *core.Clock            // 可为 nil（新建从 0 开始的时钟）
}

// BattleSystem 战斗驱动器
//
// 每次 Update(deltaMs) 按固定顺序推进一帧：
//  1. 时钟、被动收入、出兵冷却
//  2. 波次倒计时与 WaveManager.Update
//  3. 玩家单位，然后敌方单位（按创建顺序）
//  4. 炮塔、子弹、死亡计时、飘字、生命周期
//  5. 清理已标记删除的实体
//
// 同一输入序列下结果完全确定。
type BattleSystem struct {
	entityManager *ecs.EntityManager
	dispatcher    *event.Dispatcher
	clock         *core.Clock
	gameState     *core.GameState
	catalog       *config.Catalog
	level         *config.LevelConfig
	upgrades      entities.UpgradeSource
	cues          core.CueSink

	unitSystem       *UnitSystem
	baseSystem       *BaseSystem
	combatSystem     *CombatSystem
	projectileSystem *ProjectileSystem
	turretSystem     *TurretSystem
	lifetimeSystem   *LifetimeSystem
	damageNumbers    *DamageNumberSystem
	waveManager      *WaveManager

	playerBase   ecs.EntityID
	enemyBase    ecs.EntityID
	playerTurret ecs.EntityID
	enemyTurret  ecs.EntityID

	loadout        []string
	spawnCooldowns map[string]float64

	nextWaveInMs  float64
	waveScheduled bool
	paused        bool
	outcome       Outcome
}

// NewBattleSystem 根据关卡配置创建一场战斗
// 关卡引用了未知定义时返回包装的 config.ErrUnknownDefinition
func NewBattleSystem(opts BattleOptions) (*BattleSystem, error) {
	if opts.Catalog == nil || opts.Level == nil {
		return nil, fmt.Errorf("battle requires a catalog and a level")
	}
	if err := opts.Level.Validate(opts.Catalog.Units, opts.Catalog.Enemies, opts.Catalog.Turrets); err != nil {
		return nil, err
	}
	if opts.Upgrades == nil {
		opts.Upgrades = entities.NoUpgrades{}
	}
	if opts.Cues == nil {
		opts.Cues = core.NopCues{}
	}
	if opts.Clock == nil {
		opts.Clock = core.NewClock()
	}

	level := opts.Level
	em := ecs.NewEntityManager()
	dispatcher := event.NewDispatcher()
	gs := core.NewGameState(level.StartingGold, level.IncomePerSecond, level.MaxGold)

	b := &BattleSystem{
		entityManager:  em,
		dispatcher:     dispatcher,
		clock:          opts.Clock,
		gameState:      gs,
		catalog:        opts.Catalog,
		level:          level,
		upgrades:       opts.Upgrades,
		cues:           opts.Cues,
		loadout:        level.ResolveLoadout(opts.Catalog.Units),
		spawnCooldowns: make(map[string]float64),
	}

	b.damageNumbers = NewDamageNumberSystem(em)
	b.unitSystem = NewUnitSystem(em, dispatcher, b.damageNumbers)
	b.baseSystem = NewBaseSystem(em, dispatcher, b.damageNumbers)
	b.combatSystem = NewCombatSystem(em, b.unitSystem, b.baseSystem)
	b.projectileSystem = NewProjectileSystem(em, b.combatSystem, b.unitSystem)
	b.turretSystem = NewTurretSystem(em, b.combatSystem, b.unitSystem, opts.Catalog.Turrets, gs, opts.Cues)
	b.lifetimeSystem = NewLifetimeSystem(em)
	b.waveManager = NewWaveManager(level.Waves, opts.Clock, b, opts.Cues, opts.Catalog.Enemies.BossIDs())
	b.waveManager.OnWaveStart = b.onWaveStart
	b.waveManager.OnWaveComplete = b.onWaveComplete

	var err error
	if b.playerBase, err = entities.NewBase(em, components.RolePlayer, level.PlayerBaseHP); err != nil {
		return nil, err
	}
	if b.enemyBase, err = entities.NewBase(em, components.RoleEnemy, level.EnemyBaseHP); err != nil {
		return nil, err
	}
	if level.PlayerTurretTier != "" {
		if b.playerTurret, err = entities.NewTurret(em, opts.Catalog.Turrets, components.RolePlayer, level.PlayerTurretTier); err != nil {
			return nil, err
		}
	}
	if level.EnemyTurret {
		if b.enemyTurret, err = entities.NewTurret(em, opts.Catalog.Turrets, components.RoleEnemy, opts.Catalog.Turrets.EnemyTurret); err != nil {
			return nil, err
		}
	}

	dispatcher.SubscribeFunc(event.GoldEarned, func(e event.Event) {
		if data, ok := e.Data.(event.GoldEarnedData); ok {
			gs.AddGold(data.Amount)
		}
	})
	dispatcher.SubscribeFunc(event.EnemyKilled, func(e event.Event) {
		if data, ok := e.Data.(event.EnemyKilledData); ok {
			b.waveManager.NotifyEnemyKilled(data.Wave)
		}
	})
	dispatcher.SubscribeFunc(event.BaseDestroyed, b.onBaseDestroyed)

	b.waveScheduled = true
	b.nextWaveInMs = level.FirstWaveDelayMs

	log.Printf("[BattleSystem] Level %s (%s) ready: %d waves, loadout %v", level.ID, level.Name, len(level.Waves), b.loadout)
	return b, nil
}

// Update 推进一帧模拟
// 暂停或战斗结束后不做任何事
func (b *BattleSystem) Update(deltaMs float64) {
	if b.paused || b.outcome != OutcomeOngoing || deltaMs <= 0 {
		return
	}

	b.clock.Advance(deltaMs)
	b.gameState.AccrueIncome(deltaMs)
	for id, remaining := range b.spawnCooldowns {
		b.spawnCooldowns[id] = math.Max(remaining-deltaMs, 0)
	}

	b.updateWaveSchedule(deltaMs)
	if err := b.waveManager.Update(); err != nil {
		log.Printf("[BattleSystem] Wave update error: %v", err)
	}

	b.updateUnits(components.RolePlayer, deltaMs)
	b.updateUnits(components.RoleEnemy, deltaMs)

	b.turretSystem.Update(deltaMs)
	b.projectileSystem.Update(deltaMs)
	b.unitSystem.UpdateDying(deltaMs)
	b.damageNumbers.Update(deltaMs)
	b.lifetimeSystem.Update(deltaMs)

	b.entityManager.RemoveMarkedEntities()
}

func (b *BattleSystem) updateWaveSchedule(deltaMs float64) {
	if !b.waveScheduled {
		return
	}
	b.nextWaveInMs -= deltaMs
	if b.nextWaveInMs <= 0 {
		b.waveScheduled = false
		b.nextWaveInMs = 0
		b.waveManager.StartNextWave()
	}
}

func (b *BattleSystem) updateUnits(role components.Role, deltaMs float64) {
	for _, id := range ecs.GetEntitiesWith3[*components.UnitComponent, *components.PositionComponent, *components.CombatComponent](b.entityManager) {
		unit, _ := ecs.GetComponent[*components.UnitComponent](b.entityManager, id)
		if unit.Role != role || !b.unitSystem.IsAlive(id) {
			continue
		}
		pos, _ := ecs.GetComponent[*components.PositionComponent](b.entityManager, id)
		b.updateUnit(id, unit, pos, deltaMs)
	}
}

func (b *BattleSystem) updateUnit(id ecs.EntityID, unit *components.UnitComponent, pos *components.PositionComponent, deltaMs float64) {
	enemyID, enemy := b.nearestEnemy(unit.Role, pos)
	allyID, ally := ecs.EntityID(0), fsm.None
	if unit.Def.IsHealer {
		allyID, ally = b.nearestDamagedAlly(id, unit.Role, pos)
	}

	switch b.unitSystem.UpdateStateMachine(id, enemy, ally) {
	case fsm.StateAttacking, fsm.StateHolding:
		if enemy.Found {
			b.unitSystem.SetAttackTarget(id, enemyID)
		}
	case fsm.StateHealing:
		if ally.Found {
			b.unitSystem.SetHealTarget(id, allyID)
		}
	case fsm.StateMoving:
		if unit.Role == components.RoleEnemy && b.isBlocked(pos.X) {
			break
		}
		b.advance(unit, pos, deltaMs)
	}

	b.unitSystem.UpdateAttack(id, deltaMs)
	b.unitSystem.UpdateHeal(id, deltaMs)
	b.unitSystem.UpdateFlyingBob(id, deltaMs)
}

// nearestEnemy 查找最近的存活敌对单位；没有时以敌方基地为目标
// 距离相等时保留先创建的单位
func (b *BattleSystem) nearestEnemy(role components.Role, pos *components.PositionComponent) (ecs.EntityID, fsm.Target) {
	opponent := role.Opponent()
	var best ecs.EntityID
	bestDist := math.Inf(1)

	for _, other := range ecs.GetEntitiesWith2[*components.UnitComponent, *components.PositionComponent](b.entityManager) {
		unit, _ := ecs.GetComponent[*components.UnitComponent](b.entityManager, other)
		if unit.Role != opponent || !b.unitSystem.IsAlive(other) {
			continue
		}
		otherPos, _ := ecs.GetComponent[*components.PositionComponent](b.entityManager, other)
		if d := math.Hypot(otherPos.X-pos.X, otherPos.Y-pos.Y); d < bestDist {
			best, bestDist = other, d
		}
	}
	if best != 0 {
		return best, fsm.At(bestDist)
	}

	base := b.baseOf(opponent)
	if !b.combatSystem.IsValidTarget(base) {
		return 0, fsm.None
	}
	basePos, _ := ecs.GetComponent[*components.PositionComponent](b.entityManager, base)
	return base, fsm.At(math.Abs(basePos.X - pos.X))
}

// nearestDamagedAlly 查找最近的受伤友军（不含自己）
func (b *BattleSystem) nearestDamagedAlly(self ecs.EntityID, role components.Role, pos *components.PositionComponent) (ecs.EntityID, fsm.Target) {
	var best ecs.EntityID
	bestDist := math.Inf(1)

	for _, other := range ecs.GetEntitiesWith3[*components.UnitComponent, *components.PositionComponent, *components.HealthComponent](b.entityManager) {
		if other == self || !b.unitSystem.IsAlive(other) {
			continue
		}
		unit, _ := ecs.GetComponent[*components.UnitComponent](b.entityManager, other)
		health, _ := ecs.GetComponent[*components.HealthComponent](b.entityManager, other)
		if unit.Role != role || health.CurrentHealth >= health.MaxHealth {
			continue
		}
		otherPos, _ := ecs.GetComponent[*components.PositionComponent](b.entityManager, other)
		if d := math.Hypot(otherPos.X-pos.X, otherPos.Y-pos.Y); d < bestDist {
			best, bestDist = other, d
		}
	}
	if best == 0 {
		return 0, fsm.None
	}
	return best, fsm.At(bestDist)
}

// isBlocked 敌方单位前方阻挡范围内是否有 Holding 状态的玩家单位
func (b *BattleSystem) isBlocked(enemyX float64) bool {
	for _, other := range ecs.GetEntitiesWith2[*components.UnitComponent, *components.PositionComponent](b.entityManager) {
		unit, _ := ecs.GetComponent[*components.UnitComponent](b.entityManager, other)
		if unit.Role != components.RolePlayer || !b.unitSystem.IsAlive(other) || !b.unitSystem.IsBlocking(other) {
			continue
		}
		pos, _ := ecs.GetComponent[*components.PositionComponent](b.entityManager, other)
		gap := enemyX - pos.X
		if gap >= 0 && gap <= config.BlockingRange {
			return true
		}
	}
	return false
}

// advance 单位向敌方基地前进，不越过基地前沿
func (b *BattleSystem) advance(unit *components.UnitComponent, pos *components.PositionComponent, deltaMs float64) {
	pos.X += unit.Role.Direction() * unit.Def.Speed * deltaMs / 1000
	if unit.Role == components.RolePlayer {
		pos.X = math.Min(pos.X, config.EnemyBaseX)
	} else {
		pos.X = math.Max(pos.X, config.PlayerBaseX)
	}
}

func (b *BattleSystem) baseOf(role components.Role) ecs.EntityID {
	if role == components.RoleEnemy {
		return b.enemyBase
	}
	return b.playerBase
}

// SpawnEnemy 实现 EnemySpawner
func (b *BattleSystem) SpawnEnemy(enemyID string, wave int) (ecs.EntityID, error) {
	id, err := entities.NewEnemyUnit(b.entityManager, b.catalog.Enemies, enemyID, wave)
	if err != nil {
		return 0, err
	}
	b.unitSystem.Register(id)
	return id, nil
}

// SpawnUnit 玩家出兵
// 依次检查：战斗状态、可用列表、出兵冷却、金币
func (b *BattleSystem) SpawnUnit(unitID string) (ecs.EntityID, error) {
	if b.outcome != OutcomeOngoing {
		return 0, ErrBattleOver
	}
	if !b.inLoadout(unitID) {
		b.cues.PlayCue(core.CuePurchaseFail)
		return 0, fmt.Errorf("%s: %w", unitID, ErrNotInLoadout)
	}
	if b.spawnCooldowns[unitID] > 0 {
		b.cues.PlayCue(core.CuePurchaseFail)
		return 0, fmt.Errorf("%s: %w", unitID, ErrOnCooldown)
	}

	base, err := b.catalog.Units.Get(unitID)
	if err != nil {
		return 0, err
	}
	def := config.ApplyUpgrades(base, b.upgrades.Tiers(unitID))
	if !b.gameState.SpendGold(def.Cost) {
		b.cues.PlayCue(core.CuePurchaseFail)
		return 0, fmt.Errorf("%s costs %d, have %d: %w", unitID, def.Cost, b.gameState.Gold, ErrInsufficientGold)
	}

	id, _, err := entities.NewPlayerUnit(b.entityManager, b.catalog.Units, b.upgrades, unitID)
	if err != nil {
		b.gameState.AddGold(def.Cost)
		return 0, err
	}
	b.unitSystem.Register(id)
	b.spawnCooldowns[unitID] = def.CooldownMs

	b.cues.PlayCue(core.CuePurchaseSuccess)
	b.cues.PlayCue(spawnCue(def.Category))
	return id, nil
}

func spawnCue(category config.UnitCategory) string {
	switch category {
	case config.CategoryRanged:
		return core.CueSpawnRanged
	case config.CategoryHeavy:
		return core.CueSpawnHeavy
	default:
		return core.CueSpawnMelee
	}
}

func (b *BattleSystem) inLoadout(unitID string) bool {
	for _, id := range b.loadout {
		if id == unitID {
			return true
		}
	}
	return false
}

// UpgradePlayerTurret 升级玩家炮塔
func (b *BattleSystem) UpgradePlayerTurret() error {
	if b.outcome != OutcomeOngoing {
		return ErrBattleOver
	}
	if b.playerTurret == 0 {
		return fmt.Errorf("level has no player turret: %w", ErrNotUpgradeable)
	}
	return b.turretSystem.Upgrade(b.playerTurret)
}

// CallNextWave 立即开始下一波（放弃当前等待）
func (b *BattleSystem) CallNextWave() (int, bool) {
	if b.outcome != OutcomeOngoing {
		return 0, false
	}
	wave, ok := b.waveManager.ForceNextWave()
	if ok {
		b.waveScheduled = false
		b.nextWaveInMs = 0
	}
	return wave, ok
}

func (b *BattleSystem) onWaveStart(wave int) {
	b.dispatcher.Publish(event.WaveStarted, event.WaveData{Wave: wave})
}

func (b *BattleSystem) onWaveComplete(wave int, delayAfterMs float64) {
	b.dispatcher.Publish(event.WaveCompleted, event.WaveData{Wave: wave, DelayAfterMs: delayAfterMs})
	if wave < b.waveManager.TotalWaves() {
		b.waveScheduled = true
		b.nextWaveInMs = delayAfterMs
	}
}

func (b *BattleSystem) onBaseDestroyed(e event.Event) {
	data, ok := e.Data.(event.BaseDestroyedData)
	if !ok || b.outcome != OutcomeOngoing {
		return
	}
	if data.IsEnemy {
		b.outcome = OutcomeVictory
		b.cues.PlayCue(core.CueVictory)
	} else {
		b.outcome = OutcomeDefeat
		b.cues.PlayCue(core.CueDefeat)
	}
	log.Printf("[BattleSystem] Battle over: %s at %.0fms", b.outcome, b.clock.NowMs())
}

// Pause 暂停模拟
func (b *BattleSystem) Pause() { b.paused = true }

// Resume 恢复模拟
func (b *BattleSystem) Resume() { b.paused = false }

// TogglePause 切换暂停状态
func (b *BattleSystem) TogglePause() { b.paused = !b.paused }

// IsPaused 是否暂停
func (b *BattleSystem) IsPaused() bool { return b.paused }

// Outcome 返回战斗结果
func (b *BattleSystem) Outcome() Outcome { return b.outcome }

// SpawnCooldown 返回单位剩余出兵冷却
func (b *BattleSystem) SpawnCooldown(unitID string) float64 { return b.spawnCooldowns[unitID] }

// NextWaveIn 返回下一波倒计时，没有排期时返回 false
func (b *BattleSystem) NextWaveIn() (float64, bool) { return b.nextWaveInMs, b.waveScheduled }

// Loadout 返回本关可用单位ID
func (b *BattleSystem) Loadout() []string { return append([]string(nil), b.loadout...) }

// EntityManager 返回实体管理器
func (b *BattleSystem) EntityManager() *ecs.EntityManager { return b.entityManager }

// Dispatcher 返回事件分发器（宿主可订阅战斗事件）
func (b *BattleSystem) Dispatcher() *event.Dispatcher { return b.dispatcher }

// GameState 返回经济状态
func (b *BattleSystem) GameState() *core.GameState { return b.gameState }

// Clock 返回虚拟时钟
func (b *BattleSystem) Clock() *core.Clock { return b.clock }

// Level 返回关卡配置
func (b *BattleSystem) Level() *config.LevelConfig { return b.level }

// WaveManager 返回波次管理器
func (b *BattleSystem) WaveManager() *WaveManager { return b.waveManager }

// UnitSystem 返回单位系统
func (b *BattleSystem) UnitSystem() *UnitSystem { return b.unitSystem }

// TurretSystem 返回炮塔系统
func (b *BattleSystem) TurretSystem() *TurretSystem { return b.turretSystem }

// DamageNumbers 返回飘字系统
func (b *BattleSystem) DamageNumbers() *DamageNumberSystem { return b.damageNumbers }

// Bases 返回玩家和敌方基地实体
func (b *BattleSystem) Bases() (player, enemy ecs.EntityID) { return b.playerBase, b.enemyBase }

// Turrets 返回玩家和敌方炮塔实体（不存在时为 0）
func (b *BattleSystem) Turrets() (player, enemy ecs.EntityID) { return b.playerTurret, b.enemyTurret }
