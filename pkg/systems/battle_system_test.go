package systems

import (
	"errors"
	"testing"

	"github.com/decker502/lanedefense/pkg/components"
	"github.com/decker502/lanedefense/pkg/config"
	"github.com/decker502/lanedefense/pkg/core"
	"github.com/decker502/lanedefense/pkg/ecs"
	"github.com/decker502/lanedefense/pkg/event"
	"github.com/decker502/lanedefense/pkg/fsm"
)

// quietLevelYAML 一个几乎不出兵的关卡，用于观察玩家单位行为
const quietLevelYAML = `id: quiet
startingGold: 500
loadout: [swordsman, knight, archer]
firstWaveDelayMs: 600000
waves:
  - groups: []
`

func newTestBattle(t *testing.T, levelYAML string) (*BattleSystem, *recordingCues) {
	t.Helper()
	level, err := config.ParseLevelConfig([]byte(levelYAML))
	if err != nil {
		t.Fatalf("ParseLevelConfig() failed: %v", err)
	}
	cues := &recordingCues{}
	battle, err := NewBattleSystem(BattleOptions{
		Catalog: mustCatalog(t),
		Level:   level,
		Cues:    cues,
	})
	if err != nil {
		t.Fatalf("NewBattleSystem() failed: %v", err)
	}
	return battle, cues
}

func runFor(b *BattleSystem, totalMs, stepMs float64) {
	for elapsed := 0.0; elapsed < totalMs; elapsed += stepMs {
		b.Update(stepMs)
	}
}

func position(t *testing.T, b *BattleSystem, id ecs.EntityID) *components.PositionComponent {
	t.Helper()
	pos, ok := ecs.GetComponent[*components.PositionComponent](b.EntityManager(), id)
	if !ok {
		t.Fatalf("Entity %d has no position", id)
	}
	return pos
}

func TestNewBattleSystem(t *testing.T) {
	t.Run("未知引用", func(t *testing.T) {
		level, err := config.ParseLevelConfig([]byte(`id: bad
waves:
  - groups:
      - enemyId: dragon
        count: 1
`))
		if err != nil {
			t.Fatalf("ParseLevelConfig() failed: %v", err)
		}
		_, err = NewBattleSystem(BattleOptions{Catalog: mustCatalog(t), Level: level})
		if !errors.Is(err, config.ErrUnknownDefinition) {
			t.Errorf("Expected ErrUnknownDefinition, got %v", err)
		}
	})

	t.Run("基地和炮塔", func(t *testing.T) {
		battle, _ := newTestBattle(t, `id: towers
playerTurretTier: pebble
enemyTurret: true
playerBaseHp: 800
waves:
  - groups: []
`)
		snap := battle.Snapshot()
		if snap.PlayerBase.HP != 800 || snap.EnemyBase.HP != 1000 {
			t.Errorf("Expected base HP 800/1000, got %d/%d", snap.PlayerBase.HP, snap.EnemyBase.HP)
		}
		if len(snap.Turrets) != 2 {
			t.Fatalf("Expected 2 turrets, got %d", len(snap.Turrets))
		}
		if snap.Turrets[1].Tier != "arrow" {
			t.Errorf("Enemy turret should use the configured tier, got %s", snap.Turrets[1].Tier)
		}
		if snap.TurretUpgrade == nil || snap.TurretUpgrade.ID != "arrow" {
			t.Errorf("Expected arrow as the next upgrade, got %v", snap.TurretUpgrade)
		}
		if len(snap.Loadout) != 5 {
			t.Errorf("Empty loadout should expose every unit, got %d", len(snap.Loadout))
		}
	})
}

func TestBattleSpawnUnit(t *testing.T) {
	battle, cues := newTestBattle(t, `id: shop
startingGold: 120
loadout: [swordsman, knight]
firstWaveDelayMs: 600000
waves:
  - groups: []
`)

	t.Run("不在可用列表", func(t *testing.T) {
		if _, err := battle.SpawnUnit("archer"); !errors.Is(err, ErrNotInLoadout) {
			t.Errorf("Expected ErrNotInLoadout, got %v", err)
		}
	})

	t.Run("金币不足", func(t *testing.T) {
		before := cues.count(core.CuePurchaseFail)
		battle.GameState().Gold = 100
		if _, err := battle.SpawnUnit("knight"); !errors.Is(err, ErrInsufficientGold) {
			t.Errorf("Expected ErrInsufficientGold, got %v", err)
		}
		if battle.GameState().Gold != 100 {
			t.Errorf("Gold should be unchanged, got %d", battle.GameState().Gold)
		}
		if cues.count(core.CuePurchaseFail) != before+1 {
			t.Error("Expected purchase_fail cue")
		}
	})

	t.Run("成功出兵", func(t *testing.T) {
		id, err := battle.SpawnUnit("swordsman")
		if err != nil {
			t.Fatalf("SpawnUnit() failed: %v", err)
		}
		if battle.GameState().Gold != 50 {
			t.Errorf("Expected 50 gold left, got %d", battle.GameState().Gold)
		}
		if pos := position(t, battle, id); pos.X != config.PlayerSpawnX {
			t.Errorf("Expected spawn at %.0f, got %.0f", config.PlayerSpawnX, pos.X)
		}
		if cues.count(core.CuePurchaseSuccess) != 1 || cues.count(core.CueSpawnMelee) != 1 {
			t.Errorf("Expected purchase_success and spawn_melee, got %v", cues.played)
		}
	})

	t.Run("出兵冷却", func(t *testing.T) {
		if _, err := battle.SpawnUnit("swordsman"); !errors.Is(err, ErrOnCooldown) {
			t.Errorf("Expected ErrOnCooldown, got %v", err)
		}
		battle.Update(1999)
		if _, err := battle.SpawnUnit("swordsman"); !errors.Is(err, ErrOnCooldown) {
			t.Errorf("Expected ErrOnCooldown at 1999ms, got %v", err)
		}
		battle.Update(1)
		if _, err := battle.SpawnUnit("swordsman"); err != nil {
			t.Errorf("Expected spawn after cooldown, got %v", err)
		}
	})
}

func TestBattleUpgradesApplied(t *testing.T) {
	level, _ := config.ParseLevelConfig([]byte(quietLevelYAML))
	battle, err := NewBattleSystem(BattleOptions{
		Catalog:  mustCatalog(t),
		Level:    level,
		Upgrades: fixedTiers{"swordsman": {Offense: 2, Utility: 1}},
	})
	if err != nil {
		t.Fatalf("NewBattleSystem() failed: %v", err)
	}

	id, err := battle.SpawnUnit("swordsman")
	if err != nil {
		t.Fatalf("SpawnUnit() failed: %v", err)
	}
	// 花费 round(50 * 0.9) = 45，伤害 round(10 * 1.3) = 13
	if battle.GameState().Gold != 455 {
		t.Errorf("Expected 455 gold left, got %d", battle.GameState().Gold)
	}
	unit, _ := ecs.GetComponent[*components.UnitComponent](battle.EntityManager(), id)
	if unit.Def.Damage != 13 {
		t.Errorf("Expected upgraded damage 13, got %d", unit.Def.Damage)
	}
	if got := battle.SpawnCooldown("swordsman"); got != 1800 {
		t.Errorf("Expected cooldown 1800, got %.0f", got)
	}
}

type fixedTiers map[string]config.UpgradeTiers

func (f fixedTiers) Tiers(id string) config.UpgradeTiers { return f[id] }

func TestBattleFallbackBaseTarget(t *testing.T) {
	battle, _ := newTestBattle(t, quietLevelYAML)
	id, err := battle.SpawnUnit("swordsman")
	if err != nil {
		t.Fatalf("SpawnUnit() failed: %v", err)
	}

	runFor(battle, 20000, 100)

	pos := position(t, battle, id)
	if pos.X > config.EnemyBaseX {
		t.Errorf("Unit walked past the enemy base: X=%.1f", pos.X)
	}
	if state, _ := battle.UnitSystem().State(id); state != fsm.StateAttacking {
		t.Errorf("Expected Attacking the enemy base, got %s", state)
	}
	snap := battle.Snapshot()
	if snap.EnemyBase.HP >= snap.EnemyBase.MaxHP {
		t.Errorf("Enemy base should have taken damage, HP=%d", snap.EnemyBase.HP)
	}
}

func TestBattleTankBlocksEnemies(t *testing.T) {
	battle, _ := newTestBattle(t, quietLevelYAML)
	knight, err := battle.SpawnUnit("knight")
	if err != nil {
		t.Fatalf("SpawnUnit() failed: %v", err)
	}
	position(t, battle, knight).X = 500

	engaged, _ := battle.SpawnEnemy("goblin", 0)
	position(t, battle, engaged).X = 525
	queued, _ := battle.SpawnEnemy("goblin", 0)
	position(t, battle, queued).X = 535

	runFor(battle, 500, 100)

	if state, _ := battle.UnitSystem().State(knight); state != fsm.StateHolding {
		t.Fatalf("Expected knight Holding, got %s", state)
	}
	if state, _ := battle.UnitSystem().State(queued); state != fsm.StateMoving {
		t.Errorf("Expected queued goblin Moving, got %s", state)
	}
	if x := position(t, battle, queued).X; x != 535 {
		t.Errorf("Blocked goblin should not advance, X=%.1f", x)
	}
}

func TestBattleEnemyWalksToPlayerBase(t *testing.T) {
	battle, cues := newTestBattle(t, `id: defeat
playerBaseHp: 5
firstWaveDelayMs: 0
waves:
  - groups:
      - enemyId: goblin
        count: 1
`)

	runFor(battle, 30000, 100)

	if battle.Outcome() != OutcomeDefeat {
		t.Fatalf("Expected defeat, got %s", battle.Outcome())
	}
	if cues.count(core.CueDefeat) != 1 {
		t.Errorf("Expected one defeat cue, got %v", cues.played)
	}

	now := battle.Clock().NowMs()
	battle.Update(100)
	if battle.Clock().NowMs() != now {
		t.Error("Update after the battle ends should do nothing")
	}
	if _, err := battle.SpawnUnit("swordsman"); !errors.Is(err, ErrBattleOver) {
		t.Errorf("Expected ErrBattleOver, got %v", err)
	}
}

func TestBattleVictory(t *testing.T) {
	battle, cues := newTestBattle(t, `id: victory
enemyBaseHp: 15
loadout: [swordsman]
firstWaveDelayMs: 600000
waves:
  - groups: []
`)
	if _, err := battle.SpawnUnit("swordsman"); err != nil {
		t.Fatalf("SpawnUnit() failed: %v", err)
	}

	runFor(battle, 30000, 100)

	if battle.Outcome() != OutcomeVictory {
		t.Fatalf("Expected victory, got %s", battle.Outcome())
	}
	if cues.count(core.CueVictory) != 1 {
		t.Errorf("Expected one victory cue, got %v", cues.played)
	}
}

func TestBattleKillReward(t *testing.T) {
	battle, _ := newTestBattle(t, `id: reward
startingGold: 100
firstWaveDelayMs: 0
waves:
  - groups:
      - enemyId: goblin
        count: 1
    delayAfterMs: 4000
  - groups:
      - enemyId: goblin
        count: 1
`)
	started := countEvents(battle.Dispatcher(), event.WaveStarted)
	completed := countEvents(battle.Dispatcher(), event.WaveCompleted)

	battle.Update(16)
	if *started != 1 {
		t.Fatalf("Expected wave 1 to start, got %d starts", *started)
	}

	var goblin ecs.EntityID
	for _, u := range battle.Snapshot().Units {
		if u.Role == components.RoleEnemy {
			goblin = u.ID
		}
	}
	if goblin == 0 {
		t.Fatal("Expected a spawned goblin")
	}

	battle.UnitSystem().TakeDamage(goblin, 100)
	if battle.GameState().Gold != 110 {
		t.Errorf("Expected 110 gold after the kill, got %d", battle.GameState().Gold)
	}
	if *completed != 1 {
		t.Errorf("Expected wave 1 complete, got %d", *completed)
	}
	if in, scheduled := battle.NextWaveIn(); !scheduled || in != 4000 {
		t.Errorf("Expected next wave in 4000ms, got %.0f (%v)", in, scheduled)
	}

	battle.Update(3999)
	if *started != 1 {
		t.Error("Wave 2 should not start early")
	}
	battle.Update(1)
	if *started != 2 || battle.WaveManager().CurrentWave() != 2 {
		t.Errorf("Expected wave 2 to start, got %d starts", *started)
	}
}

func TestBattleCallNextWave(t *testing.T) {
	battle, _ := newTestBattle(t, quietLevelYAML)

	wave, ok := battle.CallNextWave()
	if !ok || wave != 1 {
		t.Fatalf("CallNextWave() = %d, %v", wave, ok)
	}
	if _, scheduled := battle.NextWaveIn(); scheduled {
		t.Error("Calling the wave early should clear the countdown")
	}
	if _, ok := battle.CallNextWave(); ok {
		t.Error("No waves should remain")
	}
}

func TestBattleCallNextWaveKillAccounting(t *testing.T) {
	battle, _ := newTestBattle(t, `id: rush
firstWaveDelayMs: 0
waves:
  - groups:
      - enemyId: goblin
        count: 1
  - groups:
      - enemyId: goblin
        count: 1
`)
	completed := countEvents(battle.Dispatcher(), event.WaveCompleted)

	battle.Update(16)
	if _, ok := battle.CallNextWave(); !ok {
		t.Fatal("CallNextWave() should start wave 2")
	}
	battle.Update(16)

	byWave := map[int]ecs.EntityID{}
	for _, u := range battle.Snapshot().Units {
		if reward, ok := ecs.GetComponent[*components.RewardComponent](battle.EntityManager(), u.ID); ok {
			byWave[reward.Wave] = u.ID
		}
	}
	if byWave[1] == 0 || byWave[2] == 0 {
		t.Fatalf("Expected one goblin per wave, got %v", byWave)
	}

	battle.UnitSystem().TakeDamage(byWave[1], 100)
	if *completed != 0 {
		t.Fatal("Killing a wave 1 goblin should not complete wave 2")
	}
	if !battle.WaveManager().IsWaitingForKills() {
		t.Error("Wave 2 should still wait for its goblin")
	}

	battle.UnitSystem().TakeDamage(byWave[2], 100)
	if *completed != 1 {
		t.Errorf("Expected wave 2 complete, got %d completions", *completed)
	}
}

func TestBattleIncome(t *testing.T) {
	battle, _ := newTestBattle(t, `id: income
startingGold: 100
incomePerSecond: 5
maxGold: 110
firstWaveDelayMs: 600000
waves:
  - groups: []
`)

	runFor(battle, 1000, 100)
	if battle.GameState().Gold != 105 {
		t.Errorf("Expected 105 gold after 1s, got %d", battle.GameState().Gold)
	}

	runFor(battle, 5000, 100)
	if battle.GameState().Gold != 110 {
		t.Errorf("Expected gold capped at 110, got %d", battle.GameState().Gold)
	}
}

func TestBattlePause(t *testing.T) {
	battle, _ := newTestBattle(t, quietLevelYAML)

	battle.Pause()
	battle.Update(1000)
	if battle.Clock().NowMs() != 0 {
		t.Errorf("Paused battle should not advance, now=%.0f", battle.Clock().NowMs())
	}
	if !battle.Snapshot().Paused {
		t.Error("Snapshot should report paused")
	}

	battle.TogglePause()
	battle.Update(1000)
	if battle.Clock().NowMs() != 1000 {
		t.Errorf("Expected now=1000 after resume, got %.0f", battle.Clock().NowMs())
	}
}

func TestBattleHealer(t *testing.T) {
	const healerLevel = `id: healer
startingGold: 500
loadout: [cleric, swordsman, knight]
firstWaveDelayMs: 600000
waves:
  - groups: []
`
	spawnAt := func(t *testing.T, b *BattleSystem, unitID string, x float64) ecs.EntityID {
		t.Helper()
		id, err := b.SpawnUnit(unitID)
		if err != nil {
			t.Fatalf("SpawnUnit(%s) failed: %v", unitID, err)
		}
		position(t, b, id).X = x
		return id
	}
	health := func(b *BattleSystem, id ecs.EntityID) *components.HealthComponent {
		h, _ := ecs.GetComponent[*components.HealthComponent](b.EntityManager(), id)
		return h
	}
	healTarget := func(b *BattleSystem, id ecs.EntityID) ecs.EntityID {
		c, _ := ecs.GetComponent[*components.CombatComponent](b.EntityManager(), id)
		return c.HealTarget
	}

	t.Run("治疗射程内的受伤友军", func(t *testing.T) {
		battle, _ := newTestBattle(t, healerLevel)
		swordsman := spawnAt(t, battle, "swordsman", 300)
		cleric := spawnAt(t, battle, "cleric", 260)
		battle.UnitSystem().TakeDamage(swordsman, 30)

		battle.Update(16)

		if state, _ := battle.UnitSystem().State(cleric); state != fsm.StateHealing {
			t.Fatalf("Expected cleric Healing, got %s", state)
		}
		if got := healTarget(battle, cleric); got != swordsman {
			t.Errorf("Expected heal target %d, got %d", swordsman, got)
		}
		if hp := health(battle, swordsman).CurrentHealth; hp != 82 {
			t.Errorf("Expected swordsman healed to 82, got %d", hp)
		}
		if x := position(t, battle, cleric).X; x != 260 {
			t.Errorf("Healing cleric should not move, got x=%.1f", x)
		}
	})

	t.Run("选择最近的存活受伤友军", func(t *testing.T) {
		battle, _ := newTestBattle(t, healerLevel)
		swordsman := spawnAt(t, battle, "swordsman", 300)
		knight := spawnAt(t, battle, "knight", 250)
		cleric := spawnAt(t, battle, "cleric", 260)
		battle.UnitSystem().TakeDamage(swordsman, 30)
		battle.UnitSystem().TakeDamage(knight, 50)

		battle.Update(16)
		if got := healTarget(battle, cleric); got != knight {
			t.Fatalf("Expected the nearer knight as target, got %d", got)
		}

		battle.UnitSystem().TakeDamage(knight, 1000)
		battle.Update(16)
		if got := healTarget(battle, cleric); got != swordsman {
			t.Errorf("Dying knight should be skipped, got target %d", got)
		}
	})

	t.Run("不治疗自己", func(t *testing.T) {
		battle, _ := newTestBattle(t, healerLevel)
		cleric := spawnAt(t, battle, "cleric", 260)
		battle.UnitSystem().TakeDamage(cleric, 20)

		runFor(battle, 2000, 100)

		if state, _ := battle.UnitSystem().State(cleric); state != fsm.StateMoving {
			t.Errorf("Lone cleric should be Moving, got %s", state)
		}
		if hp := health(battle, cleric).CurrentHealth; hp != 30 {
			t.Errorf("Cleric should not heal itself, got %d HP", hp)
		}
		if got := healTarget(battle, cleric); got != 0 {
			t.Errorf("Expected no heal target, got %d", got)
		}
	})

	t.Run("友军满血时前进", func(t *testing.T) {
		battle, _ := newTestBattle(t, healerLevel)
		spawnAt(t, battle, "swordsman", 300)
		cleric := spawnAt(t, battle, "cleric", 260)

		battle.Update(100)

		if state, _ := battle.UnitSystem().State(cleric); state != fsm.StateMoving {
			t.Errorf("Expected cleric Moving, got %s", state)
		}
		if x := position(t, battle, cleric).X; x <= 260 {
			t.Errorf("Cleric should walk forward, got x=%.1f", x)
		}
		if got := healTarget(battle, cleric); got != 0 {
			t.Errorf("Expected no heal target, got %d", got)
		}
	})
}

func TestBattleDeterminism(t *testing.T) {
	level := `id: replay
startingGold: 400
incomePerSecond: 10
playerTurretTier: pebble
enemyTurret: true
firstWaveDelayMs: 1000
waves:
  - groups:
      - enemyId: goblin
        count: 4
        spawnIntervalMs: 1500
      - enemyId: bat
        count: 2
        spawnDelayMs: 2000
        spawnIntervalMs: 3000
    delayAfterMs: 2000
  - groups:
      - enemyId: ogre
        count: 1
`
	play := func() Snapshot {
		battle, _ := newTestBattle(t, level)
		for tick := 0; tick < 600; tick++ {
			switch tick {
			case 10:
				battle.SpawnUnit("knight")
			case 40:
				battle.SpawnUnit("archer")
			case 200:
				battle.SpawnUnit("cleric")
			}
			battle.Update(50)
		}
		return battle.Snapshot()
	}

	a, b := play(), play()
	if a.Gold != b.Gold || a.Wave != b.Wave || a.PlayerBase.HP != b.PlayerBase.HP || a.EnemyBase.HP != b.EnemyBase.HP {
		t.Fatalf("Replays diverged: %+v vs %+v", a, b)
	}
	if len(a.Units) != len(b.Units) {
		t.Fatalf("Unit count diverged: %d vs %d", len(a.Units), len(b.Units))
	}
	for i := range a.Units {
		if a.Units[i] != b.Units[i] {
			t.Errorf("Unit %d diverged: %+v vs %+v", i, a.Units[i], b.Units[i])
		}
	}
}
