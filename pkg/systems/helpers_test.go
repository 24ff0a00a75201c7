package systems

import (
	"testing"

	"github.com/decker502/lanedefense/pkg/components"
	"github.com/decker502/lanedefense/pkg/config"
	"github.com/decker502/lanedefense/pkg/ecs"
	"github.com/decker502/lanedefense/pkg/entities"
	"github.com/decker502/lanedefense/pkg/event"
)

const testUnitsYAML = `units:
  - id: swordsman
    maxHp: 100
    damage: 10
    speed: 50
    cost: 50
    cooldownMs: 2000
  - id: archer
    maxHp: 60
    damage: 15
    range: 120
    speed: 40
    projectileSpeed: 300
    splashRadius: 30
    cost: 75
    cooldownMs: 3000
  - id: knight
    maxHp: 300
    damage: 6
    speed: 30
    isTank: true
    cost: 120
    cooldownMs: 5000
  - id: cleric
    maxHp: 50
    range: 60
    speed: 40
    isHealer: true
    healAmount: 12
    cost: 90
    cooldownMs: 4000
  - id: wyvern
    maxHp: 80
    damage: 8
    speed: 70
    isFlying: true
    cost: 100
    cooldownMs: 3000
`

const testEnemiesYAML = `enemies:
  - id: goblin
    maxHp: 40
    damage: 5
    speed: 60
    goldDrop: 10
  - id: bat
    maxHp: 30
    damage: 4
    speed: 80
    isFlying: true
    goldDrop: 8
  - id: ogre
    maxHp: 600
    damage: 30
    speed: 20
    goldDrop: 100
    boss: true
`

const testTurretsYAML = `tiers:
  - id: pebble
    damage: 5
    range: 150
    cooldownMs: 1500
  - id: arrow
    damage: 10
    range: 200
    cooldownMs: 1200
    upgradeCost: 100
  - id: cannon
    damage: 25
    range: 220
    cooldownMs: 2000
    splashRadius: 40
    upgradeCost: 250
enemyTurret: arrow
`

func mustCatalog(t *testing.T) *config.Catalog {
	t.Helper()
	catalog, err := config.ParseCatalog([]byte(testUnitsYAML), []byte(testEnemiesYAML), []byte(testTurretsYAML))
	if err != nil {
		t.Fatalf("ParseCatalog() failed: %v", err)
	}
	return catalog
}

// recordingCues 记录播放过的音效提示
type recordingCues struct {
	played []string
}

func (r *recordingCues) PlayCue(name string) {
	r.played = append(r.played, name)
}

func (r *recordingCues) count(name string) int {
	n := 0
	for _, c := range r.played {
		if c == name {
			n++
		}
	}
	return n
}

// testWorld 不经过 BattleSystem 直接组装的系统集合
type testWorld struct {
	em          *ecs.EntityManager
	dispatcher  *event.Dispatcher
	catalog     *config.Catalog
	units       *UnitSystem
	bases       *BaseSystem
	combat      *CombatSystem
	projectiles *ProjectileSystem
	numbers     *DamageNumberSystem
}

func newTestWorld(t *testing.T) *testWorld {
	t.Helper()
	em := ecs.NewEntityManager()
	dispatcher := event.NewDispatcher()
	numbers := NewDamageNumberSystem(em)
	units := NewUnitSystem(em, dispatcher, numbers)
	bases := NewBaseSystem(em, dispatcher, numbers)
	combat := NewCombatSystem(em, units, bases)
	return &testWorld{
		em:          em,
		dispatcher:  dispatcher,
		catalog:     mustCatalog(t),
		units:       units,
		bases:       bases,
		combat:      combat,
		projectiles: NewProjectileSystem(em, combat, units),
		numbers:     numbers,
	}
}

func (w *testWorld) spawnPlayer(t *testing.T, unitID string, x, y float64) ecs.EntityID {
	t.Helper()
	id, _, err := entities.NewPlayerUnit(w.em, w.catalog.Units, entities.NoUpgrades{}, unitID)
	if err != nil {
		t.Fatalf("NewPlayerUnit(%s) failed: %v", unitID, err)
	}
	w.units.Register(id)
	w.place(id, x, y)
	return id
}

func (w *testWorld) spawnEnemy(t *testing.T, enemyID string, x, y float64) ecs.EntityID {
	t.Helper()
	id, err := entities.NewEnemyUnit(w.em, w.catalog.Enemies, enemyID, 0)
	if err != nil {
		t.Fatalf("NewEnemyUnit(%s) failed: %v", enemyID, err)
	}
	w.units.Register(id)
	w.place(id, x, y)
	return id
}

func (w *testWorld) place(id ecs.EntityID, x, y float64) {
	pos, _ := ecs.GetComponent[*components.PositionComponent](w.em, id)
	pos.X, pos.Y = x, y
}

func (w *testWorld) hp(id ecs.EntityID) int {
	health, ok := ecs.GetComponent[*components.HealthComponent](w.em, id)
	if !ok {
		return -1
	}
	return health.CurrentHealth
}

// countEvents 订阅指定类型事件并返回计数器
func countEvents(d *event.Dispatcher, t event.Type) *int {
	n := new(int)
	d.SubscribeFunc(t, func(event.Event) { *n++ })
	return n
}
