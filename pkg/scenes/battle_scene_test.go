package scenes

import (
	"fmt"
	"testing"

	"github.com/decker502/lanedefense/pkg/components"
	"github.com/decker502/lanedefense/pkg/config"
	"github.com/decker502/lanedefense/pkg/game"
	"github.com/decker502/lanedefense/pkg/systems"
)

const (
	sceneUnits = `units:
  - id: swordsman
    name: Swordsman
    maxHp: 100
    damage: 10
    speed: 50
    cost: 50
    cooldownMs: 2000
`
	sceneEnemies = `enemies:
  - id: goblin
    maxHp: 40
    damage: 5
    speed: 60
    goldDrop: 10
`
	sceneTurrets = `tiers:
  - id: pebble
    damage: 5
    range: 150
    cooldownMs: 1500
`
	sceneLevel = `id: "3"
startingGold: 80
firstWaveDelayMs: 600000
waves:
  - groups: []
`
)

func newTestScene(t *testing.T, settings *game.SettingsManager, upgrades *game.UpgradeManager) *BattleScene {
	t.Helper()
	catalog, err := config.ParseCatalog([]byte(sceneUnits), []byte(sceneEnemies), []byte(sceneTurrets))
	if err != nil {
		t.Fatalf("ParseCatalog() failed: %v", err)
	}
	level, err := config.ParseLevelConfig([]byte(sceneLevel))
	if err != nil {
		t.Fatalf("ParseLevelConfig() failed: %v", err)
	}
	s, err := NewBattleScene(BattleSceneOptions{
		Catalog:     catalog,
		Level:       level,
		NextLevelID: "4",
		Settings:    settings,
		Upgrades:    upgrades,
	})
	if err != nil {
		t.Fatalf("NewBattleScene() failed: %v", err)
	}
	return s
}

func TestNewBattleScene(t *testing.T) {
	t.Run("缺少关卡", func(t *testing.T) {
		if _, err := NewBattleScene(BattleSceneOptions{}); err == nil {
			t.Error("Expected error without level and catalog")
		}
	})

	t.Run("飘字设置", func(t *testing.T) {
		settings := game.NewSettingsManager(nil)
		settings.SetShowDamageNumbers(false)
		s := newTestScene(t, settings, nil)
		if s.Battle().DamageNumbers().Enabled {
			t.Error("Damage numbers should follow the saved setting")
		}
		s.toggleDamageNumbers()
		if !s.Battle().DamageNumbers().Enabled || !settings.GetSettings().ShowDamageNumbers {
			t.Error("Toggle should update both the battle and the settings")
		}
	})

	t.Run("文字字体", func(t *testing.T) {
		s := newTestScene(t, nil, nil)
		if s.labelFace == nil {
			t.Fatal("Scene should create a text face")
		}
		// basicfont 7x13 的基线在顶部以下 11 像素
		if got := s.labelFace.Metrics().HAscent; got != 11 {
			t.Errorf("HAscent = %v, want 11", got)
		}
	})
}

func TestLoadoutSlotAt(t *testing.T) {
	tests := []struct {
		name  string
		x, y  int
		count int
		want  int
	}{
		{"第一格", int(slotX) + 5, int(barY) + 5, 3, 0},
		{"第三格", int(slotX+2*(slotWidth+slotGap)) + 10, int(barY) + 30, 3, 2},
		{"超出数量", int(slotX+3*(slotWidth+slotGap)) + 10, int(barY) + 30, 3, -1},
		{"格子间隙", int(slotX+slotWidth) + 1, int(barY) + 30, 3, -1},
		{"栏外", int(slotX) + 5, int(barY) - 5, 3, -1},
		{"数量上限", int(slotX+9*(slotWidth+slotGap)) + 10, int(barY) + 30, 12, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := loadoutSlotAt(tt.x, tt.y, tt.count); got != tt.want {
				t.Errorf("loadoutSlotAt(%d, %d, %d) = %d, want %d", tt.x, tt.y, tt.count, got, tt.want)
			}
		})
	}
}

func TestSlotLabel(t *testing.T) {
	if got := slotLabel(0, "Swordsman"); got != "1:Swords" {
		t.Errorf("slotLabel() = %q, want %q", got, "1:Swords")
	}
	if got := slotLabel(4, "Ogre"); got != "5:Ogre" {
		t.Errorf("slotLabel() = %q, want %q", got, "5:Ogre")
	}
}

func TestResultLabel(t *testing.T) {
	if title, _ := resultLabel(systems.OutcomeOngoing, true); title != "" {
		t.Errorf("Ongoing battle should have no banner, got %q", title)
	}
	if title, hint := resultLabel(systems.OutcomeVictory, true); title != "VICTORY" || hint == "" {
		t.Errorf("Unexpected victory banner %q / %q", title, hint)
	}
	if title, _ := resultLabel(systems.OutcomeDefeat, false); title != "DEFEAT" {
		t.Errorf("Unexpected defeat banner %q", title)
	}
}

func TestSpawnFailureMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("%w: need 50", systems.ErrInsufficientGold), "not enough gold"},
		{systems.ErrOnCooldown, "unit is on cooldown"},
		{systems.ErrNotInLoadout, "unit not in loadout"},
		{fmt.Errorf("boom"), "boom"},
	}
	for _, tt := range tests {
		if got := spawnFailureMessage(tt.err); got != tt.want {
			t.Errorf("spawnFailureMessage(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestDamageNumberLabel(t *testing.T) {
	label, clr := damageNumberLabel(systems.DamageNumberView{Amount: 12})
	if label != "-12" || clr.A != 255 {
		t.Errorf("Fresh damage number = %q alpha %d", label, clr.A)
	}
	label, clr = damageNumberLabel(systems.DamageNumberView{Amount: 5, IsHealing: true, Fade: 1})
	if label != "+5" || clr.A != 0 {
		t.Errorf("Expired heal number = %q alpha %d", label, clr.A)
	}
}

func TestBaseColor(t *testing.T) {
	healthy := baseColor(colorPlayer, components.DamageHealthy)
	if healthy != colorPlayer {
		t.Error("Healthy base keeps its color")
	}
	critical := baseColor(colorPlayer, components.DamageCritical)
	if critical.B >= colorPlayer.B || critical.A != colorPlayer.A {
		t.Errorf("Critical base should be darker, got %+v", critical)
	}
}

func TestSpawnSlot(t *testing.T) {
	s := newTestScene(t, nil, nil)

	s.spawnSlot(5)
	if got := s.Battle().GameState().Gold; got != 80 {
		t.Errorf("Out-of-range slot changed gold to %d", got)
	}

	s.spawnSlot(0)
	if got := s.Battle().GameState().Gold; got != 30 {
		t.Errorf("Expected 30 gold after spawning, got %d", got)
	}

	s.spawnSlot(0)
	if s.message != "unit is on cooldown" {
		t.Errorf("Expected cooldown message, got %q", s.message)
	}
}

func TestOnBattleOver(t *testing.T) {
	t.Run("胜利获得升级点数", func(t *testing.T) {
		upgrades := game.NewUpgradeManager(nil)
		s := newTestScene(t, nil, upgrades)
		s.onBattleOver(systems.OutcomeVictory)
		if upgrades.Points() != VictoryUpgradePoints {
			t.Errorf("Expected %d points, got %d", VictoryUpgradePoints, upgrades.Points())
		}
		if !s.resultHandled {
			t.Error("Result should be marked handled")
		}
	})

	t.Run("失败不奖励", func(t *testing.T) {
		upgrades := game.NewUpgradeManager(nil)
		s := newTestScene(t, nil, upgrades)
		s.onBattleOver(systems.OutcomeDefeat)
		if upgrades.Points() != 0 {
			t.Errorf("Defeat should not award points, got %d", upgrades.Points())
		}
	})
}

func TestResultTarget(t *testing.T) {
	s := newTestScene(t, nil, nil)
	if got := s.resultTarget(); got != "3" {
		t.Errorf("Ongoing battle should retry the same level, got %q", got)
	}
}

func TestSaveOnExit(t *testing.T) {
	s := newTestScene(t, game.NewSettingsManager(nil), game.NewUpgradeManager(nil))
	if !s.SaveOnExit() {
		t.Error("Saving without a store should succeed")
	}
}
