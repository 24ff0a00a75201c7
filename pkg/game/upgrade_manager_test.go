package game

import (
	"errors"
	"testing"

	"github.com/decker502/lanedefense/pkg/config"
)

func TestUpgradeManager(t *testing.T) {
	t.Run("没有点数不能升级", func(t *testing.T) {
		um := NewUpgradeManager(nil)
		if err := um.Upgrade("swordsman", TrackOffense); !errors.Is(err, ErrNoUpgradePoints) {
			t.Errorf("expected ErrNoUpgradePoints, got %v", err)
		}
		if um.Tiers("swordsman") != (config.UpgradeTiers{}) {
			t.Error("失败的升级不应修改等级")
		}
	})

	t.Run("升级消耗点数", func(t *testing.T) {
		um := NewUpgradeManager(nil)
		um.AwardPoints(2)
		if err := um.Upgrade("archer", TrackDefense); err != nil {
			t.Fatalf("Upgrade() error: %v", err)
		}
		if got := um.Tiers("archer").Defense; got != 1 {
			t.Errorf("Defense tier = %d, want 1", got)
		}
		if um.Points() != 1 {
			t.Errorf("Points = %d, want 1", um.Points())
		}
	})

	t.Run("最高等级", func(t *testing.T) {
		um := NewUpgradeManager(nil)
		um.AwardPoints(10)
		for i := 0; i < config.MaxUpgradeTier; i++ {
			if err := um.Upgrade("knight", TrackUtility); err != nil {
				t.Fatalf("Upgrade() #%d error: %v", i, err)
			}
		}
		if err := um.Upgrade("knight", TrackUtility); !errors.Is(err, ErrUpgradeMaxed) {
			t.Errorf("expected ErrUpgradeMaxed, got %v", err)
		}
		if um.Points() != 10-config.MaxUpgradeTier {
			t.Errorf("达到上限后不应继续消耗点数，剩余 %d", um.Points())
		}
	})

	t.Run("未知路线", func(t *testing.T) {
		um := NewUpgradeManager(nil)
		um.AwardPoints(1)
		if err := um.Upgrade("knight", "speed"); !errors.Is(err, ErrUnknownTrack) {
			t.Errorf("expected ErrUnknownTrack, got %v", err)
		}
	})
}

func TestUpgradeManagerPersistence(t *testing.T) {
	store := openTestStore(t, "lanedefense_upgrades_test")

	um := NewUpgradeManager(store)
	um.AwardPoints(3)
	if err := um.Upgrade("swordsman", TrackOffense); err != nil {
		t.Fatalf("Upgrade() error: %v", err)
	}
	if err := um.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	reloaded := NewUpgradeManager(store)
	if got := reloaded.Tiers("swordsman").Offense; got != 1 {
		t.Errorf("Offense tier after reload = %d, want 1", got)
	}
	if reloaded.Points() != 2 {
		t.Errorf("Points after reload = %d, want 2", reloaded.Points())
	}
	if ids := reloaded.UpgradedUnits(); len(ids) != 1 || ids[0] != "swordsman" {
		t.Errorf("UpgradedUnits() = %v", ids)
	}
}
