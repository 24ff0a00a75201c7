package systems

import (
	"testing"

	"github.com/decker502/lanedefense/pkg/components"
	"github.com/decker502/lanedefense/pkg/config"
	"github.com/decker502/lanedefense/pkg/ecs"
	"github.com/decker502/lanedefense/pkg/entities"
)

func fireAt(t *testing.T, w *testWorld, spec entities.ProjectileSpec) ecs.EntityID {
	t.Helper()
	id, err := entities.NewProjectile(w.em, spec)
	if err != nil {
		t.Fatalf("NewProjectile() failed: %v", err)
	}
	return id
}

func TestProjectileSplash(t *testing.T) {
	w := newTestWorld(t)
	target := w.spawnEnemy(t, "goblin", 100, 100)
	// 距冲击点 20 和 40
	near := w.spawnEnemy(t, "goblin", 120, 100)
	far := w.spawnEnemy(t, "goblin", 140, 100)
	// 同阵营不受溅射
	friend := w.spawnPlayer(t, "swordsman", 110, 100)

	proj := fireAt(t, w, entities.ProjectileSpec{
		TargetID:     target,
		Faction:      components.RolePlayer,
		X:            100,
		Y:            95,
		Damage:       15,
		SplashRadius: 30,
	})

	w.projectiles.Update(16)

	if got := w.hp(target); got != 25 {
		t.Errorf("Target: expected HP 25, got %d", got)
	}
	// round(15 * 0.5) = 8
	if got := w.hp(near); got != 32 {
		t.Errorf("Splash victim: expected HP 32, got %d", got)
	}
	if got := w.hp(far); got != 40 {
		t.Errorf("Out of radius: expected HP 40, got %d", got)
	}
	if got := w.hp(friend); got != 100 {
		t.Errorf("Friendly unit: expected HP 100, got %d", got)
	}
	if w.em.IsActive(proj) {
		t.Error("Projectile should be destroyed on impact")
	}
}

func TestProjectileMovement(t *testing.T) {
	t.Run("单步移动不越过目标", func(t *testing.T) {
		w := newTestWorld(t)
		target := w.spawnEnemy(t, "goblin", 50, 0)
		proj := fireAt(t, w, entities.ProjectileSpec{
			TargetID: target,
			Faction:  components.RolePlayer,
			Speed:    300,
			Damage:   10,
		})

		w.projectiles.Update(1000)

		pos, _ := ecs.GetComponent[*components.PositionComponent](w.em, proj)
		if pos.X != 50 || pos.Y != 0 {
			t.Errorf("Expected projectile at target (50, 0), got (%.2f, %.2f)", pos.X, pos.Y)
		}
		if got := w.hp(target); got != 40 {
			t.Errorf("Damage should apply on the next update, got HP %d", got)
		}

		w.projectiles.Update(16)
		if got := w.hp(target); got != 30 {
			t.Errorf("Expected HP 30 after impact, got %d", got)
		}
	})

	t.Run("按速度移动", func(t *testing.T) {
		w := newTestWorld(t)
		target := w.spawnEnemy(t, "goblin", 500, 0)
		proj := fireAt(t, w, entities.ProjectileSpec{
			TargetID: target,
			Faction:  components.RolePlayer,
			Speed:    300,
			Damage:   10,
		})

		w.projectiles.Update(500)

		pos, _ := ecs.GetComponent[*components.PositionComponent](w.em, proj)
		if pos.X != 150 {
			t.Errorf("Expected X=150, got %.2f", pos.X)
		}
	})
}

func TestProjectileInvalidTarget(t *testing.T) {
	w := newTestWorld(t)
	target := w.spawnEnemy(t, "goblin", 100, 100)
	bystander := w.spawnEnemy(t, "goblin", 105, 100)
	proj := fireAt(t, w, entities.ProjectileSpec{
		TargetID:     target,
		Faction:      components.RolePlayer,
		X:            100,
		Y:            98,
		Damage:       20,
		SplashRadius: 50,
	})

	w.units.TakeDamage(target, 40)
	w.projectiles.Update(16)

	if w.em.IsActive(proj) {
		t.Error("Projectile with a dead target should be destroyed")
	}
	if got := w.hp(bystander); got != 40 {
		t.Errorf("No splash without impact, got HP %d", got)
	}
}

func TestProjectileHitsBase(t *testing.T) {
	w := newTestWorld(t)
	base, err := entities.NewBase(w.em, components.RoleEnemy, 500)
	if err != nil {
		t.Fatalf("NewBase() failed: %v", err)
	}
	fireAt(t, w, entities.ProjectileSpec{
		TargetID: base,
		Faction:  components.RolePlayer,
		X:        config.EnemyBaseX - 5,
		Y:        config.LaneY,
		Damage:   25,
	})

	w.projectiles.Update(16)

	if cur, _ := w.bases.Health(base); cur != 475 {
		t.Errorf("Expected base HP 475, got %d", cur)
	}
}
