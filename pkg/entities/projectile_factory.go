package entities

import (
	"fmt"

	"github.com/decker502/lanedefense/pkg/components"
	"github.com/decker502/lanedefense/pkg/config"
	"github.com/decker502/lanedefense/pkg/ecs"
)

// ProjectileSpec 子弹参数，伤害在发射时确定
type ProjectileSpec struct {
	AttackerID   ecs.EntityID
	TargetID     ecs.EntityID
	Faction      components.Role
	X, Y         float64 // 发射位置
	Speed        float64
	Damage       int
	SplashRadius float64
}

// NewProjectile 创建追踪子弹实体
//
// 参数:
//   - em: 实体管理器
//   - spec: 子弹参数；Speed 为 0 时使用默认速度
//
// 返回:
//   - ecs.EntityID: 创建的子弹实体ID
//   - error: 目标无效时返回错误
func NewProjectile(em *ecs.EntityManager, spec ProjectileSpec) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	if spec.TargetID == 0 {
		return 0, fmt.Errorf("projectile requires a target")
	}

	speed := spec.Speed
	if speed <= 0 {
		speed = config.DefaultProjectileSpeed
	}

	id := em.CreateEntity()
	em.AddComponent(id, &components.PositionComponent{X: spec.X, Y: spec.Y})
	em.AddComponent(id, &components.ProjectileComponent{
		AttackerID:   spec.AttackerID,
		TargetID:     spec.TargetID,
		Faction:      spec.Faction,
		Speed:        speed,
		Damage:       spec.Damage,
		SplashRadius: spec.SplashRadius,
	})
	return id, nil
}
