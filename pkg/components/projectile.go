package components

import "github.com/decker502/lanedefense/pkg/ecs"

// ProjectileComponent 追踪型子弹
// 子弹锁定目标实体飞行，目标失效时直接消失不造成伤害
type ProjectileComponent struct {
	AttackerID   ecs.EntityID // 发射者（可能已失效，仅用于事件）
	TargetID     ecs.EntityID // 追踪目标
	Faction      Role         // 发射者阵营
	Speed        float64      // 飞行速度（像素/秒）
	Damage       int          // 命中伤害
	SplashRadius float64      // 溅射半径，0 表示无溅射
}
