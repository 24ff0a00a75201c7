package components

import "github.com/decker502/lanedefense/pkg/config"

// DamageState 基地外观受损状态
type DamageState int

const (
	DamageHealthy  DamageState = iota // 生命值 > 66%
	DamageDamaged                     // 33% < 生命值 <= 66%
	DamageCritical                    // 生命值 <= 33%
)

// String 返回受损状态名称
func (s DamageState) String() string {
	switch s {
	case DamageDamaged:
		return "damaged"
	case DamageCritical:
		return "critical"
	default:
		return "healthy"
	}
}

// BaseComponent 阵营基地
// 生命值保存在同一实体的 HealthComponent 中
type BaseComponent struct {
	Role        Role
	DamageState DamageState
	Destroyed   bool // 摧毁回调只触发一次
}

// TurretComponent 架在基地上的炮塔
type TurretComponent struct {
	Role        Role
	Tier        config.TurretTier
	TierIndex   int     // 在升级序列中的索引
	CooldownMs  float64 // 剩余冷却
	Upgradeable bool    // 敌方炮塔不可升级
}
