package components

// LifetimeComponent 管理实体的生命周期
// 用于自动清理存在时间超过上限的实体(如伤害数字)
type LifetimeComponent struct {
	MaxLifetimeMs     float64 // 最大生命周期(毫秒)
	CurrentLifetimeMs float64 // 当前已存在时间(毫秒)
	IsExpired         bool    // 是否已过期
}

// DamageNumberComponent 飘字伤害数字
// 与 LifetimeComponent 配合，到期后由 LifetimeSystem 删除
type DamageNumberComponent struct {
	Amount    int     // 显示的数值
	RiseSpeed float64 // 上升速度（像素/秒）
	IsHealing bool    // 治疗数字（绿色显示）
}
