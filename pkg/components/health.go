package components

// HealthComponent 存储实体的生命值信息
// 用于单位和基地等可被攻击的实体
// 不变量：0 <= CurrentHealth <= MaxHealth
type HealthComponent struct {
	CurrentHealth int // 当前生命值
	MaxHealth     int // 最大生命值
}

// Ratio 返回当前生命值比例（0-1）
func (h *HealthComponent) Ratio() float64 {
	if h.MaxHealth <= 0 {
		return 0
	}
	return float64(h.CurrentHealth) / float64(h.MaxHealth)
}

// IsDamaged 是否受损（治疗者的目标条件）
func (h *HealthComponent) IsDamaged() bool {
	return h.CurrentHealth > 0 && h.CurrentHealth < h.MaxHealth
}

// Apply 扣除生命值并截断到 0，返回实际扣除量
func (h *HealthComponent) Apply(amount int) int {
	if amount <= 0 || h.CurrentHealth <= 0 {
		return 0
	}
	if amount > h.CurrentHealth {
		amount = h.CurrentHealth
	}
	h.CurrentHealth -= amount
	return amount
}

// Restore 回复生命值并截断到上限，返回实际回复量
func (h *HealthComponent) Restore(amount int) int {
	if amount <= 0 || h.CurrentHealth <= 0 {
		return 0
	}
	missing := h.MaxHealth - h.CurrentHealth
	if amount > missing {
		amount = missing
	}
	h.CurrentHealth += amount
	return amount
}
