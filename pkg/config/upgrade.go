package config

import "math"

// MaxUpgradeTier 每条升级路线的最高等级
const MaxUpgradeTier = 3

// 每级升级带来的倍率变化
const (
	offenseStepPerTier = 0.15 // 伤害 +15%/级
	defenseStepPerTier = 0.15 // 生命 +15%/级
	utilityStepPerTier = 0.10 // 花费与冷却 -10%/级
)

// UpgradeTiers 单个玩家单位的永久升级等级（0-3）
type UpgradeTiers struct {
	Offense int `yaml:"offense"`
	Defense int `yaml:"defense"`
	Utility int `yaml:"utility"`
}

// Clamp 将各等级限制在 [0, MaxUpgradeTier]
func (t UpgradeTiers) Clamp() UpgradeTiers {
	return UpgradeTiers{
		Offense: clampTier(t.Offense),
		Defense: clampTier(t.Defense),
		Utility: clampTier(t.Utility),
	}
}

func clampTier(v int) int {
	if v < 0 {
		return 0
	}
	if v > MaxUpgradeTier {
		return MaxUpgradeTier
	}
	return v
}

// ApplyUpgrades 返回应用升级倍率后的单位定义快照
// 结果在单位创建时确定，战斗中不再变化
func ApplyUpgrades(def UnitDefinition, tiers UpgradeTiers) UnitDefinition {
	tiers = tiers.Clamp()

	damageMul := 1 + offenseStepPerTier*float64(tiers.Offense)
	hpMul := 1 + defenseStepPerTier*float64(tiers.Defense)
	utilityMul := 1 - utilityStepPerTier*float64(tiers.Utility)

	out := def
	out.Damage = int(math.Round(float64(def.Damage) * damageMul))
	out.MaxHP = int(math.Round(float64(def.MaxHP) * hpMul))
	out.Cost = int(math.Round(float64(def.Cost) * utilityMul))
	out.CooldownMs = def.CooldownMs * utilityMul
	return out
}
