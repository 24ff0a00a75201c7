package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TurretTier 炮塔等级属性
type TurretTier struct {
	ID              string  `yaml:"id"` // pebble / arrow / cannon
	Name            string  `yaml:"name"`
	Damage          int     `yaml:"damage"`
	Range           float64 `yaml:"range"`
	CooldownMs      float64 `yaml:"cooldownMs"`
	ProjectileSpeed float64 `yaml:"projectileSpeed"`
	SplashRadius    float64 `yaml:"splashRadius"`
	UpgradeCost     int     `yaml:"upgradeCost"` // 升级到此等级的花费
}

// TurretConfig 炮塔配置
// Tiers 按升级顺序排列，第一个为初始等级
type TurretConfig struct {
	Tiers       []TurretTier `yaml:"tiers"`
	EnemyTurret string       `yaml:"enemyTurret"` // 敌方炮塔使用的固定等级
}

// LoadTurretConfig 从YAML文件加载炮塔配置
func LoadTurretConfig(path string) (*TurretConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read turret config file %s: %w", path, err)
	}
	cfg, err := ParseTurretConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseTurretConfig 解析YAML格式的炮塔配置
func ParseTurretConfig(data []byte) (*TurretConfig, error) {
	var cfg TurretConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse turret config YAML: %w", err)
	}

	for i := range cfg.Tiers {
		if cfg.Tiers[i].Name == "" {
			cfg.Tiers[i].Name = cfg.Tiers[i].ID
		}
		if cfg.Tiers[i].ProjectileSpeed == 0 {
			cfg.Tiers[i].ProjectileSpeed = DefaultProjectileSpeed
		}
	}
	if cfg.EnemyTurret == "" && len(cfg.Tiers) > 0 {
		cfg.EnemyTurret = cfg.Tiers[len(cfg.Tiers)-1].ID
	}

	if err := validateTurretConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid turret config: %w", err)
	}
	return &cfg, nil
}

func validateTurretConfig(cfg *TurretConfig) error {
	if len(cfg.Tiers) == 0 {
		return fmt.Errorf("at least one turret tier is required")
	}
	for i, tier := range cfg.Tiers {
		if tier.ID == "" {
			return fmt.Errorf("tiers[%d]: id is required", i)
		}
		if tier.Damage <= 0 {
			return fmt.Errorf("tier %s: damage must be positive", tier.ID)
		}
		if tier.Range <= 0 {
			return fmt.Errorf("tier %s: range must be positive", tier.ID)
		}
		if tier.CooldownMs <= 0 {
			return fmt.Errorf("tier %s: cooldownMs must be positive", tier.ID)
		}
		if tier.UpgradeCost < 0 {
			return fmt.Errorf("tier %s: upgradeCost cannot be negative", tier.ID)
		}
	}
	if _, _, err := cfg.Tier(cfg.EnemyTurret); err != nil {
		return fmt.Errorf("enemyTurret: %w", err)
	}
	return nil
}

// Tier 按ID查找等级，返回等级和其在升级序列中的索引
func (c *TurretConfig) Tier(id string) (TurretTier, int, error) {
	for i, tier := range c.Tiers {
		if tier.ID == id {
			return tier, i, nil
		}
	}
	return TurretTier{}, -1, fmt.Errorf("turret tier %q: %w", id, ErrUnknownDefinition)
}

// Next 返回 index 的下一级，不存在时返回 false
func (c *TurretConfig) Next(index int) (TurretTier, bool) {
	if index+1 >= len(c.Tiers) || index < 0 {
		return TurretTier{}, false
	}
	return c.Tiers[index+1], true
}
