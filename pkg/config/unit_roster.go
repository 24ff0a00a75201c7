package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// UnitCategory 单位类别，决定出兵音效
type UnitCategory string

const (
	CategoryMelee  UnitCategory = "melee"
	CategoryRanged UnitCategory = "ranged"
	CategoryHeavy  UnitCategory = "heavy"
)

// UnitDefinition 单位定义（玩家单位和敌人共用的战斗属性）
// 单位创建时按值复制一份快照，战斗中不再重新读取
type UnitDefinition struct {
	ID               string       `yaml:"id"`
	Name             string       `yaml:"name"`
	MaxHP            int          `yaml:"maxHp"`
	Damage           int          `yaml:"damage"`
	Range            float64      `yaml:"range"` // 0 表示近战
	Speed            float64      `yaml:"speed"` // 像素/秒
	IsTank           bool         `yaml:"isTank"`
	IsHealer         bool         `yaml:"isHealer"`
	IsFlying         bool         `yaml:"isFlying"`
	SplashRadius     float64      `yaml:"splashRadius"`
	HealAmount       int          `yaml:"healAmount"`
	ProjectileSpeed  float64      `yaml:"projectileSpeed"`  // 远程单位子弹速度
	AttackIntervalMs float64      `yaml:"attackIntervalMs"` // 0 表示使用 BaseAttackIntervalMs
	Category         UnitCategory `yaml:"category"`

	// 以下字段仅玩家单位使用
	Cost       int     `yaml:"cost"`
	CooldownMs float64 `yaml:"cooldownMs"` // 出兵冷却
}

// IsRanged 是否为远程单位
func (d UnitDefinition) IsRanged() bool {
	return d.Range > 0
}

// AttackInterval 返回攻击间隔（毫秒）
func (d UnitDefinition) AttackInterval() float64 {
	if d.AttackIntervalMs > 0 {
		return d.AttackIntervalMs
	}
	return BaseAttackIntervalMs
}

// UnitRoster 玩家单位花名册
type UnitRoster struct {
	Units []UnitDefinition `yaml:"units"`

	index map[string]int
}

// LoadUnitRoster 从YAML文件加载玩家单位花名册
func LoadUnitRoster(path string) (*UnitRoster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read unit roster file %s: %w", path, err)
	}
	roster, err := ParseUnitRoster(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return roster, nil
}

// ParseUnitRoster 解析YAML格式的玩家单位花名册
func ParseUnitRoster(data []byte) (*UnitRoster, error) {
	var roster UnitRoster
	if err := yaml.Unmarshal(data, &roster); err != nil {
		return nil, fmt.Errorf("failed to parse unit roster YAML: %w", err)
	}

	for i := range roster.Units {
		applyUnitDefaults(&roster.Units[i])
	}

	if err := validateUnitRoster(&roster); err != nil {
		return nil, fmt.Errorf("invalid unit roster: %w", err)
	}

	roster.buildIndex()
	return &roster, nil
}

// Get 按ID查找单位定义
func (r *UnitRoster) Get(id string) (UnitDefinition, error) {
	if i, ok := r.index[id]; ok {
		return r.Units[i], nil
	}
	return UnitDefinition{}, fmt.Errorf("unit %q: %w", id, ErrUnknownDefinition)
}

// Has 是否存在指定单位
func (r *UnitRoster) Has(id string) bool {
	_, ok := r.index[id]
	return ok
}

// IDs 按配置顺序返回所有单位ID
func (r *UnitRoster) IDs() []string {
	ids := make([]string, 0, len(r.Units))
	for _, u := range r.Units {
		ids = append(ids, u.ID)
	}
	return ids
}

func (r *UnitRoster) buildIndex() {
	r.index = make(map[string]int, len(r.Units))
	for i, u := range r.Units {
		r.index[u.ID] = i
	}
}

// applyUnitDefaults 为缺失的可选字段设置默认值
func applyUnitDefaults(def *UnitDefinition) {
	if def.Name == "" {
		def.Name = def.ID
	}
	if def.Category == "" {
		switch {
		case def.IsTank:
			def.Category = CategoryHeavy
		case def.Range > 0:
			def.Category = CategoryRanged
		default:
			def.Category = CategoryMelee
		}
	}
	if def.Range > 0 && def.ProjectileSpeed == 0 {
		def.ProjectileSpeed = DefaultProjectileSpeed
	}
}

// validateUnitDefinition 验证单个单位定义
func validateUnitDefinition(def UnitDefinition) error {
	if def.ID == "" {
		return fmt.Errorf("id is required")
	}
	if def.MaxHP <= 0 {
		return fmt.Errorf("unit %s: maxHp must be positive, got %d", def.ID, def.MaxHP)
	}
	if def.Damage < 0 {
		return fmt.Errorf("unit %s: damage cannot be negative, got %d", def.ID, def.Damage)
	}
	if def.Range < 0 {
		return fmt.Errorf("unit %s: range cannot be negative, got %.1f", def.ID, def.Range)
	}
	if def.Speed < 0 {
		return fmt.Errorf("unit %s: speed cannot be negative, got %.1f", def.ID, def.Speed)
	}
	if def.SplashRadius < 0 {
		return fmt.Errorf("unit %s: splashRadius cannot be negative", def.ID)
	}
	if def.IsHealer && def.HealAmount <= 0 {
		return fmt.Errorf("unit %s: healer requires a positive healAmount", def.ID)
	}
	switch def.Category {
	case CategoryMelee, CategoryRanged, CategoryHeavy:
	default:
		return fmt.Errorf("unit %s: category must be one of melee, ranged, heavy, got %q", def.ID, def.Category)
	}
	return nil
}

func validateUnitRoster(roster *UnitRoster) error {
	if len(roster.Units) == 0 {
		return fmt.Errorf("at least one unit is required")
	}
	seen := make(map[string]bool, len(roster.Units))
	for i, def := range roster.Units {
		if err := validateUnitDefinition(def); err != nil {
			return fmt.Errorf("units[%d]: %w", i, err)
		}
		if seen[def.ID] {
			return fmt.Errorf("units[%d]: duplicate id %q", i, def.ID)
		}
		if def.Cost < 0 {
			return fmt.Errorf("unit %s: cost cannot be negative, got %d", def.ID, def.Cost)
		}
		if def.CooldownMs < 0 {
			return fmt.Errorf("unit %s: cooldownMs cannot be negative", def.ID)
		}
		seen[def.ID] = true
	}
	return nil
}
