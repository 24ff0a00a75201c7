package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EnemyDefinition 敌人定义
// 战斗属性与玩家单位相同，额外携带金币掉落和 Boss 标记
type EnemyDefinition struct {
	UnitDefinition `yaml:",inline"`
	GoldDrop       int  `yaml:"goldDrop"`
	Boss           bool `yaml:"boss"` // Boss 出场时播放专属音效
}

// EnemyRoster 敌人配置
type EnemyRoster struct {
	Enemies []EnemyDefinition `yaml:"enemies"`

	index map[string]int
}

// LoadEnemyRoster 从YAML文件加载敌人配置
func LoadEnemyRoster(path string) (*EnemyRoster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read enemy roster file %s: %w", path, err)
	}
	roster, err := ParseEnemyRoster(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return roster, nil
}

// ParseEnemyRoster 解析YAML格式的敌人配置
func ParseEnemyRoster(data []byte) (*EnemyRoster, error) {
	var roster EnemyRoster
	if err := yaml.Unmarshal(data, &roster); err != nil {
		return nil, fmt.Errorf("failed to parse enemy roster YAML: %w", err)
	}

	for i := range roster.Enemies {
		applyUnitDefaults(&roster.Enemies[i].UnitDefinition)
	}

	if err := validateEnemyRoster(&roster); err != nil {
		return nil, fmt.Errorf("invalid enemy roster: %w", err)
	}

	roster.index = make(map[string]int, len(roster.Enemies))
	for i, e := range roster.Enemies {
		roster.index[e.ID] = i
	}
	return &roster, nil
}

func validateEnemyRoster(roster *EnemyRoster) error {
	if len(roster.Enemies) == 0 {
		return fmt.Errorf("at least one enemy type is required")
	}
	seen := make(map[string]bool, len(roster.Enemies))
	for i, e := range roster.Enemies {
		if err := validateUnitDefinition(e.UnitDefinition); err != nil {
			return fmt.Errorf("enemies[%d]: %w", i, err)
		}
		if e.GoldDrop < 0 {
			return fmt.Errorf("enemy %s: goldDrop cannot be negative, got %d", e.ID, e.GoldDrop)
		}
		if seen[e.ID] {
			return fmt.Errorf("enemies[%d]: duplicate id %q", i, e.ID)
		}
		seen[e.ID] = true
	}
	return nil
}

// Get 按ID查找敌人定义
func (r *EnemyRoster) Get(id string) (EnemyDefinition, error) {
	if i, ok := r.index[id]; ok {
		return r.Enemies[i], nil
	}
	return EnemyDefinition{}, fmt.Errorf("enemy %q: %w", id, ErrUnknownDefinition)
}

// Has 是否存在指定敌人
func (r *EnemyRoster) Has(id string) bool {
	_, ok := r.index[id]
	return ok
}

// BossIDs 返回所有标记为 Boss 的敌人ID集合
func (r *EnemyRoster) BossIDs() map[string]bool {
	bosses := make(map[string]bool)
	for _, e := range r.Enemies {
		if e.Boss {
			bosses[e.ID] = true
		}
	}
	return bosses
}
