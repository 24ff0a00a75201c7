package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LevelConfig 关卡配置数据结构
// 定义了关卡的经济参数、基地属性、可用单位和敌人波次
type LevelConfig struct {
	ID          string `yaml:"id"`          // 关卡ID，如 "1"
	Name        string `yaml:"name"`        // 关卡名称
	Description string `yaml:"description"` // 关卡描述（可选）

	StartingGold    int     `yaml:"startingGold"`    // 初始金币，默认 100
	IncomePerSecond float64 `yaml:"incomePerSecond"` // 被动收入（金币/秒），默认 0
	MaxGold         int     `yaml:"maxGold"`         // 金币上限，默认 9999

	PlayerBaseHP int `yaml:"playerBaseHp"` // 玩家基地生命值，默认 1000
	EnemyBaseHP  int `yaml:"enemyBaseHp"`  // 敌方基地生命值，默认 1000

	Loadout          []string `yaml:"loadout"`          // 本关可出的单位ID，空表示花名册全部单位
	PlayerTurretTier string   `yaml:"playerTurretTier"` // 玩家炮塔初始等级，空表示没有炮塔
	EnemyTurret      bool     `yaml:"enemyTurret"`      // 是否有敌方炮塔

	FirstWaveDelayMs float64          `yaml:"firstWaveDelayMs"` // 开局到第一波的延迟
	Waves            []WaveDefinition `yaml:"waves"`            // 敌人波次配置列表
}

// WaveDefinition 单个波次配置
type WaveDefinition struct {
	Groups       []SpawnGroup `yaml:"groups"`       // 本波次的出兵组
	DelayAfterMs float64      `yaml:"delayAfterMs"` // 本波完成后到下一波的延迟
}

// SpawnGroup 出兵组
// 波次开始 SpawnDelayMs 后出第一个，此后每隔 SpawnIntervalMs 出一个，共 Count 个
type SpawnGroup struct {
	EnemyID         string  `yaml:"enemyId"`
	Count           int     `yaml:"count"`
	SpawnDelayMs    float64 `yaml:"spawnDelayMs"`
	SpawnIntervalMs float64 `yaml:"spawnIntervalMs"`
}

// TotalEnemies 返回本波次敌人总数
func (w WaveDefinition) TotalEnemies() int {
	total := 0
	for _, g := range w.Groups {
		total += g.Count
	}
	return total
}

// LoadLevelConfig 从YAML文件加载关卡配置
// 参数：
//
//	path - 关卡配置文件的路径（相对或绝对路径）
//
// 返回：
//
//	*LevelConfig - 解析后的关卡配置对象
//	error - 如果文件读取或解析失败，返回错误信息
func LoadLevelConfig(path string) (*LevelConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read level config file %s: %w", path, err)
	}
	cfg, err := ParseLevelConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseLevelConfig 解析YAML格式的关卡配置
func ParseLevelConfig(data []byte) (*LevelConfig, error) {
	var levelConfig LevelConfig
	if err := yaml.Unmarshal(data, &levelConfig); err != nil {
		return nil, fmt.Errorf("failed to parse level config YAML: %w", err)
	}

	// 应用默认值
	applyDefaults(&levelConfig)

	// 验证必填字段
	if err := validateLevelConfig(&levelConfig); err != nil {
		return nil, fmt.Errorf("invalid level config: %w", err)
	}

	return &levelConfig, nil
}

// applyDefaults 为 LevelConfig 中缺失的可选字段设置默认值
func applyDefaults(config *LevelConfig) {
	if config.StartingGold == 0 {
		config.StartingGold = 100
	}
	if config.MaxGold == 0 {
		config.MaxGold = 9999
	}
	if config.PlayerBaseHP == 0 {
		config.PlayerBaseHP = 1000
	}
	if config.EnemyBaseHP == 0 {
		config.EnemyBaseHP = 1000
	}
	if config.Name == "" {
		config.Name = config.ID
	}
	// Loadout 为空表示全部单位，PlayerTurretTier 为空表示没有炮塔，无需处理
}

// validateLevelConfig 验证关卡配置的完整性和合法性
// 零敌人的波次是合法的（立即完成）
func validateLevelConfig(config *LevelConfig) error {
	if config.ID == "" {
		return fmt.Errorf("level ID is required")
	}
	if config.StartingGold < 0 {
		return fmt.Errorf("startingGold cannot be negative, got %d", config.StartingGold)
	}
	if config.IncomePerSecond < 0 {
		return fmt.Errorf("incomePerSecond cannot be negative")
	}
	if config.PlayerBaseHP < 0 || config.EnemyBaseHP < 0 {
		return fmt.Errorf("base HP cannot be negative")
	}
	if config.FirstWaveDelayMs < 0 {
		return fmt.Errorf("firstWaveDelayMs cannot be negative")
	}
	if len(config.Waves) == 0 {
		return fmt.Errorf("at least one wave is required")
	}

	for i, wave := range config.Waves {
		if wave.DelayAfterMs < 0 {
			return fmt.Errorf("wave %d: delayAfterMs cannot be negative", i+1)
		}
		for j, group := range wave.Groups {
			if group.EnemyID == "" {
				return fmt.Errorf("wave %d, group %d: enemyId is required", i+1, j)
			}
			if group.Count < 0 {
				return fmt.Errorf("wave %d, group %d: count cannot be negative, got %d", i+1, j, group.Count)
			}
			if group.SpawnDelayMs < 0 || group.SpawnIntervalMs < 0 {
				return fmt.Errorf("wave %d, group %d: spawn timings cannot be negative", i+1, j)
			}
		}
	}

	return nil
}

// Validate 交叉验证关卡引用的单位、敌人和炮塔是否存在
// 在战斗开始前调用，避免战斗中出现未知定义
func (c *LevelConfig) Validate(units *UnitRoster, enemies *EnemyRoster, turrets *TurretConfig) error {
	for _, id := range c.Loadout {
		if units == nil || !units.Has(id) {
			return fmt.Errorf("level %s loadout: unit %q: %w", c.ID, id, ErrUnknownDefinition)
		}
	}
	for i, wave := range c.Waves {
		for _, group := range wave.Groups {
			if enemies == nil || !enemies.Has(group.EnemyID) {
				return fmt.Errorf("level %s wave %d: enemy %q: %w", c.ID, i+1, group.EnemyID, ErrUnknownDefinition)
			}
		}
	}
	if c.PlayerTurretTier != "" {
		if turrets == nil {
			return fmt.Errorf("level %s: playerTurretTier set but no turret config", c.ID)
		}
		if _, _, err := turrets.Tier(c.PlayerTurretTier); err != nil {
			return fmt.Errorf("level %s: %w", c.ID, err)
		}
	}
	if c.EnemyTurret && turrets == nil {
		return fmt.Errorf("level %s: enemyTurret set but no turret config", c.ID)
	}
	return nil
}

// ResolveLoadout 返回本关可用单位ID列表
func (c *LevelConfig) ResolveLoadout(units *UnitRoster) []string {
	if len(c.Loadout) > 0 {
		return append([]string(nil), c.Loadout...)
	}
	return units.IDs()
}
