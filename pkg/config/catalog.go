package config

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/decker502/lanedefense/pkg/embedded"
)

// 嵌入定义文件路径
const (
	UnitsPath   = "data/units.yaml"
	EnemiesPath = "data/enemies.yaml"
	TurretsPath = "data/turrets.yaml"
	LevelsDir   = "data/levels"
)

// Catalog 一场战斗所需的全部静态定义
type Catalog struct {
	Units   *UnitRoster
	Enemies *EnemyRoster
	Turrets *TurretConfig
}

// LoadCatalog 从嵌入文件系统加载定义
// 调用前必须完成 embedded.Init()
func LoadCatalog() (*Catalog, error) {
	read := func(path string) ([]byte, error) {
		data, err := embedded.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		return data, nil
	}

	unitsData, err := read(UnitsPath)
	if err != nil {
		return nil, err
	}
	enemiesData, err := read(EnemiesPath)
	if err != nil {
		return nil, err
	}
	turretsData, err := read(TurretsPath)
	if err != nil {
		return nil, err
	}
	return ParseCatalog(unitsData, enemiesData, turretsData)
}

// LoadCatalogDir 从磁盘目录加载定义（用于调试自定义数据）
// dir 下应包含 units.yaml、enemies.yaml、turrets.yaml
func LoadCatalogDir(dir string) (*Catalog, error) {
	units, err := LoadUnitRoster(filepath.Join(dir, "units.yaml"))
	if err != nil {
		return nil, err
	}
	enemies, err := LoadEnemyRoster(filepath.Join(dir, "enemies.yaml"))
	if err != nil {
		return nil, err
	}
	turrets, err := LoadTurretConfig(filepath.Join(dir, "turrets.yaml"))
	if err != nil {
		return nil, err
	}
	return &Catalog{Units: units, Enemies: enemies, Turrets: turrets}, nil
}

// ParseCatalog 解析三份定义文件
func ParseCatalog(unitsData, enemiesData, turretsData []byte) (*Catalog, error) {
	units, err := ParseUnitRoster(unitsData)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", UnitsPath, err)
	}
	enemies, err := ParseEnemyRoster(enemiesData)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", EnemiesPath, err)
	}
	turrets, err := ParseTurretConfig(turretsData)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", TurretsPath, err)
	}
	return &Catalog{Units: units, Enemies: enemies, Turrets: turrets}, nil
}

// LevelPath 返回关卡文件的嵌入路径
func LevelPath(levelID string) string {
	return fmt.Sprintf("%s/level-%s.yaml", LevelsDir, levelID)
}

// LoadEmbeddedLevel 从嵌入文件系统加载关卡并与目录交叉校验
func (c *Catalog) LoadEmbeddedLevel(levelID string) (*LevelConfig, error) {
	path := LevelPath(levelID)
	data, err := embedded.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	level, err := ParseLevelConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := level.Validate(c.Units, c.Enemies, c.Turrets); err != nil {
		return nil, err
	}
	return level, nil
}

// EmbeddedLevelIDs 列出所有嵌入的关卡ID
func EmbeddedLevelIDs() ([]string, error) {
	matches, err := embedded.Glob(LevelsDir + "/level-*.yaml")
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		base := filepath.Base(m)
		ids = append(ids, strings.TrimSuffix(strings.TrimPrefix(base, "level-"), ".yaml"))
	}
	sort.Strings(ids)
	return ids, nil
}
