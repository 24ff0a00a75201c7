package game

import (
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/decker502/lanedefense/pkg/config"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// UpgradeTrack 永久升级路线
type UpgradeTrack string

const (
	TrackOffense UpgradeTrack = "offense"
	TrackDefense UpgradeTrack = "defense"
	TrackUtility UpgradeTrack = "utility"
)

var (
	// ErrNoUpgradePoints 升级点数不足
	ErrNoUpgradePoints = errors.New("no upgrade points available")
	// ErrUpgradeMaxed 该路线已达到最高等级
	ErrUpgradeMaxed = errors.New("upgrade track already at max tier")
	// ErrUnknownTrack 未知升级路线
	ErrUnknownTrack = errors.New("unknown upgrade track")
)

// UpgradeData 持久化的升级数据
type UpgradeData struct {
	Points int                            `yaml:"points"` // 未使用的升级点数（胜利获得）
	Units  map[string]config.UpgradeTiers `yaml:"units"`  // 单位ID -> 升级等级
}

// UpgradeManager 管理玩家单位的永久升级
// 只在单位创建时被读取，战斗中修改升级不影响已存在的单位
type UpgradeManager struct {
	store *gdata.Manager // 可为 nil（降级模式，仅内存）
	data  *UpgradeData
}

const (
	upgradesObject   = "progress"
	upgradesProperty = "upgrades"
)

// NewUpgradeManager 创建升级管理器并加载已保存的数据
func NewUpgradeManager(store *gdata.Manager) *UpgradeManager {
	um := &UpgradeManager{store: store}
	if err := um.Load(); err != nil {
		log.Printf("[UpgradeManager] Warning: Failed to load upgrades: %v (starting fresh)", err)
	}
	return um
}

func newUpgradeData() *UpgradeData {
	return &UpgradeData{Units: make(map[string]config.UpgradeTiers)}
}

// Load 从 gdata 加载升级数据
func (um *UpgradeManager) Load() error {
	um.data = newUpgradeData()
	if um.store == nil || !um.store.ObjectPropExists(upgradesObject, upgradesProperty) {
		return nil
	}

	raw, err := um.store.LoadObjectProp(upgradesObject, upgradesProperty)
	if err != nil {
		return fmt.Errorf("failed to load upgrades: %w", err)
	}

	loaded := newUpgradeData()
	if err := yaml.Unmarshal(raw, loaded); err != nil {
		return fmt.Errorf("failed to unmarshal upgrades: %w", err)
	}
	if loaded.Units == nil {
		loaded.Units = make(map[string]config.UpgradeTiers)
	}
	for id, tiers := range loaded.Units {
		loaded.Units[id] = tiers.Clamp()
	}
	if loaded.Points < 0 {
		loaded.Points = 0
	}
	um.data = loaded
	return nil
}

// Save 保存升级数据到 gdata
func (um *UpgradeManager) Save() error {
	if um.store == nil {
		return nil
	}
	raw, err := yaml.Marshal(um.data)
	if err != nil {
		return fmt.Errorf("failed to marshal upgrades: %w", err)
	}
	if err := um.store.SaveObjectProp(upgradesObject, upgradesProperty, raw); err != nil {
		return fmt.Errorf("failed to save upgrades: %w", err)
	}
	return nil
}

// Tiers 返回单位的升级等级（未升级返回零值）
func (um *UpgradeManager) Tiers(unitID string) config.UpgradeTiers {
	return um.data.Units[unitID]
}

// Points 返回可用升级点数
func (um *UpgradeManager) Points() int {
	return um.data.Points
}

// AwardPoints 增加升级点数
func (um *UpgradeManager) AwardPoints(n int) {
	if n > 0 {
		um.data.Points += n
	}
}

// Upgrade 消耗一个升级点数提升指定路线
func (um *UpgradeManager) Upgrade(unitID string, track UpgradeTrack) error {
	tiers := um.data.Units[unitID]

	var level *int
	switch track {
	case TrackOffense:
		level = &tiers.Offense
	case TrackDefense:
		level = &tiers.Defense
	case TrackUtility:
		level = &tiers.Utility
	default:
		return fmt.Errorf("%q: %w", track, ErrUnknownTrack)
	}

	if *level >= config.MaxUpgradeTier {
		return fmt.Errorf("%s %s: %w", unitID, track, ErrUpgradeMaxed)
	}
	if um.data.Points <= 0 {
		return ErrNoUpgradePoints
	}

	*level++
	um.data.Points--
	um.data.Units[unitID] = tiers
	log.Printf("[UpgradeManager] %s %s -> tier %d", unitID, track, *level)
	return nil
}

// UpgradedUnits 返回有升级记录的单位ID（排序）
func (um *UpgradeManager) UpgradedUnits() []string {
	ids := make([]string, 0, len(um.data.Units))
	for id := range um.data.Units {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
