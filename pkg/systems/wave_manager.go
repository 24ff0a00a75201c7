package systems

import (
	"fmt"
	"log"

	"github.com/decker502/lanedefense/pkg/config"
	"github.com/decker502/lanedefense/pkg/core"
	"github.com/decker502/lanedefense/pkg/ecs"
)

// EnemySpawner 按敌人ID创建敌方单位
// wave 为生成该敌人的波次，击杀时随 EnemyKilled 事件带回
type EnemySpawner interface {
	SpawnEnemy(enemyID string, wave int) (ecs.EntityID, error)
}

// spawnState 单个出兵组的进度
type spawnState struct {
	spawned       int
	nextSpawnTime float64
}

// WaveManager 波次调度
//
// 职责：
//   - 按出兵组的延迟和间隔生成敌人
//   - 跟踪本波生成数和击杀数，判定波次完成
//   - 播放波次和 Boss 提示音
//
// 波次完成条件：所有出兵组生成完毕，且本波生成的每个敌人都已被击杀。
// 击杀按敌人所属波次计数，提前开始下一波后，上一波残留敌人的死亡不计入新波次。
// WaveManager 不会自动开始下一波，由驱动器在 OnWaveComplete 给出的延迟后调用 StartNextWave。
type WaveManager struct {
	waves   []config.WaveDefinition
	clock   *core.Clock
	spawner EnemySpawner
	cues    core.CueSink
	bossIDs map[string]bool

	currentWave     int // 从 1 开始，0 表示尚未开始
	spawnStates     []spawnState
	waveActive      bool
	waveEnemyCount  int
	waveKillCount   int
	waitingForKills bool

	// OnWaveStart 新一波开始时调用
	OnWaveStart func(wave int)
	// OnWaveComplete 一波完成时调用，参数为波次编号和该波配置的后续延迟
	OnWaveComplete func(wave int, delayAfterMs float64)
}

// NewWaveManager 创建波次管理器
// cues 为 nil 时不播放提示音；bossIDs 可为 nil
func NewWaveManager(waves []config.WaveDefinition, clock *core.Clock, spawner EnemySpawner, cues core.CueSink, bossIDs map[string]bool) *WaveManager {
	if cues == nil {
		cues = core.NopCues{}
	}
	if bossIDs == nil {
		bossIDs = map[string]bool{}
	}
	return &WaveManager{
		waves:   waves,
		clock:   clock,
		spawner: spawner,
		cues:    cues,
		bossIDs: bossIDs,
	}
}

// StartNextWave 开始下一波
// 所有波次已用完时返回 false 且没有任何副作用
func (wm *WaveManager) StartNextWave() (int, bool) {
	if wm.currentWave >= len(wm.waves) {
		return 0, false
	}

	wm.currentWave++
	if wm.currentWave > 1 {
		wm.cues.PlayCue(core.CueWaveStart)
	}

	wave := wm.waves[wm.currentWave-1]
	now := wm.clock.NowMs()
	wm.spawnStates = make([]spawnState, len(wave.Groups))
	for i, group := range wave.Groups {
		wm.spawnStates[i] = spawnState{nextSpawnTime: now + group.SpawnDelayMs}
	}
	wm.waveEnemyCount = 0
	wm.waveKillCount = 0
	wm.waitingForKills = false
	wm.waveActive = true

	log.Printf("[WaveManager] Wave %d/%d started (%d enemies)", wm.currentWave, len(wm.waves), wave.TotalEnemies())
	if wm.OnWaveStart != nil {
		wm.OnWaveStart(wm.currentWave)
	}
	return wm.currentWave, true
}

// Update 每帧调用：处理到期的出兵，并在同一次调用中检查波次完成
// 生成失败（配置错误）时返回错误，已生成的敌人不受影响
func (wm *WaveManager) Update() error {
	if !wm.waveActive {
		return nil
	}

	wave := wm.waves[wm.currentWave-1]
	now := wm.clock.NowMs()
	allExhausted := true
	var spawnErr error

	for i, group := range wave.Groups {
		state := &wm.spawnStates[i]
		if state.spawned >= group.Count {
			continue
		}
		if now >= state.nextSpawnTime {
			if err := wm.spawn(group.EnemyID); err != nil {
				// 跳过该敌人，避免同一错误每帧重复
				spawnErr = fmt.Errorf("wave %d: %w", wm.currentWave, err)
			} else {
				wm.waveEnemyCount++
			}
			state.spawned++
			state.nextSpawnTime = now + group.SpawnIntervalMs
		}
		if state.spawned < group.Count {
			allExhausted = false
		}
	}

	if allExhausted {
		wm.waveActive = false
		wm.waitingForKills = true
		log.Printf("[WaveManager] Wave %d fully spawned (%d enemies), waiting for kills", wm.currentWave, wm.waveEnemyCount)
	}

	wm.checkWaveComplete()
	return spawnErr
}

func (wm *WaveManager) spawn(enemyID string) error {
	if _, err := wm.spawner.SpawnEnemy(enemyID, wm.currentWave); err != nil {
		return err
	}
	if wm.bossIDs[enemyID] {
		wm.cues.PlayCue(core.CueBossSpawn)
	}
	return nil
}

// NotifyEnemyKilled 记录一次击杀并检查波次完成
// wave 是被击杀敌人所属的波次，不是当前波次的击杀被忽略
func (wm *WaveManager) NotifyEnemyKilled(wave int) {
	if wave != wm.currentWave {
		return
	}
	wm.waveKillCount++
	wm.checkWaveComplete()
}

func (wm *WaveManager) checkWaveComplete() {
	if !wm.waitingForKills || wm.waveKillCount < wm.waveEnemyCount {
		return
	}
	wm.waitingForKills = false
	wm.cues.PlayCue(core.CueWaveComplete)

	delay := wm.waves[wm.currentWave-1].DelayAfterMs
	log.Printf("[WaveManager] Wave %d complete (next in %.0fms)", wm.currentWave, delay)
	if wm.OnWaveComplete != nil {
		wm.OnWaveComplete(wm.currentWave, delay)
	}
}

// ForceNextWave 放弃当前波次的等待，立即开始下一波
func (wm *WaveManager) ForceNextWave() (int, bool) {
	if wm.currentWave >= len(wm.waves) {
		return 0, false
	}
	wm.waveActive = false
	wm.waitingForKills = false
	return wm.StartNextWave()
}

// CurrentWave 当前波次（从 1 开始，0 表示尚未开始）
func (wm *WaveManager) CurrentWave() int { return wm.currentWave }

// TotalWaves 波次总数
func (wm *WaveManager) TotalWaves() int { return len(wm.waves) }

// IsWaveActive 当前波次是否仍在出兵
func (wm *WaveManager) IsWaveActive() bool { return wm.waveActive }

// IsWaitingForKills 是否在等待本波敌人被全部击杀
func (wm *WaveManager) IsWaitingForKills() bool { return wm.waitingForKills }

// IsComplete 当前波次是否已完成
func (wm *WaveManager) IsComplete() bool {
	return wm.currentWave > 0 && !wm.waveActive && !wm.waitingForKills
}

// AllWavesDone 最后一波是否已完成
func (wm *WaveManager) AllWavesDone() bool {
	return wm.currentWave == len(wm.waves) && wm.IsComplete()
}

// WaveCounts 返回本波已生成数和击杀数
func (wm *WaveManager) WaveCounts() (spawned, killed int) {
	return wm.waveEnemyCount, wm.waveKillCount
}
