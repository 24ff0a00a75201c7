package core

// 战斗音效提示名称
const (
	CueWaveStart       = "wave_start"
	CueWaveComplete    = "wave_complete"
	CueBossSpawn       = "boss_spawn"
	CueSpawnMelee      = "spawn_melee"
	CueSpawnRanged     = "spawn_ranged"
	CueSpawnHeavy      = "spawn_heavy"
	CuePurchaseSuccess = "purchase_success"
	CuePurchaseFail    = "purchase_fail"
	CueTurretUpgrade   = "turret_upgrade"
	CueVictory         = "victory"
	CueDefeat          = "defeat"
)

// CueSink 音效提示接收者
// 模拟核心只负责发出提示，播放与否由实现决定，不关心结果
type CueSink interface {
	PlayCue(name string)
}

// NopCues 丢弃所有提示（无头模式使用）
type NopCues struct{}

// PlayCue 实现 CueSink
func (NopCues) PlayCue(string) {}

// CueFunc 将函数适配为 CueSink
type CueFunc func(name string)

// PlayCue 实现 CueSink
func (f CueFunc) PlayCue(name string) {
	f(name)
}
