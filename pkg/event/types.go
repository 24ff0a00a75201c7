package event

const (
	UnitDied      Type = "UnitDied"      // 单位进入死亡状态
	GoldEarned    Type = "GoldEarned"    // 敌人死亡掉落金币
	EnemyKilled   Type = "EnemyKilled"   // 敌人被击杀
	WaveStarted   Type = "WaveStarted"   // 新一波开始
	WaveCompleted Type = "WaveCompleted" // 一波全部被消灭
	BaseDestroyed Type = "BaseDestroyed" // 基地被摧毁
)

// UnitDiedData UnitDied 事件数据
type UnitDiedData struct {
	EntityID uint64
	UnitID   string
	IsEnemy  bool
}

// GoldEarnedData GoldEarned 事件数据
type GoldEarnedData struct {
	Amount int
	Source uint64 // 掉落金币的实体
}

// EnemyKilledData EnemyKilled 事件数据
type EnemyKilledData struct {
	EntityID uint64
	EnemyID  string
	Wave     int // 敌人所属波次
}

// WaveData WaveStarted / WaveCompleted 事件数据
type WaveData struct {
	Wave         int
	DelayAfterMs float64
}

// BaseDestroyedData BaseDestroyed 事件数据
type BaseDestroyedData struct {
	IsEnemy bool
}
