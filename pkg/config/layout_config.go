package config

// 布局配置常量
// 战场是一条水平通道：玩家基地在左，敌方基地在右
// 所有坐标使用世界坐标（像素），X 轴向右为正
const (
	// FieldWidth 战场宽度
	FieldWidth = 960.0

	// FieldHeight 战场高度
	FieldHeight = 540.0

	// LaneY 地面单位所在的Y坐标
	LaneY = 360.0

	// FlyingAltitude 飞行单位相对地面的高度
	// 飞行单位的逻辑位置仍在 LaneY，仅绘制时抬高
	FlyingAltitude = 70.0

	// PlayerBaseX 玩家基地前沿X坐标
	PlayerBaseX = 80.0

	// EnemyBaseX 敌方基地前沿X坐标
	EnemyBaseX = 880.0

	// BaseWidth 基地绘制宽度
	BaseWidth = 70.0

	// BaseHeight 基地绘制高度
	BaseHeight = 160.0

	// PlayerSpawnX 玩家单位出生点
	PlayerSpawnX = PlayerBaseX + 10.0

	// EnemySpawnX 敌方单位出生点
	EnemySpawnX = EnemyBaseX - 10.0

	// TurretOffsetY 炮塔相对通道的垂直偏移（炮塔架在基地顶部）
	TurretOffsetY = -BaseHeight + 20.0
)

// PlayerTurretPosition 返回玩家炮塔位置
func PlayerTurretPosition() (float64, float64) {
	return PlayerBaseX - BaseWidth/2, LaneY + TurretOffsetY
}

// EnemyTurretPosition 返回敌方炮塔位置
func EnemyTurretPosition() (float64, float64) {
	return EnemyBaseX + BaseWidth/2, LaneY + TurretOffsetY
}
