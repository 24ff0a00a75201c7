package config

// 战斗参数常量
// 所有时间以毫秒为单位，距离以像素为单位
const (
	// BaseAttackIntervalMs 攻击冷却的基础间隔
	// 单位定义中 attackIntervalMs 为 0 时使用该值
	BaseAttackIntervalMs = 1000.0

	// BaseHealIntervalMs 治疗冷却的基础间隔
	BaseHealIntervalMs = 1000.0

	// DeathAnimationMs 死亡动画时长，结束后实体被删除
	DeathAnimationMs = 600.0

	// ProjectileArrivalThreshold 子弹到达判定距离
	ProjectileArrivalThreshold = 10.0

	// DefaultProjectileSpeed 未配置时的子弹速度（像素/秒）
	DefaultProjectileSpeed = 300.0

	// SplashDamageFactor 溅射伤害占主目标伤害的比例
	SplashDamageFactor = 0.5

	// BlockingRange 坦克阻挡距离：坦克前方该距离内的敌人停止前进
	BlockingRange = 40.0

	// FlyingBobAmplitude 飞行单位上下浮动幅度
	FlyingBobAmplitude = 8.0

	// FlyingBobAngularSpeed 飞行单位浮动角速度（弧度/秒）
	FlyingBobAngularSpeed = 3.0

	// DamageNumberLifetimeMs 伤害数字显示时长
	DamageNumberLifetimeMs = 800.0

	// DamageNumberRiseSpeed 伤害数字上升速度（像素/秒）
	DamageNumberRiseSpeed = 40.0
)
