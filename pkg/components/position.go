package components

// PositionComponent 存储实体在世界坐标系中的位置
// 对于单位，Y 始终是通道坐标；飞行单位的浮动偏移只影响绘制
type PositionComponent struct {
	X float64 // 世界坐标X
	Y float64 // 世界坐标Y
}

// FlyingComponent 飞行单位的浮动动画状态
type FlyingComponent struct {
	BobPhase float64 // 当前相位（弧度）
	Offset   float64 // 当前垂直偏移（像素），仅用于绘制
}
