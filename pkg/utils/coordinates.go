// coordinates.go 世界坐标到屏幕坐标的转换
//
// 战场的逻辑尺寸与屏幕逻辑尺寸相同（ebiten Layout 负责缩放），
// 因此水平方向不需要转换。飞行单位的逻辑位置在地面通道上，
// 只在绘制时抬高 FlyingAltitude。

package utils

import "github.com/decker502/lanedefense/pkg/config"

// UnitScreenPosition 返回单位脚底中心的屏幕坐标
func UnitScreenPosition(x, y float64, isFlying bool) (float64, float64) {
	if isFlying {
		return x, y - config.FlyingAltitude
	}
	return x, y
}

// CenteredRect 返回以 (cx, bottom) 为底边中点的矩形
func CenteredRect(cx, bottom, w, h float64) Rect {
	return Rect{X: cx - w/2, Y: bottom - h, W: w, H: h}
}

// BarWidth 按比例计算血条或进度条的填充宽度
func BarWidth(value, max int, width float64) float64 {
	return width * Ratio(float64(value), float64(max))
}
