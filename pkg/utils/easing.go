package utils

import "math"

// 缓动函数接受进度 t ∈ [0, 1]，返回缓动后的值 ∈ [0, 1]
// 参考：https://easings.net/

// EaseOutQuad 二次方缓出（飘字上升）
// 公式：f(t) = 1 - (1-t)²
func EaseOutQuad(t float64) float64 {
	t = Clamp01(t)
	return 1 - (1-t)*(1-t)
}

// EaseInQuad 二次方缓入（飘字淡出）
// 公式：f(t) = t²
func EaseInQuad(t float64) float64 {
	t = Clamp01(t)
	return t * t
}

// Lerp 线性插值
// t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp01 把 t 限制在 [0, 1]
func Clamp01(t float64) float64 {
	return math.Max(0, math.Min(1, t))
}

// Ratio 计算 value/max 并限制在 [0, 1]，max <= 0 时返回 0
// 用于血条和冷却遮罩
func Ratio(value, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return Clamp01(value / max)
}
