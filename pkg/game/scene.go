package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene 桌面模式下的一个场景（战斗、结算等）
type Scene interface {
	// Update 推进场景逻辑，deltaTime 单位为秒
	Update(deltaTime float64)

	// Draw 将场景绘制到 screen
	Draw(screen *ebiten.Image)
}

// Saveable 可选接口：场景在程序退出时保存状态
// 窗口关闭时由 app 调用，保存失败不阻止退出
type Saveable interface {
	SaveOnExit() bool
}
