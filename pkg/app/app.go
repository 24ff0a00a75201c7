// Package app 提供桌面模式的 ebiten.Game 包装器
//
// 该包把定义加载、持久化存储、音频和场景管理组装起来，
// main.go 只负责解析命令行参数并调用 NewApp()。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"
	"sort"

	"github.com/decker502/lanedefense/pkg/config"
	"github.com/decker502/lanedefense/pkg/game"
	"github.com/decker502/lanedefense/pkg/scenes"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"
)

// AppName gdata 存储使用的应用名
const AppName = "lanedefense"

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Level 指定要加载的关卡（如 "2"），为空则加载第一关
	Level string
}

// App 是游戏应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager             *game.SceneManager
	settings                 *game.SettingsManager
	verbose                  bool
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化游戏应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	catalog, err := config.LoadCatalog()
	if err != nil {
		return nil, fmt.Errorf("定义加载失败: %w", err)
	}
	levelIDs, err := config.EmbeddedLevelIDs()
	if err != nil {
		return nil, fmt.Errorf("关卡列表加载失败: %w", err)
	}
	if len(levelIDs) == 0 {
		return nil, fmt.Errorf("no embedded levels")
	}
	log.Printf("[App] Loaded %d units, %d enemies, %d levels",
		len(catalog.Units.Units), len(catalog.Enemies.Enemies), len(levelIDs))

	// 存储打不开时降级为内存模式
	store, err := gdata.Open(gdata.Config{AppName: AppName})
	if err != nil {
		log.Printf("[App] Warning: persistent storage unavailable: %v", err)
		store = nil
	}
	settings := game.NewSettingsManager(store)
	upgrades := game.NewUpgradeManager(store)
	ebiten.SetFullscreen(settings.GetSettings().Fullscreen)

	audioContext := audio.NewContext(game.SampleRate)
	audioManager := game.NewAudioManager(audioContext, settings)
	audioManager.PreloadCues()
	log.Printf("[App] AudioManager initialized")

	sceneManager := game.NewSceneManager()
	sceneManager.SetSceneFactory(func(levelID string) (game.Scene, error) {
		level, err := catalog.LoadEmbeddedLevel(levelID)
		if err != nil {
			return nil, err
		}
		scene, err := scenes.NewBattleScene(scenes.BattleSceneOptions{
			SceneManager: sceneManager,
			Catalog:      catalog,
			Level:        level,
			NextLevelID:  NextLevelID(levelIDs, levelID),
			Settings:     settings,
			Upgrades:     upgrades,
			Cues:         audioManager,
		})
		if err != nil {
			return nil, err
		}
		return scene, nil
	})

	levelToLoad := cfg.Level
	if levelToLoad == "" {
		levelToLoad = levelIDs[0]
	}
	log.Printf("[App] Starting level: %s", levelToLoad)
	if err := sceneManager.LoadLevel(levelToLoad); err != nil {
		return nil, err
	}

	return &App{
		sceneManager: sceneManager,
		settings:     settings,
		verbose:      cfg.Verbose,
	}, nil
}

// NextLevelID 返回 levelID 之后的关卡，最后一关返回空字符串
func NextLevelID(levelIDs []string, levelID string) string {
	ids := append([]string(nil), levelIDs...)
	sort.Strings(ids)
	for i, id := range ids {
		if id == levelID && i+1 < len(ids) {
			return ids[i+1]
		}
	}
	return ""
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(int(config.FieldWidth), int(config.FieldHeight))
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
		} else {
			ebiten.SetFullscreen(true)
		}
		a.settings.SetFullscreen(ebiten.IsFullscreen())
	}

	deltaTime := 1.0 / float64(ebiten.TPS())
	a.sceneManager.Update(deltaTime)
	return nil
}

// Draw 绘制游戏画面
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回游戏的逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return int(config.FieldWidth), int(config.FieldHeight)
}

// SaveOnExit 窗口关闭时保存当前场景
func (a *App) SaveOnExit() {
	if saveable, ok := a.sceneManager.GetCurrentScene().(game.Saveable); ok {
		if !saveable.SaveOnExit() {
			log.Printf("[App] Warning: save on exit failed")
		}
	}
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
