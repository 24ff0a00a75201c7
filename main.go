package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/decker502/lanedefense/internal/headless"
	"github.com/decker502/lanedefense/internal/tui"
	"github.com/decker502/lanedefense/pkg/app"
	"github.com/decker502/lanedefense/pkg/config"
	"github.com/decker502/lanedefense/pkg/core"
	"github.com/decker502/lanedefense/pkg/embedded"
	"github.com/decker502/lanedefense/pkg/game"
	"github.com/decker502/lanedefense/pkg/scenes"
	"github.com/decker502/lanedefense/pkg/systems"
	"github.com/gdamore/tcell/v2"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/quasilyte/gdata/v2"
)

var (
	mode    = flag.String("mode", "desktop", "运行模式: desktop | tui | headless")
	level   = flag.String("level", "", "关卡ID（如 1），为空加载第一关")
	verbose = flag.Bool("verbose", false, "显示详细日志")
	ticks   = flag.Int("ticks", 20000, "headless 模式最多推进的 tick 数")
	auto    = flag.Bool("auto", true, "headless 模式使用自动出兵策略")
	logPath = flag.String("log", "", "tui 模式的日志文件（为空则丢弃日志）")
)

func main() {
	flag.Parse()
	embedded.Init(dataFS)

	var err error
	switch *mode {
	case "desktop":
		err = runDesktop()
	case "tui":
		err = runTUI()
	case "headless":
		err = runHeadless()
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runDesktop() error {
	a, err := app.NewApp(app.Config{Verbose: *verbose, Level: *level})
	if err != nil {
		return err
	}

	ebiten.SetWindowSize(int(config.FieldWidth), int(config.FieldHeight))
	ebiten.SetWindowTitle("Lane Defense")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)

	err = ebiten.RunGame(&desktopGame{App: a})
	a.SaveOnExit()
	if errors.Is(err, errWindowClosed) {
		return nil
	}
	return err
}

var errWindowClosed = errors.New("window closed")

// desktopGame 在窗口关闭时结束游戏循环，让 main 有机会保存
type desktopGame struct {
	*app.App
}

func (g *desktopGame) Update() error {
	if ebiten.IsWindowBeingClosed() {
		return errWindowClosed
	}
	return g.App.Update()
}

// loadBattle 加载定义和关卡并创建战斗
func loadBattle(cues core.CueSink, upgrades *game.UpgradeManager) (*systems.BattleSystem, error) {
	catalog, err := config.LoadCatalog()
	if err != nil {
		return nil, err
	}
	levelID := *level
	if levelID == "" {
		ids, err := config.EmbeddedLevelIDs()
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return nil, fmt.Errorf("no embedded levels")
		}
		levelID = ids[0]
	}
	lvl, err := catalog.LoadEmbeddedLevel(levelID)
	if err != nil {
		return nil, err
	}

	opts := systems.BattleOptions{Catalog: catalog, Level: lvl, Cues: cues}
	if upgrades != nil {
		opts.Upgrades = upgrades
	}
	return systems.NewBattleSystem(opts)
}

func runHeadless() error {
	if !*verbose {
		log.SetOutput(io.Discard)
	}
	battle, err := loadBattle(nil, nil)
	if err != nil {
		return err
	}

	var strategy headless.Strategy
	if *auto {
		strategy = &headless.GreedyStrategy{}
	}
	report := headless.NewRunner(battle, strategy).Run(*ticks)
	fmt.Println(report)
	return nil
}

func runTUI() error {
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		log.SetOutput(f)
	} else {
		// 终端被 tcell 接管，日志不能写到 stderr
		log.SetOutput(io.Discard)
	}

	store, err := gdata.Open(gdata.Config{AppName: app.AppName})
	if err != nil {
		log.Printf("[Main] Warning: persistent storage unavailable: %v", err)
		store = nil
	}
	settings := game.NewSettingsManager(store)
	upgrades := game.NewUpgradeManager(store)

	cues := tui.NewBeepCues(settings)
	if err := cues.Initialize(); err != nil {
		log.Printf("[Main] Warning: speaker unavailable: %v", err)
	}
	defer cues.Close()

	battle, err := loadBattle(cues, upgrades)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	tui.NewHost(screen, battle).Run()

	if battle.Outcome() == systems.OutcomeVictory {
		upgrades.AwardPoints(scenes.VictoryUpgradePoints)
	}
	if err := upgrades.Save(); err != nil {
		log.Printf("[Main] Failed to save upgrades: %v", err)
	}
	return nil
}
