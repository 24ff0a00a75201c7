// balance 用自动策略无头跑完所有关卡，输出结果用于平衡性调整
//
// 直接读取磁盘上的定义文件，改完数值不需要重新编译主程序。
// 用法：go run ./cmd/balance -dir data
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/decker502/lanedefense/internal/headless"
	"github.com/decker502/lanedefense/pkg/config"
	"github.com/decker502/lanedefense/pkg/systems"
)

var (
	dir     = flag.String("dir", "data", "定义文件目录")
	ticks   = flag.Int("ticks", 40000, "每关最多推进的 tick 数")
	idle    = flag.Bool("idle", false, "不出兵，只验证敌人能否攻破基地")
	verbose = flag.Bool("verbose", false, "显示详细调试信息")
)

func main() {
	flag.Parse()
	if !*verbose {
		log.SetOutput(io.Discard)
	}

	catalog, err := config.LoadCatalogDir(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	paths, err := filepath.Glob(filepath.Join(*dir, "levels", "level-*.yaml"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	for _, path := range paths {
		level, err := config.LoadLevelConfig(path)
		if err != nil {
			fmt.Printf("%s: %v\n", path, err)
			continue
		}
		battle, err := systems.NewBattleSystem(systems.BattleOptions{Catalog: catalog, Level: level})
		if err != nil {
			fmt.Printf("%s: %v\n", path, err)
			continue
		}

		var strategy headless.Strategy
		greedy := &headless.GreedyStrategy{}
		if !*idle {
			strategy = greedy
		}
		report := headless.NewRunner(battle, strategy).Run(*ticks)
		fmt.Printf("level %-3s %s (spawned %d, turret upgrades %d)\n", level.ID, report, greedy.Spawned, greedy.Upgrades)
	}
}
