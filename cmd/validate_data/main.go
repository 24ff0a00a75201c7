// validate_data 校验磁盘上的定义文件和关卡
//
// 用法：go run ./cmd/validate_data -dir data
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/decker502/lanedefense/pkg/config"
)

var dir = flag.String("dir", "data", "定义文件目录（包含 units.yaml、enemies.yaml、turrets.yaml 和 levels/）")

func main() {
	flag.Parse()

	catalog, err := config.LoadCatalogDir(*dir)
	if err != nil {
		fmt.Printf("❌ 定义加载失败: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ 单位 %d 个，敌人 %d 个，炮塔等级 %d 个\n",
		len(catalog.Units.Units), len(catalog.Enemies.Enemies), len(catalog.Turrets.Tiers))

	paths, err := filepath.Glob(filepath.Join(*dir, "levels", "level-*.yaml"))
	if err != nil || len(paths) == 0 {
		fmt.Printf("❌ 没有找到关卡文件\n")
		os.Exit(1)
	}

	failed := 0
	for _, path := range paths {
		level, err := config.LoadLevelConfig(path)
		if err == nil {
			err = level.Validate(catalog.Units, catalog.Enemies, catalog.Turrets)
		}
		if err != nil {
			fmt.Printf("❌ %s: %v\n", path, err)
			failed++
			continue
		}
		enemies := 0
		for _, wave := range level.Waves {
			enemies += wave.TotalEnemies()
		}
		fmt.Printf("✅ %s: %d 波，%d 个敌人\n", path, len(level.Waves), enemies)
	}

	if failed > 0 {
		fmt.Printf("❌ 有 %d 个关卡校验失败\n", failed)
		os.Exit(1)
	}
}
