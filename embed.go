// embed.go - 数据文件嵌入声明
// 必须放在项目根目录（与 data/ 同级）
// 因为 //go:embed 指令只能嵌入当前包目录及其子目录的文件
package main

import "embed"

//go:embed data/units.yaml data/enemies.yaml data/turrets.yaml data/levels
var dataFS embed.FS
