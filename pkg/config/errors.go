package config

import "errors"

// ErrUnknownDefinition 请求的单位/敌人/炮塔定义不存在
// 属于配置错误，调用方不能静默忽略
var ErrUnknownDefinition = errors.New("unknown definition")
