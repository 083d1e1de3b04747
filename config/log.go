package config

import (
	"fmt"
	"strings"
)

// LogConfig 日志配置
type LogConfig struct {
	// Level 级别配置，格式: 组件=级别,...,默认级别
	Level string `json:"level"`

	// Format text 或 json
	Format string `json:"format"`

	// FxEvents 是否输出 fx 生命周期事件（zap）
	FxEvents bool `json:"fx_events"`
}

// DefaultLogConfig 返回默认日志配置
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:  "info",
		Format: "text",
	}
}

// Validate 验证日志配置
func (c LogConfig) Validate() error {
	switch strings.ToLower(c.Format) {
	case "", "text", "json":
		return nil
	default:
		return fmt.Errorf("unsupported log format %q", c.Format)
	}
}
