package log

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

// 环境变量
const (
	// EnvLogLevel 格式: 组件=级别,组件=级别,默认级别
	// 示例: core/reconnect=debug,core/lane=warn,info
	EnvLogLevel = "TXFORWARD_LOG_LEVEL"
	// EnvLogFormat text 或 json
	EnvLogFormat = "TXFORWARD_LOG_FORMAT"
)

// Config 日志配置
type Config struct {
	// DefaultLevel 默认日志级别
	DefaultLevel slog.Level

	// ComponentLevels 各组件的日志级别
	ComponentLevels map[string]slog.Level

	// JSON 是否使用 JSON 输出
	JSON bool
}

// LevelFor 获取指定组件的日志级别
func (c *Config) LevelFor(component string) slog.Level {
	if level, ok := c.ComponentLevels[component]; ok {
		return level
	}
	return c.DefaultLevel
}

var (
	activeMu sync.RWMutex
	active   = &Config{DefaultLevel: slog.LevelInfo, ComponentLevels: map[string]slog.Level{}}
)

func componentEnabled(component string, level slog.Level) bool {
	activeMu.RLock()
	defer activeMu.RUnlock()
	return level >= active.LevelFor(component)
}

// Setup 应用日志配置并替换默认 handler
//
// handler 本身放行所有级别，过滤由组件级别完成。
func Setup(cfg *Config) {
	if cfg.ComponentLevels == nil {
		cfg.ComponentLevels = map[string]slog.Level{}
	}

	activeMu.Lock()
	active = cfg
	activeMu.Unlock()

	opts := &slog.HandlerOptions{Level: slog.LevelDebug}
	if cfg.JSON {
		SetDefault(NewJSON(os.Stderr, opts))
	} else {
		SetDefault(New(os.Stderr, opts))
	}
}

// ParseConfig 解析级别字符串与格式
//
// levelStr 为空时使用 fallback 级别。
func ParseConfig(levelStr, format string, fallback slog.Level) *Config {
	cfg := &Config{
		DefaultLevel:    fallback,
		ComponentLevels: make(map[string]slog.Level),
		JSON:            strings.EqualFold(format, "json"),
	}

	for _, part := range strings.Split(levelStr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if component, levelName, ok := strings.Cut(part, "="); ok {
			if level, ok := ParseLevel(strings.TrimSpace(levelName)); ok {
				cfg.ComponentLevels[strings.TrimSpace(component)] = level
			}
			continue
		}
		if level, ok := ParseLevel(part); ok {
			cfg.DefaultLevel = level
		}
	}
	return cfg
}

// ConfigFromEnv 从环境变量解析配置，环境变量优先于传入的默认值
func ConfigFromEnv(levelStr, format string) *Config {
	if env := os.Getenv(EnvLogLevel); env != "" {
		levelStr = env
	}
	if env := os.Getenv(EnvLogFormat); env != "" {
		format = env
	}
	return ParseConfig(levelStr, format, slog.LevelInfo)
}

// ParseLevel 解析日志级别名称
func ParseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
