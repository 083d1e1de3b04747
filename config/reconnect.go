package config

import (
	"errors"
	"time"
)

// ReconnectConfig 重连退避配置
//
// 建连失败后进入退避窗口，窗口内的发送直接失败，不再拨号。
// 退避时长按 Multiplier 指数增长，上限 MaxDelay，并叠加 Jitter 比例的随机抖动。
type ReconnectConfig struct {
	// InitialDelay 首次失败后的退避时长
	InitialDelay Duration `json:"initial_delay"`

	// MaxDelay 退避上限
	MaxDelay Duration `json:"max_delay"`

	// Multiplier 退避乘数
	Multiplier float64 `json:"multiplier"`

	// Jitter 抖动比例 [0, 1)
	Jitter float64 `json:"jitter"`
}

// DefaultReconnectConfig 返回默认重连配置
func DefaultReconnectConfig() ReconnectConfig {
	return ReconnectConfig{
		InitialDelay: Duration(100 * time.Millisecond),
		MaxDelay:     Duration(5 * time.Second),
		Multiplier:   2.0,
		Jitter:       0.2,
	}
}

// Validate 验证重连配置
func (c ReconnectConfig) Validate() error {
	if c.InitialDelay.Duration() < 0 {
		return errors.New("initial_delay must not be negative")
	}
	if c.MaxDelay.Duration() < c.InitialDelay.Duration() {
		return errors.New("max_delay must be >= initial_delay")
	}
	if c.Multiplier < 1 {
		return errors.New("multiplier must be >= 1")
	}
	if c.Jitter < 0 || c.Jitter >= 1 {
		return errors.New("jitter must be in [0, 1)")
	}
	return nil
}
