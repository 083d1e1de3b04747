package config

import (
	"errors"
	"time"
)

// ForwardConfig 转发引擎配置
//
// 每个目标地址首次出现时创建 LanesPerDestination 条 lane，
// 每条 lane 拥有独立的有界队列和独立的 QUIC 连接。
type ForwardConfig struct {
	// LanesPerDestination 每个目标地址的并行 lane 数量（创建后固定）
	LanesPerDestination int `json:"lanes_per_destination"`

	// QueueCapacity 每条 lane 入站队列容量（单位：包）
	QueueCapacity int `json:"queue_capacity"`

	// BatchTimeout 单个批次发送的总超时，超时后整批丢弃
	BatchTimeout Duration `json:"batch_timeout"`
}

// DefaultForwardConfig 返回默认转发配置
func DefaultForwardConfig() ForwardConfig {
	return ForwardConfig{
		LanesPerDestination: 4,                                // 每个目标 4 条 lane
		QueueCapacity:       100_000,                          // 队列满时 dispatcher 阻塞
		BatchTimeout:        Duration(500 * time.Millisecond), // 批次硬超时
	}
}

// Validate 验证转发配置
func (c ForwardConfig) Validate() error {
	if c.LanesPerDestination <= 0 {
		return errors.New("lanes_per_destination must be positive")
	}
	if c.QueueCapacity <= 0 {
		return errors.New("queue_capacity must be positive")
	}
	if c.BatchTimeout.Duration() <= 0 {
		return errors.New("batch_timeout must be positive")
	}
	return nil
}
