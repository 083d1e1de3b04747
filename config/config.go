// Package config 提供统一的配置管理
//
// 主 Config 结构体嵌入所有子配置，每个子配置在独立文件中定义，
// 支持从 JSON 加载。
//
// 使用示例：
//
//	cfg := config.NewConfig()
//	cfg.Forward.LanesPerDestination = 8
//
//	// 从文件加载
//	cfg, err := config.LoadFile("txforward.json")
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config 是 txforward 的完整配置结构
//
// 配置按照功能模块组织：
//   - Identity: 签名身份（Ed25519 keypair）
//   - Transport: 出站 QUIC 端点参数
//   - Forward: lane 数量、队列容量、批次超时
//   - Reconnect: 重连退避策略
//   - Metrics: Prometheus 指标
//   - Log: 日志级别与格式
type Config struct {
	// Identity 身份配置
	Identity IdentityConfig `json:"identity"`

	// Transport 传输层配置
	Transport TransportConfig `json:"transport"`

	// Forward 转发配置
	Forward ForwardConfig `json:"forward"`

	// Reconnect 重连配置
	Reconnect ReconnectConfig `json:"reconnect"`

	// Metrics 指标配置
	Metrics MetricsConfig `json:"metrics"`

	// Log 日志配置
	Log LogConfig `json:"log"`
}

// NewConfig 创建默认配置
func NewConfig() *Config {
	return &Config{
		Identity:  DefaultIdentityConfig(),
		Transport: DefaultTransportConfig(),
		Forward:   DefaultForwardConfig(),
		Reconnect: DefaultReconnectConfig(),
		Metrics:   DefaultMetricsConfig(),
		Log:       DefaultLogConfig(),
	}
}

// Validate 验证配置的有效性
func (c *Config) Validate() error {
	if err := c.Identity.Validate(); err != nil {
		return fmt.Errorf("identity: %w", err)
	}
	if err := c.Transport.Validate(); err != nil {
		return fmt.Errorf("transport: %w", err)
	}
	if err := c.Forward.Validate(); err != nil {
		return fmt.Errorf("forward: %w", err)
	}
	if err := c.Reconnect.Validate(); err != nil {
		return fmt.Errorf("reconnect: %w", err)
	}
	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}

// FromJSON 从 JSON 数据创建配置
//
// 未出现的字段保留默认值。
func FromJSON(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile 从 JSON 文件加载配置
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return FromJSON(data)
}

// ToJSON 序列化配置
func (c *Config) ToJSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}
