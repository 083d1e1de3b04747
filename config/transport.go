package config

import (
	"errors"
	"net/netip"
	"time"
)

// ALPNTransactionProtocol 目标端期望的应用层协议标识
const ALPNTransactionProtocol = "solana-tpu"

// TransportConfig 出站 QUIC 端点配置
//
// 参数需要与目标端的服务器配置对齐：
//   - 不接受对端发起的流
//   - 空闲超时与目标端公布的最大值一致
//   - 不发送 keep-alive
type TransportConfig struct {
	// ALPN 应用层协议标识
	ALPN string `json:"alpn"`

	// MaxIdleTimeout 连接空闲超时
	MaxIdleTimeout Duration `json:"max_idle_timeout"`

	// KeepAlivePeriod keep-alive 周期，0 表示禁用
	KeepAlivePeriod Duration `json:"keep_alive_period"`

	// MaxConcurrentStreams 目标端允许的最大并发流，同时也是批次分块大小
	MaxConcurrentStreams int `json:"max_concurrent_streams"`

	// DialTimeout 单次建连超时
	DialTimeout Duration `json:"dial_timeout"`

	// HandshakeTimeout 握手空闲超时
	HandshakeTimeout Duration `json:"handshake_timeout"`

	// Enable0RTT 是否尝试 0-RTT
	Enable0RTT bool `json:"enable_0rtt"`

	// BindAddr 本地 UDP 绑定 IP
	BindAddr string `json:"bind_addr"`

	// PortRangeStart/PortRangeEnd 本地端口范围 [start, end)，均为 0 时使用随机端口
	PortRangeStart int `json:"port_range_start"`
	PortRangeEnd   int `json:"port_range_end"`
}

// DefaultTransportConfig 返回默认传输配置
func DefaultTransportConfig() TransportConfig {
	return TransportConfig{
		ALPN:                 ALPNTransactionProtocol,
		MaxIdleTimeout:       Duration(2 * time.Second), // 目标端 QUIC 最大空闲超时
		KeepAlivePeriod:      0,
		MaxConcurrentStreams: 6,
		DialTimeout:          Duration(5 * time.Second),
		HandshakeTimeout:     Duration(2 * time.Second),
		Enable0RTT:           true,
		BindAddr:             "0.0.0.0",
		PortRangeStart:       8000,
		PortRangeEnd:         10000,
	}
}

// Validate 验证传输配置
func (c TransportConfig) Validate() error {
	if c.ALPN == "" {
		return errors.New("alpn must not be empty")
	}
	if c.MaxIdleTimeout.Duration() <= 0 {
		return errors.New("max_idle_timeout must be positive")
	}
	if c.KeepAlivePeriod.Duration() < 0 {
		return errors.New("keep_alive_period must not be negative")
	}
	if c.MaxConcurrentStreams <= 0 {
		return errors.New("max_concurrent_streams must be positive")
	}
	if c.DialTimeout.Duration() <= 0 {
		return errors.New("dial_timeout must be positive")
	}
	if c.HandshakeTimeout.Duration() < 0 {
		return errors.New("handshake_timeout must not be negative")
	}
	if _, err := netip.ParseAddr(c.BindAddr); err != nil {
		return errors.New("bind_addr must be an IP address")
	}
	if c.PortRangeStart != 0 || c.PortRangeEnd != 0 {
		if c.PortRangeStart <= 0 || c.PortRangeEnd > 65536 || c.PortRangeStart >= c.PortRangeEnd {
			return errors.New("port range must satisfy 0 < start < end <= 65536")
		}
	}
	return nil
}
