package endpoint

import "errors"

var (
	// ErrEndpointClosed 端点已关闭
	ErrEndpointClosed = errors.New("endpoint closed")

	// ErrNoIdentity 缺少签名身份
	ErrNoIdentity = errors.New("identity is nil")

	// ErrNoPortAvailable 端口范围内无可用端口
	ErrNoPortAvailable = errors.New("no udp port available in range")
)
