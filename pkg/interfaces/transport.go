package interfaces

import (
	"context"
	"net/netip"
	"time"
)

// ============================================================================
//                              Endpoint 层
// ============================================================================

// Dialer 建立到目标端的出站连接
//
// 由进程级 Endpoint 实现，被所有自动重连传输只读共享。
type Dialer interface {
	Dial(ctx context.Context, addr netip.AddrPort) (Connection, error)
}

// Connection 单条出站连接
type Connection interface {
	// OpenSendStream 打开一条新的单向流
	OpenSendStream(ctx context.Context) (SendStream, error)

	// Done 连接关闭后返回的 channel 被关闭
	Done() <-chan struct{}

	// Close 关闭连接
	Close() error
}

// SendStream 单向发送流
type SendStream interface {
	Write(p []byte) (int, error)

	// SetWriteDeadline 设置写超时
	SetWriteDeadline(t time.Time) error

	// Close 发送 FIN，表示流结束
	Close() error

	// CancelWrite 中止流
	CancelWrite()
}

// ============================================================================
//                              Transport 层
// ============================================================================

// Sender 按需自动建连的发送端
//
// 每个实例只被一条 lane 持有。
type Sender interface {
	// Send 确保连接可用后，打开一条新流写入 payload 并关闭流
	//
	// ctx 结束时必须尽快返回，lane 的批次超时依赖这一点。
	Send(ctx context.Context, payload []byte) error

	// Destination 返回目标地址
	Destination() netip.AddrPort

	// Close 关闭底层连接
	Close() error
}
