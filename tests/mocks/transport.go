package mocks

import (
	"bytes"
	"context"
	"net/netip"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dep2p/go-txforward/pkg/interfaces"
)

// ============================================================================
//                              MockDialer
// ============================================================================

// MockDialer 模拟 Dialer
type MockDialer struct {
	DialFunc func(ctx context.Context, addr netip.AddrPort) (interfaces.Connection, error)

	dials atomic.Int64

	mu    sync.Mutex
	conns []*MockConnection
}

var _ interfaces.Dialer = (*MockDialer)(nil)

// NewMockDialer 创建默认返回新 MockConnection 的 MockDialer
func NewMockDialer() *MockDialer {
	return &MockDialer{}
}

// Dial 拨号
func (m *MockDialer) Dial(ctx context.Context, addr netip.AddrPort) (interfaces.Connection, error) {
	m.dials.Add(1)
	if m.DialFunc != nil {
		return m.DialFunc(ctx, addr)
	}
	conn := NewMockConnection()
	m.mu.Lock()
	m.conns = append(m.conns, conn)
	m.mu.Unlock()
	return conn, nil
}

// DialCount 返回拨号次数
func (m *MockDialer) DialCount() int {
	return int(m.dials.Load())
}

// Connections 返回默认路径创建的连接
func (m *MockDialer) Connections() []*MockConnection {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*MockConnection(nil), m.conns...)
}

// ============================================================================
//                              MockConnection
// ============================================================================

// MockConnection 模拟 Connection
type MockConnection struct {
	OpenSendStreamFunc func(ctx context.Context) (interfaces.SendStream, error)

	done      chan struct{}
	closeOnce sync.Once

	mu      sync.Mutex
	streams []*MockSendStream
}

var _ interfaces.Connection = (*MockConnection)(nil)

// NewMockConnection 创建 MockConnection
func NewMockConnection() *MockConnection {
	return &MockConnection{done: make(chan struct{})}
}

// OpenSendStream 打开流
func (m *MockConnection) OpenSendStream(ctx context.Context) (interfaces.SendStream, error) {
	if m.OpenSendStreamFunc != nil {
		return m.OpenSendStreamFunc(ctx)
	}
	select {
	case <-m.done:
		return nil, context.Canceled
	default:
	}
	s := NewMockSendStream()
	m.mu.Lock()
	m.streams = append(m.streams, s)
	m.mu.Unlock()
	return s, nil
}

// Done 返回关闭信号
func (m *MockConnection) Done() <-chan struct{} {
	return m.done
}

// Close 关闭连接
func (m *MockConnection) Close() error {
	m.closeOnce.Do(func() { close(m.done) })
	return nil
}

// IsClosed 检查是否已关闭
func (m *MockConnection) IsClosed() bool {
	select {
	case <-m.done:
		return true
	default:
		return false
	}
}

// Streams 返回已打开的流
func (m *MockConnection) Streams() []*MockSendStream {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*MockSendStream(nil), m.streams...)
}

// ============================================================================
//                              MockSendStream
// ============================================================================

// MockSendStream 模拟 SendStream
type MockSendStream struct {
	WriteFunc func(p []byte) (int, error)

	mu       sync.Mutex
	buf      bytes.Buffer
	deadline time.Time
	closed   bool
	canceled bool
}

var _ interfaces.SendStream = (*MockSendStream)(nil)

// NewMockSendStream 创建 MockSendStream
func NewMockSendStream() *MockSendStream {
	return &MockSendStream{}
}

// Write 写入数据
func (m *MockSendStream) Write(p []byte) (int, error) {
	if m.WriteFunc != nil {
		return m.WriteFunc(p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.buf.Write(p)
}

// SetWriteDeadline 记录写超时
func (m *MockSendStream) SetWriteDeadline(t time.Time) error {
	m.mu.Lock()
	m.deadline = t
	m.mu.Unlock()
	return nil
}

// Close 关闭流
func (m *MockSendStream) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

// CancelWrite 中止流
func (m *MockSendStream) CancelWrite() {
	m.mu.Lock()
	m.canceled = true
	m.mu.Unlock()
}

// Bytes 返回写入的数据
func (m *MockSendStream) Bytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.buf.Bytes()...)
}

// Closed 是否已发送 FIN
func (m *MockSendStream) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Deadline 返回最后设置的写超时
func (m *MockSendStream) Deadline() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deadline
}

// ============================================================================
//                              MockSender
// ============================================================================

// MockSender 模拟 Sender，记录每次发送的 payload
type MockSender struct {
	SendFunc func(ctx context.Context, payload []byte) error

	Dest netip.AddrPort

	mu       sync.Mutex
	payloads [][]byte
	closed   bool
}

var _ interfaces.Sender = (*MockSender)(nil)

// NewMockSender 创建 MockSender
func NewMockSender(dest netip.AddrPort) *MockSender {
	return &MockSender{Dest: dest}
}

// Send 记录 payload 后调用 SendFunc
//
// 只有 SendFunc 返回 nil 的 payload 才会被记录。
func (m *MockSender) Send(ctx context.Context, payload []byte) error {
	if m.SendFunc != nil {
		if err := m.SendFunc(ctx, payload); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.payloads = append(m.payloads, append([]byte(nil), payload...))
	m.mu.Unlock()
	return nil
}

// Destination 返回目标地址
func (m *MockSender) Destination() netip.AddrPort {
	return m.Dest
}

// Close 关闭
func (m *MockSender) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

// Payloads 返回成功发送的 payload（按完成顺序）
func (m *MockSender) Payloads() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]byte(nil), m.payloads...)
}

// PayloadStrings 以字符串形式返回 payload
func (m *MockSender) PayloadStrings() []string {
	payloads := m.Payloads()
	out := make([]string, len(payloads))
	for i, p := range payloads {
		out[i] = string(p)
	}
	return out
}

// IsClosed 是否已关闭
func (m *MockSender) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
