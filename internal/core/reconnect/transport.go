package reconnect

import (
	"context"
	"fmt"
	"net/netip"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-txforward/config"
	pkgif "github.com/dep2p/go-txforward/pkg/interfaces"
	"github.com/dep2p/go-txforward/pkg/lib/log"
)

var logger = log.Logger("core/reconnect")

// Transport 按需自动重连的发送端
//
// 每个实例只属于一条 lane。
type Transport struct {
	dest        netip.AddrPort
	dialer      pkgif.Dialer
	cfg         config.ReconnectConfig
	dialTimeout time.Duration
	clock       clock.Clock
	metrics     pkgif.Metrics

	// dialCtx 承载后台建连，Close 时取消
	dialCtx    context.Context
	dialCancel context.CancelFunc

	mu       sync.Mutex
	conn     pkgif.Connection
	pending  *dialFuture
	broken   bool
	failures int
	retryAt  time.Time
	lastErr  error
	closed   bool
}

var _ pkgif.Sender = (*Transport)(nil)

// Option 传输选项
type Option func(*Transport)

// WithClock 指定时钟
func WithClock(c clock.Clock) Option {
	return func(t *Transport) {
		t.clock = c
	}
}

// WithMetrics 指定指标收集器
func WithMetrics(m pkgif.Metrics) Option {
	return func(t *Transport) {
		t.metrics = m
	}
}

// New 创建传输，不会立即建连
func New(dest netip.AddrPort, dialer pkgif.Dialer, cfg config.ReconnectConfig, dialTimeout time.Duration, opts ...Option) *Transport {
	t := &Transport{
		dest:        dest,
		dialer:      dialer,
		cfg:         cfg,
		dialTimeout: dialTimeout,
		clock:       clock.New(),
		metrics:     pkgif.NopMetrics{},
	}
	for _, opt := range opts {
		opt(t)
	}
	t.dialCtx, t.dialCancel = context.WithCancel(context.Background())
	return t
}

// Destination 返回目标地址
func (t *Transport) Destination() netip.AddrPort {
	return t.dest
}

// Send 确保连接可用，打开一条新流写入 payload 后关闭流
//
// ctx 的截止时间同时作为流的写超时。失败不重试。
func (t *Transport) Send(ctx context.Context, payload []byte) error {
	conn, err := t.connection(ctx)
	if err != nil {
		return err
	}

	stream, err := conn.OpenSendStream(ctx)
	if err != nil {
		if ctx.Err() == nil {
			t.markBroken(conn, err)
		}
		return fmt.Errorf("open stream to %s: %w", t.dest, err)
	}

	if deadline, ok := ctx.Deadline(); ok {
		if err := stream.SetWriteDeadline(deadline); err != nil {
			stream.CancelWrite()
			return fmt.Errorf("set write deadline: %w", err)
		}
	}

	if _, err := stream.Write(payload); err != nil {
		stream.CancelWrite()
		return fmt.Errorf("write to %s: %w", t.dest, err)
	}

	if err := stream.Close(); err != nil {
		return fmt.Errorf("close stream to %s: %w", t.dest, err)
	}
	return nil
}

// connection 返回存活连接，必要时发起或加入建连
func (t *Transport) connection(ctx context.Context) (pkgif.Connection, error) {
	t.mu.Lock()

	if t.closed {
		t.mu.Unlock()
		return nil, ErrClosed
	}

	if t.conn != nil {
		select {
		case <-t.conn.Done():
			logger.Debug("连接已断开，将重新建连", "dest", t.dest.String())
			t.conn = nil
			t.broken = true
		default:
			conn := t.conn
			t.mu.Unlock()
			return conn, nil
		}
	}

	f := t.pending
	if f == nil {
		if now := t.clock.Now(); now.Before(t.retryAt) {
			err := fmt.Errorf("%w: %s retry in %s: %v", ErrBackoff, t.dest, t.retryAt.Sub(now), t.lastErr)
			t.mu.Unlock()
			return nil, err
		}
		f = newDialFuture()
		t.pending = f
		go t.dial(f)
	}
	t.mu.Unlock()

	return f.wait(ctx)
}

// dial 执行一次建连并完成 future
func (t *Transport) dial(f *dialFuture) {
	ctx, cancel := t.clock.WithTimeout(t.dialCtx, t.dialTimeout)
	defer cancel()

	start := t.clock.Now()
	conn, err := t.dialer.Dial(ctx, t.dest)
	t.metrics.ConnectAttempt(err)

	t.mu.Lock()
	t.pending = nil
	switch {
	case err != nil:
		t.failures++
		t.broken = true
		t.lastErr = err
		delay := backoffDelay(t.cfg, t.failures)
		t.retryAt = t.clock.Now().Add(delay)
		logger.Warn("建连失败",
			"dest", t.dest.String(),
			"failures", t.failures,
			"backoff", delay,
			"err", err)
	case t.closed:
		_ = conn.Close()
		conn = nil
		err = ErrClosed
	default:
		t.conn = conn
		t.broken = false
		t.failures = 0
		t.retryAt = time.Time{}
		t.lastErr = nil
		logger.Debug("建连成功", "dest", t.dest.String(), "elapsed", t.clock.Since(start))
	}
	t.mu.Unlock()

	f.complete(conn, err)
}

// markBroken 丢弃无法开流的连接，下次发送时重连
func (t *Transport) markBroken(conn pkgif.Connection, cause error) {
	t.mu.Lock()
	if t.conn != conn {
		t.mu.Unlock()
		return
	}
	t.conn = nil
	t.broken = true
	t.mu.Unlock()

	logger.Debug("连接不可用，已标记为断开", "dest", t.dest.String(), "err", cause)
	_ = conn.Close()
}

// State 返回当前连接状态
func (t *Transport) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch {
	case t.closed:
		return StateClosed
	case t.pending != nil:
		return StateConnecting
	case t.conn != nil:
		select {
		case <-t.conn.Done():
			return StateBroken
		default:
			return StateLive
		}
	case t.broken:
		return StateBroken
	default:
		return StateAbsent
	}
}

// Close 关闭传输，取消后台建连并关闭当前连接
func (t *Transport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	conn := t.conn
	t.conn = nil
	t.mu.Unlock()

	t.dialCancel()
	if conn != nil {
		return conn.Close()
	}
	return nil
}
