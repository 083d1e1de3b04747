package endpoint

import (
	"context"
	"errors"
	"net/netip"
	"sync"
	"time"

	"github.com/quic-go/quic-go"

	pkgif "github.com/dep2p/go-txforward/pkg/interfaces"
)

const (
	// closeCodeNormal 正常关闭连接的应用错误码
	closeCodeNormal quic.ApplicationErrorCode = 0

	// cancelCodeAbort 放弃单向流的错误码
	cancelCodeAbort quic.StreamErrorCode = 0
)

// conn 包装 *quic.Conn
type conn struct {
	mu   sync.Mutex
	qc   *quic.Conn
	addr netip.AddrPort
}

var _ pkgif.Connection = (*conn)(nil)

func newConn(qc *quic.Conn, addr netip.AddrPort) *conn {
	return &conn{qc: qc, addr: addr}
}

func (c *conn) current() *quic.Conn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.qc
}

// OpenSendStream 打开单向发送流
//
// 0-RTT 被目标端拒绝时切换到握手完成后的连接再重试一次。
func (c *conn) OpenSendStream(ctx context.Context) (pkgif.SendStream, error) {
	qc := c.current()
	s, err := qc.OpenUniStreamSync(ctx)
	if errors.Is(err, quic.Err0RTTRejected) {
		next, nerr := qc.NextConnection(ctx)
		if nerr != nil {
			return nil, nerr
		}
		c.mu.Lock()
		c.qc = next
		c.mu.Unlock()
		logger.Debug("0-RTT 被拒绝，切换到 1-RTT 连接", "addr", c.addr.String())
		s, err = next.OpenUniStreamSync(ctx)
	}
	if err != nil {
		return nil, err
	}
	return &sendStream{s: s}, nil
}

// Done 连接终止时关闭
func (c *conn) Done() <-chan struct{} {
	return c.current().Context().Done()
}

// Close 关闭连接
func (c *conn) Close() error {
	return c.current().CloseWithError(closeCodeNormal, "")
}

// sendStream 包装 *quic.SendStream
type sendStream struct {
	s *quic.SendStream
}

var _ pkgif.SendStream = (*sendStream)(nil)

func (s *sendStream) Write(p []byte) (int, error) {
	return s.s.Write(p)
}

func (s *sendStream) SetWriteDeadline(t time.Time) error {
	return s.s.SetWriteDeadline(t)
}

// Close 发送 FIN
func (s *sendStream) Close() error {
	return s.s.Close()
}

// CancelWrite 放弃流上未发送的数据
func (s *sendStream) CancelWrite() {
	s.s.CancelWrite(cancelCodeAbort)
}
