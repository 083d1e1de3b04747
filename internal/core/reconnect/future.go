package reconnect

import (
	"context"
	"sync"

	pkgif "github.com/dep2p/go-txforward/pkg/interfaces"
)

// dialFuture 一次进行中的建连，所有等待者共享结果
type dialFuture struct {
	done chan struct{}
	conn pkgif.Connection
	err  error
	once sync.Once
}

func newDialFuture() *dialFuture {
	return &dialFuture{done: make(chan struct{})}
}

func (f *dialFuture) complete(conn pkgif.Connection, err error) {
	f.once.Do(func() {
		f.conn = conn
		f.err = err
		close(f.done)
	})
}

// wait 等待建连结果，ctx 结束时提前返回，不影响建连本身
func (f *dialFuture) wait(ctx context.Context) (pkgif.Connection, error) {
	select {
	case <-f.done:
		return f.conn, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
