package reconnect

import (
	"net/netip"
	"time"

	"github.com/dep2p/go-txforward/config"
	pkgif "github.com/dep2p/go-txforward/pkg/interfaces"
)

// Factory 为每条 lane 创建独立的 Transport
//
// 所有 Transport 共享同一个 Dialer（进程级端点）。
type Factory struct {
	dialer      pkgif.Dialer
	cfg         config.ReconnectConfig
	dialTimeout time.Duration
	opts        []Option
}

// NewFactory 创建工厂
func NewFactory(dialer pkgif.Dialer, cfg config.ReconnectConfig, dialTimeout time.Duration, opts ...Option) *Factory {
	return &Factory{
		dialer:      dialer,
		cfg:         cfg,
		dialTimeout: dialTimeout,
		opts:        opts,
	}
}

// NewSender 创建绑定 dest 的新 Transport
func (f *Factory) NewSender(dest netip.AddrPort) pkgif.Sender {
	return New(dest, f.dialer, f.cfg, f.dialTimeout, f.opts...)
}
