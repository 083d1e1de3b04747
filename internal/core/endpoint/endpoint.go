package endpoint

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"sync"

	"github.com/quic-go/quic-go"

	"github.com/dep2p/go-txforward/config"
	pkgif "github.com/dep2p/go-txforward/pkg/interfaces"
	"github.com/dep2p/go-txforward/pkg/lib/log"
)

var logger = log.Logger("core/endpoint")

// Endpoint 出站 QUIC 端点
//
// 持有共享的 UDP socket 和 quic.Transport，所有目标连接都经由它拨出。
// 构建后只读，Dial 可并发调用。
type Endpoint struct {
	cfg       config.TransportConfig
	tlsConf   *tls.Config
	quicConf  *quic.Config
	udpConn   *net.UDPConn
	transport *quic.Transport

	closeOnce sync.Once
	closed    chan struct{}
}

var _ pkgif.Dialer = (*Endpoint)(nil)

// Option 端点选项
type Option func(*options)

type options struct {
	certSource CertificateSource
}

// WithCertificateSource 替换证书派生方式
func WithCertificateSource(src CertificateSource) Option {
	return func(o *options) {
		o.certSource = src
	}
}

// New 创建端点
//
// 在端口范围内绑定第一个可用的 UDP 端口；范围为 0 时使用随机端口。
func New(cfg config.TransportConfig, id pkgif.Identity, opts ...Option) (*Endpoint, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid transport config: %w", err)
	}
	if id == nil {
		return nil, ErrNoIdentity
	}

	o := options{certSource: NewSelfSignedCertificate}
	for _, opt := range opts {
		opt(&o)
	}

	cert, err := o.certSource(id)
	if err != nil {
		return nil, fmt.Errorf("派生客户端证书失败: %w", err)
	}

	udpConn, err := bindInRange(cfg)
	if err != nil {
		return nil, err
	}

	ep := &Endpoint{
		cfg:       cfg,
		tlsConf:   newClientTLSConfig(cfg, cert),
		quicConf:  newQUICConfig(cfg),
		udpConn:   udpConn,
		transport: &quic.Transport{Conn: udpConn},
		closed:    make(chan struct{}),
	}

	logger.Info("QUIC 端点已创建",
		"localAddr", udpConn.LocalAddr().String(),
		"identity", id.String(),
		"alpn", cfg.ALPN,
		"0rtt", cfg.Enable0RTT)

	return ep, nil
}

// bindInRange 在 [start, end) 内绑定 UDP 端口
func bindInRange(cfg config.TransportConfig) (*net.UDPConn, error) {
	ip := net.ParseIP(cfg.BindAddr)

	if cfg.PortRangeStart == 0 && cfg.PortRangeEnd == 0 {
		conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: ip})
		if err != nil {
			return nil, fmt.Errorf("绑定 UDP 失败: %w", err)
		}
		return conn, nil
	}

	var lastErr error
	for port := cfg.PortRangeStart; port < cfg.PortRangeEnd; port++ {
		conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: ip, Port: port})
		if err == nil {
			return conn, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("%w [%d, %d): %v", ErrNoPortAvailable, cfg.PortRangeStart, cfg.PortRangeEnd, lastErr)
}

// Dial 与目标建立连接
//
// 启用 0-RTT 时使用 DialEarly，已缓存会话票据的目标可以在握手完成前发送数据。
func (e *Endpoint) Dial(ctx context.Context, addr netip.AddrPort) (pkgif.Connection, error) {
	select {
	case <-e.closed:
		return nil, ErrEndpointClosed
	default:
	}

	udpAddr := net.UDPAddrFromAddrPort(addr)

	var (
		qc  *quic.Conn
		err error
	)
	if e.cfg.Enable0RTT {
		qc, err = e.transport.DialEarly(ctx, udpAddr, e.tlsConf, e.quicConf)
	} else {
		qc, err = e.transport.Dial(ctx, udpAddr, e.tlsConf, e.quicConf)
	}
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	logger.Debug("已连接目标", "addr", addr.String(), "used0RTT", qc.ConnectionState().Used0RTT)
	return newConn(qc, addr), nil
}

// LocalAddr 返回本地绑定地址
func (e *Endpoint) LocalAddr() netip.AddrPort {
	return e.udpConn.LocalAddr().(*net.UDPAddr).AddrPort()
}

// Close 关闭端点及其上所有连接
func (e *Endpoint) Close() error {
	var err error
	e.closeOnce.Do(func() {
		close(e.closed)
		err = e.transport.Close()
		if cerr := e.udpConn.Close(); cerr != nil && !errors.Is(cerr, net.ErrClosed) && err == nil {
			err = cerr
		}
		logger.Info("QUIC 端点已关闭")
	})
	return err
}
