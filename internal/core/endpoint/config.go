package endpoint

import (
	"crypto/tls"

	"github.com/quic-go/quic-go"

	"github.com/dep2p/go-txforward/config"
)

// sessionCacheSize 0-RTT 会话票据缓存容量（按目标地址）
const sessionCacheSize = 4096

// newClientTLSConfig 构建客户端 TLS 配置
//
// InsecureSkipVerify=true：目标端证书是临时自签名的，没有 CA 可以验证，
// 信任通过客户端证书中的身份建立。
func newClientTLSConfig(cfg config.TransportConfig, cert tls.Certificate) *tls.Config {
	tlsConf := &tls.Config{
		Certificates:       []tls.Certificate{cert},
		NextProtos:         []string{cfg.ALPN},
		InsecureSkipVerify: true,
		MinVersion:         tls.VersionTLS13,
	}
	if cfg.Enable0RTT {
		tlsConf.ClientSessionCache = tls.NewLRUClientSessionCache(sessionCacheSize)
	}
	return tlsConf
}

// newQUICConfig 构建 QUIC 传输参数
//
// 负数的 MaxIncomingStreams/MaxIncomingUniStreams 表示不允许对端开流；
// KeepAlivePeriod 为 0 表示不发送 keep-alive。
func newQUICConfig(cfg config.TransportConfig) *quic.Config {
	return &quic.Config{
		MaxIdleTimeout:        cfg.MaxIdleTimeout.Duration(),
		KeepAlivePeriod:       cfg.KeepAlivePeriod.Duration(),
		HandshakeIdleTimeout:  cfg.HandshakeTimeout.Duration(),
		MaxIncomingStreams:    -1,
		MaxIncomingUniStreams: -1,
	}
}
