// Package endpoint 实现进程级的出站 QUIC 端点
//
// Endpoint 在启动时构建一次，之后只读共享给所有自动重连传输：
//
//   - 从签名身份派生自签名 TLS 客户端证书
//   - 固定 ALPN，与目标端期望一致
//   - 启用 0-RTT（DialEarly + 会话缓存）
//   - 不接受对端发起的任何流
//   - 空闲超时与目标端公布的最大值一致，禁用 keep-alive
//   - 跳过目标端证书校验：目标端证书是临时自签名的，信任通过身份握手建立
//
// 所有连接共享同一个 UDP socket（quic.Transport）。
//
//	ep, err := endpoint.New(cfg.Transport, id)
//	conn, err := ep.Dial(ctx, netip.MustParseAddrPort("10.0.0.1:8009"))
package endpoint
