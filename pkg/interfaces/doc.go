// Package interfaces 定义 txforward 的公共接口
//
// 一个接口文件对应一个实现目录：
//   - identity.go  - 签名身份（internal/core/identity）
//   - transport.go - 出站 QUIC 端点与自动重连传输（internal/core/endpoint, internal/core/reconnect）
//   - metrics.go   - 转发指标（internal/core/metrics）
package interfaces
