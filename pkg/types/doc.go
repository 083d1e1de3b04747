// Package types 定义 txforward 的公共数据类型
//
//   - ForwardPacket: 上游交付的一组交易及其目标地址
//   - Transaction: 可序列化为规范二进制线格式的不透明交易
//   - 目标地址直接使用 netip.AddrPort，可作为 map 键，比较即精确相等
package types
