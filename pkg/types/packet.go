package types

import (
	"encoding"
	"errors"
	"fmt"
	"net/netip"
)

// ErrEmptyTransaction 空交易
var ErrEmptyTransaction = errors.New("empty transaction")

// Transaction 不透明交易
//
// MarshalBinary 返回交易的规范二进制线格式，作为一条独立流的完整内容发送。
type Transaction interface {
	encoding.BinaryMarshaler
}

// RawTransaction 已序列化的交易
type RawTransaction []byte

var _ Transaction = RawTransaction(nil)

// MarshalBinary 返回原始字节
func (t RawTransaction) MarshalBinary() ([]byte, error) {
	if len(t) == 0 {
		return nil, ErrEmptyTransaction
	}
	return t, nil
}

// ForwardPacket 待转发的交易包
//
// 由上游创建，只被一个 lane 消费一次，不持久化。
type ForwardPacket struct {
	// Destination 目标端点地址
	Destination netip.AddrPort

	// Transactions 按顺序排列的交易
	Transactions []Transaction
}

// NewForwardPacket 创建交易包
func NewForwardPacket(dest netip.AddrPort, txs ...Transaction) *ForwardPacket {
	return &ForwardPacket{Destination: dest, Transactions: txs}
}

// String 返回简短描述
func (p *ForwardPacket) String() string {
	return fmt.Sprintf("ForwardPacket{dest=%s, txs=%d}", p.Destination, len(p.Transactions))
}

// ParseDestination 解析 "host:port" 形式的目标地址
//
// 只接受 IP 字面量，不做 DNS 解析；IPv4-mapped IPv6 地址会被规范化为 IPv4，
// 保证同一端点只对应一个注册表键。
func ParseDestination(s string) (netip.AddrPort, error) {
	ap, err := netip.ParseAddrPort(s)
	if err != nil {
		return netip.AddrPort{}, fmt.Errorf("parse destination %q: %w", s, err)
	}
	if ap.Port() == 0 {
		return netip.AddrPort{}, fmt.Errorf("parse destination %q: port must not be zero", s)
	}
	return netip.AddrPortFrom(ap.Addr().Unmap(), ap.Port()), nil
}
