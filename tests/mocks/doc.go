// Package mocks 提供测试用的接口模拟实现
//
// 每个 mock 通过 XxxFunc 字段覆盖行为，并记录调用，所有方法并发安全。
//
//	dialer := mocks.NewMockDialer()
//	dialer.DialFunc = func(ctx context.Context, addr netip.AddrPort) (interfaces.Connection, error) {
//	    return nil, errors.New("unreachable")
//	}
package mocks
