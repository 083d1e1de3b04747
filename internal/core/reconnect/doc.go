// Package reconnect 实现按需自动重连的发送端
//
// Transport 绑定一个目标地址，最多持有一条存活连接：
//
//	Absent ──Send──▶ Connecting ──ok──▶ Live ──断开/开流失败──▶ Broken ──Send──▶ Connecting
//	                     │
//	                     └──失败──▶ 退避窗口（窗口内 Send 直接返回 ErrBackoff）
//
// 同一时刻最多只有一次建连：建连进行中时，其他调用者等待同一个 dialFuture，
// 而不是发起新的拨号。建连与任何调用者的 ctx 解耦，仅受 DialTimeout 约束；
// 调用者各自用自己的 ctx 等待结果，ctx 结束即返回。
//
// Send 不做重试：建连后的发送失败直接返回给调用者。
package reconnect
