package interfaces

import "time"

// Metrics 转发指标
//
// 所有方法必须并发安全。
type Metrics interface {
	// LaneSetCreated 新目标地址首次出现
	LaneSetCreated()

	// PacketRouted 一个包进入 lane 队列
	PacketRouted()

	// BatchSent 批次在超时内完成
	BatchSent(packets, txs int, elapsed time.Duration)

	// BatchTimedOut 批次超时被丢弃
	BatchTimedOut(txs int)

	// TransactionSent 单笔交易发送结果
	TransactionSent(err error)

	// ConnectAttempt 一次建连尝试结果
	ConnectAttempt(err error)
}

// NopMetrics 空实现
type NopMetrics struct{}

var _ Metrics = NopMetrics{}

// LaneSetCreated implements Metrics.
func (NopMetrics) LaneSetCreated() {}

// PacketRouted implements Metrics.
func (NopMetrics) PacketRouted() {}

// BatchSent implements Metrics.
func (NopMetrics) BatchSent(int, int, time.Duration) {}

// BatchTimedOut implements Metrics.
func (NopMetrics) BatchTimedOut(int) {}

// TransactionSent implements Metrics.
func (NopMetrics) TransactionSent(error) {}

// ConnectAttempt implements Metrics.
func (NopMetrics) ConnectAttempt(error) {}
