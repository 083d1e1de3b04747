package mocks

import (
	"sync"
	"time"

	"github.com/dep2p/go-txforward/pkg/interfaces"
)

// RecordingMetrics 记录所有指标事件
type RecordingMetrics struct {
	mu sync.Mutex

	LaneSets      int
	Routed        int
	Batches       int
	BatchTxs      []int
	Timeouts      int
	TxOK          int
	TxFailed      int
	ConnectOK     int
	ConnectFailed int
}

var _ interfaces.Metrics = (*RecordingMetrics)(nil)

// NewRecordingMetrics 创建 RecordingMetrics
func NewRecordingMetrics() *RecordingMetrics {
	return &RecordingMetrics{}
}

// LaneSetCreated implements Metrics.
func (m *RecordingMetrics) LaneSetCreated() {
	m.mu.Lock()
	m.LaneSets++
	m.mu.Unlock()
}

// PacketRouted implements Metrics.
func (m *RecordingMetrics) PacketRouted() {
	m.mu.Lock()
	m.Routed++
	m.mu.Unlock()
}

// BatchSent implements Metrics.
func (m *RecordingMetrics) BatchSent(_, txs int, _ time.Duration) {
	m.mu.Lock()
	m.Batches++
	m.BatchTxs = append(m.BatchTxs, txs)
	m.mu.Unlock()
}

// BatchTimedOut implements Metrics.
func (m *RecordingMetrics) BatchTimedOut(int) {
	m.mu.Lock()
	m.Timeouts++
	m.mu.Unlock()
}

// TransactionSent implements Metrics.
func (m *RecordingMetrics) TransactionSent(err error) {
	m.mu.Lock()
	if err != nil {
		m.TxFailed++
	} else {
		m.TxOK++
	}
	m.mu.Unlock()
}

// ConnectAttempt implements Metrics.
func (m *RecordingMetrics) ConnectAttempt(err error) {
	m.mu.Lock()
	if err != nil {
		m.ConnectFailed++
	} else {
		m.ConnectOK++
	}
	m.mu.Unlock()
}

// MetricsSnapshot RecordingMetrics 计数快照
type MetricsSnapshot struct {
	LaneSets      int
	Routed        int
	Batches       int
	BatchTxs      []int
	Timeouts      int
	TxOK          int
	TxFailed      int
	ConnectOK     int
	ConnectFailed int
}

// Snapshot 返回当前计数的副本
func (m *RecordingMetrics) Snapshot() MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return MetricsSnapshot{
		LaneSets:      m.LaneSets,
		Routed:        m.Routed,
		Batches:       m.Batches,
		BatchTxs:      append([]int(nil), m.BatchTxs...),
		Timeouts:      m.Timeouts,
		TxOK:          m.TxOK,
		TxFailed:      m.TxFailed,
		ConnectOK:     m.ConnectOK,
		ConnectFailed: m.ConnectFailed,
	}
}
