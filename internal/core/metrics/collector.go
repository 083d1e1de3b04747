package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	pkgif "github.com/dep2p/go-txforward/pkg/interfaces"
)

const (
	resultOK      = "ok"
	resultError   = "error"
	resultSent    = "sent"
	resultTimeout = "timeout"
)

// Collector Prometheus 指标收集器
type Collector struct {
	laneSets     prometheus.Counter
	routed       prometheus.Counter
	batches      *prometheus.CounterVec
	batchTxs     prometheus.Histogram
	batchLatency prometheus.Histogram
	txs          *prometheus.CounterVec
	connects     *prometheus.CounterVec
}

var _ pkgif.Metrics = (*Collector)(nil)

// NewCollector 在 reg 上注册全部指标
//
// 同一个 reg 上重复注册会 panic。
func NewCollector(reg prometheus.Registerer, namespace string) *Collector {
	f := promauto.With(reg)
	return &Collector{
		laneSets: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lane_sets_created_total",
			Help:      "Number of lane sets created, one per distinct destination.",
		}),
		routed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "packets_routed_total",
			Help:      "Number of packets enqueued into a lane.",
		}),
		batches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Number of batches by result.",
		}, []string{"result"}),
		batchTxs: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_transactions",
			Help:      "Transactions per batch.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 13),
		}),
		batchLatency: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Duration of batches that completed within the timeout.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 10),
		}),
		txs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_total",
			Help:      "Per-transaction send results.",
		}, []string{"result"}),
		connects: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connect_attempts_total",
			Help:      "Connection attempts by result.",
		}, []string{"result"}),
	}
}

// LaneSetCreated implements Metrics.
func (c *Collector) LaneSetCreated() {
	c.laneSets.Inc()
}

// PacketRouted implements Metrics.
func (c *Collector) PacketRouted() {
	c.routed.Inc()
}

// BatchSent implements Metrics.
func (c *Collector) BatchSent(_, txs int, elapsed time.Duration) {
	c.batches.WithLabelValues(resultSent).Inc()
	c.batchTxs.Observe(float64(txs))
	c.batchLatency.Observe(elapsed.Seconds())
}

// BatchTimedOut implements Metrics.
func (c *Collector) BatchTimedOut(txs int) {
	c.batches.WithLabelValues(resultTimeout).Inc()
	c.batchTxs.Observe(float64(txs))
}

// TransactionSent implements Metrics.
func (c *Collector) TransactionSent(err error) {
	c.txs.WithLabelValues(result(err)).Inc()
}

// ConnectAttempt implements Metrics.
func (c *Collector) ConnectAttempt(err error) {
	c.connects.WithLabelValues(result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return resultError
	}
	return resultOK
}
