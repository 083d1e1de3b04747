package lane

import (
	"context"
	"fmt"
	"net/netip"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-txforward/internal/core/pipeline"
	pkgif "github.com/dep2p/go-txforward/pkg/interfaces"
	"github.com/dep2p/go-txforward/pkg/lib/log"
	"github.com/dep2p/go-txforward/pkg/types"
)

var logger = log.Logger("core/lane")

// Worker 单条 lane
type Worker struct {
	dest     netip.AddrPort
	index    int
	queue    chan *types.ForwardPacket
	sender   pkgif.Sender
	pipeline *pipeline.Pipeline
	timeout  time.Duration
	clock    clock.Clock
	metrics  pkgif.Metrics
}

// Option lane 选项
type Option func(*options)

type options struct {
	clock   clock.Clock
	metrics pkgif.Metrics
}

func defaultOptions() options {
	return options{
		clock:   clock.New(),
		metrics: pkgif.NopMetrics{},
	}
}

// WithClock 指定时钟
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithMetrics 指定指标收集器
func WithMetrics(m pkgif.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// NewWorker 创建 lane，Run 之前不会发送
func NewWorker(dest netip.AddrPort, index int, sender pkgif.Sender, p *pipeline.Pipeline, capacity int, timeout time.Duration, opts ...Option) *Worker {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Worker{
		dest:     dest,
		index:    index,
		queue:    make(chan *types.ForwardPacket, capacity),
		sender:   sender,
		pipeline: p,
		timeout:  timeout,
		clock:    o.clock,
		metrics:  o.metrics,
	}
}

// Enqueue 把包放入队列，队列满时阻塞直到有空位或 ctx 结束
func (w *Worker) Enqueue(ctx context.Context, pkt *types.ForwardPacket) error {
	select {
	case w.queue <- pkt:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Len 返回队列中的包数
func (w *Worker) Len() int {
	return len(w.queue)
}

// Cap 返回队列容量
func (w *Worker) Cap() int {
	return cap(w.queue)
}

// Run 循环接收、合批、发送，直到 ctx 结束
func (w *Worker) Run(ctx context.Context) {
	logger.Debug("lane 已启动", "dest", w.dest.String(), "lane", w.index)
	for {
		var first *types.ForwardPacket
		select {
		case <-ctx.Done():
			return
		case first = <-w.queue:
		}

		txs, packets := w.drain(first)
		w.send(ctx, txs, packets)
	}
}

// drain 从 first 开始非阻塞排空队列，按到达顺序拼接交易
func (w *Worker) drain(first *types.ForwardPacket) ([]types.Transaction, int) {
	w.checkRoute(first)
	txs := append([]types.Transaction(nil), first.Transactions...)
	packets := 1

	for {
		select {
		case pkt := <-w.queue:
			w.checkRoute(pkt)
			txs = append(txs, pkt.Transactions...)
			packets++
		default:
			if packets > 1 {
				logger.Debug("合并批次", "dest", w.dest.String(), "lane", w.index, "packets", packets)
			}
			return txs, packets
		}
	}
}

// checkRoute 包的目标必须与 lane 绑定的目标一致，否则说明路由表已损坏
func (w *Worker) checkRoute(pkt *types.ForwardPacket) {
	if pkt.Destination != w.dest {
		panic(fmt.Sprintf("lane: routing error: lane %d bound to %s received packet for %s",
			w.index, w.dest, pkt.Destination))
	}
}

// send 在批次超时内发送，超时则丢弃整批
func (w *Worker) send(ctx context.Context, txs []types.Transaction, packets int) {
	if len(txs) == 0 {
		return
	}

	logger.Debug("发送批次", "dest", w.dest.String(), "lane", w.index, "txs", len(txs))

	bctx, cancel := w.clock.WithTimeout(ctx, w.timeout)
	defer cancel()

	start := w.clock.Now()
	err := w.pipeline.Send(bctx, w.sender, txs)
	elapsed := w.clock.Since(start)

	if err != nil {
		if ctx.Err() != nil {
			return
		}
		w.metrics.BatchTimedOut(len(txs))
		logger.Warn("批次发送超时，已丢弃",
			"dest", w.dest.String(),
			"lane", w.index,
			"txs", len(txs),
			"timeout", w.timeout)
		return
	}

	w.metrics.BatchSent(packets, len(txs), elapsed)
	logger.Debug("批次已发送", "dest", w.dest.String(), "lane", w.index, "txs", len(txs), "elapsed", elapsed)
}
