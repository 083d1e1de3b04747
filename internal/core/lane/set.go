package lane

import (
	"context"
	"fmt"
	"net/netip"
	"sync"
	"time"

	"go.uber.org/multierr"

	"github.com/dep2p/go-txforward/internal/core/pipeline"
	pkgif "github.com/dep2p/go-txforward/pkg/interfaces"
	"github.com/dep2p/go-txforward/pkg/types"
)

// SenderFactory 为每条 lane 创建独立的 Sender
type SenderFactory func(dest netip.AddrPort) pkgif.Sender

// SetConfig lane 组参数
type SetConfig struct {
	// Lanes lane 数量，创建后固定
	Lanes int

	// QueueCapacity 每条 lane 的队列容量
	QueueCapacity int

	// BatchTimeout 单批次超时
	BatchTimeout time.Duration
}

// Set 同一目标地址的固定大小 lane 组
//
// Send 只能被单个 goroutine（dispatcher）调用。
type Set struct {
	dest    netip.AddrPort
	workers []*Worker
	next    int

	wg sync.WaitGroup
}

// NewSet 创建 lane 组，每条 lane 持有 newSender 返回的独立 Sender
func NewSet(dest netip.AddrPort, cfg SetConfig, newSender SenderFactory, p *pipeline.Pipeline, opts ...Option) (*Set, error) {
	if cfg.Lanes <= 0 {
		return nil, ErrNoLanes
	}
	s := &Set{
		dest:    dest,
		workers: make([]*Worker, cfg.Lanes),
	}
	for i := range s.workers {
		s.workers[i] = NewWorker(dest, i, newSender(dest), p, cfg.QueueCapacity, cfg.BatchTimeout, opts...)
	}
	return s, nil
}

// Destination 返回目标地址
func (s *Set) Destination() netip.AddrPort {
	return s.dest
}

// Size 返回 lane 数量
func (s *Set) Size() int {
	return len(s.workers)
}

// Start 为每条 lane 启动一个 goroutine
func (s *Set) Start(ctx context.Context) {
	for _, w := range s.workers {
		s.wg.Add(1)
		go func(w *Worker) {
			defer s.wg.Done()
			w.Run(ctx)
		}(w)
	}
}

// Send 把包投递给恰好一条 lane
//
// 选择剩余容量最大的 lane，并列时从轮询位置开始选第一个；
// 选中的 lane 队列满时阻塞，直到有空位或 ctx 结束。
func (s *Set) Send(ctx context.Context, pkt *types.ForwardPacket) error {
	if pkt.Destination != s.dest {
		panic(fmt.Sprintf("lane: routing error: set for %s received packet for %s", s.dest, pkt.Destination))
	}
	return s.pick().Enqueue(ctx, pkt)
}

func (s *Set) pick() *Worker {
	n := len(s.workers)
	start := s.next
	s.next = (s.next + 1) % n

	best := s.workers[start]
	bestFree := best.Cap() - best.Len()
	for i := 1; i < n; i++ {
		w := s.workers[(start+i)%n]
		if free := w.Cap() - w.Len(); free > bestFree {
			best, bestFree = w, free
		}
	}
	return best
}

// QueueDepths 返回每条 lane 当前的队列长度
func (s *Set) QueueDepths() []int {
	depths := make([]int, len(s.workers))
	for i, w := range s.workers {
		depths[i] = w.Len()
	}
	return depths
}

// Wait 等待所有 lane goroutine 退出
func (s *Set) Wait() {
	s.wg.Wait()
}

// Close 关闭所有 lane 的 Sender
func (s *Set) Close() error {
	var err error
	for _, w := range s.workers {
		err = multierr.Append(err, w.sender.Close())
	}
	return err
}
