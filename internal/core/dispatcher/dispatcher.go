package dispatcher

import (
	"context"
	"net/netip"
	"slices"
	"sync"
	"sync/atomic"

	"go.uber.org/multierr"

	"github.com/dep2p/go-txforward/config"
	"github.com/dep2p/go-txforward/internal/core/lane"
	"github.com/dep2p/go-txforward/internal/core/pipeline"
	pkgif "github.com/dep2p/go-txforward/pkg/interfaces"
	"github.com/dep2p/go-txforward/pkg/lib/log"
	"github.com/dep2p/go-txforward/pkg/types"
)

var logger = log.Logger("core/dispatcher")

// Dispatcher 目标地址到 lane 组的路由器
type Dispatcher struct {
	cfg       lane.SetConfig
	newSender lane.SenderFactory
	pipeline  *pipeline.Pipeline
	laneOpts  []lane.Option
	metrics   pkgif.Metrics

	// sets 只由 Run 写入；mu 让 Stats 可以并发读取
	mu   sync.RWMutex
	sets map[netip.AddrPort]*lane.Set

	running atomic.Bool
}

// Option 调度器选项
type Option func(*Dispatcher)

// WithMetrics 指定指标收集器，同时传给每条 lane
func WithMetrics(m pkgif.Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
		d.laneOpts = append(d.laneOpts, lane.WithMetrics(m))
	}
}

// WithLaneOptions 追加 lane 选项
func WithLaneOptions(opts ...lane.Option) Option {
	return func(d *Dispatcher) {
		d.laneOpts = append(d.laneOpts, opts...)
	}
}

// New 创建调度器
func New(cfg config.ForwardConfig, newSender lane.SenderFactory, p *pipeline.Pipeline, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		cfg: lane.SetConfig{
			Lanes:         cfg.LanesPerDestination,
			QueueCapacity: cfg.QueueCapacity,
			BatchTimeout:  cfg.BatchTimeout.Duration(),
		},
		newSender: newSender,
		pipeline:  p,
		metrics:   pkgif.NopMetrics{},
		sets:      make(map[netip.AddrPort]*lane.Set),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run 消费 source 直到 ctx 结束或 source 关闭
//
// source 关闭时返回 ErrUpstreamClosed。lane 在 ctx 结束前持续运行。
func (d *Dispatcher) Run(ctx context.Context, source <-chan *types.ForwardPacket) error {
	if !d.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	logger.Info("调度器已启动",
		"lanesPerDestination", d.cfg.Lanes,
		"queueCapacity", d.cfg.QueueCapacity,
		"batchTimeout", d.cfg.BatchTimeout)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case pkt, ok := <-source:
			if !ok {
				logger.Error("上游 channel 已关闭")
				return ErrUpstreamClosed
			}
			if pkt == nil {
				continue
			}
			if err := d.route(ctx, pkt); err != nil {
				return err
			}
		}
	}
}

// route 把包投给目标对应的 lane 组，必要时先创建
func (d *Dispatcher) route(ctx context.Context, pkt *types.ForwardPacket) error {
	set, ok := d.sets[pkt.Destination]
	if !ok {
		var err error
		set, err = lane.NewSet(pkt.Destination, d.cfg, d.newSender, d.pipeline, d.laneOpts...)
		if err != nil {
			return err
		}
		set.Start(ctx)

		d.mu.Lock()
		d.sets[pkt.Destination] = set
		d.mu.Unlock()

		d.metrics.LaneSetCreated()
		logger.Info("已为新目标创建 lane 组", "dest", pkt.Destination.String(), "lanes", set.Size())
	}

	if err := set.Send(ctx, pkt); err != nil {
		return err
	}
	d.metrics.PacketRouted()
	return nil
}

// DestinationStats 单个目标的 lane 状态
type DestinationStats struct {
	Destination netip.AddrPort
	QueueDepths []int
}

// Stats 调度器状态快照
type Stats struct {
	LaneSets     int
	Destinations []DestinationStats
}

// Stats 返回按目标地址排序的状态快照
func (d *Dispatcher) Stats() Stats {
	d.mu.RLock()
	defer d.mu.RUnlock()

	stats := Stats{
		LaneSets:     len(d.sets),
		Destinations: make([]DestinationStats, 0, len(d.sets)),
	}
	for dest, set := range d.sets {
		stats.Destinations = append(stats.Destinations, DestinationStats{
			Destination: dest,
			QueueDepths: set.QueueDepths(),
		})
	}
	slices.SortFunc(stats.Destinations, func(a, b DestinationStats) int {
		return a.Destination.Compare(b.Destination)
	})
	return stats
}

// Wait 等待所有 lane goroutine 退出，需在 Run 的 ctx 结束后调用
func (d *Dispatcher) Wait() {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, set := range d.sets {
		set.Wait()
	}
}

// Close 关闭所有 lane 的 Sender
func (d *Dispatcher) Close() error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var err error
	for _, set := range d.sets {
		err = multierr.Append(err, set.Close())
	}
	return err
}
