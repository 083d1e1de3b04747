package txforward

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-txforward/internal/core/dispatcher"
	pkgif "github.com/dep2p/go-txforward/pkg/interfaces"
	"github.com/dep2p/go-txforward/pkg/lib/log"
	"github.com/dep2p/go-txforward/pkg/types"
)

var logger = log.Logger("txforward")

const (
	// startTimeout Fx App 启动超时
	startTimeout = 30 * time.Second

	// stopTimeout Fx App 停止超时
	stopTimeout = 10 * time.Second
)

// Forwarder 交易转发器
type Forwarder struct {
	config *forwarderConfig
	app    *fx.App

	// 由 fx 注入
	dispatcher *dispatcher.Dispatcher
	identity   pkgif.Identity
	gatherer   prometheus.Gatherer
	shutdowner fx.Shutdowner

	mu        sync.Mutex
	started   bool
	running   bool
	closed    bool
	cancelRun context.CancelFunc
	runDone   chan struct{}
}

// New 创建转发器，不启动
//
//	fwd, err := txforward.New(
//	    txforward.WithConfigFile("txforward.json"),
//	    txforward.WithLanesPerDestination(4),
//	)
func New(opts ...Option) (*Forwarder, error) {
	cfg := newForwarderConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}

	log.Setup(log.ConfigFromEnv(cfg.config.Log.Level, cfg.config.Log.Format))

	fwd := &Forwarder{config: cfg}

	var err error
	fwd.app, err = buildFxApp(cfg, fwd)
	if err != nil {
		return nil, fmt.Errorf("build fx app: %w", err)
	}
	if err := fwd.app.Err(); err != nil {
		return nil, fmt.Errorf("build fx app: %w", err)
	}
	return fwd, nil
}

// Start 启动所有模块
func (f *Forwarder) Start(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrClosed
	}
	if f.started {
		return ErrAlreadyStarted
	}

	startCtx, cancel := context.WithTimeout(ctx, startTimeout)
	defer cancel()
	if err := f.app.Start(startCtx); err != nil {
		logger.Error("转发器启动失败", "err", err)
		return fmt.Errorf("start failed: %w", err)
	}

	f.started = true
	logger.Info("转发器已启动",
		"identity", f.identity.String(),
		"lanesPerDestination", f.config.config.Forward.LanesPerDestination,
		"batchTimeout", f.config.config.Forward.BatchTimeout)
	return nil
}

// Run 消费 source 直到 ctx 结束、source 关闭或 Close
//
// source 关闭时返回 dispatcher.ErrUpstreamClosed，并以退出码 1 请求关闭应用。
// 只能调用一次。
func (f *Forwarder) Run(ctx context.Context, source <-chan *types.ForwardPacket) error {
	f.mu.Lock()
	switch {
	case f.closed:
		f.mu.Unlock()
		return ErrClosed
	case !f.started:
		f.mu.Unlock()
		return ErrNotStarted
	case f.running:
		f.mu.Unlock()
		return ErrAlreadyRunning
	}
	runCtx, cancel := context.WithCancel(ctx)
	f.running = true
	f.cancelRun = cancel
	f.runDone = make(chan struct{})
	done := f.runDone
	f.mu.Unlock()

	defer close(done)

	err := f.dispatcher.Run(runCtx, source)
	if errors.Is(err, dispatcher.ErrUpstreamClosed) {
		logger.Error("上游已关闭，转发器终止")
		if serr := f.shutdowner.Shutdown(fx.ExitCode(1)); serr != nil {
			logger.Warn("请求关闭失败", "err", serr)
		}
	}
	return err
}

// Done 应用收到关闭信号时返回
func (f *Forwarder) Done() <-chan fx.ShutdownSignal {
	return f.app.Wait()
}

// Identity 返回转发器身份
func (f *Forwarder) Identity() pkgif.Identity {
	return f.identity
}

// Stats 返回 lane 状态快照
func (f *Forwarder) Stats() dispatcher.Stats {
	return f.dispatcher.Stats()
}

// Gatherer 返回指标采集器，用于暴露 Prometheus 指标
func (f *Forwarder) Gatherer() prometheus.Gatherer {
	return f.gatherer
}

// Close 停止路由与所有 lane，然后关闭连接和端点
//
// 不排空队列，未发送的包直接丢弃。
func (f *Forwarder) Close() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	started := f.started
	cancel := f.cancelRun
	done := f.runDone
	f.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
		f.dispatcher.Wait()
	}

	if !started {
		return nil
	}

	ctx, stopCancel := context.WithTimeout(context.Background(), stopTimeout)
	defer stopCancel()
	if err := f.app.Stop(ctx); err != nil {
		return fmt.Errorf("stop failed: %w", err)
	}
	logger.Info("转发器已关闭")
	return nil
}
