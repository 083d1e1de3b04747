package txforward

import (
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-txforward/internal/core/dispatcher"
	"github.com/dep2p/go-txforward/internal/core/endpoint"
	"github.com/dep2p/go-txforward/internal/core/identity"
	"github.com/dep2p/go-txforward/internal/core/metrics"
	"github.com/dep2p/go-txforward/internal/core/reconnect"
	pkgif "github.com/dep2p/go-txforward/pkg/interfaces"
	"github.com/dep2p/go-txforward/pkg/lib/log"
)

var fxLogger = log.Logger("txforward/fx")

// buildFxApp 构建 Fx 应用
//
// 加载顺序（按依赖）：
//  1. 配置、时钟、外部注入的组件
//  2. Identity → Metrics → Endpoint（或外部 Dialer）
//  3. Reconnect 工厂 → Dispatcher
//  4. 用户扩展与组件注入
func buildFxApp(cfg *forwarderConfig, fwd *Forwarder) (*fx.App, error) {
	if err := cfg.config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	modules := []fx.Option{
		fx.Supply(cfg.config),
		fx.Provide(func() clock.Clock { return cfg.clock }),

		identity.Module(),
		metrics.Module(),
	}

	if cfg.identity != nil {
		modules = append(modules, fx.Provide(fx.Annotate(
			func() pkgif.Identity { return cfg.identity },
			fx.ResultTags(`name:"supplied_identity"`),
		)))
	}

	if cfg.registerer != nil {
		modules = append(modules, fx.Provide(fx.Annotate(
			func() prometheus.Registerer { return cfg.registerer },
			fx.ResultTags(`name:"supplied_registerer"`),
		)))
	}

	// 外部 Dialer 替代 QUIC 端点
	if cfg.dialer != nil {
		modules = append(modules, fx.Provide(func() pkgif.Dialer { return cfg.dialer }))
		fxLogger.Debug("使用外部注入的 Dialer，跳过 QUIC 端点")
	} else {
		modules = append(modules, endpoint.Module())
	}

	modules = append(modules,
		reconnect.Module(),
		dispatcher.Module(),
	)

	if len(cfg.userFxOptions) > 0 {
		modules = append(modules, cfg.userFxOptions...)
	}

	modules = append(modules,
		fx.Invoke(injectForwarderComponents(fwd)),
		fx.WithLogger(newFxEventLogger(cfg.config.Log.FxEvents)),
	)

	return fx.New(modules...), nil
}

// newFxEventLogger fx 生命周期事件输出到 zap，默认丢弃
func newFxEventLogger(enabled bool) func() fxevent.Logger {
	return func() fxevent.Logger {
		if !enabled {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}
		zl, err := zap.NewProduction()
		if err != nil {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}
		return &fxevent.ZapLogger{Logger: zl}
	}
}

// forwarderInjectParams Forwarder 组件注入参数
type forwarderInjectParams struct {
	fx.In

	Dispatcher *dispatcher.Dispatcher
	Identity   pkgif.Identity
	Gatherer   prometheus.Gatherer
	Shutdowner fx.Shutdowner
}

// injectForwarderComponents 创建 Forwarder 组件注入函数
func injectForwarderComponents(fwd *Forwarder) interface{} {
	return func(params forwarderInjectParams) {
		fwd.dispatcher = params.Dispatcher
		fwd.identity = params.Identity
		fwd.gatherer = params.Gatherer
		fwd.shutdowner = params.Shutdowner
	}
}
