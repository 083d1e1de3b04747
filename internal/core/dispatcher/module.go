package dispatcher

import (
	"context"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/dep2p/go-txforward/config"
	"github.com/dep2p/go-txforward/internal/core/lane"
	"github.com/dep2p/go-txforward/internal/core/pipeline"
	"github.com/dep2p/go-txforward/internal/core/reconnect"
	pkgif "github.com/dep2p/go-txforward/pkg/interfaces"
)

// ModuleInput 定义模块输入依赖
type ModuleInput struct {
	fx.In

	Config  *config.Config
	Factory *reconnect.Factory
	LC      fx.Lifecycle
	Clock   clock.Clock   `optional:"true"`
	Metrics pkgif.Metrics `optional:"true"`
}

// ProvideDispatcher 组装调度器
//
// 批次块大小等于目标端允许的最大并发流数，单笔结果交给指标收集器。
// 停止时关闭所有 lane 的 Sender。
func ProvideDispatcher(input ModuleInput) *Dispatcher {
	var (
		opts     []Option
		pipeOpts []pipeline.Option
	)
	if input.Metrics != nil {
		m := input.Metrics
		opts = append(opts, WithMetrics(m))
		pipeOpts = append(pipeOpts, pipeline.WithObserver(func(r pipeline.Result) {
			m.TransactionSent(r.Err)
		}))
	}
	if input.Clock != nil {
		opts = append(opts, WithLaneOptions(lane.WithClock(input.Clock)))
	}

	p := pipeline.New(input.Config.Transport.MaxConcurrentStreams, pipeOpts...)
	d := New(input.Config.Forward, input.Factory.NewSender, p, opts...)

	input.LC.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			logger.Info("关闭所有 lane 的连接", "laneSets", d.Stats().LaneSets)
			return d.Close()
		},
	})
	return d
}

// Module 返回 fx 模块配置
func Module() fx.Option {
	return fx.Module("dispatcher",
		fx.Provide(ProvideDispatcher),
	)
}
