package reconnect

import (
	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/dep2p/go-txforward/config"
	pkgif "github.com/dep2p/go-txforward/pkg/interfaces"
)

// ModuleInput 定义模块输入依赖
type ModuleInput struct {
	fx.In

	Config  *config.Config
	Dialer  pkgif.Dialer
	Clock   clock.Clock   `optional:"true"`
	Metrics pkgif.Metrics `optional:"true"`
}

// ProvideFactory 提供 Transport 工厂
func ProvideFactory(input ModuleInput) *Factory {
	var opts []Option
	if input.Clock != nil {
		opts = append(opts, WithClock(input.Clock))
	}
	if input.Metrics != nil {
		opts = append(opts, WithMetrics(input.Metrics))
	}
	return NewFactory(input.Dialer, input.Config.Reconnect, input.Config.Transport.DialTimeout.Duration(), opts...)
}

// Module 返回 fx 模块配置
func Module() fx.Option {
	return fx.Module("reconnect",
		fx.Provide(ProvideFactory),
	)
}
