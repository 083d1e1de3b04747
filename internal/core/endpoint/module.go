package endpoint

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-txforward/config"
	pkgif "github.com/dep2p/go-txforward/pkg/interfaces"
)

// ModuleInput 定义模块输入依赖
type ModuleInput struct {
	fx.In

	Config   *config.Config
	Identity pkgif.Identity
	LC       fx.Lifecycle
}

// ModuleOutput 定义模块输出服务
type ModuleOutput struct {
	fx.Out

	Endpoint *Endpoint
	Dialer   pkgif.Dialer
}

// ProvideEndpoint 创建端点并注册关闭钩子
func ProvideEndpoint(input ModuleInput) (ModuleOutput, error) {
	ep, err := New(input.Config.Transport, input.Identity)
	if err != nil {
		return ModuleOutput{}, err
	}

	input.LC.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			logger.Info("端点关闭中")
			return ep.Close()
		},
	})

	return ModuleOutput{
		Endpoint: ep,
		Dialer:   ep,
	}, nil
}

// Module 返回 fx 模块配置
func Module() fx.Option {
	return fx.Module("endpoint",
		fx.Provide(ProvideEndpoint),
	)
}
