package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-txforward/config"
	pkgif "github.com/dep2p/go-txforward/pkg/interfaces"
	"github.com/dep2p/go-txforward/pkg/lib/log"
)

var logger = log.Logger("core/metrics")

// ModuleInput 定义模块输入依赖
type ModuleInput struct {
	fx.In

	Config     *config.Config
	Registerer prometheus.Registerer `name:"supplied_registerer" optional:"true"`
}

// ModuleOutput 定义模块输出服务
type ModuleOutput struct {
	fx.Out

	Metrics  pkgif.Metrics
	Gatherer prometheus.Gatherer
}

// ProvideMetrics 创建指标收集器
//
// 未提供 Registerer 时使用新建的独立 Registry；禁用时返回空实现。
func ProvideMetrics(input ModuleInput) ModuleOutput {
	cfg := input.Config.Metrics
	if !cfg.Enabled {
		return ModuleOutput{Metrics: pkgif.NopMetrics{}, Gatherer: prometheus.NewRegistry()}
	}

	reg := input.Registerer
	var gatherer prometheus.Gatherer
	if reg == nil {
		r := prometheus.NewRegistry()
		reg, gatherer = r, r
	} else if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	} else {
		gatherer = prometheus.NewRegistry()
	}

	logger.Debug("指标收集已启用", "namespace", cfg.Namespace)
	return ModuleOutput{
		Metrics:  NewCollector(reg, cfg.Namespace),
		Gatherer: gatherer,
	}
}

// Module 返回 fx 模块配置
func Module() fx.Option {
	return fx.Module("metrics",
		fx.Provide(ProvideMetrics),
	)
}
