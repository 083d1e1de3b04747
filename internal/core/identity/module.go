package identity

import (
	"fmt"

	"go.uber.org/fx"

	"github.com/dep2p/go-txforward/config"
	pkgif "github.com/dep2p/go-txforward/pkg/interfaces"
	"github.com/dep2p/go-txforward/pkg/lib/log"
)

var logger = log.Logger("core/identity")

// ModuleInput 定义模块输入依赖
type ModuleInput struct {
	fx.In

	Config *config.Config

	// Supplied 外部注入的身份（可选）
	Supplied pkgif.Identity `name:"supplied_identity" optional:"true"`
}

// ProvideIdentity 提供进程级身份
//
// 优先级：外部注入 > 密钥文件 > 临时生成
func ProvideIdentity(input ModuleInput) (pkgif.Identity, error) {
	if input.Supplied != nil {
		logger.Info("使用外部注入的身份", "identity", input.Supplied.String())
		return input.Supplied, nil
	}

	if path := input.Config.Identity.KeyFile; path != "" {
		id, err := LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("加载身份失败: %w", err)
		}
		logger.Info("已从文件加载身份", "identity", id.String(), "path", path)
		return id, nil
	}

	id, err := Generate()
	if err != nil {
		return nil, fmt.Errorf("创建身份失败: %w", err)
	}
	logger.Warn("未配置密钥文件，使用临时身份", "identity", id.String())
	return id, nil
}

// Module 返回 fx 模块配置
func Module() fx.Option {
	return fx.Module("identity",
		fx.Provide(ProvideIdentity),
	)
}
