package txforward

import (
	"time"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-txforward/config"
	pkgif "github.com/dep2p/go-txforward/pkg/interfaces"
)

// Option 转发器配置选项
type Option func(*forwarderConfig) error

// forwarderConfig 内部选项
type forwarderConfig struct {
	config *config.Config

	identity   pkgif.Identity
	dialer     pkgif.Dialer
	registerer prometheus.Registerer
	clock      clock.Clock

	userFxOptions []fx.Option
}

func newForwarderConfig() *forwarderConfig {
	return &forwarderConfig{
		config: config.NewConfig(),
		clock:  clock.New(),
	}
}

// WithConfig 替换完整配置
func WithConfig(cfg *config.Config) Option {
	return func(c *forwarderConfig) error {
		if cfg == nil {
			return ErrNilOption
		}
		c.config = cfg
		return nil
	}
}

// WithConfigFile 从 JSON 文件加载配置
func WithConfigFile(path string) Option {
	return func(c *forwarderConfig) error {
		cfg, err := config.LoadFile(path)
		if err != nil {
			return err
		}
		c.config = cfg
		return nil
	}
}

// WithKeyFile 从 keypair 文件加载身份
func WithKeyFile(path string) Option {
	return func(c *forwarderConfig) error {
		c.config.Identity.KeyFile = path
		return nil
	}
}

// WithIdentity 直接注入身份，优先于密钥文件
func WithIdentity(id pkgif.Identity) Option {
	return func(c *forwarderConfig) error {
		if id == nil {
			return ErrNilOption
		}
		c.identity = id
		return nil
	}
}

// WithDialer 替换出站拨号器，不再创建 QUIC 端点
func WithDialer(d pkgif.Dialer) Option {
	return func(c *forwarderConfig) error {
		if d == nil {
			return ErrNilOption
		}
		c.dialer = d
		return nil
	}
}

// WithRegisterer 把指标注册到外部 Registerer
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *forwarderConfig) error {
		if reg == nil {
			return ErrNilOption
		}
		c.registerer = reg
		return nil
	}
}

// WithClock 替换时钟（批次超时、重连退避）
func WithClock(clk clock.Clock) Option {
	return func(c *forwarderConfig) error {
		if clk == nil {
			return ErrNilOption
		}
		c.clock = clk
		return nil
	}
}

// WithLanesPerDestination 设置每个目标的 lane 数量
func WithLanesPerDestination(n int) Option {
	return func(c *forwarderConfig) error {
		c.config.Forward.LanesPerDestination = n
		return nil
	}
}

// WithBatchTimeout 设置单批次超时
func WithBatchTimeout(d time.Duration) Option {
	return func(c *forwarderConfig) error {
		c.config.Forward.BatchTimeout = config.Duration(d)
		return nil
	}
}

// WithFxOptions 追加自定义 fx 选项
func WithFxOptions(opts ...fx.Option) Option {
	return func(c *forwarderConfig) error {
		c.userFxOptions = append(c.userFxOptions, opts...)
		return nil
	}
}
