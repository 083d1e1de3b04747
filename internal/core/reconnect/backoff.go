package reconnect

import (
	"math"
	"math/rand"
	"time"

	"github.com/dep2p/go-txforward/config"
)

// backoffDelay 计算第 failures 次连续失败后的退避时长
//
// InitialDelay * Multiplier^(failures-1)，上限 MaxDelay，再叠加 ±Jitter 比例的抖动。
func backoffDelay(cfg config.ReconnectConfig, failures int) time.Duration {
	if failures <= 0 {
		return 0
	}

	delay := float64(cfg.InitialDelay.Duration()) * math.Pow(cfg.Multiplier, float64(failures-1))
	if upper := float64(cfg.MaxDelay.Duration()); delay > upper {
		delay = upper
	}

	if cfg.Jitter > 0 {
		delay *= 1 + cfg.Jitter*(2*rand.Float64()-1)
	}

	return time.Duration(delay)
}
