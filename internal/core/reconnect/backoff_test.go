package reconnect

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dep2p/go-txforward/config"
)

func TestBackoffDelay(t *testing.T) {
	cfg := config.DefaultReconnectConfig()
	cfg.Jitter = 0

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"未失败", 0, 0},
		{"首次失败", 1, 100 * time.Millisecond},
		{"第二次失败", 2, 200 * time.Millisecond},
		{"第三次失败", 3, 400 * time.Millisecond},
		{"达到上限", 20, 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, backoffDelay(cfg, tt.failures))
		})
	}
}

func TestBackoffDelay_Jitter(t *testing.T) {
	cfg := config.DefaultReconnectConfig()
	cfg.Jitter = 0.2

	for i := 0; i < 100; i++ {
		d := backoffDelay(cfg, 1)
		assert.GreaterOrEqual(t, d, 80*time.Millisecond)
		assert.LessOrEqual(t, d, 120*time.Millisecond)
	}
}
