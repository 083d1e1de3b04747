package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 4, cfg.Forward.LanesPerDestination)
	assert.Equal(t, 100_000, cfg.Forward.QueueCapacity)
	assert.Equal(t, 500*time.Millisecond, cfg.Forward.BatchTimeout.Duration())
	assert.Equal(t, 6, cfg.Transport.MaxConcurrentStreams)
	assert.Equal(t, ALPNTransactionProtocol, cfg.Transport.ALPN)
	assert.Zero(t, cfg.Transport.KeepAlivePeriod.Duration())
	assert.True(t, cfg.Transport.Enable0RTT)
}

func TestFromJSON(t *testing.T) {
	data := []byte(`{
		"forward": {"lanes_per_destination": 2, "batch_timeout": "250ms"},
		"transport": {"port_range_start": 0, "port_range_end": 0},
		"log": {"level": "core/lane=debug,info", "format": "json"}
	}`)

	cfg, err := FromJSON(data)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Forward.LanesPerDestination)
	assert.Equal(t, 250*time.Millisecond, cfg.Forward.BatchTimeout.Duration())
	// 未出现的字段保留默认值
	assert.Equal(t, 100_000, cfg.Forward.QueueCapacity)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestFromJSON_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"非法 JSON", `{`},
		{"非法时长", `{"forward": {"batch_timeout": "soon"}}`},
		{"lane 数为 0", `{"forward": {"lanes_per_destination": 0}}`},
		{"端口范围颠倒", `{"transport": {"port_range_start": 9000, "port_range_end": 8000}}`},
		{"抖动越界", `{"reconnect": {"jitter": 1.5}}`},
		{"未知日志格式", `{"log": {"format": "xml"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromJSON([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "txforward.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"metrics": {"enabled": false}}`), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.False(t, cfg.Metrics.Enabled)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestDuration_JSONRoundTrip(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalJSON([]byte(`"1.5s"`)))
	assert.Equal(t, 1500*time.Millisecond, d.Duration())

	require.NoError(t, d.UnmarshalJSON([]byte(`1000`)))
	assert.Equal(t, time.Microsecond, d.Duration())

	out, err := Duration(2 * time.Second).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"2s"`, string(out))
}
