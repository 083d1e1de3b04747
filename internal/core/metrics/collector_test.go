package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-txforward/config"
	pkgif "github.com/dep2p/go-txforward/pkg/interfaces"
)

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg, "txforward")

	c.LaneSetCreated()
	c.PacketRouted()
	c.PacketRouted()
	c.BatchSent(2, 7, 10*time.Millisecond)
	c.BatchTimedOut(3)
	c.TransactionSent(nil)
	c.TransactionSent(errors.New("reset"))
	c.TransactionSent(nil)
	c.ConnectAttempt(errors.New("unreachable"))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.laneSets))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.routed))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.batches.WithLabelValues(resultSent)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.batches.WithLabelValues(resultTimeout)))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.txs.WithLabelValues(resultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.txs.WithLabelValues(resultError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.connects.WithLabelValues(resultError)))

	count, err := testutil.GatherAndCount(reg, "txforward_batch_transactions")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCollector_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg, "txforward")
	assert.Panics(t, func() {
		NewCollector(reg, "txforward")
	})
}

func TestProvideMetrics(t *testing.T) {
	t.Run("默认独立注册表", func(t *testing.T) {
		out := ProvideMetrics(ModuleInput{Config: config.NewConfig()})
		_, ok := out.Metrics.(*Collector)
		assert.True(t, ok)

		out.Metrics.PacketRouted()
		families, err := out.Gatherer.Gather()
		require.NoError(t, err)
		assert.NotEmpty(t, families)
	})

	t.Run("使用外部注册表", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		out := ProvideMetrics(ModuleInput{Config: config.NewConfig(), Registerer: reg})
		assert.Same(t, reg, out.Gatherer)
	})

	t.Run("禁用", func(t *testing.T) {
		cfg := config.NewConfig()
		cfg.Metrics.Enabled = false
		out := ProvideMetrics(ModuleInput{Config: cfg})
		assert.Equal(t, pkgif.Metrics(pkgif.NopMetrics{}), out.Metrics)
	})
}
