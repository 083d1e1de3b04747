package txforward

import (
	"context"
	"net/netip"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-txforward/config"
	"github.com/dep2p/go-txforward/internal/core/dispatcher"
	"github.com/dep2p/go-txforward/internal/core/identity"
	"github.com/dep2p/go-txforward/pkg/types"
	"github.com/dep2p/go-txforward/tests/mocks"
)

var testDest = netip.MustParseAddrPort("10.0.0.1:8009")

func streamCount(d *mocks.MockDialer) int {
	n := 0
	for _, c := range d.Connections() {
		n += len(c.Streams())
	}
	return n
}

func TestNew_InvalidOptions(t *testing.T) {
	_, err := New(WithConfig(nil))
	assert.ErrorIs(t, err, ErrNilOption)

	_, err = New(WithDialer(nil))
	assert.ErrorIs(t, err, ErrNilOption)

	_, err = New(WithLanesPerDestination(0))
	assert.Error(t, err)
}

func TestForwarder_RunBeforeStart(t *testing.T) {
	fwd, err := New(WithDialer(mocks.NewMockDialer()))
	require.NoError(t, err)
	defer fwd.Close()

	assert.ErrorIs(t, fwd.Run(context.Background(), nil), ErrNotStarted)
}

func TestForwarder_ForwardsAndExitsOnUpstreamClose(t *testing.T) {
	id, err := identity.Generate()
	require.NoError(t, err)

	dialer := mocks.NewMockDialer()
	reg := prometheus.NewRegistry()

	fwd, err := New(
		WithDialer(dialer),
		WithIdentity(id),
		WithRegisterer(reg),
		WithLanesPerDestination(2),
		WithBatchTimeout(200*time.Millisecond),
	)
	require.NoError(t, err)
	require.NoError(t, fwd.Start(context.Background()))
	assert.ErrorIs(t, fwd.Start(context.Background()), ErrAlreadyStarted)
	assert.Same(t, id, fwd.Identity())

	source := make(chan *types.ForwardPacket, 4)
	runErr := make(chan error, 1)
	go func() { runErr <- fwd.Run(context.Background(), source) }()

	source <- types.NewForwardPacket(testDest, types.RawTransaction("a"), types.RawTransaction("b"))
	source <- types.NewForwardPacket(testDest, types.RawTransaction("c"))

	require.Eventually(t, func() bool {
		return streamCount(dialer) == 3
	}, 2*time.Second, 5*time.Millisecond)

	stats := fwd.Stats()
	assert.Equal(t, 1, stats.LaneSets)
	require.Len(t, stats.Destinations, 1)
	assert.Len(t, stats.Destinations[0].QueueDepths, 2)

	close(source)
	select {
	case err := <-runErr:
		assert.ErrorIs(t, err, dispatcher.ErrUpstreamClosed)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after upstream close")
	}

	select {
	case sig := <-fwd.Done():
		assert.Equal(t, 1, sig.ExitCode)
	case <-time.After(time.Second):
		t.Fatal("no shutdown signal after upstream close")
	}

	families, err := fwd.Gatherer().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)

	require.NoError(t, fwd.Close())
	require.NoError(t, fwd.Close())
	for _, c := range dialer.Connections() {
		assert.True(t, c.IsClosed())
	}
}

func TestForwarder_CloseStopsRun(t *testing.T) {
	fwd, err := New(WithDialer(mocks.NewMockDialer()))
	require.NoError(t, err)
	require.NoError(t, fwd.Start(context.Background()))

	source := make(chan *types.ForwardPacket)
	runErr := make(chan error, 1)
	go func() { runErr <- fwd.Run(context.Background(), source) }()

	require.Eventually(t, func() bool {
		fwd.mu.Lock()
		defer fwd.mu.Unlock()
		return fwd.running
	}, time.Second, time.Millisecond)
	assert.ErrorIs(t, fwd.Run(context.Background(), source), ErrAlreadyRunning)

	require.NoError(t, fwd.Close())
	assert.ErrorIs(t, <-runErr, context.Canceled)
	assert.ErrorIs(t, fwd.Run(context.Background(), source), ErrClosed)
}

func TestForwarder_QUICEndpoint(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Transport.BindAddr = "127.0.0.1"
	cfg.Transport.PortRangeStart = 0
	cfg.Transport.PortRangeEnd = 0
	cfg.Metrics.Enabled = false

	fwd, err := New(WithConfig(cfg))
	require.NoError(t, err)
	require.NoError(t, fwd.Start(context.Background()))
	assert.NotEmpty(t, fwd.Identity().String())
	require.NoError(t, fwd.Close())
}
