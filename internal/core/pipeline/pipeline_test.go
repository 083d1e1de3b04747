package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-txforward/pkg/types"
	"github.com/dep2p/go-txforward/tests/mocks"
)

var testDest = netip.MustParseAddrPort("10.0.0.1:8009")

func makeTxs(n int) []types.Transaction {
	txs := make([]types.Transaction, n)
	for i := range txs {
		txs[i] = types.RawTransaction(fmt.Sprintf("tx-%d", i))
	}
	return txs
}

func txIndex(payload []byte) int {
	i, _ := strconv.Atoi(strings.TrimPrefix(string(payload), "tx-"))
	return i
}

func TestChunks(t *testing.T) {
	tests := []struct {
		name string
		n    int
		size int
		want []int
	}{
		{"13 笔分 6", 13, 6, []int{6, 6, 1}},
		{"恰好整除", 12, 6, []int{6, 6}},
		{"不足一块", 3, 6, []int{3}},
		{"空批次", 0, 6, nil},
		{"非法块大小", 5, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sizes []int
			for _, c := range Chunks(makeTxs(tt.n), tt.size) {
				sizes = append(sizes, len(c))
			}
			assert.Equal(t, tt.want, sizes)
		})
	}
}

func TestChunks_PreservesOrder(t *testing.T) {
	txs := makeTxs(13)
	var flat []types.Transaction
	for _, c := range Chunks(txs, 6) {
		flat = append(flat, c...)
	}
	assert.Equal(t, txs, flat)
}

func TestNew_DefaultChunkSize(t *testing.T) {
	assert.Equal(t, DefaultChunkSize, New(0).ChunkSize())
	assert.Equal(t, 4, New(4).ChunkSize())
}

func TestPipeline_ChunksSequentialSendsConcurrent(t *testing.T) {
	var (
		mu      sync.Mutex
		events  []string
		active  atomic.Int32
		maxSeen atomic.Int32
	)

	sender := mocks.NewMockSender(testDest)
	sender.SendFunc = func(ctx context.Context, payload []byte) error {
		n := active.Add(1)
		for {
			cur := maxSeen.Load()
			if n <= cur || maxSeen.CompareAndSwap(cur, n) {
				break
			}
		}
		mu.Lock()
		events = append(events, "start:"+string(payload))
		mu.Unlock()

		time.Sleep(20 * time.Millisecond)

		mu.Lock()
		events = append(events, "end:"+string(payload))
		mu.Unlock()
		active.Add(-1)
		return nil
	}

	p := New(6)
	require.NoError(t, p.Send(context.Background(), sender, makeTxs(13)))
	assert.Len(t, sender.Payloads(), 13)

	assert.LessOrEqual(t, maxSeen.Load(), int32(6))
	assert.Greater(t, maxSeen.Load(), int32(1), "块内应并发发送")

	// 块 k 的所有结束事件都在块 k+1 的任一开始事件之前
	chunkOf := func(ev string) int {
		_, payload, _ := strings.Cut(ev, ":")
		return txIndex([]byte(payload)) / 6
	}
	lastEnd := map[int]int{}
	firstStart := map[int]int{}
	for i, ev := range events {
		c := chunkOf(ev)
		if strings.HasPrefix(ev, "end:") {
			lastEnd[c] = i
		} else if _, ok := firstStart[c]; !ok {
			firstStart[c] = i
		}
	}
	assert.Less(t, lastEnd[0], firstStart[1])
	assert.Less(t, lastEnd[1], firstStart[2])
}

func TestPipeline_FailuresSwallowed(t *testing.T) {
	sendErr := errors.New("stream reset")
	sender := mocks.NewMockSender(testDest)
	sender.SendFunc = func(_ context.Context, payload []byte) error {
		if txIndex(payload) == 2 {
			return sendErr
		}
		return nil
	}

	var (
		mu      sync.Mutex
		results []Result
	)
	p := New(6, WithObserver(func(r Result) {
		mu.Lock()
		results = append(results, r)
		mu.Unlock()
	}))

	require.NoError(t, p.Send(context.Background(), sender, makeTxs(13)))

	assert.Len(t, sender.Payloads(), 12)
	require.Len(t, results, 13)

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			assert.Equal(t, 2, r.Index)
			assert.ErrorIs(t, r.Err, sendErr)
		}
	}
	assert.Equal(t, 1, failed)
}

func TestPipeline_SerializeFailure(t *testing.T) {
	sender := mocks.NewMockSender(testDest)

	var got []Result
	var mu sync.Mutex
	p := New(6, WithObserver(func(r Result) {
		mu.Lock()
		got = append(got, r)
		mu.Unlock()
	}))

	txs := []types.Transaction{types.RawTransaction("a"), types.RawTransaction(nil)}
	require.NoError(t, p.Send(context.Background(), sender, txs))

	assert.Equal(t, []string{"a"}, sender.PayloadStrings())
	require.Len(t, got, 2)
	for _, r := range got {
		if r.Index == 1 {
			assert.ErrorIs(t, r.Err, types.ErrEmptyTransaction)
		} else {
			assert.NoError(t, r.Err)
		}
	}
}

func TestPipeline_ContextExpiredStopsBeforeNextChunk(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var calls atomic.Int32
	sender := mocks.NewMockSender(testDest)
	sender.SendFunc = func(context.Context, []byte) error {
		if calls.Add(1) == 6 {
			cancel()
		}
		return nil
	}

	err := New(6).Send(ctx, sender, makeTxs(13))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(6), calls.Load(), "第二块不应开始")
}
