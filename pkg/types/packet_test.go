package types

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDestination(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"IPv4", "127.0.0.1:8001", "127.0.0.1:8001", false},
		{"IPv6", "[::1]:8001", "[::1]:8001", false},
		{"IPv4-mapped 规范化", "[::ffff:10.0.0.1]:8001", "10.0.0.1:8001", false},
		{"缺少端口", "127.0.0.1", "", true},
		{"端口为 0", "127.0.0.1:0", "", true},
		{"主机名不解析", "localhost:8001", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDestination(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestDestination_MapKeyEquality(t *testing.T) {
	a, err := ParseDestination("10.0.0.1:8001")
	require.NoError(t, err)
	b, err := ParseDestination("[::ffff:10.0.0.1]:8001")
	require.NoError(t, err)
	c := netip.MustParseAddrPort("10.0.0.1:8002")

	registry := map[netip.AddrPort]int{a: 1}
	_, ok := registry[b]
	assert.True(t, ok)
	_, ok = registry[c]
	assert.False(t, ok)
}

func TestRawTransaction_MarshalBinary(t *testing.T) {
	data, err := RawTransaction("tx-1").MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, []byte("tx-1"), data)

	_, err = RawTransaction(nil).MarshalBinary()
	assert.ErrorIs(t, err, ErrEmptyTransaction)
}
