package endpoint

import (
	"context"
	"crypto/ed25519"
	"crypto/tls"
	"io"
	"net"
	"net/netip"
	"testing"
	"time"

	"github.com/quic-go/quic-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-txforward/config"
	"github.com/dep2p/go-txforward/internal/core/identity"
)

func testTransportConfig() config.TransportConfig {
	cfg := config.DefaultTransportConfig()
	cfg.BindAddr = "127.0.0.1"
	cfg.PortRangeStart = 0
	cfg.PortRangeEnd = 0
	return cfg
}

// startReceiver 启动一个接收单向流的 QUIC 服务端，每条流的内容和对端公钥写入 out
func startReceiver(t *testing.T, out chan<- received) netip.AddrPort {
	t.Helper()

	serverID, err := identity.Generate()
	require.NoError(t, err)
	cert, err := NewSelfSignedCertificate(serverID)
	require.NoError(t, err)

	ln, err := quic.ListenAddr("127.0.0.1:0", &tls.Config{
		Certificates: []tls.Certificate{cert},
		NextProtos:   []string{config.ALPNTransactionProtocol},
		ClientAuth:   tls.RequireAnyClientCert,
	}, &quic.Config{MaxIncomingUniStreams: 16})
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			qc, err := ln.Accept(context.Background())
			if err != nil {
				return
			}
			go func(qc *quic.Conn) {
				peer := qc.ConnectionState().TLS.PeerCertificates[0].PublicKey.(ed25519.PublicKey)
				for {
					s, err := qc.AcceptUniStream(context.Background())
					if err != nil {
						return
					}
					data, err := io.ReadAll(s)
					if err != nil {
						continue
					}
					out <- received{peer: peer, data: data}
				}
			}(qc)
		}
	}()

	return ln.Addr().(*net.UDPAddr).AddrPort()
}

type received struct {
	peer ed25519.PublicKey
	data []byte
}

func TestNewSelfSignedCertificate(t *testing.T) {
	id, err := identity.Generate()
	require.NoError(t, err)

	cert, err := NewSelfSignedCertificate(id)
	require.NoError(t, err)
	require.NotNil(t, cert.Leaf)

	assert.Equal(t, certCommonName, cert.Leaf.Subject.CommonName)
	assert.Equal(t, id.PublicKey(), cert.Leaf.PublicKey)
	require.Len(t, cert.Leaf.IPAddresses, 1)
	assert.True(t, cert.Leaf.IPAddresses[0].IsUnspecified())
	assert.NoError(t, cert.Leaf.CheckSignature(cert.Leaf.SignatureAlgorithm, cert.Leaf.RawTBSCertificate, cert.Leaf.Signature))
}

func TestNewSelfSignedCertificate_NilIdentity(t *testing.T) {
	_, err := NewSelfSignedCertificate(nil)
	assert.ErrorIs(t, err, ErrNoIdentity)
}

func TestQUICConfig(t *testing.T) {
	qc := newQUICConfig(config.DefaultTransportConfig())

	assert.Equal(t, 2*time.Second, qc.MaxIdleTimeout)
	assert.Zero(t, qc.KeepAlivePeriod)
	assert.Negative(t, qc.MaxIncomingStreams)
	assert.Negative(t, qc.MaxIncomingUniStreams)
}

func TestClientTLSConfig(t *testing.T) {
	cfg := config.DefaultTransportConfig()
	tc := newClientTLSConfig(cfg, tls.Certificate{})

	assert.True(t, tc.InsecureSkipVerify)
	assert.Equal(t, []string{"solana-tpu"}, tc.NextProtos)
	assert.NotNil(t, tc.ClientSessionCache)

	cfg.Enable0RTT = false
	assert.Nil(t, newClientTLSConfig(cfg, tls.Certificate{}).ClientSessionCache)
}

func TestNew_NilIdentity(t *testing.T) {
	_, err := New(testTransportConfig(), nil)
	assert.ErrorIs(t, err, ErrNoIdentity)
}

func TestNew_PortRange(t *testing.T) {
	id, err := identity.Generate()
	require.NoError(t, err)

	cfg := testTransportConfig()
	cfg.PortRangeStart = 18000
	cfg.PortRangeEnd = 18100

	ep, err := New(cfg, id)
	require.NoError(t, err)
	defer ep.Close()

	port := int(ep.LocalAddr().Port())
	assert.GreaterOrEqual(t, port, cfg.PortRangeStart)
	assert.Less(t, port, cfg.PortRangeEnd)
}

func TestEndpoint_DialAndSend(t *testing.T) {
	out := make(chan received, 4)
	addr := startReceiver(t, out)

	id, err := identity.Generate()
	require.NoError(t, err)
	ep, err := New(testTransportConfig(), id)
	require.NoError(t, err)
	defer ep.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := ep.Dial(ctx, addr)
	require.NoError(t, err)
	defer conn.Close()

	s, err := conn.OpenSendStream(ctx)
	require.NoError(t, err)
	require.NoError(t, s.SetWriteDeadline(time.Now().Add(time.Second)))
	_, err = s.Write([]byte("tx-1"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	select {
	case r := <-out:
		assert.Equal(t, "tx-1", string(r.data))
		assert.Equal(t, id.PublicKey(), r.peer)
	case <-ctx.Done():
		t.Fatal("receiver did not get stream")
	}
}

func TestEndpoint_ConnDoneAfterClose(t *testing.T) {
	out := make(chan received, 1)
	addr := startReceiver(t, out)

	id, err := identity.Generate()
	require.NoError(t, err)
	ep, err := New(testTransportConfig(), id)
	require.NoError(t, err)
	defer ep.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := ep.Dial(ctx, addr)
	require.NoError(t, err)

	select {
	case <-conn.Done():
		t.Fatal("connection terminated early")
	default:
	}

	require.NoError(t, conn.Close())

	select {
	case <-conn.Done():
	case <-time.After(time.Second):
		t.Fatal("Done not closed after Close")
	}
}

func TestEndpoint_DialAfterClose(t *testing.T) {
	id, err := identity.Generate()
	require.NoError(t, err)
	ep, err := New(testTransportConfig(), id)
	require.NoError(t, err)
	require.NoError(t, ep.Close())
	require.NoError(t, ep.Close())

	_, err = ep.Dial(context.Background(), netip.MustParseAddrPort("127.0.0.1:9"))
	assert.ErrorIs(t, err, ErrEndpointClosed)
}
