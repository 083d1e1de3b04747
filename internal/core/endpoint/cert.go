package endpoint

import (
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"fmt"
	"math/big"
	"net"
	"time"

	pkgif "github.com/dep2p/go-txforward/pkg/interfaces"
)

// CertificateSource 从身份派生 TLS 证书
type CertificateSource func(id pkgif.Identity) (tls.Certificate, error)

// certCommonName 目标端不校验主题，只读取证书公钥作为身份
const certCommonName = "Solana node"

// NewSelfSignedCertificate 用身份私钥签发自签名证书
//
// 证书公钥即身份公钥，目标端从中识别转发器。
func NewSelfSignedCertificate(id pkgif.Identity) (tls.Certificate, error) {
	if id == nil {
		return tls.Certificate{}, ErrNoIdentity
	}

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 63))
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("生成证书序列号失败: %w", err)
	}

	template := &x509.Certificate{
		SerialNumber:          serial,
		Subject:               pkix.Name{CommonName: certCommonName},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().AddDate(100, 0, 0),
		KeyUsage:              x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth, x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		IPAddresses:           []net.IP{net.IPv4zero},
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, id.PublicKey(), id.PrivateKey())
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("创建证书失败: %w", err)
	}

	leaf, err := x509.ParseCertificate(der)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("解析证书失败: %w", err)
	}

	return tls.Certificate{
		Certificate: [][]byte{der},
		PrivateKey:  id.PrivateKey(),
		Leaf:        leaf,
	}, nil
}
