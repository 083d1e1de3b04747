package interfaces

import "crypto/ed25519"

// Identity 签名身份
//
// 由外部身份提供者给出，Endpoint 工厂只在启动时使用一次，
// 用于派生 TLS 客户端证书。
type Identity interface {
	// PublicKey 返回 Ed25519 公钥
	PublicKey() ed25519.PublicKey

	// PrivateKey 返回 Ed25519 私钥
	PrivateKey() ed25519.PrivateKey

	// String 返回 base58 编码的公钥
	String() string
}
