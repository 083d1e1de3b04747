package identity

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mr-tron/base58"

	pkgif "github.com/dep2p/go-txforward/pkg/interfaces"
)

// Identity Ed25519 签名身份
type Identity struct {
	privateKey ed25519.PrivateKey
}

// 确保实现接口
var _ pkgif.Identity = (*Identity)(nil)

// Generate 生成新的随机身份
func Generate() (*Identity, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate ed25519 key: %w", err)
	}
	return &Identity{privateKey: priv}, nil
}

// FromSeed 从 32 字节种子创建身份
func FromSeed(seed []byte) (*Identity, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("%w: seed is %d bytes", ErrInvalidKeySize, len(seed))
	}
	return &Identity{privateKey: ed25519.NewKeyFromSeed(seed)}, nil
}

// FromKeypairBytes 从 64 字节 keypair（seed || public key）创建身份
//
// 公钥部分必须与种子派生出的公钥一致。
func FromKeypairBytes(keypair []byte) (*Identity, error) {
	if len(keypair) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%w: keypair is %d bytes", ErrInvalidKeySize, len(keypair))
	}
	id, err := FromSeed(keypair[:ed25519.SeedSize])
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(id.PublicKey(), keypair[ed25519.SeedSize:]) {
		return nil, ErrKeyPairMismatch
	}
	return id, nil
}

// LoadFile 从 JSON 数组格式的 keypair 文件加载身份
//
//	[12, 200, 7, ...]  // 64 个 0-255 的整数
func LoadFile(path string) (*Identity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}

	var ints []int
	if err := json.Unmarshal(data, &ints); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeyFile, err)
	}

	keypair := make([]byte, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("%w: byte %d out of range: %d", ErrInvalidKeyFile, i, v)
		}
		keypair[i] = byte(v)
	}
	return FromKeypairBytes(keypair)
}

// SaveFile 以 JSON 数组格式保存 keypair
func (i *Identity) SaveFile(path string) error {
	ints := make([]int, len(i.privateKey))
	for idx, b := range i.privateKey {
		ints[idx] = int(b)
	}
	data, err := json.Marshal(ints)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// PublicKey 返回公钥
func (i *Identity) PublicKey() ed25519.PublicKey {
	return i.privateKey.Public().(ed25519.PublicKey)
}

// PrivateKey 返回私钥
func (i *Identity) PrivateKey() ed25519.PrivateKey {
	return i.privateKey
}

// String 返回 base58 编码的公钥
func (i *Identity) String() string {
	return base58.Encode(i.PublicKey())
}
