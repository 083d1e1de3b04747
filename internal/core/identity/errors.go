package identity

import "errors"

var (
	// ErrInvalidKeySize 无效的密钥长度
	ErrInvalidKeySize = errors.New("invalid key size")

	// ErrKeyPairMismatch 密钥对不匹配
	ErrKeyPairMismatch = errors.New("key pair mismatch")

	// ErrInvalidKeyFile 无效的密钥文件
	ErrInvalidKeyFile = errors.New("invalid key file")
)
