package config

// IdentityConfig 身份配置
//
// KeyFile 为 JSON 数组格式的 64 字节 Ed25519 keypair 文件。
// 为空时在内存中生成临时身份，目标端会把它视为未质押的客户端。
type IdentityConfig struct {
	// KeyFile 密钥文件路径
	KeyFile string `json:"key_file"`
}

// DefaultIdentityConfig 返回默认身份配置
func DefaultIdentityConfig() IdentityConfig {
	return IdentityConfig{}
}

// Validate 验证身份配置
func (c IdentityConfig) Validate() error {
	return nil
}
