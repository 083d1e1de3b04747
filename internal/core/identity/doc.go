// Package identity 提供转发器的签名身份
//
// 身份是一个 Ed25519 keypair，Endpoint 工厂在启动时用它派生自签名
// TLS 客户端证书，目标端据此识别转发器。
//
// # 来源
//
//   - 外部注入的 interfaces.Identity（优先）
//   - JSON 数组格式的 64 字节 keypair 文件（seed || public key）
//   - 都没有时在内存中生成临时身份
//
// # Fx 模块
//
//	app := fx.New(
//	    fx.Supply(cfg),
//	    identity.Module(),
//	    fx.Invoke(func(id pkgif.Identity) {
//	        fmt.Println(id.String())
//	    }),
//	)
package identity
