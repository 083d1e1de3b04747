// Package txforward 提供交易转发器
//
// Forwarder 消费上游的交易包 channel，按目标地址懒创建 lane 组，
// 每条 lane 独立持有一条自动重连的 QUIC 连接，贪婪合批后在固定超时内分块并发发送。
// 交付是尽力而为的：单笔失败与超时批次都会被丢弃。
//
// # 快速开始
//
//	fwd, err := txforward.New(
//	    txforward.WithKeyFile("validator-keypair.json"),
//	)
//	if err != nil {
//	    return err
//	}
//	if err := fwd.Start(ctx); err != nil {
//	    return err
//	}
//	defer fwd.Close()
//
//	packets := make(chan *types.ForwardPacket, 1024)
//	go fwd.Run(ctx, packets)
//
//	packets <- types.NewForwardPacket(dest, types.RawTransaction(tx))
//
// # 上游关闭
//
// 上游 channel 关闭被视为不可恢复：Run 返回 dispatcher.ErrUpstreamClosed，
// 同时通过 fx.Shutdowner 以退出码 1 请求关闭，Done() 会收到该信号。
//
// # 模块组装
//
//	identity → metrics → endpoint → reconnect → dispatcher
//
// 使用 WithDialer 时不创建 QUIC 端点。
package txforward
