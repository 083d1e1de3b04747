// Package dispatcher 实现上游交易包的单消费者路由
//
// Dispatcher 是上游 channel 的唯一消费者。目标地址首次出现时创建并启动一个
// lane.Set，之后所有同目标的包都投给它。注册表只由 Run 所在的 goroutine 修改。
//
// 投递在选中的 lane 队列满时阻塞，此时所有目标的路由都会暂停，直到该队列腾出空位。
// lane 组创建后不会被回收，直到进程退出。
//
// 上游 channel 关闭是不可恢复的：Run 返回 ErrUpstreamClosed，由上层终止进程。
package dispatcher
