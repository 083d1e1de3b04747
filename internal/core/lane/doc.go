// Package lane 实现每个目标地址的并行发送 lane
//
// Worker 是单条 lane：独立的有界队列加独立的 Sender，循环执行
//
//	Receiving ──≥1 个包──▶ Batching ──非阻塞排空队列──▶ Sending ──完成/超时──▶ Receiving
//
// 批次在 BatchTimeout 内未完成则整批丢弃，不重试、不回队列。
//
// Set 是同一目标的 W 条 lane，创建后大小固定。每个包只投递给其中一条：
// 选择剩余容量最大的 lane（并列时轮询），该 lane 队列满时阻塞调用者。
package lane
