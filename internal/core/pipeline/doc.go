// Package pipeline 实现批次的分块并发发送
//
// 批次按 chunkSize（目标端允许的最大并发流数）切分，块与块之间严格串行，
// 块内每笔交易各开一条流并发发送。单笔失败不影响同块其他交易，也不返回给调用者，
// 只以 Result 的形式交给 Observer。
package pipeline
