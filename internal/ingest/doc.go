// Package ingest 把文本行转换为交易包
//
// 每行格式：
//
//	<ip:port> <base64 交易> [<base64 交易> ...]
//
// 空行和以 # 开头的行被忽略；格式错误的行记录告警后跳过。
// 输入结束时关闭输出 channel，由下游按上游关闭处理。
package ingest
