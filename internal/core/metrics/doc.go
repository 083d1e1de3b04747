// Package metrics 提供基于 Prometheus 的转发指标
//
// Collector 实现 interfaces.Metrics，所有指标注册到独立的 Registry，
// 不污染全局默认注册表。
//
//	reg := prometheus.NewRegistry()
//	c := metrics.NewCollector(reg, "txforward")
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
//
// 指标：
//
//	txforward_lane_sets_created_total            lane 组创建次数（即目标数，只增不减）
//	txforward_packets_routed_total               进入 lane 队列的包
//	txforward_batches_total{result}              批次结果 sent/timeout
//	txforward_batch_transactions                 每批交易数
//	txforward_batch_duration_seconds             完成批次的耗时
//	txforward_transactions_total{result}         单笔交易结果 ok/error
//	txforward_connect_attempts_total{result}     建连结果 ok/error
package metrics
