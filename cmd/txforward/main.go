// Package main 提供 txforward 命令行入口
//
// 从标准输入（或 -input 指定的文件）逐行读取交易包：
//
//	<ip:port> <base64 交易> [<base64 交易> ...]
//
// 输入结束即上游关闭，进程以非零退出码终止。
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	txforward "github.com/dep2p/go-txforward"
	"github.com/dep2p/go-txforward/internal/ingest"
	"github.com/dep2p/go-txforward/pkg/lib/log"
	"github.com/dep2p/go-txforward/pkg/types"
)

var logger = log.Logger("txforward/cmd")

var (
	configFile   = flag.String("config", "", "配置文件路径（JSON）")
	identityFile = flag.String("identity", "", "身份 keypair 文件路径（覆盖配置文件）")
	inputFile    = flag.String("input", "-", "交易包输入文件，- 表示标准输入")
	metricsAddr  = flag.String("metrics-addr", "", "Prometheus 指标监听地址，如 127.0.0.1:9100")
	lanes        = flag.Int("lanes", 0, "每个目标的 lane 数量（0 = 使用配置）")
	showVersion  = flag.Bool("version", false, "显示版本信息")
)

// sourceBuffer 输入与调度器之间的 channel 容量
const sourceBuffer = 1024

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()

	if *showVersion {
		fmt.Println(txforward.VersionInfo())
		return nil
	}

	opts, err := buildOptions()
	if err != nil {
		return fmt.Errorf("配置错误: %w", err)
	}

	input, closeInput, err := openInput(*inputFile)
	if err != nil {
		return err
	}
	defer closeInput()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.Info("启动 txforward", "version", txforward.Version, "commit", txforward.GitCommit)

	fwd, err := txforward.New(opts...)
	if err != nil {
		return fmt.Errorf("创建转发器失败: %w", err)
	}
	if err := fwd.Start(ctx); err != nil {
		return fmt.Errorf("启动失败: %w", err)
	}
	defer func() { _ = fwd.Close() }()

	if *metricsAddr != "" {
		srv := serveMetrics(*metricsAddr, fwd)
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer shutdownCancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	source := make(chan *types.ForwardPacket, sourceBuffer)
	go func() {
		if err := ingest.NewLineReader(input).Run(ctx, source); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("读取输入失败", "err", err)
		}
	}()

	runErr := make(chan error, 1)
	go func() { runErr <- fwd.Run(ctx, source) }()

	fmt.Fprintf(os.Stderr, "转发器已启动，身份 %s，按 Ctrl+C 退出\n", fwd.Identity())

	select {
	case <-ctx.Done():
		fmt.Fprintln(os.Stderr, "\n正在关闭转发器...")
		return nil
	case err := <-runErr:
		return err
	case sig := <-fwd.Done():
		if sig.ExitCode != 0 {
			return fmt.Errorf("转发器异常终止（退出码 %d）", sig.ExitCode)
		}
		return nil
	}
}

// buildOptions 构建选项
//
// 优先级：命令行参数 > 配置文件 > 默认值
func buildOptions() ([]txforward.Option, error) {
	var opts []txforward.Option

	if *configFile != "" {
		opts = append(opts, txforward.WithConfigFile(*configFile))
	}
	if *identityFile != "" {
		opts = append(opts, txforward.WithKeyFile(*identityFile))
	}
	if *lanes < 0 {
		return nil, fmt.Errorf("-lanes 不能为负数: %d", *lanes)
	}
	if *lanes > 0 {
		opts = append(opts, txforward.WithLanesPerDestination(*lanes))
	}
	return opts, nil
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("打开输入文件失败: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func serveMetrics(addr string, fwd *txforward.Forwarder) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(fwd.Gatherer(), promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("指标服务异常退出", "addr", addr, "err", err)
		}
	}()
	logger.Info("指标服务已启动", "addr", addr)
	return srv
}
