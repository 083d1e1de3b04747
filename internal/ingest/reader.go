package ingest

import (
	"bufio"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dep2p/go-txforward/pkg/lib/log"
	"github.com/dep2p/go-txforward/pkg/types"
)

var logger = log.Logger("ingest")

// maxLineSize 单行最大字节数
const maxLineSize = 4 << 20

// ErrNoTransactions 行中没有交易
var ErrNoTransactions = errors.New("ingest: line has no transactions")

// ParseLine 解析一行为交易包
func ParseLine(line string) (*types.ForwardPacket, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, ErrNoTransactions
	}

	dest, err := types.ParseDestination(fields[0])
	if err != nil {
		return nil, err
	}
	if len(fields) == 1 {
		return nil, ErrNoTransactions
	}

	txs := make([]types.Transaction, 0, len(fields)-1)
	for i, f := range fields[1:] {
		raw, err := base64.StdEncoding.DecodeString(f)
		if err != nil {
			return nil, fmt.Errorf("ingest: transaction %d: %w", i, err)
		}
		if len(raw) == 0 {
			return nil, fmt.Errorf("ingest: transaction %d: %w", i, types.ErrEmptyTransaction)
		}
		txs = append(txs, types.RawTransaction(raw))
	}
	return types.NewForwardPacket(dest, txs...), nil
}

// LineReader 从 io.Reader 逐行读取交易包
type LineReader struct {
	r io.Reader
}

// NewLineReader 创建 LineReader
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{r: r}
}

// Run 读取直到输入结束或 ctx 结束，返回前关闭 out
//
// 输入正常结束时返回 nil。
func (l *LineReader) Run(ctx context.Context, out chan<- *types.ForwardPacket) error {
	defer close(out)

	scanner := bufio.NewScanner(l.r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		pkt, err := ParseLine(line)
		if err != nil {
			logger.Warn("跳过无效行", "line", lineNo, "err", err)
			continue
		}

		select {
		case out <- pkt:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("ingest: read input: %w", err)
	}

	logger.Info("输入已结束", "lines", lineNo)
	return nil
}
