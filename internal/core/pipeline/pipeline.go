package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	pkgif "github.com/dep2p/go-txforward/pkg/interfaces"
	"github.com/dep2p/go-txforward/pkg/types"
)

// DefaultChunkSize 目标端允许的最大并发流数
const DefaultChunkSize = 6

// Result 单笔交易的发送结果
type Result struct {
	// Index 交易在批次中的位置
	Index int

	// Err 序列化或发送错误，nil 表示成功
	Err error
}

// Observer 接收每笔交易的发送结果，可能被并发调用
type Observer func(Result)

// Pipeline 批次发送管道
type Pipeline struct {
	chunkSize int
	observer  Observer
}

// Option 管道选项
type Option func(*Pipeline)

// WithObserver 设置结果观察者
func WithObserver(o Observer) Option {
	return func(p *Pipeline) {
		p.observer = o
	}
}

// New 创建管道，chunkSize <= 0 时使用 DefaultChunkSize
func New(chunkSize int, opts ...Option) *Pipeline {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	p := &Pipeline{
		chunkSize: chunkSize,
		observer:  func(Result) {},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ChunkSize 返回分块大小
func (p *Pipeline) ChunkSize() int {
	return p.chunkSize
}

// Send 通过 sender 发送整个批次
//
// 单笔失败被吞掉；只有 ctx 在批次完成前结束时返回 ctx.Err()。
func (p *Pipeline) Send(ctx context.Context, sender pkgif.Sender, txs []types.Transaction) error {
	offset := 0
	for _, chunk := range Chunks(txs, p.chunkSize) {
		if err := ctx.Err(); err != nil {
			return err
		}

		var g errgroup.Group
		for i, tx := range chunk {
			index := offset + i
			g.Go(func() error {
				err := sendOne(ctx, sender, tx)
				p.observer(Result{Index: index, Err: err})
				return err
			})
		}
		// 本块全部完成后才开始下一块，单笔错误已交给 observer
		_ = g.Wait()

		offset += len(chunk)
	}
	return ctx.Err()
}

func sendOne(ctx context.Context, sender pkgif.Sender, tx types.Transaction) error {
	payload, err := tx.MarshalBinary()
	if err != nil {
		return fmt.Errorf("serialize transaction: %w", err)
	}
	return sender.Send(ctx, payload)
}

// Chunks 按 n 切分交易序列，最后一块可能不足 n
func Chunks(txs []types.Transaction, n int) [][]types.Transaction {
	if n <= 0 || len(txs) == 0 {
		return nil
	}
	chunks := make([][]types.Transaction, 0, (len(txs)+n-1)/n)
	for start := 0; start < len(txs); start += n {
		end := min(start+n, len(txs))
		chunks = append(chunks, txs[start:end])
	}
	return chunks
}
