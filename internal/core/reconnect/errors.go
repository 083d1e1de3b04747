package reconnect

import "errors"

var (
	// ErrClosed 传输已关闭
	ErrClosed = errors.New("reconnect: transport closed")

	// ErrBackoff 处于建连失败后的退避窗口内
	ErrBackoff = errors.New("reconnect: in backoff window")
)
