package dispatcher

import "errors"

var (
	// ErrUpstreamClosed 上游 channel 已关闭
	ErrUpstreamClosed = errors.New("dispatcher: upstream channel closed")

	// ErrAlreadyRunning Run 只能调用一次
	ErrAlreadyRunning = errors.New("dispatcher: already running")
)
