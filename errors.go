package txforward

import "errors"

var (
	// ErrNotStarted 转发器未启动
	ErrNotStarted = errors.New("forwarder not started")

	// ErrAlreadyStarted 转发器已启动
	ErrAlreadyStarted = errors.New("forwarder already started")

	// ErrAlreadyRunning Run 已在执行
	ErrAlreadyRunning = errors.New("forwarder already running")

	// ErrClosed 转发器已关闭
	ErrClosed = errors.New("forwarder closed")

	// ErrNilOption 选项参数为空
	ErrNilOption = errors.New("option argument is nil")
)
