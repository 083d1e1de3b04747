package reconnect

// State 连接状态
type State int

const (
	// StateAbsent 尚未建连
	StateAbsent State = iota
	// StateConnecting 建连进行中
	StateConnecting
	// StateLive 连接可用
	StateLive
	// StateBroken 连接已断开或上次建连失败
	StateBroken
	// StateClosed 传输已关闭
	StateClosed
)

// String 返回状态字符串
func (s State) String() string {
	switch s {
	case StateAbsent:
		return "absent"
	case StateConnecting:
		return "connecting"
	case StateLive:
		return "live"
	case StateBroken:
		return "broken"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}
