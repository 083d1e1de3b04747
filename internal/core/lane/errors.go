package lane

import "errors"

// ErrNoLanes lane 数量必须为正
var ErrNoLanes = errors.New("lane: lane count must be positive")
