package pool

// Error messages
const (
	ErrMsgInvalidSizeFmt = "pool size must be positive, got %d"
)
