package ranking

// Formatted error messages
const (
	ErrMsgTopByPointsFmt        = "failed to list top balances: %w"
	ErrMsgCompletionOrderFmt    = "failed to list completions: %w"
	ErrMsgSegmentLeaderboardFmt = "failed to list segment counts: %w"
	ErrMsgTransactionHistoryFmt = "failed to list transactions: %w"
)
