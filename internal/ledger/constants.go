package ledger

// Formatted error messages
const (
	ErrMsgZeroDeltaFmt          = "%w: delta must be non-zero"
	ErrMsgDeltaRangeFmt         = "%w: delta %d exceeds ±%d"
	ErrMsgGetOrCreateProfileFmt = "failed to get or create profile: %w"
	ErrMsgAdjustPointsFmt       = "failed to adjust points: %w"
)

// Log messages
const (
	LogMsgPointsAdjusted = "Points adjusted"
	LogMsgAdjustFailed   = "Failed to adjust points"
)
