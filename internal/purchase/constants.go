package purchase

// Formatted error messages
const (
	ErrMsgInvalidCostFmt       = "%w: cost must be positive, got %d"
	ErrMsgNeedPointsFmt        = "%w: need %d, have %d"
	ErrMsgBeginTxFmt           = "failed to begin transaction: %w"
	ErrMsgLockProfileFmt       = "failed to lock profile: %w"
	ErrMsgGetOwnedFmt          = "failed to get owned segments: %w"
	ErrMsgAddSegmentFmt        = "failed to add segment: %w"
	ErrMsgDebitFmt             = "failed to debit points: %w"
	ErrMsgCheckCompletionFmt   = "failed to check completion: %w"
	ErrMsgRecordCompletionFmt  = "failed to record completion: %w"
	ErrMsgCommitFmt            = "failed to commit transaction: %w"
	ErrMsgRemoveSegmentFmt     = "failed to remove segment: %w"
	ErrMsgSegmentOutOfRangeFmt = "%w: %d is outside 1..%d"
	ErrMsgSegmentOwnedFmt      = "%w: segment %d"
)

// Log messages
const (
	LogMsgSegmentsBought   = "Map segments bought"
	LogMsgSegmentGranted   = "Map segment granted"
	LogMsgSegmentRevoked   = "Map segment revoked"
	LogMsgMapCompleted     = "Map completed"
	LogMsgPurchaseRejected = "Purchase rejected"
	LogMsgPurchaseFailed   = "Purchase failed"
)
