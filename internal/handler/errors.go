package handler

// Generic HTTP error messages for client responses.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgInvalidID             = "Invalid %s path parameter"
	ErrMsgRenderMapFailed       = "Failed to render map"
	ErrMsgGetLeaderboardFailed  = "Failed to retrieve leaderboard"
)

// User-facing error messages derived from domain errors
const (
	ErrMsgGenericServerError   = "Something went wrong"
	ErrMsgUnknownError         = "Unknown error"
	ErrMsgInvalidPageError     = "Invalid offset or limit"
	ErrMsgProfileNotFoundError = "Profile not found"
	ErrMsgNotEnoughPointsError = "Not enough points"
	ErrMsgInvalidAmountError   = "Amount must be non-zero"
	ErrMsgInvalidSegmentError  = "Segment number out of range"
	ErrMsgPoolExhaustedError   = "Map already complete"
	ErrMsgConflictError        = "Conflicting update, please retry"
	ErrMsgUnavailableError     = "Server is temporarily unavailable. Please try again later."
)

// Health response values
const (
	StatusOK              = "ok"
	StatusUnavailable     = "unavailable"
	MsgDatabaseConnFailed = "database connection failed"
	LogMsgReadinessFailed = "Readiness check failed"
)
