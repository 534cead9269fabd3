package domain

import "time"

// Transaction reasons recorded by the core. Admin adjustments carry free text.
const (
	ReasonSegmentPurchase     = "map segment purchase"
	ReasonBulkSegmentPurchase = "map segment bulk purchase"
	ReasonAdminAdjustment     = "admin adjustment"
)

// Transaction is an append-only audit entry for a point balance change
type Transaction struct {
	ID        int64     `json:"id"`
	ProfileID int64     `json:"profile_id"`
	Amount    int       `json:"amount"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}
