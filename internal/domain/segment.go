package domain

import "time"

// Map layout defaults. A map is a grid of Columns x Rows segments numbered
// row by row starting at 1.
const (
	DefaultMapColumns = 6
	DefaultMapRows    = 5

	// DefaultSegmentCount is the number of collectible segments on a default map
	DefaultSegmentCount = DefaultMapColumns * DefaultMapRows
)

// SegmentOwnership records that a profile owns one copy of a segment
type SegmentOwnership struct {
	ProfileID  int64     `json:"profile_id"`
	Number     int       `json:"number"`
	AcquiredAt time.Time `json:"acquired_at"`
}

// SegmentCount is one row of the segment collection leaderboard
type SegmentCount struct {
	ProfileID int64 `json:"profile_id"`
	MemberID  int64 `json:"member_id"`
	Owned     int   `json:"owned"`
}
