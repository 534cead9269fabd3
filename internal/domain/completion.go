package domain

import "time"

// CompletionRecord is the permanent fact that a profile once owned the whole map.
// At most one exists per profile and it is never removed, even when segments
// are revoked afterwards.
type CompletionRecord struct {
	ProfileID   int64     `json:"profile_id"`
	MemberID    int64     `json:"member_id"`
	GuildID     int64     `json:"guild_id"`
	CompletedAt time.Time `json:"completed_at"`

	// Position is the 1-based finishing order within the guild
	Position int `json:"position"`
}
