package domain

import (
	"math"
	"time"
)

// MaxPointsDelta bounds the magnitude of a single balance adjustment
const MaxPointsDelta = math.MaxInt32

// Profile is a member's economy account within a single guild.
// (MemberID, GuildID) is unique; Points never drops below zero.
type Profile struct {
	ID        int64     `json:"id"`
	MemberID  int64     `json:"member_id"`
	GuildID   int64     `json:"guild_id"`
	Points    int       `json:"points"`
	CreatedAt time.Time `json:"created_at"`
}

// CanAfford reports whether the profile balance covers cost
func (p *Profile) CanAfford(cost int) bool {
	return p.Points >= cost
}
