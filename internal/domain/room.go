package domain

import (
	"math"
	"time"
)

// Room is a bookable physical room. Its attributes only serve as search filters.
type Room struct {
	ID          int64
	Label       string
	Block       string
	Type        string
	SpecialtyID *int64
	IsActive    bool
}

// RoomFilter narrows the candidate set of an availability search.
// Empty fields are not applied.
type RoomFilter struct {
	Query       string // free text matched against label, block and type
	Block       string
	Type        string
	SpecialtyID *int64
}

// RequesterProfile is what the booking core needs to know about the person booking
type RequesterProfile struct {
	ID          int64
	SpecialtyID *int64
	IsActive    bool
}

// HasSpecialty reports whether the requester's specialty equals id
func (p *RequesterProfile) HasSpecialty(id *int64) bool {
	return p != nil && p.SpecialtyID != nil && id != nil && *p.SpecialtyID == *id
}

// UsageStats aggregates a room's historical usage
type UsageStats struct {
	RoomID int64
	// UsageRate is the share of offered time that was booked, in [0, 1]; NaN when undefined
	UsageRate         float64
	CancellationCount int
	UpdatedAt         time.Time
}

// HasUsageRate reports whether the usage rate is defined
func (s *UsageStats) HasUsageRate() bool {
	return s != nil && !math.IsNaN(s.UsageRate) && !math.IsInf(s.UsageRate, 0)
}

// ScoreEntry is one ranked room with the reasons behind its score
type ScoreEntry struct {
	Room    Room
	Score   float64
	Reasons []string
}
