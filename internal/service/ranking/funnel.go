// Package ranking orders conflict-free rooms for a requester.
//
// A Funnel adds a capped recency pre-score and then the contributions of an ordered
// list of agents. Agents only see the room, the requester profile and the room's usage
// statistics; they never see each other's output.
package ranking

import (
	"fmt"
	"math"
	"sort"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

const defaultPreScoreCap = domain.DefaultPreScoreCap

// Contribution is what a single agent adds to a room's score
type Contribution struct {
	Points float64
	Reason string
}

// Agent scores one room. Implementations must be stateless.
// stats is nil when the room has no statistics entry.
type Agent interface {
	Score(room domain.Room, profile domain.RequesterProfile, stats *domain.UsageStats) Contribution
}

// AgentFunc adapts a plain function to Agent
type AgentFunc func(room domain.Room, profile domain.RequesterProfile, stats *domain.UsageStats) Contribution

// Score calls f
func (f AgentFunc) Score(room domain.Room, profile domain.RequesterProfile, stats *domain.UsageStats) Contribution {
	return f(room, profile, stats)
}

// Option configures a Funnel
type Option func(*Funnel)

// WithPreScoreCap limits the recency bonus a room can receive
func WithPreScoreCap(limit float64) Option {
	return func(f *Funnel) {
		if limit >= 0 {
			f.preScoreCap = limit
		}
	}
}

// WithAgents appends agents after the ones already registered
func WithAgents(agents ...Agent) Option {
	return func(f *Funnel) {
		for _, a := range agents {
			if a != nil {
				f.agents = append(f.agents, a)
			}
		}
	}
}

// Funnel composes the pre-score and agents by summation
type Funnel struct {
	agents      []Agent
	preScoreCap float64
}

// NewFunnel creates a funnel. Without WithAgents it ranks by pre-score only.
func NewFunnel(opts ...Option) *Funnel {
	f := &Funnel{preScoreCap: defaultPreScoreCap}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Agents returns the number of registered agents
func (f *Funnel) Agents() int {
	return len(f.agents)
}

// Rank scores every room and returns them sorted by score descending.
// Ties keep input order. Rooms without statistics are scored, never dropped.
func (f *Funnel) Rank(
	rooms []domain.Room,
	profile domain.RequesterProfile,
	statsByRoom map[int64]*domain.UsageStats,
	recencyPreScores map[int64]float64,
) []domain.ScoreEntry {
	entries := make([]domain.ScoreEntry, 0, len(rooms))

	for _, room := range rooms {
		entry := domain.ScoreEntry{Room: room, Reasons: []string{}}

		if pre, ok := recencyPreScores[room.ID]; ok && validPoints(pre) {
			bonus := math.Min(pre, f.preScoreCap)
			entry.Score += bonus
			entry.Reasons = append(entry.Reasons, fmt.Sprintf("recently used by requester (+%.2f)", bonus))
		}

		stats := statsByRoom[room.ID]
		for _, agent := range f.agents {
			c := agent.Score(room, profile, stats)
			if !validPoints(c.Points) {
				continue
			}
			entry.Score += c.Points
			if c.Reason != "" {
				entry.Reasons = append(entry.Reasons, c.Reason)
			}
		}

		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})

	return entries
}

// validPoints drops negative and undefined contributions
func validPoints(p float64) bool {
	return p > 0 && !math.IsNaN(p) && !math.IsInf(p, 0)
}
