package ranking

import (
	"time"
)

// RecencyPreScores turns the requester's last use of each room into a bonus that decays
// linearly from limit (used just now) to zero (used window ago or earlier).
// Usage timestamps in the future count as "just now".
func RecencyPreScores(lastUsed map[int64]time.Time, now time.Time, window time.Duration, limit float64) map[int64]float64 {
	out := make(map[int64]float64, len(lastUsed))
	if window <= 0 || limit <= 0 {
		return out
	}

	for roomID, at := range lastUsed {
		age := now.Sub(at)
		if age < 0 {
			age = 0
		}
		if age >= window {
			continue
		}
		out[roomID] = limit * (1 - float64(age)/float64(window))
	}

	return out
}
