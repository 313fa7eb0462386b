package ranking

import (
	"fmt"
	"math"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

// Baseline agent defaults
const (
	DefaultSpecialtyBonus     = 5.0
	DefaultUsageWeight        = 10.0
	DefaultUsageCap           = 8.0
	DefaultReliabilityBase    = 5.0
	DefaultCancellationWeight = 1.0
)

// SpecialtyAffinity gives a fixed bonus when the room's specialty matches the requester's
type SpecialtyAffinity struct {
	Bonus float64
}

// Score implements Agent
func (a SpecialtyAffinity) Score(room domain.Room, profile domain.RequesterProfile, _ *domain.UsageStats) Contribution {
	if !profile.HasSpecialty(room.SpecialtyID) {
		return Contribution{}
	}
	return Contribution{
		Points: a.Bonus,
		Reason: fmt.Sprintf("matches requester specialty (+%.2f)", a.Bonus),
	}
}

// UsageRate rewards rooms that are historically well used, linearly in the rate and up to Cap
type UsageRate struct {
	Weight float64
	Cap    float64
}

// Score implements Agent
func (a UsageRate) Score(_ domain.Room, _ domain.RequesterProfile, stats *domain.UsageStats) Contribution {
	if !stats.HasUsageRate() || stats.UsageRate <= 0 {
		return Contribution{}
	}
	points := math.Min(stats.UsageRate*a.Weight, a.Cap)
	return Contribution{
		Points: points,
		Reason: fmt.Sprintf("usage rate %.0f%% (+%.2f)", stats.UsageRate*100, points),
	}
}

// Reliability rewards rooms with few cancellations: Base minus Penalty per cancellation, floored at zero
type Reliability struct {
	Base    float64
	Penalty float64
}

// Score implements Agent
func (a Reliability) Score(_ domain.Room, _ domain.RequesterProfile, stats *domain.UsageStats) Contribution {
	if stats == nil {
		return Contribution{}
	}
	points := math.Max(0, a.Base-a.Penalty*float64(stats.CancellationCount))
	if points == 0 {
		return Contribution{}
	}
	return Contribution{
		Points: points,
		Reason: fmt.Sprintf("%d cancellations (+%.2f)", stats.CancellationCount, points),
	}
}

// BaselineAgents returns the default agent set in registration order
func BaselineAgents() []Agent {
	return []Agent{
		SpecialtyAffinity{Bonus: DefaultSpecialtyBonus},
		UsageRate{Weight: DefaultUsageWeight, Cap: DefaultUsageCap},
		Reliability{Base: DefaultReliabilityBase, Penalty: DefaultCancellationWeight},
	}
}
