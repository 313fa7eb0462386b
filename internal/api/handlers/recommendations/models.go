package recommendations

import (
	searchHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/search_availability"
	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

// RecommendationResponse одна комната с оценкой
type RecommendationResponse struct {
	Room    searchHandler.RoomResponse `json:"room"`
	Score   float64                    `json:"score"`
	Reasons []string                   `json:"reasons"`
}

// RecommendationsResponse HTTP response model
type RecommendationsResponse struct {
	Recommendations    []RecommendationResponse `json:"recommendations"`
	NextCursor         int64                    `json:"nextCursor"`
	HasMore            bool                     `json:"hasMore"`
	PreconditionFailed bool                     `json:"preconditionFailed"`
	Reason             string                   `json:"reason,omitempty"`
}

func fromEntries(entries []domain.ScoreEntry) []RecommendationResponse {
	out := make([]RecommendationResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, RecommendationResponse{
			Room:    searchHandler.FromRoom(e.Room),
			Score:   e.Score,
			Reasons: e.Reasons,
		})
	}
	return out
}
