package recommendations

import (
	"context"

	rankCandidates "github.com/m04kA/SMC-RoomBookingService/internal/usecase/rank_candidates"
	searchAvailability "github.com/m04kA/SMC-RoomBookingService/internal/usecase/search_availability"
)

type SearchAvailabilityUseCase interface {
	Execute(ctx context.Context, req *searchAvailability.Request) (*searchAvailability.Response, error)
}

type RankCandidatesUseCase interface {
	Execute(ctx context.Context, req *rankCandidates.Request) (*rankCandidates.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
