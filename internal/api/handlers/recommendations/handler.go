package recommendations

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-RoomBookingService/internal/api/handlers"
	searchHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/search_availability"
	"github.com/m04kA/SMC-RoomBookingService/internal/api/middleware"
	rankCandidates "github.com/m04kA/SMC-RoomBookingService/internal/usecase/rank_candidates"
	searchAvailability "github.com/m04kA/SMC-RoomBookingService/internal/usecase/search_availability"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidWindow      = "некорректное окно бронирования"
	msgInvalidData        = "некорректные параметры поиска"
)

type Handler struct {
	search SearchAvailabilityUseCase
	rank   RankCandidatesUseCase
	logger Logger
}

func NewHandler(search SearchAvailabilityUseCase, rank RankCandidatesUseCase, logger Logger) *Handler {
	return &Handler{
		search: search,
		rank:   rank,
		logger: logger,
	}
}

// Handle POST /api/v1/rooms/recommendations
// Находит страницу свободных комнат и ранжирует её для заявителя.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /rooms/recommendations - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req searchHandler.SearchRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /rooms/recommendations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	found, err := h.search.Execute(r.Context(), req.ToUseCaseRequest(userID))
	if err != nil {
		switch {
		case errors.Is(err, searchAvailability.ErrInvalidWindow):
			h.logger.Warn("POST /rooms/recommendations - Invalid window: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidWindow+": "+err.Error())

		case errors.Is(err, searchAvailability.ErrInvalidInput):
			h.logger.Warn("POST /rooms/recommendations - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidData+": "+err.Error())

		default:
			h.logger.Error("POST /rooms/recommendations - Failed to search rooms: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := &RecommendationsResponse{
		Recommendations:    []RecommendationResponse{},
		NextCursor:         found.NextCursor,
		HasMore:            found.HasMore,
		PreconditionFailed: found.PreconditionFailed,
		Reason:             found.Reason,
	}
	if found.PreconditionFailed {
		h.logger.Warn("POST /rooms/recommendations - Precondition failed: user_id=%d, reason=%s", userID, found.Reason)
		handlers.RespondJSON(w, http.StatusOK, response)
		return
	}

	ranked, err := h.rank.Execute(r.Context(), &rankCandidates.Request{RequesterID: userID, Rooms: found.Rooms})
	if err != nil {
		h.logger.Error("POST /rooms/recommendations - Failed to rank rooms: user_id=%d, error=%v", userID, err)
		handlers.RespondInternalError(w)
		return
	}

	response.Recommendations = fromEntries(ranked.Entries)
	response.PreconditionFailed = ranked.PreconditionFailed
	response.Reason = ranked.Reason

	h.logger.Info("POST /rooms/recommendations - Ranked %d rooms: user_id=%d", len(response.Recommendations), userID)
	handlers.RespondJSON(w, http.StatusOK, response)
}
