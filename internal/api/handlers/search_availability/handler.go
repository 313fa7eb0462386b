package search_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-RoomBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-RoomBookingService/internal/api/middleware"
	searchAvailability "github.com/m04kA/SMC-RoomBookingService/internal/usecase/search_availability"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidWindow      = "некорректное окно бронирования"
	msgInvalidData        = "некорректные параметры поиска"
)

type Handler struct {
	useCase SearchAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase SearchAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/rooms/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /rooms/availability - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req SearchRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /rooms/availability - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(userID))
	if err != nil {
		switch {
		case errors.Is(err, searchAvailability.ErrInvalidWindow):
			h.logger.Warn("POST /rooms/availability - Invalid window: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidWindow+": "+err.Error())

		case errors.Is(err, searchAvailability.ErrInvalidInput):
			h.logger.Warn("POST /rooms/availability - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidData+": "+err.Error())

		default:
			h.logger.Error("POST /rooms/availability - Failed to search rooms: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /rooms/availability - Search completed: user_id=%d, rooms=%d, has_more=%t",
		userID, len(result.Rooms), result.HasMore)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
