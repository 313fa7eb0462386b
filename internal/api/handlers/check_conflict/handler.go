package check_conflict

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RoomBookingService/internal/api/handlers"
	checkConflict "github.com/m04kA/SMC-RoomBookingService/internal/usecase/check_conflict"
)

const (
	msgInvalidRoomID      = "некорректный ID комнаты"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidWindow      = "некорректное окно бронирования"
	msgInvalidData        = "некорректные данные запроса"
	msgRoomNotFound       = "комната не найдена"
)

type Handler struct {
	useCase CheckConflictUseCase
	logger  Logger
}

func NewHandler(useCase CheckConflictUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/rooms/{roomId}/conflicts
// Найденный конфликт - это успешный ответ с conflict=true, а не ошибка.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	roomID, err := strconv.ParseInt(vars["roomId"], 10, 64)
	if err != nil || roomID <= 0 {
		h.logger.Warn("POST /rooms/{id}/conflicts - Invalid room ID: %q", vars["roomId"])
		handlers.RespondBadRequest(w, msgInvalidRoomID)
		return
	}

	var req CheckConflictRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /rooms/{id}/conflicts - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(roomID))
	if err != nil {
		switch {
		case errors.Is(err, checkConflict.ErrInvalidWindow):
			h.logger.Warn("POST /rooms/{id}/conflicts - Invalid window: room_id=%d, error=%v", roomID, err)
			handlers.RespondBadRequest(w, msgInvalidWindow+": "+err.Error())

		case errors.Is(err, checkConflict.ErrInvalidInput):
			h.logger.Warn("POST /rooms/{id}/conflicts - Invalid input: room_id=%d, error=%v", roomID, err)
			handlers.RespondBadRequest(w, msgInvalidData+": "+err.Error())

		case errors.Is(err, checkConflict.ErrRoomNotFound):
			h.logger.Warn("POST /rooms/{id}/conflicts - Room not found: room_id=%d", roomID)
			handlers.RespondNotFound(w, msgRoomNotFound)

		default:
			h.logger.Error("POST /rooms/{id}/conflicts - Failed to check conflicts: room_id=%d, error=%v", roomID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /rooms/{id}/conflicts - Checked: room_id=%d, conflict=%t, conflicts=%d",
		roomID, result.Conflict, len(result.Conflicts))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
