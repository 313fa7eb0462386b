package create_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RoomBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-RoomBookingService/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-RoomBookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRoomID      = "некорректный ID комнаты"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidWindow      = "некорректное окно бронирования"
	msgInvalidData        = "некорректные данные бронирования"
	msgWindowInPast       = "окно бронирования начинается в прошлом"
	msgDateTooFar         = "дата бронирования слишком далеко в будущем"
	msgRoomNotFound       = "комната не найдена"
	msgPreconditionFailed = "заявитель не найден или неактивен"
	msgConflict           = "комната уже забронирована на это время"
	msgWriteRaceLost      = "комнату только что забронировал другой запрос, повторите проверку"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/rooms/{roomId}/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	roomID, err := strconv.ParseInt(vars["roomId"], 10, 64)
	if err != nil || roomID <= 0 {
		h.logger.Warn("POST /rooms/{id}/bookings - Invalid room ID: %q", vars["roomId"])
		handlers.RespondBadRequest(w, msgInvalidRoomID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /rooms/{id}/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /rooms/{id}/bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(userID, roomID))
	if err != nil {
		h.respondError(w, err, userID, roomID)
		return
	}

	h.logger.Info("POST /rooms/{id}/bookings - Bookings created successfully: room_id=%d, user_id=%d, count=%d",
		roomID, userID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

func (h *Handler) respondError(w http.ResponseWriter, err error, userID, roomID int64) {
	var conflictErr *createBooking.ConflictError

	switch {
	case errors.Is(err, createBooking.ErrWriteRaceLost):
		h.logger.Warn("POST /rooms/{id}/bookings - Write race lost: room_id=%d, user_id=%d, error=%v", roomID, userID, err)
		if errors.As(err, &conflictErr) {
			handlers.RespondJSON(w, http.StatusConflict, fromConflict(msgWriteRaceLost, conflictErr))
			return
		}
		handlers.RespondConflict(w, msgWriteRaceLost)

	case errors.As(err, &conflictErr):
		h.logger.Warn("POST /rooms/{id}/bookings - Conflict: room_id=%d, user_id=%d, reason=%s",
			roomID, userID, conflictErr.Result.Reason)
		handlers.RespondJSON(w, http.StatusConflict, fromConflict(msgConflict, conflictErr))

	case errors.Is(err, createBooking.ErrInvalidWindow):
		h.logger.Warn("POST /rooms/{id}/bookings - Invalid window: room_id=%d, error=%v", roomID, err)
		handlers.RespondBadRequest(w, msgInvalidWindow+": "+err.Error())

	case errors.Is(err, createBooking.ErrWindowInPast):
		h.logger.Warn("POST /rooms/{id}/bookings - Window in past: room_id=%d, error=%v", roomID, err)
		handlers.RespondBadRequest(w, msgWindowInPast)

	case errors.Is(err, createBooking.ErrDateTooFarInFuture):
		h.logger.Warn("POST /rooms/{id}/bookings - Date too far in future: room_id=%d, error=%v", roomID, err)
		handlers.RespondBadRequest(w, msgDateTooFar)

	case errors.Is(err, createBooking.ErrInvalidInput):
		h.logger.Warn("POST /rooms/{id}/bookings - Invalid input: room_id=%d, error=%v", roomID, err)
		handlers.RespondBadRequest(w, msgInvalidData+": "+err.Error())

	case errors.Is(err, createBooking.ErrRoomNotFound):
		h.logger.Warn("POST /rooms/{id}/bookings - Room not found: room_id=%d", roomID)
		handlers.RespondNotFound(w, msgRoomNotFound)

	case errors.Is(err, createBooking.ErrPreconditionFailed):
		h.logger.Warn("POST /rooms/{id}/bookings - Precondition failed: user_id=%d, error=%v", userID, err)
		handlers.RespondError(w, http.StatusPreconditionFailed, msgPreconditionFailed)

	default:
		h.logger.Error("POST /rooms/{id}/bookings - Failed to create booking: room_id=%d, user_id=%d, error=%v",
			roomID, userID, err)
		handlers.RespondInternalError(w)
	}
}
