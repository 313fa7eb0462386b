package create_booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	"github.com/m04kA/SMC-RoomBookingService/internal/service/timewindow"
	createBooking "github.com/m04kA/SMC-RoomBookingService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-RoomBookingService/pkg/logger"
)

type fakeUseCase struct {
	resp *createBooking.Response
	err  error
	got  *createBooking.Request
}

func (f *fakeUseCase) Execute(_ context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	f.got = req
	return f.resp, f.err
}

func serve(t *testing.T, uc CreateBookingUseCase, roomID, userID, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := mux.NewRouter()
	r.Handle("/api/v1/rooms/{roomId}/bookings",
		middleware.Auth(http.HandlerFunc(NewHandler(uc, logger.Nop()).Handle))).Methods(http.MethodPost)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/rooms/"+roomID+"/bookings", strings.NewReader(body))
	if userID != "" {
		req.Header.Set(middleware.UserIDHeader, userID)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

const validBody = `{"windows":[{"date":"2025-11-12","startTime":"08:00","endTime":"12:00","recurring":true,"recurrenceEnd":"2026-01-21"}]}`

func TestHandle_Created(t *testing.T) {
	start := time.Date(2025, 11, 12, 11, 0, 0, 0, time.UTC)
	cutoff := time.Date(2026, 1, 22, 2, 59, 59, 0, time.UTC)
	uc := &fakeUseCase{resp: &createBooking.Response{Bookings: []createBooking.CreatedBooking{{
		Booking: domain.Booking{
			ID: 10, RoomID: 7, RequesterID: 42,
			Start: start, End: start.Add(4 * time.Hour),
			IsRecurring: true, RecurrenceEnd: &cutoff,
			Status: domain.StatusConfirmed,
		},
		Occurrences: []timewindow.Occurrence{{Start: start, End: start.Add(4 * time.Hour)}},
	}}}}

	rec := serve(t, uc, "7", "42", validBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	require.NotNil(t, uc.got)
	assert.Equal(t, int64(42), uc.got.RequesterID)
	assert.Equal(t, int64(7), uc.got.RoomID)
	require.Len(t, uc.got.Windows, 1)
	assert.True(t, uc.got.Windows[0].Recurring)
	require.NotNil(t, uc.got.Windows[0].RecurrenceEnd)
	assert.Equal(t, "2026-01-21", *uc.got.Windows[0].RecurrenceEnd)

	var body CreateBookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Bookings, 1)
	assert.Equal(t, "2025-11-12T11:00:00Z", body.Bookings[0].Start)
	assert.Equal(t, "confirmed", body.Bookings[0].Status)
	require.NotNil(t, body.Bookings[0].RecurrenceEnd)
	assert.Len(t, body.Bookings[0].Occurrences, 1)
}

func TestHandle_ConflictBody(t *testing.T) {
	uc := &fakeUseCase{err: &createBooking.ConflictError{
		WindowIndex: 0,
		Result: domain.ConflictResult{
			Conflict:      true,
			BookingID:     3,
			CollisionDate: time.Date(2025, 11, 12, 0, 0, 0, 0, time.UTC),
			Reason:        "room 7 is booked on Wednesday 2025-11-12 08:00-12:00 by booking 3",
		},
	}}

	rec := serve(t, uc, "7", "42", validBody)
	require.Equal(t, http.StatusConflict, rec.Code)

	var body ConflictErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, msgConflict, body.Error)
	assert.Equal(t, int64(3), body.BookingID)
	assert.Equal(t, "2025-11-12", body.CollisionDate)
	assert.Contains(t, body.Reason, "Wednesday")
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "race lost in tx", err: &createBooking.ConflictError{Race: true}, status: http.StatusConflict},
		{name: "race lost on lock", err: fmt.Errorf("%w: busy", createBooking.ErrWriteRaceLost), status: http.StatusConflict},
		{name: "invalid window", err: fmt.Errorf("%w: window 0: %w", createBooking.ErrInvalidWindow, timewindow.ErrInvalidTimeRange), status: http.StatusBadRequest},
		{name: "past", err: createBooking.ErrWindowInPast, status: http.StatusBadRequest},
		{name: "too far", err: createBooking.ErrDateTooFarInFuture, status: http.StatusBadRequest},
		{name: "room", err: createBooking.ErrRoomNotFound, status: http.StatusNotFound},
		{name: "precondition", err: fmt.Errorf("%w: requester 42 is inactive", createBooking.ErrPreconditionFailed), status: http.StatusPreconditionFailed},
		{name: "internal", err: errors.New("boom"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, &fakeUseCase{err: tt.err}, "7", "42", validBody)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestHandle_BadRequests(t *testing.T) {
	uc := &fakeUseCase{}

	assert.Equal(t, http.StatusBadRequest, serve(t, uc, "abc", "42", validBody).Code)
	assert.Equal(t, http.StatusBadRequest, serve(t, uc, "7", "42", `{"windows":`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(t, uc, "7", "42", `{"slots":[]}`).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(t, uc, "7", "", validBody).Code)
	assert.Nil(t, uc.got)
}
