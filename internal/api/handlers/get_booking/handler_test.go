package get_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-RoomBookingService/internal/service/bookings"
	"github.com/m04kA/SMC-RoomBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-RoomBookingService/pkg/logger"
)

type fakeService struct {
	resp *models.BookingResponse
	err  error
}

func (f *fakeService) GetByID(_ context.Context, _ int64, _ int64) (*models.BookingResponse, error) {
	return f.resp, f.err
}

func serve(svc BookingService, bookingID string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.Handle("/api/v1/bookings/{bookingId}",
		middleware.Auth(http.HandlerFunc(NewHandler(svc, logger.Nop()).Handle))).Methods(http.MethodGet)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/"+bookingID, nil)
	req.Header.Set(middleware.UserIDHeader, "42")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	rec := serve(&fakeService{resp: &models.BookingResponse{ID: 9, RoomID: 7, Status: "confirmed"}}, "9")
	require.Equal(t, http.StatusOK, rec.Code)

	var body models.BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(7), body.RoomID)

	assert.Equal(t, http.StatusNotFound, serve(&fakeService{err: bookings.ErrBookingNotFound}, "9").Code)
	assert.Equal(t, http.StatusForbidden, serve(&fakeService{err: bookings.ErrAccessDenied}, "9").Code)
	assert.Equal(t, http.StatusBadRequest, serve(&fakeService{}, "-1").Code)
}
