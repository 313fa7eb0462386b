package search_availability

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	searchAvailability "github.com/m04kA/SMC-RoomBookingService/internal/usecase/search_availability"
	"github.com/m04kA/SMC-RoomBookingService/pkg/logger"
)

type fakeUseCase struct {
	resp *searchAvailability.Response
	err  error
	got  *searchAvailability.Request
}

func (f *fakeUseCase) Execute(_ context.Context, req *searchAvailability.Request) (*searchAvailability.Response, error) {
	f.got = req
	return f.resp, f.err
}

func serve(uc SearchAvailabilityUseCase, body string) *httptest.ResponseRecorder {
	h := middleware.Auth(http.HandlerFunc(NewHandler(uc, logger.Nop()).Handle))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/rooms/availability", strings.NewReader(body))
	req.Header.Set(middleware.UserIDHeader, "42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandle_OK(t *testing.T) {
	specialty := int64(3)
	uc := &fakeUseCase{resp: &searchAvailability.Response{
		Rooms:      []domain.Room{{ID: 4, Label: "A-101", Block: "A", Type: "lab", SpecialtyID: &specialty}},
		NextCursor: 4,
		Examined:   4,
	}}

	rec := serve(uc, `{"block":"A","specialtyId":3,"windows":[{"date":"2025-11-12","startTime":"08:00","endTime":"12:00","recurring":true}],"cursor":2}`)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, uc.got)
	assert.Equal(t, int64(42), uc.got.RequesterID)
	assert.Equal(t, "A", uc.got.Filter.Block)
	require.NotNil(t, uc.got.Filter.SpecialtyID)
	assert.Equal(t, int64(3), *uc.got.Filter.SpecialtyID)
	assert.Equal(t, int64(2), uc.got.Cursor)
	assert.True(t, uc.got.Windows[0].Recurring)

	var body SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Rooms, 1)
	assert.Equal(t, "A-101", body.Rooms[0].Label)
	assert.Equal(t, int64(4), body.NextCursor)
	assert.False(t, body.PreconditionFailed)
}

func TestHandle_PreconditionIsOK(t *testing.T) {
	uc := &fakeUseCase{resp: &searchAvailability.Response{
		Rooms:              []domain.Room{},
		PreconditionFailed: true,
		Reason:             "requester 42 not found",
	}}

	rec := serve(uc, `{"windows":[]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"preconditionFailed":true`)
	assert.Contains(t, rec.Body.String(), `"rooms":[]`)
}

func TestHandle_Errors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, serve(&fakeUseCase{err: searchAvailability.ErrInvalidWindow}, `{"windows":[]}`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(&fakeUseCase{err: searchAvailability.ErrInvalidInput}, `{"windows":[]}`).Code)
	assert.Equal(t, http.StatusInternalServerError, serve(&fakeUseCase{err: searchAvailability.ErrInternal}, `{"windows":[]}`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(&fakeUseCase{}, `not json`).Code)
}
