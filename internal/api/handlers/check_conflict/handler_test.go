package check_conflict

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	checkConflict "github.com/m04kA/SMC-RoomBookingService/internal/usecase/check_conflict"
	"github.com/m04kA/SMC-RoomBookingService/pkg/logger"
)

type fakeUseCase struct {
	resp *checkConflict.Response
	err  error
	got  *checkConflict.Request
}

func (f *fakeUseCase) Execute(_ context.Context, req *checkConflict.Request) (*checkConflict.Response, error) {
	f.got = req
	return f.resp, f.err
}

func serve(uc CheckConflictUseCase, roomID, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/rooms/{roomId}/conflicts", NewHandler(uc, logger.Nop()).Handle).Methods(http.MethodPost)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/rooms/"+roomID+"/conflicts", strings.NewReader(body)))
	return rec
}

func TestHandle_ConflictIsOK(t *testing.T) {
	bookingID := int64(1)
	other := 0
	uc := &fakeUseCase{resp: &checkConflict.Response{
		RoomID:   7,
		Conflict: true,
		Conflicts: []checkConflict.Conflict{
			{WindowIndex: 0, BookingID: &bookingID, CollisionDate: time.Date(2025, 11, 12, 0, 0, 0, 0, time.UTC), Reason: "booked"},
			{WindowIndex: 1, OtherWindow: &other, CollisionDate: time.Date(2025, 11, 13, 0, 0, 0, 0, time.UTC), Reason: "overlaps"},
		},
	}}

	rec := serve(uc, "7", `{"windows":[{"date":"2025-11-12","startTime":"09:00","endTime":"10:00"}]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, uc.got)
	assert.Equal(t, int64(7), uc.got.RoomID)
	assert.Equal(t, "09:00", uc.got.Windows[0].StartTime)

	var body CheckConflictResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Conflict)
	require.Len(t, body.Conflicts, 2)
	assert.Equal(t, "2025-11-12", body.Conflicts[0].CollisionDate)
	require.NotNil(t, body.Conflicts[0].BookingID)
	assert.Nil(t, body.Conflicts[0].OtherWindow)
	require.NotNil(t, body.Conflicts[1].OtherWindow)
	assert.Equal(t, 0, *body.Conflicts[1].OtherWindow)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		roomID string
		err    error
		status int
	}{
		{name: "bad room id", roomID: "x", status: http.StatusBadRequest},
		{name: "invalid window", roomID: "7", err: checkConflict.ErrInvalidWindow, status: http.StatusBadRequest},
		{name: "invalid input", roomID: "7", err: checkConflict.ErrInvalidInput, status: http.StatusBadRequest},
		{name: "room not found", roomID: "7", err: checkConflict.ErrRoomNotFound, status: http.StatusNotFound},
		{name: "internal", roomID: "7", err: checkConflict.ErrInternal, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeUseCase{err: tt.err}, tt.roomID, `{"windows":[]}`)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
