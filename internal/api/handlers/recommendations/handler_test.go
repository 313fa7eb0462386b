package recommendations

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	rankCandidates "github.com/m04kA/SMC-RoomBookingService/internal/usecase/rank_candidates"
	searchAvailability "github.com/m04kA/SMC-RoomBookingService/internal/usecase/search_availability"
	"github.com/m04kA/SMC-RoomBookingService/pkg/logger"
)

type fakeSearch struct {
	resp *searchAvailability.Response
	err  error
	got  *searchAvailability.Request
}

func (f *fakeSearch) Execute(_ context.Context, req *searchAvailability.Request) (*searchAvailability.Response, error) {
	f.got = req
	return f.resp, f.err
}

type fakeRank struct {
	resp *rankCandidates.Response
	err  error
	got  *rankCandidates.Request
}

func (f *fakeRank) Execute(_ context.Context, req *rankCandidates.Request) (*rankCandidates.Response, error) {
	f.got = req
	return f.resp, f.err
}

const body = `{"query":"lab","windows":[{"date":"2025-11-12","startTime":"08:00","endTime":"12:00"}],"pageSize":2}`

func serve(search SearchAvailabilityUseCase, rank RankCandidatesUseCase) *httptest.ResponseRecorder {
	h := middleware.Auth(http.HandlerFunc(NewHandler(search, rank, logger.Nop()).Handle))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/rooms/recommendations", strings.NewReader(body))
	req.Header.Set(middleware.UserIDHeader, "42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandle_SearchThenRank(t *testing.T) {
	rooms := []domain.Room{{ID: 3, Label: "Lab 3"}, {ID: 5, Label: "Lab 5"}}
	search := &fakeSearch{resp: &searchAvailability.Response{Rooms: rooms, NextCursor: 5, HasMore: true}}
	rank := &fakeRank{resp: &rankCandidates.Response{Entries: []domain.ScoreEntry{
		{Room: rooms[1], Score: 9, Reasons: []string{"usage rate 50% (+5.00)"}},
		{Room: rooms[0], Score: 0, Reasons: []string{}},
	}}}

	rec := serve(search, rank)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "lab", search.got.Filter.Query)
	assert.Equal(t, 2, search.got.PageSize)
	assert.Equal(t, int64(42), rank.got.RequesterID)
	assert.Equal(t, rooms, rank.got.Rooms)

	var resp RecommendationsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Recommendations, 2)
	assert.Equal(t, int64(5), resp.Recommendations[0].Room.ID)
	assert.Equal(t, 9.0, resp.Recommendations[0].Score)
	assert.Equal(t, int64(5), resp.NextCursor)
	assert.True(t, resp.HasMore)
	assert.NotNil(t, resp.Recommendations[1].Reasons)
}

func TestHandle_PreconditionSkipsRanking(t *testing.T) {
	search := &fakeSearch{resp: &searchAvailability.Response{
		Rooms:              []domain.Room{},
		PreconditionFailed: true,
		Reason:             "requester 42 is inactive",
	}}
	rank := &fakeRank{}

	rec := serve(search, rank)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, rank.got)

	var resp RecommendationsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.PreconditionFailed)
	assert.Equal(t, "requester 42 is inactive", resp.Reason)
	assert.Empty(t, resp.Recommendations)
}

func TestHandle_Errors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest,
		serve(&fakeSearch{err: searchAvailability.ErrInvalidWindow}, &fakeRank{}).Code)
	assert.Equal(t, http.StatusInternalServerError,
		serve(&fakeSearch{err: errors.New("db down")}, &fakeRank{}).Code)
	assert.Equal(t, http.StatusInternalServerError,
		serve(&fakeSearch{resp: &searchAvailability.Response{}}, &fakeRank{err: rankCandidates.ErrInternal}).Code)
}
