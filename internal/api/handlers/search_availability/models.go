package search_availability

import (
	"github.com/m04kA/SMC-RoomBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	searchAvailability "github.com/m04kA/SMC-RoomBookingService/internal/usecase/search_availability"
)

// SearchRequest HTTP request model
type SearchRequest struct {
	Query       string                   `json:"query,omitempty"`
	Block       string                   `json:"block,omitempty"`
	Type        string                   `json:"type,omitempty"`
	SpecialtyID *int64                   `json:"specialtyId,omitempty"`
	Windows     []handlers.WindowRequest `json:"windows"`
	Cursor      int64                    `json:"cursor,omitempty"`
	PageSize    int                      `json:"pageSize,omitempty"`
}

// RoomResponse HTTP response model
type RoomResponse struct {
	ID          int64  `json:"id"`
	Label       string `json:"label"`
	Block       string `json:"block,omitempty"`
	Type        string `json:"type,omitempty"`
	SpecialtyID *int64 `json:"specialtyId,omitempty"`
}

// SearchResponse HTTP response model
type SearchResponse struct {
	Rooms              []RoomResponse `json:"rooms"`
	NextCursor         int64          `json:"nextCursor"`
	HasMore            bool           `json:"hasMore"`
	Examined           int            `json:"examined"`
	PreconditionFailed bool           `json:"preconditionFailed"`
	Reason             string         `json:"reason,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *SearchRequest) ToUseCaseRequest(requesterID int64) *searchAvailability.Request {
	return &searchAvailability.Request{
		RequesterID: requesterID,
		Filter: domain.RoomFilter{
			Query:       r.Query,
			Block:       r.Block,
			Type:        r.Type,
			SpecialtyID: r.SpecialtyID,
		},
		Windows:  handlers.ToInputs(r.Windows),
		Cursor:   r.Cursor,
		PageSize: r.PageSize,
	}
}

// FromRoom конвертирует комнату в HTTP модель
func FromRoom(room domain.Room) RoomResponse {
	return RoomResponse{
		ID:          room.ID,
		Label:       room.Label,
		Block:       room.Block,
		Type:        room.Type,
		SpecialtyID: room.SpecialtyID,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *searchAvailability.Response) *SearchResponse {
	rooms := make([]RoomResponse, 0, len(resp.Rooms))
	for _, room := range resp.Rooms {
		rooms = append(rooms, FromRoom(room))
	}

	return &SearchResponse{
		Rooms:              rooms,
		NextCursor:         resp.NextCursor,
		HasMore:            resp.HasMore,
		Examined:           resp.Examined,
		PreconditionFailed: resp.PreconditionFailed,
		Reason:             resp.Reason,
	}
}
