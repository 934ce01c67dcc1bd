/*
dto.go - Data Transfer Objects for API requests and responses

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

PRICE AND COUNT:
  Responses carry price as a decimal string ("49.99") and count as a number.
  Requests accept either a JSON string or a JSON number for both; the raw
  text goes through rooms.ParseRoom like any other surface.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/warp/room-inventory/rooms"
)

// RoomDTO represents a room in API responses.
type RoomDTO struct {
	RoomID    string `json:"room_id"`
	RoomType  string `json:"room_type"`
	Price     string `json:"price"`
	RoomCount int    `json:"room_count"`
	Amenities string `json:"amenities"`
	Status    string `json:"status"`
}

// RoomRequest is the body of create and update requests.
type RoomRequest struct {
	RoomID    string   `json:"room_id"`
	RoomType  string   `json:"room_type"`
	Price     textJSON `json:"price"`
	RoomCount textJSON `json:"room_count"`
	Amenities string   `json:"amenities"`
	Status    string   `json:"status"`
}

// Input converts the request to the raw form accepted by rooms.ParseRoom.
func (r RoomRequest) Input() rooms.RoomInput {
	return rooms.RoomInput{
		RoomID:    r.RoomID,
		RoomType:  r.RoomType,
		Price:     string(r.Price),
		RoomCount: string(r.RoomCount),
		Amenities: r.Amenities,
		Status:    r.Status,
	}
}

// ImportReportDTO is the response of an import.
type ImportReportDTO struct {
	Rows       int           `json:"rows"`
	Inserted   int           `json:"inserted"`
	Skipped    int           `json:"skipped"`
	Duplicates []string      `json:"duplicates"`
	Rejected   []RowErrorDTO `json:"rejected"`
	Error      string        `json:"error,omitempty"`
}

// RowErrorDTO is a rejected import row.
type RowErrorDTO struct {
	Line   int    `json:"line"`
	RoomID string `json:"room_id,omitempty"`
	Reason string `json:"reason"`
}

// DeleteResponse reports a delete outcome.
type DeleteResponse struct {
	RoomID  string `json:"room_id"`
	Removed bool   `json:"removed"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func toRoomDTO(r rooms.Room) RoomDTO {
	return RoomDTO{
		RoomID:    string(r.ID),
		RoomType:  r.Type,
		Price:     r.Price.String(),
		RoomCount: r.Count,
		Amenities: r.Amenities,
		Status:    r.Status,
	}
}

func toImportReportDTO(r rooms.ImportReport) ImportReportDTO {
	dto := ImportReportDTO{
		Rows:       r.Rows,
		Inserted:   r.Inserted,
		Skipped:    r.Skipped(),
		Duplicates: make([]string, 0, len(r.Duplicates)),
		Rejected:   make([]RowErrorDTO, 0, len(r.Rejected)),
	}
	for _, id := range r.Duplicates {
		dto.Duplicates = append(dto.Duplicates, string(id))
	}
	for _, e := range r.Rejected {
		dto.Rejected = append(dto.Rejected, RowErrorDTO{Line: e.Line, RoomID: string(e.RoomID), Reason: e.Reason})
	}
	return dto
}

// textJSON accepts a JSON string or number and keeps its text.
type textJSON string

func (t *textJSON) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = textJSON(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("expected string or number, got %s", data)
		}
		*t = textJSON(n.String())
	}
	return nil
}
