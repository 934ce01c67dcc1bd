/*
types.go - Core types for the room inventory

PURPOSE:
  Defines the single entity of the inventory: a hotel room record keyed by
  its room identifier. Everything else in the module (stores, exchange
  codecs, HTTP handlers, the roomctl shell) moves Room values around.

KEY TYPES:
  RoomID:    Primary key. Unique, immutable, user-supplied.
  Room:      The record. All fields except ID are replaceable by Update.
  RoomInput: Raw text form of a Room, as typed into a form, a CSV cell or a
             command-line flag. Converted with ParseRoom.

PRICE:
  Price uses decimal.Decimal, never float64. Values are stored and exported
  as their exact decimal string so "49.99" survives every round trip.

FREE-FORM FIELDS:
  RoomType, Amenities and Status carry no enumeration. "available" and
  "occupied" are conventions, not constraints. RoomCount may be negative.

SEE ALSO:
  - parse.go: RoomInput -> Room conversion
  - store.go: Persistence contract
  - errors.go: Error taxonomy
*/
package rooms

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// RoomID identifies a room. It is the primary key of the inventory.
type RoomID string

// IsBlank reports whether the ID is empty after trimming whitespace.
func (id RoomID) IsBlank() bool {
	return strings.TrimSpace(string(id)) == ""
}

// Trim returns the ID without surrounding whitespace. Every Inventory
// operation keys rooms by the trimmed ID.
func (id RoomID) Trim() RoomID {
	return RoomID(strings.TrimSpace(string(id)))
}

// Room is one row of the inventory.
type Room struct {
	ID        RoomID
	Type      string
	Price     decimal.Decimal
	Count     int
	Amenities string
	Status    string
}

// Validate checks the record can be stored.
// The only structural rule is a non-blank key.
func (r Room) Validate() error {
	if r.ID.IsBlank() {
		return &FieldError{Field: ColumnRoomID, Value: string(r.ID), Reason: "must not be blank"}
	}
	return nil
}

// Equal compares two rooms field by field, using decimal equality for Price
// so that "50" and "50.00" are the same price.
func (r Room) Equal(o Room) bool {
	return r.ID == o.ID &&
		r.Type == o.Type &&
		r.Price.Equal(o.Price) &&
		r.Count == o.Count &&
		r.Amenities == o.Amenities &&
		r.Status == o.Status
}

// Record returns the room as exchange cells, in Header order.
func (r Room) Record() []string {
	return []string{
		string(r.ID),
		r.Type,
		r.Price.String(),
		strconv.Itoa(r.Count),
		r.Amenities,
		r.Status,
	}
}

// =============================================================================
// EXCHANGE COLUMNS
// =============================================================================

// Column names of the exchange header row.
const (
	ColumnRoomID    = "Room_ID"
	ColumnRoomType  = "Room_Type"
	ColumnPrice     = "Price"
	ColumnRoomCount = "Room_Count"
	ColumnAmenities = "Amenities"
	ColumnStatus    = "Status"
)

// Header is the fixed header row of CSV and XLSX exports.
var Header = []string{
	ColumnRoomID,
	ColumnRoomType,
	ColumnPrice,
	ColumnRoomCount,
	ColumnAmenities,
	ColumnStatus,
}

// RoomInput is the raw text form of a Room.
type RoomInput struct {
	RoomID    string
	RoomType  string
	Price     string
	RoomCount string
	Amenities string
	Status    string
}

// InputFromRecord builds a RoomInput from cells in Header order.
// Missing trailing cells are read as empty.
func InputFromRecord(cells []string) RoomInput {
	cell := func(i int) string {
		if i < len(cells) {
			return cells[i]
		}
		return ""
	}
	return RoomInput{
		RoomID:    cell(0),
		RoomType:  cell(1),
		Price:     cell(2),
		RoomCount: cell(3),
		Amenities: cell(4),
		Status:    cell(5),
	}
}
