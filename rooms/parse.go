package rooms

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseRoom converts raw text into a Room.
//
// The room ID and numeric fields are trimmed. A blank price or count is
// read as zero; any other non-numeric value is rejected with a *FieldError.
// Type, amenities and status are kept verbatim.
func ParseRoom(in RoomInput) (Room, error) {
	room := Room{
		ID:        RoomID(in.RoomID).Trim(),
		Type:      in.RoomType,
		Amenities: in.Amenities,
		Status:    in.Status,
	}
	if err := room.Validate(); err != nil {
		return Room{}, err
	}

	price, err := ParsePrice(in.Price)
	if err != nil {
		return Room{}, err
	}
	room.Price = price

	count, err := ParseCount(in.RoomCount)
	if err != nil {
		return Room{}, err
	}
	room.Count = count

	return room, nil
}

// ParsePrice reads a price cell. Blank is zero.
func ParsePrice(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &FieldError{Field: ColumnPrice, Value: raw, Reason: "not a decimal number"}
	}
	return d, nil
}

// ParseCount reads a room count cell. Blank is zero. Values outside the int
// range are rejected, not wrapped.
func ParseCount(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err == nil {
		return n, nil
	}
	// Spreadsheets and the legacy REAL column render whole numbers as "2.0".
	if d, derr := decimal.NewFromString(s); derr == nil && d.IsInteger() && fitsInt(d) {
		return int(d.IntPart()), nil
	}
	return 0, &FieldError{Field: ColumnRoomCount, Value: raw, Reason: "not an integer"}
}

var (
	minInt = decimal.NewFromInt(math.MinInt)
	maxInt = decimal.NewFromInt(math.MaxInt)
)

func fitsInt(d decimal.Decimal) bool {
	return d.GreaterThanOrEqual(minInt) && d.LessThanOrEqual(maxInt)
}
