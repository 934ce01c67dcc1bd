package rooms_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/room-inventory/rooms"
	"github.com/xuri/excelize/v2"
)

func TestXLSX_ExportWipeImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	inv := newTestInventory()
	original := []rooms.Room{
		room("101", "Single", "50.10", 1, "WiFi", "available"),
		room("102", "Double", "75", 2, "WiFi,TV", ""),
		room("103", "", "0.333", 0, "", ""),
	}
	seed(t, inv, original...)

	path := filepath.Join(t.TempDir(), "rooms.xlsx")
	require.NoError(t, inv.ExportXLSX(ctx, path))

	wipe(t, inv)

	report, err := inv.ImportXLSX(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, len(original), report.Inserted)
	assert.Zero(t, report.Skipped())

	for _, want := range original {
		got, err := inv.Lookup(ctx, want.ID)
		require.NoError(t, err)
		assertRoom(t, want, got)
	}
}

func TestWriteXLSX_Layout(t *testing.T) {
	inv := newTestInventory()
	seed(t, inv, room("101", "Single", "50", 1, "WiFi", "available"))

	var buf bytes.Buffer
	require.NoError(t, inv.WriteXLSX(context.Background(), &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{rooms.SheetName}, f.GetSheetList())

	rows, err := f.GetRows(rooms.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, rooms.Header, rows[0])
	assert.Equal(t, []string{"101", "Single", "50", "1", "WiFi", "available"}, rows[1])
}

func TestReadXLSX_DuplicatesAndRejects(t *testing.T) {
	ctx := context.Background()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	data := [][]any{
		{"Room_ID", "Room_Type", "Price", "Room_Count", "Amenities", "Status"},
		{"101", "Single", 50, 1, "WiFi", "available"},
		{"101", "Suite", 500, 3, "Spa", "occupied"},
		{},
		{"102", "Double", "n/a", 2},
		{"103", "Double", 75.5, 2},
	}
	for i, row := range data {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	inv := newTestInventory()
	report, err := inv.ReadXLSX(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, 4, report.Rows, "blank rows are not counted")
	assert.Equal(t, 2, report.Inserted)
	assert.Equal(t, []rooms.RoomID{"101"}, report.Duplicates)
	require.Len(t, report.Rejected, 1)
	assert.Equal(t, 5, report.Rejected[0].Line)

	got, err := inv.Lookup(ctx, "103")
	require.NoError(t, err)
	assertRoom(t, room("103", "Double", "75.5", 2, "", ""), got)
}

func TestReadXLSX_MissingColumn(t *testing.T) {
	f := excelize.NewFile()
	row := []any{"Room_ID", "Price"}
	require.NoError(t, f.SetSheetRow(f.GetSheetName(0), "A1", &row))
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)

	_, err = newTestInventory().ReadXLSX(context.Background(), &buf)
	assert.ErrorIs(t, err, rooms.ErrInvalidHeader)
}

func TestReadXLSX_NotAWorkbook(t *testing.T) {
	_, err := newTestInventory().ReadXLSX(context.Background(), bytes.NewReader([]byte("Room_ID,Price\n")))
	assert.Error(t, err)
}
