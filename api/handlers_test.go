/*
handlers_test.go - HTTP tests for the room API

Tests for:
- Room CRUD status codes (201, 400, 404, 409)
- CSV and XLSX export downloads
- Multipart and raw-body import with report
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/room-inventory/rooms"
	"github.com/warp/room-inventory/store/memory"
	"github.com/xuri/excelize/v2"
)

const csvHeader = "Room_ID,Room_Type,Price,Room_Count,Amenities,Status\n"

func newTestServer(t *testing.T) (*httptest.Server, *rooms.Inventory) {
	t.Helper()
	inv := rooms.NewInventory(memory.New(), nil)
	srv := httptest.NewServer(NewRouter(NewHandler(inv, nil), []string{"*"}))
	t.Cleanup(srv.Close)
	return srv, inv
}

func doJSON(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func seedRoom(t *testing.T, inv *rooms.Inventory, id string) {
	t.Helper()
	require.NoError(t, inv.Insert(context.Background(), rooms.Room{
		ID:        rooms.RoomID(id),
		Type:      "Single",
		Price:     decimal.RequireFromString("50"),
		Count:     1,
		Amenities: "WiFi",
		Status:    "available",
	}))
}

// =============================================================================
// ROOMS
// =============================================================================

func TestCreateRoom(t *testing.T) {
	srv, inv := newTestServer(t)

	// WHEN: price and count arrive as a string and a number
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/rooms",
		`{"room_id":"101","room_type":"Single","price":"50.0","room_count":1,"amenities":"WiFi","status":"available"}`)

	// THEN: the room is created
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	dto := decode[RoomDTO](t, resp)
	assert.Equal(t, "101", dto.RoomID)
	assert.Equal(t, "50", dto.Price)
	assert.Equal(t, 1, dto.RoomCount)

	got, err := inv.Lookup(context.Background(), "101")
	require.NoError(t, err)
	assert.Equal(t, "Single", got.Type)
}

func TestCreateRoom_Duplicate(t *testing.T) {
	srv, inv := newTestServer(t)
	seedRoom(t, inv, "101")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/rooms", `{"room_id":"101","room_type":"Suite"}`)

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	got, err := inv.Lookup(context.Background(), "101")
	require.NoError(t, err)
	assert.Equal(t, "Single", got.Type, "existing room untouched")
}

func TestCreateRoom_Invalid(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"room_id":`},
		{"blank id", `{"room_id":"  ","price":"10"}`},
		{"bad price", `{"room_id":"1","price":"fifty"}`},
		{"bad count", `{"room_id":"1","room_count":"two"}`},
		{"count is an object", `{"room_id":"1","room_count":{}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, http.MethodPost, srv.URL+"/api/rooms", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.NotEmpty(t, decode[ErrorResponse](t, resp).Error)
		})
	}
}

func TestGetRoom(t *testing.T) {
	srv, inv := newTestServer(t)
	seedRoom(t, inv, "101")

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/rooms/101", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "WiFi", decode[RoomDTO](t, resp).Amenities)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/rooms/999", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListRooms(t *testing.T) {
	srv, inv := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/rooms", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]RoomDTO](t, resp), "empty list, not null")

	seedRoom(t, inv, "102")
	seedRoom(t, inv, "101")

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/rooms", "")
	list := decode[[]RoomDTO](t, resp)
	require.Len(t, list, 2)
	assert.Equal(t, "101", list[0].RoomID)
	assert.Equal(t, "102", list[1].RoomID)
}

func TestUpdateRoom(t *testing.T) {
	srv, inv := newTestServer(t)
	seedRoom(t, inv, "101")

	// GIVEN: a body whose room_id disagrees with the path
	resp := doJSON(t, http.MethodPut, srv.URL+"/api/rooms/101",
		`{"room_id":"999","room_type":"Double","price":75,"room_count":"2","amenities":"WiFi,TV","status":"occupied"}`)

	// THEN: the path id is the key
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got, err := inv.Lookup(context.Background(), "101")
	require.NoError(t, err)
	assert.Equal(t, "Double", got.Type)
	assert.Equal(t, 2, got.Count)
	assert.True(t, got.Price.Equal(decimal.NewFromInt(75)))

	_, err = inv.Lookup(context.Background(), "999")
	assert.ErrorIs(t, err, rooms.ErrRoomNotFound)
}

func TestUpdateRoom_Missing(t *testing.T) {
	srv, inv := newTestServer(t)

	resp := doJSON(t, http.MethodPut, srv.URL+"/api/rooms/404", `{"room_type":"Double"}`)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	list, err := inv.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDeleteRoom(t *testing.T) {
	srv, inv := newTestServer(t)
	seedRoom(t, inv, "101")

	resp := doJSON(t, http.MethodDelete, srv.URL+"/api/rooms/101", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decode[DeleteResponse](t, resp).Removed)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/rooms/101", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRoomRoutes_AnyIDIsAddressable(t *testing.T) {
	srv, inv := newTestServer(t)

	tests := []struct {
		id   string
		path string
	}{
		{"export.csv", "export.csv"},
		{"export.xlsx", "export.xlsx"},
		{"import", "import"},
		{"a/b", "a%2Fb"},
		{"50%", "50%25"},
		{"101 A", "101%20A"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			seedRoom(t, inv, tt.id)
			url := srv.URL + "/api/rooms/" + tt.path

			resp := doJSON(t, http.MethodGet, url, "")
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.id, decode[RoomDTO](t, resp).RoomID)

			resp = doJSON(t, http.MethodPut, url, `{"room_type":"Double"}`)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			got, err := inv.Lookup(context.Background(), rooms.RoomID(tt.id))
			require.NoError(t, err)
			assert.Equal(t, "Double", got.Type)

			resp = doJSON(t, http.MethodDelete, url, "")
			require.Equal(t, http.StatusOK, resp.StatusCode)
			_, err = inv.Lookup(context.Background(), rooms.RoomID(tt.id))
			assert.ErrorIs(t, err, rooms.ErrRoomNotFound)
		})
	}
}

func TestHealth(t *testing.T) {
	srv, inv := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, inv.Close())
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/health", "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

// =============================================================================
// EXPORT
// =============================================================================

func TestExportCSV(t *testing.T) {
	srv, inv := newTestServer(t)
	seedRoom(t, inv, "101")

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/exchange/rooms.csv", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "rooms.csv")

	var buf bytes.Buffer
	_, err := buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, csvHeader+"101,Single,50,1,WiFi,available\n", buf.String())
}

func TestExportXLSX(t *testing.T) {
	srv, inv := newTestServer(t)
	seedRoom(t, inv, "101")

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/exchange/rooms.xlsx", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, contentTypeXLSX, resp.Header.Get("Content-Type"))

	f, err := excelize.OpenReader(resp.Body)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(rooms.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "101", rows[1][0])
}

// =============================================================================
// IMPORT
// =============================================================================

func postMultipart(t *testing.T, url, filename string, content []byte) *http.Response {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(url, mw.FormDataContentType(), &body)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestImportRooms_MultipartCSV(t *testing.T) {
	srv, inv := newTestServer(t)
	seedRoom(t, inv, "101")

	content := csvHeader +
		"101,Suite,500,3,Spa,occupied\n" +
		"102,Double,75,2,TV,available\n" +
		"103,Double,cheap,2,TV,available\n"

	resp := postMultipart(t, srv.URL+"/api/exchange/rooms", "rooms.csv", []byte(content))

	require.Equal(t, http.StatusOK, resp.StatusCode)
	report := decode[ImportReportDTO](t, resp)
	assert.Equal(t, 3, report.Rows)
	assert.Equal(t, 1, report.Inserted)
	assert.Equal(t, 2, report.Skipped)
	assert.Equal(t, []string{"101"}, report.Duplicates)
	require.Len(t, report.Rejected, 1)
	assert.Equal(t, 4, report.Rejected[0].Line)

	_, err := inv.Lookup(context.Background(), "102")
	assert.NoError(t, err)
}

func TestImportRooms_MultipartXLSX(t *testing.T) {
	srv, inv := newTestServer(t)

	src := rooms.NewInventory(memory.New(), nil)
	seedRoom(t, src, "201")
	var buf bytes.Buffer
	require.NoError(t, src.WriteXLSX(context.Background(), &buf))

	resp := postMultipart(t, srv.URL+"/api/exchange/rooms", "Rooms.XLSX", buf.Bytes())

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, decode[ImportReportDTO](t, resp).Inserted)
	_, err := inv.Lookup(context.Background(), "201")
	assert.NoError(t, err)
}

func TestImportRooms_RawBody(t *testing.T) {
	srv, inv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/exchange/rooms", "text/csv", strings.NewReader(csvHeader+"301,Single,40,1,,\n"))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	_, err = inv.Lookup(context.Background(), "301")
	assert.NoError(t, err)
}

func TestImportRooms_BadHeader(t *testing.T) {
	srv, inv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/exchange/rooms", "text/csv", strings.NewReader("Room_ID,Price\n101,50\n"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	report := decode[ImportReportDTO](t, resp)
	assert.Contains(t, report.Error, rooms.ColumnRoomType)

	list, err := inv.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestImportRooms_MissingFileField(t *testing.T) {
	srv, _ := newTestServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("other", "x"))
	require.NoError(t, mw.Close())

	resp, err := http.Post(srv.URL+"/api/exchange/rooms", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
