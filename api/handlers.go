/*
handlers.go - HTTP API handlers for the room inventory

PURPOSE:
  Exposes the inventory via REST API. Each handler maps one request to one
  rooms.Inventory call and the result to a status code. No decision logic
  lives here.

ENDPOINTS:
  Rooms:
    GET    /api/rooms               List all rooms
    POST   /api/rooms               Create room
    GET    /api/rooms/{id}          Get room
    PUT    /api/rooms/{id}          Update room (path id is the key)
    DELETE /api/rooms/{id}          Delete room

  Exchange:
    GET    /api/exchange/rooms.csv   Download CSV
    GET    /api/exchange/rooms.xlsx  Download XLSX
    POST   /api/exchange/rooms       Upload CSV or XLSX

ROOM IDS IN PATHS:
  {id} is one path segment. IDs containing "/" or other reserved characters
  must be percent-encoded ("a%2Fb"); roomID decodes them.

  Health:
    GET    /api/health              Store connectivity

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid input, malformed import header
  - 404: Room not found
  - 409: Duplicate room ID
  - 500: Storage errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/warp/room-inventory/rooms"
	"go.uber.org/zap"
)

const (
	contentTypeCSV  = "text/csv"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	maxUploadBytes = 10 << 20
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Inventory *rooms.Inventory
	logger    *zap.Logger
}

// NewHandler creates a new handler over the given inventory.
func NewHandler(inv *rooms.Inventory, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Inventory: inv, logger: logger}
}

// =============================================================================
// ROOM HANDLERS
// =============================================================================

// ListRooms returns all rooms.
func (h *Handler) ListRooms(w http.ResponseWriter, r *http.Request) {
	list, err := h.Inventory.ListAll(r.Context())
	if err != nil {
		h.writeStoreError(w, r, "Failed to list rooms", err)
		return
	}

	dtos := make([]RoomDTO, len(list))
	for i, room := range list {
		dtos[i] = toRoomDTO(room)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetRoom returns a single room.
func (h *Handler) GetRoom(w http.ResponseWriter, r *http.Request) {
	id, err := roomID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid room ID", err)
		return
	}

	room, err := h.Inventory.Lookup(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, r, "Failed to get room", err)
		return
	}
	writeJSON(w, http.StatusOK, toRoomDTO(room))
}

// CreateRoom creates a new room.
func (h *Handler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req RoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	room, err := rooms.ParseRoom(req.Input())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid room", err)
		return
	}

	if err := h.Inventory.Insert(r.Context(), room); err != nil {
		h.writeStoreError(w, r, "Failed to create room", err)
		return
	}
	writeJSON(w, http.StatusCreated, toRoomDTO(room))
}

// UpdateRoom replaces every non-key field of an existing room.
func (h *Handler) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	var req RoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	id, err := roomID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid room ID", err)
		return
	}
	req.RoomID = string(id)

	room, err := rooms.ParseRoom(req.Input())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid room", err)
		return
	}

	if err := h.Inventory.Update(r.Context(), room); err != nil {
		h.writeStoreError(w, r, "Failed to update room", err)
		return
	}
	writeJSON(w, http.StatusOK, toRoomDTO(room))
}

// DeleteRoom removes a room.
func (h *Handler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	id, err := roomID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid room ID", err)
		return
	}

	removed, err := h.Inventory.Delete(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, r, "Failed to delete room", err)
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "Room not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, DeleteResponse{RoomID: string(id.Trim()), Removed: true})
}

// =============================================================================
// EXCHANGE HANDLERS
// =============================================================================

// ExportCSV streams every room as a CSV attachment.
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", contentTypeCSV+"; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=rooms.csv")
	if err := h.Inventory.WriteCSV(r.Context(), w); err != nil {
		// Headers may already be sent; log only.
		h.logger.Error("csv export failed", zap.Error(err), zap.String("request_id", middleware.GetReqID(r.Context())))
	}
}

// ExportXLSX returns every room as an XLSX attachment.
func (h *Handler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.Inventory.WriteXLSX(r.Context(), &buf); err != nil {
		h.writeStoreError(w, r, "Failed to export rooms", err)
		return
	}

	w.Header().Set("Content-Type", contentTypeXLSX)
	w.Header().Set("Content-Disposition", "attachment; filename=rooms.xlsx")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// ImportRooms imports a CSV or XLSX file. Accepts a multipart form with a
// "file" field (format chosen by extension) or a raw body whose
// Content-Type selects the format.
func (h *Handler) ImportRooms(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	var (
		body   io.Reader = r.Body
		isXLSX bool
	)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeError(w, http.StatusBadRequest, "Failed to parse form", err)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "File not found in request", err)
			return
		}
		defer file.Close()
		body = file
		isXLSX = strings.EqualFold(filepath.Ext(header.Filename), ".xlsx")
	case contentTypeXLSX:
		isXLSX = true
	}

	var (
		report rooms.ImportReport
		err    error
	)
	if isXLSX {
		report, err = h.Inventory.ReadXLSX(ctx, body)
	} else {
		report, err = h.Inventory.ReadCSV(ctx, body)
	}

	dto := toImportReportDTO(report)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, rooms.ErrStorageUnavailable) {
			status = http.StatusInternalServerError
			h.logger.Error("import failed", zap.Error(err), zap.String("request_id", middleware.GetReqID(ctx)))
		}
		dto.Error = err.Error()
		writeJSON(w, status, dto)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// Health pings the store.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.Inventory.Ping(r.Context()); err != nil {
		h.writeStoreError(w, r, "Storage unavailable", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

// roomID returns the {id} path parameter. chi matches on the escaped path
// when the request carries encoded reserved characters, so decode it then.
func roomID(r *http.Request) (rooms.RoomID, error) {
	id := chi.URLParam(r, "id")
	if r.URL.RawPath == "" {
		return rooms.RoomID(id), nil
	}
	decoded, err := url.PathUnescape(id)
	if err != nil {
		return "", err
	}
	return rooms.RoomID(decoded), nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeStoreError maps inventory errors to HTTP status codes.
func (h *Handler) writeStoreError(w http.ResponseWriter, r *http.Request, message string, err error) {
	switch {
	case rooms.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Room not found", err)
	case errors.Is(err, rooms.ErrDuplicateRoom):
		writeError(w, http.StatusConflict, "A room with this ID already exists", err)
	case rooms.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		h.logger.Error(message,
			zap.Error(err),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
