package rooms

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ImportReport summarizes a bulk import.
type ImportReport struct {
	Rows       int        // data rows read, header excluded
	Inserted   int        // rows written to the store
	Duplicates []RoomID   // rows skipped because the ID already existed
	Rejected   []RowError // rows that could not be parsed
}

// Skipped returns the number of rows that were not inserted.
func (r ImportReport) Skipped() int {
	return len(r.Duplicates) + len(r.Rejected)
}

// RowError describes a rejected import row.
type RowError struct {
	Line   int // 1-based line (CSV) or row (XLSX) in the source file
	RoomID RoomID
	Reason string
}

func (e RowError) String() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// columns maps each Header column to its position in the source file.
type columns [6]int

const bom = "\ufeff"

// resolveColumns matches a header row against Header by name.
// Column order is free and extra columns are ignored.
func resolveColumns(header []string) (columns, error) {
	var cols columns
	pos := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, bom)
		}
		name = strings.TrimSpace(name)
		if _, seen := pos[name]; !seen {
			pos[name] = i
		}
	}

	var missing []string
	for i, name := range Header {
		p, ok := pos[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		cols[i] = p
	}
	if len(missing) > 0 {
		return cols, &HeaderError{Missing: missing}
	}
	return cols, nil
}

// width is the minimum number of cells a row needs to cover every column.
func (c columns) width() int {
	w := 0
	for _, p := range c {
		if p+1 > w {
			w = p + 1
		}
	}
	return w
}

// reorder picks the Header columns out of a source row.
func (c columns) reorder(row []string) []string {
	out := make([]string, len(c))
	for i, p := range c {
		if p < len(row) {
			out[i] = row[p]
		}
	}
	return out
}

// importer runs the shared row loop for CSV and XLSX sources.
type importer struct {
	inv    *Inventory
	cols   columns
	report ImportReport
	format string
}

// row inserts one source row. Only storage failures are returned; duplicate
// and unparsable rows are recorded in the report.
func (im *importer) row(ctx context.Context, line int, cells []string) error {
	im.report.Rows++

	room, err := ParseRoom(InputFromRecord(im.cols.reorder(cells)))
	if err != nil {
		im.reject(line, RoomID(im.cell(cells, 0)).Trim(), err.Error())
		return nil
	}

	err = im.inv.store.Insert(ctx, room)
	switch {
	case err == nil:
		im.report.Inserted++
		return nil
	case errors.Is(err, ErrDuplicateRoom):
		im.report.Duplicates = append(im.report.Duplicates, room.ID)
		im.inv.logger.Warn("import row skipped: duplicate room",
			zap.String("format", im.format),
			zap.Int("line", line),
			zap.String("room_id", string(room.ID)),
		)
		return nil
	default:
		return fmt.Errorf("import line %d: %w", line, err)
	}
}

func (im *importer) reject(line int, id RoomID, reason string) {
	im.report.Rejected = append(im.report.Rejected, RowError{Line: line, RoomID: id, Reason: reason})
	im.inv.logger.Warn("import row rejected",
		zap.String("format", im.format),
		zap.Int("line", line),
		zap.String("reason", reason),
	)
}

func (im *importer) cell(cells []string, col int) string {
	if p := im.cols[col]; p < len(cells) {
		return cells[p]
	}
	return ""
}

func (im *importer) done() ImportReport {
	im.inv.logger.Info("import finished",
		zap.String("format", im.format),
		zap.Int("rows", im.report.Rows),
		zap.Int("inserted", im.report.Inserted),
		zap.Int("duplicates", len(im.report.Duplicates)),
		zap.Int("rejected", len(im.report.Rejected)),
	)
	return im.report
}
