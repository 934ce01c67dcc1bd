/*
csv.go - CSV import and export

FORMAT:
  Room_ID,Room_Type,Price,Room_Count,Amenities,Status
  101,Single,50,1,WiFi,available
  102,Double,75.5,2,"WiFi,TV",occupied

  UTF-8, header row mandatory, standard CSV quoting for embedded commas.

IMPORT RULES:
  - Header matched by column name. Missing column: ErrInvalidHeader,
    nothing is imported. A leading UTF-8 BOM is tolerated.
  - Each row is Inserted. Existing IDs are skipped and listed in
    ImportReport.Duplicates, including repeats within the same file
    (first occurrence wins).
  - Rows with too few fields, a blank ID or non-numeric price/count are
    listed in ImportReport.Rejected and the import continues.
  - A CSV syntax error (e.g. unterminated quote) aborts the import. Rows
    already inserted stay inserted.
*/
package rooms

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// WriteCSV writes every room as CSV.
func (inv *Inventory) WriteCSV(ctx context.Context, w io.Writer) error {
	list, err := inv.store.List(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, room := range list {
		if err := cw.Write(room.Record()); err != nil {
			return fmt.Errorf("write csv row %s: %w", room.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	inv.logger.Debug("csv written", zap.Int("rooms", len(list)))
	return nil
}

// ExportCSV writes every room to the file at path, replacing it.
func (inv *Inventory) ExportCSV(ctx context.Context, path string) error {
	return writeFileAtomic(path, func(w io.Writer) error {
		return inv.WriteCSV(ctx, w)
	})
}

// ReadCSV imports rooms from CSV.
func (inv *Inventory) ReadCSV(ctx context.Context, r io.Reader) (ImportReport, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return ImportReport{}, &HeaderError{}
	}
	if err != nil {
		return ImportReport{}, fmt.Errorf("read csv header: %w", err)
	}
	cols, err := resolveColumns(header)
	if err != nil {
		return ImportReport{}, err
	}

	im := &importer{inv: inv, cols: cols, format: "csv"}
	width := cols.width()
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return im.done(), fmt.Errorf("read csv: %w", err)
		}
		line, _ := cr.FieldPos(0)

		if len(record) < width {
			im.report.Rows++
			im.reject(line, RoomID(im.cell(record, 0)).Trim(), fmt.Sprintf("expected at least %d fields, got %d", width, len(record)))
			continue
		}
		if err := im.row(ctx, line, record); err != nil {
			return im.done(), err
		}
	}
	return im.done(), nil
}

// ImportCSV imports rooms from the CSV file at path.
func (inv *Inventory) ImportCSV(ctx context.Context, path string) (ImportReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return ImportReport{}, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	return inv.ReadCSV(ctx, f)
}

// writeFileAtomic writes to a temporary file next to path and renames it
// into place, so a failed export leaves an existing file untouched.
func writeFileAtomic(path string, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".rooms-export-*")
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chmod export file: %w", err)
	}
	if err := write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close export file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace export file: %w", err)
	}
	return nil
}
