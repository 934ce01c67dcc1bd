package rooms

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// SheetName is the worksheet written by XLSX exports.
const SheetName = "Rooms"

var columnWidths = []float64{12, 16, 12, 12, 30, 14}

// WriteXLSX writes every room as an XLSX workbook with a single sheet.
// Price is written as text so the exact decimal survives; count as a number.
func (inv *Inventory) WriteXLSX(ctx context.Context, w io.Writer) error {
	list, err := inv.store.List(ctx)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	header := make([]any, len(Header))
	for i, name := range Header {
		header[i] = name
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(Header), 1)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to set header style: %w", err)
	}

	for i, width := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, room := range list {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		row := []any{
			string(room.ID),
			room.Type,
			room.Price.String(),
			room.Count,
			room.Amenities,
			room.Status,
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write room %s: %w", room.ID, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	inv.logger.Debug("xlsx written", zap.Int("rooms", len(list)))
	return nil
}

// ExportXLSX writes every room to the workbook at path, replacing it.
func (inv *Inventory) ExportXLSX(ctx context.Context, path string) error {
	return writeFileAtomic(path, func(w io.Writer) error {
		return inv.WriteXLSX(ctx, w)
	})
}

// ReadXLSX imports rooms from the first sheet of a workbook. The header and
// row rules are the same as ReadCSV. Trailing empty cells are read as empty
// fields, since spreadsheets do not store them.
func (inv *Inventory) ReadXLSX(ctx context.Context, r io.Reader) (ImportReport, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return ImportReport{}, fmt.Errorf("failed to parse workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return ImportReport{}, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return ImportReport{}, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return ImportReport{}, &HeaderError{}
	}

	cols, err := resolveColumns(rows[0])
	if err != nil {
		return ImportReport{}, err
	}

	im := &importer{inv: inv, cols: cols, format: "xlsx"}
	for i := 1; i < len(rows); i++ {
		if isBlankRow(rows[i]) {
			continue
		}
		if err := im.row(ctx, i+1, rows[i]); err != nil {
			return im.done(), err
		}
	}
	return im.done(), nil
}

// ImportXLSX imports rooms from the workbook at path.
func (inv *Inventory) ImportXLSX(ctx context.Context, path string) (ImportReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return ImportReport{}, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	return inv.ReadXLSX(ctx, f)
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}
