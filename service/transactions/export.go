package transactions

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/KAsare1/fintrack-server/cmd/models"
	"github.com/KAsare1/fintrack-server/cmd/utils"
	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var exportHeader = []interface{}{"Title", "Amount", "Category", "Date", "Icon"}

// WriteWorkbook renders txs as a single-sheet xlsx workbook.
func WriteWorkbook(w io.Writer, sheet string, txs []models.Transaction) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetSheetRow(sheet, "A1", &exportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", "E1", bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, t := range txs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			t.Title,
			t.Amount.InexactFloat64(),
			string(t.Category),
			t.Date.Format("2006-01-02"),
			t.Icon,
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 32); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", "E", 14); err != nil {
		return err
	}

	return f.Write(w)
}

// ServeWorkbook writes txs as an xlsx attachment named filename.
func ServeWorkbook(w http.ResponseWriter, r *http.Request, filename, sheet string, txs []models.Transaction) {
	var buf bytes.Buffer
	if err := WriteWorkbook(&buf, sheet, txs); err != nil {
		utils.WriteError(w, r, utils.Internal(err))
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
