package dataset

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Facilities"

// WriteXLSX exports rows as an Excel workbook with the same column
// layout as the CSV files, header row frozen. Numeric cells stay as
// text: the CSV files are the system of record, the workbook is a
// hand-off format.
func WriteXLSX(path string, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetName)

	header := headerFor(rows)
	cells := make([]any, len(header))
	for i, col := range header {
		cells[i] = col
	}
	if err := f.SetSheetRow(sheetName, "A1", &cells); err != nil {
		return fmt.Errorf("write header row: %w", err)
	}

	for r, row := range rows {
		for i, col := range header {
			cells[i] = row[col]
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &cells); err != nil {
			return fmt.Errorf("write row %d: %w", r+2, err)
		}
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
