package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// XLSXExporter renders week grids into a workbook, one sheet per week.
type XLSXExporter struct{}

// NewXLSXExporter constructs an XLSX exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// Render creates a workbook with one timetable sheet per week grid.
func (e *XLSXExporter) Render(grids []*WeekGrid, title string) ([]byte, error) {
	if len(grids) == 0 {
		return nil, fmt.Errorf("xlsx requires at least one week")
	}

	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("xlsx style: %w", err)
	}
	cellStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "top", WrapText: true},
	})
	if err != nil {
		return nil, fmt.Errorf("xlsx style: %w", err)
	}

	for i, grid := range grids {
		sheet := fmt.Sprintf("Week %d", grid.Week+1)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return nil, fmt.Errorf("xlsx sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return nil, fmt.Errorf("xlsx sheet: %w", err)
			}
		}

		if err := f.SetCellValue(sheet, "A1", title); err != nil {
			return nil, fmt.Errorf("xlsx title: %w", err)
		}
		for day, name := range grid.Days {
			cell, _ := excelize.CoordinatesToCellName(day+2, 2)
			if err := f.SetCellValue(sheet, cell, name); err != nil {
				return nil, fmt.Errorf("xlsx header: %w", err)
			}
			_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
			col, _ := excelize.ColumnNumberToName(day + 2)
			_ = f.SetColWidth(sheet, col, col, 32)
		}
		for slot, label := range grid.Slots {
			cell, _ := excelize.CoordinatesToCellName(1, slot+3)
			if err := f.SetCellValue(sheet, cell, label); err != nil {
				return nil, fmt.Errorf("xlsx slot: %w", err)
			}
			_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
			_ = f.SetRowHeight(sheet, slot+3, 64)
			for day := range grid.Days {
				body, _ := excelize.CoordinatesToCellName(day+2, slot+3)
				if err := f.SetCellValue(sheet, body, strings.Join(grid.Cells[day][slot], "\n")); err != nil {
					return nil, fmt.Errorf("xlsx cell: %w", err)
				}
				_ = f.SetCellStyle(sheet, body, body, cellStyle)
			}
		}
		_ = f.SetColWidth(sheet, "A", "A", 14)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
