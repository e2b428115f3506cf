package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders week grids into a landscape tabular PDF, one page per
// week.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF document with a title line and one timetable table
// per week grid.
func (e *PDFExporter) Render(grids []*WeekGrid, title string) ([]byte, error) {
	if len(grids) == 0 {
		return nil, fmt.Errorf("pdf requires at least one week")
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)

	for _, grid := range grids {
		pdf.AddPage()

		pdf.SetFont("Arial", "B", 14)
		heading := strings.ToUpper(title)
		if heading == "" {
			heading = "TIMETABLE"
		}
		pdf.CellFormat(0, 9, fmt.Sprintf("%s - WEEK %d", heading, grid.Week+1), "", 1, "C", false, 0, "")
		pdf.Ln(3)

		slotWidth := 24.0
		colWidth := (277.0 - slotWidth) / float64(len(grid.Days))
		rowHeight := 36.0

		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(slotWidth, 8, "", "1", 0, "C", false, 0, "")
		for _, day := range grid.Days {
			pdf.CellFormat(colWidth, 8, day, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)

		for slot, label := range grid.Slots {
			x, y := pdf.GetXY()
			pdf.SetFont("Arial", "B", 8)
			pdf.CellFormat(slotWidth, rowHeight, label, "1", 0, "C", false, 0, "")
			pdf.SetFont("Arial", "", 7)
			for day := range grid.Days {
				cellX := x + slotWidth + float64(day)*colWidth
				pdf.Rect(cellX, y, colWidth, rowHeight, "D")
				pdf.SetXY(cellX+1, y+1)
				pdf.MultiCell(colWidth-2, 3.2, strings.Join(grid.Cells[day][slot], "\n"), "", "L", false)
			}
			pdf.SetXY(x, y+rowHeight)
		}
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
