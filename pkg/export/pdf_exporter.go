package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders datasets into a basic tabular PDF.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF document with an optional title and table body.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, strings.ToUpper(title), "", 1, "C", false, 0, "")
		pdf.Ln(5)
	}

	pdf.SetFont("Arial", "B", 10)
	colWidth := 190.0 / float64(len(data.Headers))
	for _, header := range data.Headers {
		pdf.CellFormat(colWidth, 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range data.Rows {
		for i := range data.Headers {
			value := ""
			if i < len(row) {
				value = row[i]
			}
			pdf.CellFormat(colWidth, 7, value, "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// TimetableGrid describes a week grid for landscape timetable rendering.
type TimetableGrid struct {
	Title string
	Days  []string
	Slots []string
	// Cells maps "day|slot" to the text shown in that cell.
	Cells map[string]string
}

// RenderTimetable draws a landscape day-by-slot grid.
func (e *PDFExporter) RenderTimetable(grid TimetableGrid) ([]byte, error) {
	if len(grid.Days) == 0 || len(grid.Slots) == 0 {
		return nil, fmt.Errorf("timetable requires at least one day and one slot")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.AddPage()

	if grid.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, strings.ToUpper(grid.Title), "", 1, "C", false, 0, "")
		pdf.Ln(3)
	}

	slotColWidth := 30.0
	dayColWidth := (277.0 - slotColWidth) / float64(len(grid.Days))

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(slotColWidth, 8, "Slot", "1", 0, "C", false, 0, "")
	for _, day := range grid.Days {
		pdf.CellFormat(dayColWidth, 8, day, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, slot := range grid.Slots {
		pdf.CellFormat(slotColWidth, 10, slot, "1", 0, "C", false, 0, "")
		for _, day := range grid.Days {
			pdf.CellFormat(dayColWidth, 10, grid.Cells[day+"|"+slot], "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render timetable pdf: %w", err)
	}
	return buf.Bytes(), nil
}
