package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

// RenderPDF lays the table out on landscape A4 pages, repeating the header row
// after each page break.
func RenderPDF(t Table) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(t.Title, false)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, t.Title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(0, 6, time.Now().Format("2006-01-02"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pageW, pageH := pdf.GetPageSize()
	left, _, right, bottom := pdf.GetMargins()
	colW := (pageW - left - right) / float64(len(t.Headers))

	header := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for _, h := range t.Headers {
			pdf.CellFormat(colW, 7, h, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 9)
	}
	header()

	for _, row := range t.Rows {
		if pdf.GetY() > pageH-bottom-10 {
			pdf.AddPage()
			header()
		}
		for _, cell := range row {
			pdf.CellFormat(colW, 6, clip(pdf, cell, colW), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// clip shortens cell text to fit the column, appending an ellipsis.
func clip(pdf *fpdf.Fpdf, s string, width float64) string {
	const pad = 2.0
	if pdf.GetStringWidth(s) <= width-pad {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > width-pad {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}
