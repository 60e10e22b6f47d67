package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/pkordes/travel-booking/backend/internal/search"
)

const (
	rowHeight    = 7.0
	headerHeight = 8.0
	fontFamily   = "Helvetica"
)

// WritePDF renders t as a landscape A4 table with a repeating header row
// and page numbers. The core PDF fonts only cover Latin-1, so text is
// stripped of diacritics before layout.
func WritePDF(w io.Writer, t Table) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AliasNbPages("")

	widths := columnWidths(pdf, t)

	pdf.SetHeaderFunc(func() {
		pdf.SetFont(fontFamily, "B", 14)
		pdf.CellFormat(0, 10, search.Strip(t.Title), "", 1, "C", false, 0, "")
		pdf.Ln(2)
		pdf.SetFont(fontFamily, "B", 9)
		pdf.SetFillColor(220, 220, 220)
		for i, h := range t.Headers {
			pdf.CellFormat(widths[i], headerHeight, fit(pdf, search.Strip(h), widths[i]), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont(fontFamily, "I", 8)
		pdf.CellFormat(0, 8, "Page "+strconv.Itoa(pdf.PageNo())+" / {nb}", "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont(fontFamily, "", 9)
	if len(t.Rows) == 0 {
		pdf.CellFormat(0, rowHeight, "No data", "1", 1, "C", false, 0, "")
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			pdf.CellFormat(widths[i], rowHeight, fit(pdf, search.Strip(cell), widths[i]), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("report.WritePDF: %w", err)
	}
	return nil
}

// columnWidths spreads the printable width over the columns in proportion
// to t.Widths.
func columnWidths(pdf *fpdf.Fpdf, t Table) []float64 {
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	usable := pageW - left - right

	weights := t.Widths
	if len(weights) != len(t.Headers) {
		weights = make([]float64, len(t.Headers))
		for i := range weights {
			weights[i] = 1
		}
	}
	var total float64
	for _, w := range weights {
		total += w
	}
	out := make([]float64, len(weights))
	for i, w := range weights {
		out[i] = usable * w / total
	}
	return out
}

// fit truncates s with an ellipsis so it fits in a cell of width w.
// The current font must already be set.
func fit(pdf *fpdf.Fpdf, s string, w float64) string {
	const padding = 2.0
	if pdf.GetStringWidth(s) <= w-padding {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > w-padding {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}
