// Package report renders tabular reports as CSV or PDF.
// Rows arrive already validated and formatted as strings; this package only
// lays them out.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
)

// Format is the output encoding of a report.
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// ParseFormat maps a query value to a Format. Empty means PDF.
func ParseFormat(s string) (Format, bool) {
	switch Format(s) {
	case "", FormatPDF:
		return FormatPDF, true
	case FormatCSV:
		return FormatCSV, true
	}
	return "", false
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/pdf"
}

// Table is one report: a title, a header row and data rows of equal width.
// Widths holds relative column widths for PDF layout; nil means equal.
type Table struct {
	Name    string
	Title   string
	Headers []string
	Widths  []float64
	Rows    [][]string
}

// Filename returns the download name for t in format f.
func (t Table) Filename(f Format) string {
	return fmt.Sprintf("%s.%s", t.Name, f)
}

// Write encodes t to w in format f.
func Write(w io.Writer, t Table, f Format) error {
	if f == FormatCSV {
		return WriteCSV(w, t)
	}
	return WritePDF(w, t)
}

// WriteCSV writes the header row followed by every data row.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Headers); err != nil {
		return fmt.Errorf("report.WriteCSV: %w", err)
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("report.WriteCSV: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("report.WriteCSV: %w", err)
	}
	return nil
}
