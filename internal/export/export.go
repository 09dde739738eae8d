// Package export writes table rows as CSV, XLSX or PDF using the table's column definitions.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/phpdave11/gofpdf"
	"github.com/xuri/excelize/v2"

	"facilities/internal/table"
	"facilities/internal/utils"
)

type Format string

const (
	CSV  Format = "csv"
	XLSX Format = "xlsx"
	PDF  Format = "pdf"
)

// ParseFormat accepts csv, xlsx and pdf in any case; empty means csv.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return CSV, nil
	case CSV, XLSX, PDF:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

func (f Format) ContentType() string {
	switch f {
	case XLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case PDF:
		return "application/pdf"
	default:
		return "text/csv; charset=utf-8"
	}
}

// Filename sanitizes name and appends the format's extension.
func Filename(name string, f Format) string {
	base := utils.SafeFilename(name)
	if base == "" {
		base = "export"
	}
	return base + "." + string(f)
}

// Grid renders rows into a header line plus one line per row. Sentinel columns never export.
func Grid[T any](cols []table.Column[T], rows []T) ([]string, [][]string) {
	cols = table.DataColumns(cols, nil)
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Header
		if header[i] == "" {
			header[i] = c.ID
		}
	}
	out := make([][]string, len(rows))
	for r, row := range rows {
		line := make([]string, len(cols))
		for i, c := range cols {
			line[i] = c.Value(row)
		}
		out[r] = line
	}
	return header, out
}

// Write renders rows in format f to w. cols should already exclude hidden columns.
func Write[T any](w io.Writer, f Format, cols []table.Column[T], rows []T) error {
	header, lines := Grid(cols, rows)
	switch f {
	case CSV:
		return writeCSV(w, header, lines)
	case XLSX:
		return writeXLSX(w, header, lines)
	case PDF:
		return writePDF(w, header, lines)
	default:
		return fmt.Errorf("unsupported export format %q", f)
	}
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

const sheet = "Sheet1"

func writeXLSX(w io.Writer, header []string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, line := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &line); err != nil {
			return err
		}
	}
	if len(header) > 0 {
		if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
			return err
		}
	}
	_, err := f.WriteTo(w)
	return err
}

func writePDF(w io.Writer, header []string, rows [][]string) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Export", false)
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	width, _ := pdf.GetPageSize()
	colW := width - 20
	if len(header) > 0 {
		colW /= float64(len(header))
	}
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for _, h := range header {
		pdf.CellFormat(colW, 7, tr(clip(pdf, h, colW)), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, line := range rows {
		for _, v := range line {
			pdf.CellFormat(colW, 6, tr(clip(pdf, v, colW)), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}

// clip shortens s until it fits in width, ending in "...".
func clip(pdf *gofpdf.Fpdf, s string, width float64) string {
	limit := width - 2
	if pdf.GetStringWidth(s) <= limit {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > limit {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}
