package export

import (
	"fmt"
	"io"
	"strings"
)

// Format is a supported export file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat defaults to CSV when s is empty
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Table is a header row plus data rows
type Table struct {
	Name    string
	Columns []string
	Rows    [][]interface{}
}

// Write encodes table to w in the given format
func Write(w io.Writer, format Format, table Table) error {
	switch format {
	case FormatXLSX:
		options := DefaultExcelOptions()
		if table.Name != "" {
			options.SheetName = table.Name
		}
		exporter, err := NewExcelExporter(options)
		if err != nil {
			return err
		}
		defer exporter.Close()

		if err := exporter.WriteHeader(table.Columns); err != nil {
			return err
		}
		if err := exporter.WriteRows(table.Rows, len(table.Columns)); err != nil {
			return err
		}
		return exporter.WriteTo(w)
	default:
		exporter := NewCSVExporter(w, DefaultCSVOptions())
		if err := exporter.WriteHeader(table.Columns); err != nil {
			return err
		}
		if err := exporter.WriteRows(table.Rows); err != nil {
			return err
		}
		return exporter.Flush()
	}
}
