package export

import (
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ExcelExporter exports rows to a single XLSX sheet
type ExcelExporter struct {
	file    *excelize.File
	options ExcelOptions
}

// ExcelOptions configures Excel export behavior
type ExcelOptions struct {
	SheetName      string            `json:"sheet_name"`
	FreezeHeader   bool              `json:"freeze_header"`
	AutoFilter     bool              `json:"auto_filter"`
	AutoWidth      bool              `json:"auto_width"`
	CurrencyFormat string            `json:"currency_format"`
	HeaderStyle    *ExcelStyleConfig `json:"header_style,omitempty"`
}

// ExcelStyleConfig defines style for cells
type ExcelStyleConfig struct {
	FontBold  bool   `json:"font_bold"`
	FontSize  int    `json:"font_size"`
	FontColor string `json:"font_color"`
	FillColor string `json:"fill_color"`
	Border    bool   `json:"border"`
}

// DefaultExcelOptions returns default Excel export options
func DefaultExcelOptions() ExcelOptions {
	return ExcelOptions{
		SheetName:      "Export",
		FreezeHeader:   true,
		AutoFilter:     true,
		AutoWidth:      true,
		CurrencyFormat: "€ #,##0.00",
		HeaderStyle: &ExcelStyleConfig{
			FontBold:  true,
			FontSize:  11,
			FillColor: "4472C4",
			FontColor: "FFFFFF",
			Border:    true,
		},
	}
}

// NewExcelExporter creates a workbook whose first sheet carries options.SheetName
func NewExcelExporter(options ExcelOptions) (*ExcelExporter, error) {
	file := excelize.NewFile()
	if err := file.SetSheetName("Sheet1", options.SheetName); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	return &ExcelExporter{
		file:    file,
		options: options,
	}, nil
}

// WriteHeader writes the styled header row
func (e *ExcelExporter) WriteHeader(columns []string) error {
	sheet := e.options.SheetName

	styleID := 0
	if e.options.HeaderStyle != nil {
		id, err := e.createStyle(e.options.HeaderStyle)
		if err != nil {
			return fmt.Errorf("failed to create header style: %w", err)
		}
		styleID = id
	}

	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := e.file.SetCellValue(sheet, cell, col); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		if styleID > 0 {
			e.file.SetCellStyle(sheet, cell, cell, styleID)
		}
	}

	if e.options.FreezeHeader {
		e.file.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		})
	}
	if e.options.AutoFilter && len(columns) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(columns), 1)
		e.file.AutoFilter(sheet, "A1:"+last, nil)
	}
	return nil
}

// WriteRows writes data rows beneath the header
func (e *ExcelExporter) WriteRows(rows [][]interface{}, columnCount int) error {
	sheet := e.options.SheetName

	currencyStyle := 0
	if e.options.CurrencyFormat != "" {
		id, err := e.file.NewStyle(&excelize.Style{CustomNumFmt: &e.options.CurrencyFormat})
		if err != nil {
			return fmt.Errorf("failed to create currency style: %w", err)
		}
		currencyStyle = id
	}

	widths := make([]float64, columnCount)
	for r, row := range rows {
		for c, val := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := e.setCellValue(sheet, cell, val, currencyStyle); err != nil {
				return fmt.Errorf("failed to set cell value: %w", err)
			}
			if c < columnCount {
				if w := float64(len(fmt.Sprintf("%v", val))) * 1.2; w > widths[c] {
					widths[c] = w
				}
			}
		}
	}

	if e.options.AutoWidth {
		for c, w := range widths {
			if w < 10 {
				w = 10
			}
			if w > 50 {
				w = 50
			}
			col, _ := excelize.ColumnNumberToName(c + 1)
			e.file.SetColWidth(sheet, col, col, w)
		}
	}
	return nil
}

// WriteTo writes the workbook to w
func (e *ExcelExporter) WriteTo(w io.Writer) error {
	return e.file.Write(w)
}

// Close releases the workbook
func (e *ExcelExporter) Close() error {
	return e.file.Close()
}

func (e *ExcelExporter) createStyle(config *ExcelStyleConfig) (int, error) {
	style := &excelize.Style{
		Font: &excelize.Font{
			Bold:  config.FontBold,
			Size:  float64(config.FontSize),
			Color: config.FontColor,
		},
	}
	if config.FillColor != "" {
		style.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{config.FillColor}}
	}
	if config.Border {
		style.Border = []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		}
	}
	return e.file.NewStyle(style)
}

func (e *ExcelExporter) setCellValue(sheet, cell string, val interface{}, currencyStyle int) error {
	switch v := val.(type) {
	case nil:
		return e.file.SetCellValue(sheet, cell, "")
	case decimal.Decimal:
		if err := e.file.SetCellValue(sheet, cell, v.InexactFloat64()); err != nil {
			return err
		}
		if currencyStyle > 0 {
			return e.file.SetCellStyle(sheet, cell, cell, currencyStyle)
		}
		return nil
	case time.Time:
		if v.IsZero() {
			return e.file.SetCellValue(sheet, cell, "")
		}
		return e.file.SetCellValue(sheet, cell, v.Format("02-01-2006"))
	default:
		return e.file.SetCellValue(sheet, cell, v)
	}
}
