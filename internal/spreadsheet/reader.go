// Package spreadsheet turns an uploaded products workbook into canonical
// product records: header detection, column normalization and value coercion.
package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go-price-compare/internal/model"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var (
	// ErrEmptySheet means no data rows remained after header detection and blank-row filtering.
	ErrEmptySheet = errors.New("spreadsheet has no data rows")
	// ErrUnreadableWorkbook means the bytes are not a readable workbook.
	ErrUnreadableWorkbook = errors.New("unreadable workbook")
)

// Sheet is the result of reading a workbook.
type Sheet struct {
	Name              string                `json:"sheetName"`
	HeaderRow         int                   `json:"headerRow"`
	HeaderFound       bool                  `json:"headerFound"`
	OriginalColumns   []string              `json:"originalColumns"`
	NormalizedColumns []string              `json:"normalizedColumns"`
	Records           []model.ProductRecord `json:"records"`
}

// Preview returns up to n leading records.
func (s *Sheet) Preview(n int) []model.ProductRecord {
	n = max(0, min(n, len(s.Records)))
	return s.Records[:n]
}

// Reader reads the first sheet of a workbook.
type Reader struct {
	Header HeaderOptions
	Logger *zap.Logger
}

func NewReader(opts HeaderOptions, logger *zap.Logger) *Reader {
	if logger == nil {
		logger = zap.L()
	}
	return &Reader{Header: opts, Logger: logger}
}

// Read parses workbook bytes into product records.
func (r *Reader) Read(src io.Reader) (*Sheet, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableWorkbook, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptySheet
	}

	grid, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %v", ErrUnreadableWorkbook, sheets[0], err)
	}

	sheet, err := r.ReadGrid(grid)
	if err != nil {
		return nil, err
	}
	sheet.Name = sheets[0]
	return sheet, nil
}

// ReadGrid runs detection, normalization and coercion over an already parsed grid.
func (r *Reader) ReadGrid(grid [][]string) (*Sheet, error) {
	headerRow, found := DetectHeaderRow(grid, r.Header)
	if found {
		r.Logger.Info("header row detected", zap.Int("row", headerRow+1))
	} else {
		r.Logger.Warn("header row not detected, falling back to first row")
	}

	if headerRow >= len(grid) {
		return nil, ErrEmptySheet
	}

	labels := columnLabels(grid[headerRow:])

	var rows []RawRow
	for _, cells := range grid[headerRow+1:] {
		row := make(RawRow, len(labels))
		blank := true
		for i, label := range labels {
			var v string
			if i < len(cells) {
				v = cells[i]
			}
			if strings.TrimSpace(v) != "" {
				blank = false
			}
			row[i] = Cell{Label: label, Value: v}
		}
		if !blank {
			rows = append(rows, row)
		}
	}

	if len(rows) == 0 {
		return nil, ErrEmptySheet
	}

	records := make([]model.ProductRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, ToRecord(NormalizeRow(row)))
	}

	return &Sheet{
		HeaderRow:         headerRow,
		HeaderFound:       found,
		OriginalColumns:   labels,
		NormalizedColumns: normalizedColumns(labels),
		Records:           records,
	}, nil
}

// columnLabels reads the header row; the width is the widest row at or below it.
func columnLabels(grid [][]string) []string {
	width := 0
	for _, row := range grid {
		if len(row) > width {
			width = len(row)
		}
	}

	header := grid[0]
	labels := make([]string, width)
	for i := range labels {
		if i < len(header) {
			labels[i] = strings.TrimSpace(header[i])
		}
		if labels[i] == "" {
			labels[i] = fmt.Sprintf("col_%d", i+1)
		}
	}
	return labels
}

func normalizedColumns(labels []string) []string {
	seen := make(map[string]bool, len(labels))
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		key := NormalizeColumn(l)
		if !seen[key] {
			seen[key] = true
			out = append(out, key)
		}
	}
	return out
}

// ToRecord coerces a normalized row into a ProductRecord. Non-blank unknown keys land in Extra.
func ToRecord(fields map[string]string) model.ProductRecord {
	rec := model.ProductRecord{
		SKU:   strings.TrimSpace(fields[model.FieldSKU]),
		Brand: strings.TrimSpace(fields[model.FieldBrand]),
		Model: strings.TrimSpace(fields[model.FieldModel]),
		Size:  strings.TrimSpace(fields[model.FieldSize]),
	}

	if price, ok := ParseNumber(fields[model.FieldPrice]); ok && price >= 0 {
		rec.Price = price
	}
	rec.Cost = optionalNumber(fields[model.FieldCost])
	rec.CompetitorPrice = optionalNumber(fields[model.FieldCompetitorPrice])
	rec.Margin = optionalNumber(fields[model.FieldMargin])

	if n, ok := ParseInt(fields[model.FieldStock]); ok {
		rec.Stock = &n
	}
	if v := strings.TrimSpace(fields[model.FieldVehicleType]); v != "" {
		rec.VehicleType = &v
	}

	for k, v := range fields {
		v = strings.TrimSpace(v)
		if v == "" || slices.Contains(model.CanonicalFields, k) {
			continue
		}
		if rec.Extra == nil {
			rec.Extra = make(map[string]string)
		}
		rec.Extra[k] = v
	}
	return rec
}

func optionalNumber(s string) *float64 {
	if f, ok := ParseNumber(s); ok {
		return &f
	}
	return nil
}

var currencyNoise = strings.NewReplacer("MX$", "", "US$", "", "MXN", "", "mxn", "", "USD", "", "usd", "", "$", "", "€", "", "£", "", "¥", "", "%", "")

// Only "1234.5" and "1,234.5" shapes. Decimal commas and space grouping are rejected.
var numberShape = regexp.MustCompile(`^[-+]?(?:\d{1,3}(?:,\d{3})+|\d*)(?:\.\d+)?(?:[eE][-+]?\d+)?$`)

// ParseNumber parses a spreadsheet number, tolerating currency symbols and
// comma thousands separators. NaN, infinities and ambiguous groupings are rejected.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(currencyNoise.Replace(strings.TrimSpace(s)))
	if s == "" || !numberShape.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseInt parses a whole number; decimals are truncated.
func ParseInt(s string) (int, bool) {
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return n, true
	}
	f, ok := ParseNumber(s)
	if !ok || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}
