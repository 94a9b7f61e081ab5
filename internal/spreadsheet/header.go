package spreadsheet

import "strings"

const (
	// DefaultHeaderScanRows bounds how far down the sheet the header is searched.
	DefaultHeaderScanRows = 10
	// DefaultHeaderMinMatches is the number of keyword groups a header row must hit.
	DefaultHeaderMinMatches = 3
)

// DefaultHeaderKeywords groups aliases per expected column. A group counts once
// no matter how many of its aliases appear in the row.
var DefaultHeaderKeywords = [][]string{
	{"sku"},
	{"marca", "brand"},
	{"modelo", "model"},
	{"medida", "size"},
}

// HeaderOptions tunes DetectHeaderRow.
type HeaderOptions struct {
	ScanRows   int
	MinMatches int
	Keywords   [][]string
}

func (o HeaderOptions) withDefaults() HeaderOptions {
	if o.ScanRows <= 0 {
		o.ScanRows = DefaultHeaderScanRows
	}
	if o.MinMatches <= 0 {
		o.MinMatches = DefaultHeaderMinMatches
	}
	if len(o.Keywords) == 0 {
		o.Keywords = DefaultHeaderKeywords
	}
	return o
}

// DetectHeaderRow returns the index of the first row, within the scan window,
// whose cells contain at least MinMatches keyword groups as substrings.
// When no row qualifies it returns 0 and false.
func DetectHeaderRow(grid [][]string, opts HeaderOptions) (int, bool) {
	opts = opts.withDefaults()

	limit := len(grid)
	if limit > opts.ScanRows {
		limit = opts.ScanRows
	}

	for r := 0; r < limit; r++ {
		if countKeywordGroups(grid[r], opts.Keywords) >= opts.MinMatches {
			return r, true
		}
	}
	return 0, false
}

func countKeywordGroups(row []string, groups [][]string) int {
	cells := make([]string, 0, len(row))
	for _, v := range row {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			cells = append(cells, v)
		}
	}

	matched := 0
	for _, aliases := range groups {
		if groupMatches(cells, aliases) {
			matched++
		}
	}
	return matched
}

func groupMatches(cells, aliases []string) bool {
	for _, cell := range cells {
		for _, kw := range aliases {
			if strings.Contains(cell, kw) {
				return true
			}
		}
	}
	return false
}
