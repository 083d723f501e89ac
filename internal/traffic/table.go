package traffic

import (
	"encoding/csv"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// BadRowPolicy controls what happens to rows whose search-volume value does
// not parse as a finite non-negative number.
type BadRowPolicy string

const (
	// DropBadRows silently filters unparseable rows out of the table.
	DropBadRows BadRowPolicy = "drop"
	// FailBadRows aborts normalization on the first unparseable row.
	FailBadRows BadRowPolicy = "fail"
)

// Options names the two required columns and the bad-row policy.
type Options struct {
	KeywordColumn string
	VolumeColumn  string
	OnBadRows     BadRowPolicy
}

// Row is one cleaned record: the search term, its parsed monthly volume, and
// every original cell so passthrough columns survive serialization.
type Row struct {
	Keyword string
	Volume  float64
	Fields  []string
}

// Table is an ordered collection of cleaned rows. After Normalize every row
// has a finite non-negative Volume; duplicate keywords are allowed.
type Table struct {
	Header  []string
	Rows    []Row
	Dropped int
}

// Normalize trims header whitespace, locates the two required columns by
// exact post-trim name, and coerces the volume column. Row order among
// survivors is preserved.
func Normalize(raw *RawTable, opt Options) (*Table, error) {
	header := make([]string, len(raw.Header))
	kwIdx, volIdx := -1, -1
	for i, name := range raw.Header {
		header[i] = strings.TrimSpace(name)
		switch header[i] {
		case opt.KeywordColumn:
			kwIdx = i
		case opt.VolumeColumn:
			volIdx = i
		}
	}
	if volIdx < 0 {
		return nil, &MissingColumnError{Column: opt.VolumeColumn}
	}
	if kwIdx < 0 {
		return nil, &MissingColumnError{Column: opt.KeywordColumn}
	}

	t := &Table{Header: header}
	for i, rec := range raw.Records {
		v, ok := parseVolume(rec[volIdx])
		if !ok {
			if opt.OnBadRows == FailBadRows {
				return nil, fmt.Errorf("row %d: unparseable %s value %q", i+1, opt.VolumeColumn, rec[volIdx])
			}
			t.Dropped++
			continue
		}
		t.Rows = append(t.Rows, Row{
			Keyword: strings.TrimSpace(rec[kwIdx]),
			Volume:  v,
			Fields:  rec,
		})
	}
	return t, nil
}

// parseVolume strips thousands separators and parses the remainder. Values
// that are not finite non-negative numbers are rejected.
func parseVolume(s string) (float64, bool) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return 0, false
	}
	raw = strings.ReplaceAll(raw, ",", "")
	raw = strings.ReplaceAll(raw, " ", "")
	raw = strings.ReplaceAll(raw, " ", "")
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// TopK returns the k rows with the largest volume, ties broken by original
// row order.
func (t *Table) TopK(k int) []Row {
	rows := make([]Row, len(t.Rows))
	copy(rows, t.Rows)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Volume > rows[j].Volume })
	if k > len(rows) {
		k = len(rows)
	}
	if k < 0 {
		k = 0
	}
	return rows[:k]
}

// SerializeCSV renders the header plus the given rows back to a compact CSV
// block, preserving all original columns.
func (t *Table) SerializeCSV(rows []Row) string {
	var b strings.Builder
	w := csv.NewWriter(&b)
	_ = w.Write(t.Header)
	for _, r := range rows {
		rec := r.Fields
		if len(rec) > len(t.Header) {
			rec = rec[:len(t.Header)]
		}
		_ = w.Write(rec)
	}
	w.Flush()
	return b.String()
}
