// Package csvimport reads header-keyed CSV uploads with forgiving column
// names.
package csvimport

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// MaxReportedRows caps invalid and failed row lists in import reports.
const MaxReportedRows = 50

var (
	// ErrInvalidFormat means the payload is not parseable CSV.
	ErrInvalidFormat = errors.New("invalid CSV format")
	// ErrNoRows means the CSV holds a header but no data.
	ErrNoRows = errors.New("CSV has no data rows")
)

// Record is one data row keyed by normalized header.
type Record struct {
	// Line is the 1-based line in the file where the row starts.
	Line   int
	values map[string]string
}

// Parse reads all rows. Blank lines are skipped and cells are trimmed.
func Parse(r io.Reader) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	keys := make([]string, len(header))
	for i, h := range header {
		keys[i] = Normalize(h)
	}

	var records []Record
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		line, _ := reader.FieldPos(0)
		if len(row) > len(keys) {
			return nil, fmt.Errorf("%w: line %d has %d fields, header has %d", ErrInvalidFormat, line, len(row), len(keys))
		}

		rec := Record{Line: line, values: make(map[string]string, len(keys))}
		blank := true
		for i, cell := range row {
			cell = strings.TrimSpace(cell)
			if cell != "" {
				blank = false
			}
			if _, seen := rec.values[keys[i]]; !seen || cell != "" {
				rec.values[keys[i]] = cell
			}
		}
		if blank {
			continue
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, ErrNoRows
	}
	return records, nil
}

// Pick returns the first non-empty value among the aliased columns.
func (r Record) Pick(aliases ...string) string {
	for _, a := range aliases {
		if v := r.values[Normalize(a)]; v != "" {
			return v
		}
	}
	return ""
}

// Normalize lowercases a header and drops everything but letters and digits,
// so "First Name", "first_name" and "FirstName" compare equal.
func Normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// RowIssue describes a skipped or failed row.
type RowIssue struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// Capped truncates issues to MaxReportedRows.
func Capped(issues []RowIssue) []RowIssue {
	if issues == nil {
		return []RowIssue{}
	}
	if len(issues) > MaxReportedRows {
		return issues[:MaxReportedRows]
	}
	return issues
}
