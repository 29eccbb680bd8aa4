package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"eventticketing/internal/services"
)

// Row is one recipient row from the tabular source.
type Row struct {
	// Line is the 1-based source line, for skip reporting.
	Line     int
	Email    string
	Name     string
	TypeText string
	// Paid is the raw payment-confirmation cell; empty when the source has
	// no such column.
	Paid string
}

// Source yields recipient rows in source order. Parsing the underlying
// format is the source's concern; the pipeline only sees rows.
type Source interface {
	Rows() ([]Row, error)
}

// CSVColumns names the source columns. Empty fields fall back to header
// detection against a set of known spellings (English and Icelandic).
type CSVColumns struct {
	Email string
	Name  string
	Type  string
	Paid  string
}

var headerCandidates = map[string][]string{
	"email": {"email", "e-mail", "netfang", "mail"},
	"name":  {"name", "nafn", "fullt nafn"},
	"type":  {"type", "ticket type", "tegund", "midi", "miditegund"},
	"paid":  {"paid", "payment", "greitt", "buid ad borga"},
}

type csvSource struct {
	path    string
	comma   rune
	columns CSVColumns
}

// NewCSVSource reads rows from a CSV export at path. comma 0 means ','.
func NewCSVSource(path string, comma rune, columns CSVColumns) Source {
	if comma == 0 {
		comma = ','
	}
	return &csvSource{path: path, comma: comma, columns: columns}
}

func (s *csvSource) Rows() ([]Row, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	defer f.Close()
	return s.parse(f)
}

func (s *csvSource) parse(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.Comma = s.comma
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("source is empty")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	emailIdx := s.findColumn(header, s.columns.Email, "email")
	if emailIdx < 0 {
		return nil, fmt.Errorf("source has no email column (header: %s)", strings.Join(header, ", "))
	}
	nameIdx := s.findColumn(header, s.columns.Name, "name")
	typeIdx := s.findColumn(header, s.columns.Type, "type")
	paidIdx := s.findColumn(header, s.columns.Paid, "paid")

	var rows []Row
	line := 1
	for {
		record, err := reader.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read source line %d: %w", line, err)
		}
		rows = append(rows, Row{
			Line:     line,
			Email:    cell(record, emailIdx),
			Name:     cell(record, nameIdx),
			TypeText: cell(record, typeIdx),
			Paid:     cell(record, paidIdx),
		})
	}
	return rows, nil
}

// findColumn locates a column by explicit name first, then by the known
// spellings for the role. Comparison is diacritic-insensitive so "Greitt?"
// and "greitt" both match.
func (s *csvSource) findColumn(header []string, explicit, role string) int {
	normalize := func(h string) string {
		return services.NormalizeTypeText(strings.Trim(h, "?:!."))
	}
	if explicit != "" {
		want := normalize(explicit)
		for i, h := range header {
			if normalize(h) == want {
				return i
			}
		}
		return -1
	}
	for i, h := range header {
		got := normalize(h)
		for _, cand := range headerCandidates[role] {
			if got == cand {
				return i
			}
		}
	}
	return -1
}

func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
