package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Columns maps each ProductRow field to a spreadsheet column letter.
type Columns struct {
	OriginalCode  string
	Brand         string
	ColorName     string
	WearPeriod    string
	Dia           string
	GDia          string
	BC            string
	Comment       string
	ColorCategory string
}

// DefaultColumns matches the layout of the promotion master sheet.
func DefaultColumns() Columns {
	return Columns{
		OriginalCode:  "E",
		Brand:         "I",
		ColorName:     "J",
		WearPeriod:    "K",
		Dia:           "P",
		GDia:          "Q",
		BC:            "R",
		Comment:       "AK",
		ColorCategory: "AJ",
	}
}

// CSVSource reads the master sheet exported as CSV.
type CSVSource struct {
	// Path is the CSV file location.
	Path string

	// HeaderRows is the number of leading rows to skip. The master sheet
	// has data from row 3.
	HeaderRows int

	// Columns selects which column feeds which field.
	Columns Columns

	logger *zap.Logger
}

// NewCSVSource creates a CSVSource with the default sheet layout.
func NewCSVSource(path string, logger *zap.Logger) *CSVSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CSVSource{
		Path:       path,
		HeaderRows: 2,
		Columns:    DefaultColumns(),
		logger:     logger,
	}
}

func (s *CSVSource) ReadCatalog(ctx context.Context) ([]ProductRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	idx, err := s.Columns.indexes()
	if err != nil {
		return nil, err
	}

	f, err := os.Open(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, unavailable("%s not found", s.Path)
		}
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", s.Path, err)
	}
	if len(records) <= s.HeaderRows {
		return nil, unavailable("%s has no data rows", s.Path)
	}

	rows := make([]ProductRow, 0, len(records)-s.HeaderRows)
	for _, rec := range records[s.HeaderRows:] {
		rows = append(rows, ProductRow{
			OriginalCode:  cell(rec, idx.OriginalCode),
			Brand:         cell(rec, idx.Brand),
			ColorName:     cell(rec, idx.ColorName),
			WearPeriod:    cell(rec, idx.WearPeriod),
			Dia:           cell(rec, idx.Dia),
			GDia:          cell(rec, idx.GDia),
			BC:            cell(rec, idx.BC),
			Comment:       cell(rec, idx.Comment),
			ColorCategory: cell(rec, idx.ColorCategory),
		})
	}

	return filterAndLog(s.logger, s.Path, rows), nil
}

type columnIndexes struct {
	OriginalCode, Brand, ColorName, WearPeriod int
	Dia, GDia, BC, Comment, ColorCategory      int
}

func (c Columns) indexes() (columnIndexes, error) {
	var out columnIndexes
	fields := []struct {
		letter string
		dst    *int
	}{
		{c.OriginalCode, &out.OriginalCode},
		{c.Brand, &out.Brand},
		{c.ColorName, &out.ColorName},
		{c.WearPeriod, &out.WearPeriod},
		{c.Dia, &out.Dia},
		{c.GDia, &out.GDia},
		{c.BC, &out.BC},
		{c.Comment, &out.Comment},
		{c.ColorCategory, &out.ColorCategory},
	}
	for _, f := range fields {
		i, err := ColumnIndex(f.letter)
		if err != nil {
			return columnIndexes{}, err
		}
		*f.dst = i
	}
	return out, nil
}

// ColumnIndex converts a spreadsheet column letter ("A", "AK") to a
// zero-based index.
func ColumnIndex(letter string) (int, error) {
	letter = strings.ToUpper(strings.TrimSpace(letter))
	if letter == "" {
		return 0, fmt.Errorf("empty column letter")
	}
	n := 0
	for _, r := range letter {
		if r < 'A' || r > 'Z' {
			return 0, fmt.Errorf("invalid column letter %q", letter)
		}
		n = n*26 + int(r-'A'+1)
	}
	return n - 1, nil
}

func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}
