package catalog

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"
)

// ErrCatalogUnavailable is returned when the catalog source is missing or
// holds no data rows.
var ErrCatalogUnavailable = errors.New("catalog unavailable")

// Source reads the full product catalog. Every call returns a fresh,
// already filtered slice that the caller may keep or modify.
type Source interface {
	ReadCatalog(ctx context.Context) ([]ProductRow, error)
}

func unavailable(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCatalogUnavailable, fmt.Sprintf(format, args...))
}

// filterAndLog applies Filter and reports how many rows survived.
func filterAndLog(logger *zap.Logger, origin string, rows []ProductRow) []ProductRow {
	usable := Filter(rows)
	logger.Info("catalog loaded",
		zap.String("source", origin),
		zap.Int("rows", len(usable)),
		zap.Int("skipped", len(rows)-len(usable)),
	)
	return usable
}

// StaticSource serves a fixed set of rows from memory.
type StaticSource struct {
	rows   []ProductRow
	logger *zap.Logger
}

// NewStaticSource creates a StaticSource. Unusable rows are dropped on
// every read, the same as file-backed sources.
func NewStaticSource(rows []ProductRow, logger *zap.Logger) *StaticSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StaticSource{rows: slices.Clone(rows), logger: logger}
}

func (s *StaticSource) ReadCatalog(ctx context.Context) ([]ProductRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(s.rows) == 0 {
		return nil, unavailable("no rows configured")
	}
	return filterAndLog(s.logger, "static", s.rows), nil
}

// Open picks a file-backed source by extension: ".json" is read as JSON,
// anything else as a CSV export of the master sheet.
func Open(path string, logger *zap.Logger) (Source, error) {
	if strings.TrimSpace(path) == "" {
		return nil, unavailable("no catalog path configured")
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return NewJSONSource(path, logger), nil
	default:
		return NewCSVSource(path, logger), nil
	}
}
