package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.uber.org/zap"
)

// ProductSchema is the JSON Schema a JSON catalog file must satisfy:
// an array of product objects. Numeric specs may be strings or numbers.
var ProductSchema = map[string]any{
	"type": "array",
	"items": map[string]any{
		"type": "object",
		"properties": map[string]any{
			"originalCode":  map[string]any{"type": "string"},
			"brand":         map[string]any{"type": "string"},
			"colorName":     map[string]any{"type": "string"},
			"wearPeriod":    map[string]any{"type": "string"},
			"dia":           map[string]any{"type": []any{"string", "number", "null"}},
			"gdia":          map[string]any{"type": []any{"string", "number", "null"}},
			"bc":            map[string]any{"type": []any{"string", "number", "null"}},
			"comment":       map[string]any{"type": []any{"string", "null"}},
			"colorCategory": map[string]any{"type": "string"},
		},
		"required": []any{"originalCode", "brand", "colorName", "wearPeriod", "colorCategory"},
	},
}

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func productSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The compiler wants a plain decoded JSON value, so round-trip the map.
		raw, err := json.Marshal(ProductSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal product schema: %w", err)
			return
		}
		var doc any
		if err := json.Unmarshal(raw, &doc); err != nil {
			compileErr = fmt.Errorf("parse product schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		const url = "schema://catalog-products.json"
		if err := c.AddResource(url, doc); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(url)
	})
	return compiledSchema, compileErr
}

// JSONSource reads a catalog stored as a JSON array of products.
type JSONSource struct {
	Path   string
	logger *zap.Logger
}

// NewJSONSource creates a JSONSource for the file at path.
func NewJSONSource(path string, logger *zap.Logger) *JSONSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JSONSource{Path: path, logger: logger}
}

func (s *JSONSource) ReadCatalog(ctx context.Context) ([]ProductRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, unavailable("%s not found", s.Path)
		}
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, unavailable("%s is empty", s.Path)
	}

	rows, err := DecodeJSON(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", s.Path, err)
	}
	if len(rows) == 0 {
		return nil, unavailable("%s has no products", s.Path)
	}
	return filterAndLog(s.logger, s.Path, rows), nil
}

// DecodeJSON validates data against ProductSchema and decodes it. Rows are
// returned unfiltered.
func DecodeJSON(data []byte) ([]ProductRow, error) {
	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	schema, err := productSchema()
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	if err := schema.Validate(parsed); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	items, _ := parsed.([]any)
	rows := make([]ProductRow, 0, len(items))
	for _, item := range items {
		obj, _ := item.(map[string]any)
		rows = append(rows, ProductRow{
			OriginalCode:  stringValue(obj["originalCode"]),
			Brand:         stringValue(obj["brand"]),
			ColorName:     stringValue(obj["colorName"]),
			WearPeriod:    stringValue(obj["wearPeriod"]),
			Dia:           stringValue(obj["dia"]),
			GDia:          stringValue(obj["gdia"]),
			BC:            stringValue(obj["bc"]),
			Comment:       stringValue(obj["comment"]),
			ColorCategory: stringValue(obj["colorCategory"]),
		})
	}
	return rows, nil
}

// stringValue renders a decoded JSON scalar the way the sheet shows it.
func stringValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	default:
		return ""
	}
}
