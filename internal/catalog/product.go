package catalog

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ProductRow is one usable catalog entry.
type ProductRow struct {
	// OriginalCode is the manufacturer's product code.
	OriginalCode string `json:"originalCode"`

	// Brand is the brand name as shown to the learner.
	Brand string `json:"brand"`

	// ColorName is the color variant name as shown to the learner.
	ColorName string `json:"colorName"`

	// WearPeriod is the replacement schedule, e.g. "1day" or "2week".
	// Casing is inconsistent across the catalog.
	WearPeriod string `json:"wearPeriod"`

	// Dia, GDia and BC are numeric specs kept as strings. Optional.
	Dia  string `json:"dia,omitempty"`
	GDia string `json:"gdia,omitempty"`
	BC   string `json:"bc,omitempty"`

	// Comment is a free-text sales comment. Optional.
	Comment string `json:"comment,omitempty"`

	// ColorCategory is a delimited list of color tags, e.g. "ブラウン,ベージュ".
	ColorCategory string `json:"colorCategory"`
}

// CompositeKey identifies a product design independent of wear period.
type CompositeKey string

// FullKey is a CompositeKey plus the wear period.
type FullKey string

// CompositeKey returns the (OriginalCode, Brand, ColorName) identity.
func (r ProductRow) CompositeKey() CompositeKey {
	return CompositeKey(strings.Join([]string{r.OriginalCode, r.Brand, r.ColorName}, "|"))
}

// FullKey returns the composite key extended with the wear period.
func (r ProductRow) FullKey() FullKey {
	return FullKey(string(r.CompositeKey()) + "|" + r.WearPeriod)
}

// Categories returns the row's CategorySet.
func (r ProductRow) Categories() []string {
	return SplitCategories(r.ColorCategory)
}

// SplitCategories splits a color category cell on any run of
// , 、 ， ・ / ／ | and drops empty tokens.
func SplitCategories(s string) []string {
	fields := strings.FieldsFunc(s, isCategoryDelimiter)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if t := strings.TrimSpace(f); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func isCategoryDelimiter(r rune) bool {
	switch r {
	case ',', '、', '，', '・', '/', '／', '|':
		return true
	}
	return false
}

// IsBlank reports whether a cell counts as missing: empty,
// whitespace-only, or a literal "-" (surrounding spaces ignored).
func IsBlank(s string) bool {
	t := strings.TrimSpace(s)
	return t == "" || t == "-"
}

// IsCylColorName reports whether a color name marks an astigmatism (CYL)
// lens. Full-width and lower-case spellings are matched too.
func IsCylColorName(name string) bool {
	return strings.Contains(strings.ToUpper(norm.NFKC.String(name)), "CYL")
}

// Usable reports whether a row has every required field and is not a
// CYL product.
func (r ProductRow) Usable() bool {
	for _, v := range []string{r.OriginalCode, r.Brand, r.ColorName, r.WearPeriod, r.ColorCategory} {
		if IsBlank(v) {
			return false
		}
	}
	return !IsCylColorName(r.ColorName)
}

// Filter keeps only usable rows, preserving order.
func Filter(rows []ProductRow) []ProductRow {
	out := make([]ProductRow, 0, len(rows))
	for _, r := range rows {
		if r.Usable() {
			out = append(out, r)
		}
	}
	return out
}
