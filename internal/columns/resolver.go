// =============================================================================
// Card Sheet Converter - Column Resolver
// =============================================================================
//
// The resolver decides, once per sheet, which header column feeds each
// canonical card field. Every canonical field has an ordered list of accepted
// header aliases (see config.Default); the first alias that exists in the
// sheet wins.
//
// EXAMPLE:
//   aliases:  name -> ["Name", "name", "Nome"]
//   headers:  ["Nome", "ATK", "name"]
//   result:   name -> "name" (column 2), because "name" ranks above "Nome"
//
// Fields with no matching alias are left out of the mapping. That is not an
// error: the normalizer substitutes the field default.
//
// =============================================================================

package columns

import (
	"github.com/ginjaninja78/cardsheet/internal/config"
)

// Column identifies the header that was chosen for a canonical field.
type Column struct {
	// Header is the alias text as it appears in the sheet.
	Header string

	// Index is the zero-based column position of Header.
	Index int
}

// Mapping maps canonical field names to resolved columns.
// Unresolved fields are absent.
type Mapping map[string]Column

// Resolve builds the field mapping for a sheet with the given headers.
//
// PARAMETERS:
//   - headers: The header row, in column order.
//   - cfg: Supplies the canonical fields and their alias priority lists.
//
// RETURNS:
//   - The mapping. When the same header text appears in more than one column,
//     the leftmost column is used.
func Resolve(headers []string, cfg *config.Config) Mapping {
	// Index headers first so resolution does not rescan the row per alias.
	positions := make(map[string]int, len(headers))
	for i, h := range headers {
		if h == "" {
			continue
		}
		if _, seen := positions[h]; !seen {
			positions[h] = i
		}
	}

	mapping := make(Mapping)
	for _, field := range config.Fields {
		for _, alias := range cfg.Aliases(field) {
			if idx, ok := positions[alias]; ok {
				mapping[field] = Column{Header: alias, Index: idx}
				break
			}
		}
	}

	return mapping
}

// Has reports whether a canonical field was resolved.
func (m Mapping) Has(field string) bool {
	_, ok := m[field]
	return ok
}

// Headers returns the resolved header text per field, for logging.
func (m Mapping) Headers() map[string]string {
	out := make(map[string]string, len(m))
	for field, col := range m {
		out[field] = col.Header
	}
	return out
}
