// Package schema turns loosely structured tabular sources into rows that
// extractors can read by canonical field name. Providers agree on no column
// contract, so headers are located by scanning and matched by alias lists.
package schema

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Grid is a raw 2-D sheet as decoded from a workbook payload. Cells keep
// their wire type (string or number) until coercion.
type Grid [][]any

// headerScanLimit bounds how deep into a sheet the header row is searched.
const headerScanLimit = 25

var headerNormRegex = regexp.MustCompile(`[^a-z0-9]+`)

// Concepts a row must contain (under any accepted spelling) to qualify as a
// header row.
var (
	gameConceptAliases   = []string{"game", "fixture", "match", "event", "home team", "home"}
	leagueConceptAliases = []string{"league", "competition", "tournament", "division"}
)

// NormalizeHeader canonicalizes a header cell for map lookup.
func NormalizeHeader(text string) string {
	lowered := strings.ToLower(strings.TrimSpace(text))
	return strings.TrimSpace(headerNormRegex.ReplaceAllString(lowered, " "))
}

// FindHeaderRow scans the first rows of a grid for one that contains both a
// game/fixture concept and a league/competition concept. Falls back to row 0.
func FindHeaderRow(grid Grid) int {
	limit := len(grid)
	if limit > headerScanLimit {
		limit = headerScanLimit
	}

	for i := 0; i < limit; i++ {
		headers := make(map[string]struct{}, len(grid[i]))
		for _, cell := range grid[i] {
			if h := NormalizeHeader(CellString(cell)); h != "" {
				headers[h] = struct{}{}
			}
		}
		if containsAny(headers, gameConceptAliases) && containsAny(headers, leagueConceptAliases) {
			return i
		}
	}

	return 0
}

func containsAny(headers map[string]struct{}, aliases []string) bool {
	for _, alias := range aliases {
		if _, ok := headers[alias]; ok {
			return true
		}
	}
	return false
}

// HeaderMap maps normalized header text to its column index.
type HeaderMap map[string]int

// BuildHeaderMap indexes one header row. The first occurrence of a duplicate
// header wins.
func BuildHeaderMap(headerRow []any) HeaderMap {
	out := make(HeaderMap, len(headerRow))
	for i, cell := range headerRow {
		key := NormalizeHeader(CellString(cell))
		if key == "" {
			continue
		}
		if _, ok := out[key]; ok {
			continue
		}
		out[key] = i
	}

	return out
}

// ReadByAlias tries each accepted header spelling in order and returns the
// first present, non-null-like cell value.
func ReadByAlias(row []any, headers HeaderMap, aliases ...string) string {
	for _, alias := range aliases {
		idx, ok := headers[NormalizeHeader(alias)]
		if !ok || idx >= len(row) {
			continue
		}
		value := CellString(row[idx])
		if !isNullLike(value) {
			return value
		}
	}

	return ""
}

// ReadByHeaderContains is the looser fallback: it matches any header whose
// normalized text contains one of the substring patterns. When several
// headers match, the leftmost column wins so extraction stays deterministic.
func ReadByHeaderContains(row []any, headers HeaderMap, patterns ...string) string {
	for _, pattern := range patterns {
		needle := NormalizeHeader(pattern)
		if needle == "" {
			continue
		}
		best := -1
		for header, idx := range headers {
			if !strings.Contains(header, needle) || idx >= len(row) {
				continue
			}
			if isNullLike(CellString(row[idx])) {
				continue
			}
			if best == -1 || idx < best {
				best = idx
			}
		}
		if best >= 0 {
			return CellString(row[best])
		}
	}

	return ""
}

// CellString renders a raw cell as trimmed text. Numbers lose any float
// formatting noise ("42" rather than "42.000000").
func CellString(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}

func isNullLike(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "n/a", "na", "null", "nil", "none", "-", "--":
		return true
	default:
		return false
	}
}

// IsSectionHeader reports whether a row has only its first cell populated,
// the shape main-list sheets use to introduce a new league section.
func IsSectionHeader(row []any) bool {
	if len(row) == 0 || CellString(row[0]) == "" {
		return false
	}
	for _, cell := range row[1:] {
		if CellString(cell) != "" {
			return false
		}
	}

	return true
}
