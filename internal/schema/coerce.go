package schema

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	ordinalSuffixRegex = regexp.MustCompile(`(\d)(st|nd|rd|th)\b`)
	parentheticalRegex = regexp.MustCompile(`\([^)]*\)`)
	etMarkerRegex      = regexp.MustCompile(`(?i)\bET\b`)
	multiSpaceRegex    = regexp.MustCompile(`\s+`)
)

// Separators accepted by SplitGameText, tried in order. The spaced forms
// come first so "Milan - Inter" is not split inside a hyphenated team name.
var gameSeparators = []string{" vs ", " vs. ", " v ", " - ", " @ ", " – ", " — ", "–", "—"}

// ParseNumber reads a numeric cell, tolerating comma decimals and blank or
// sentinel values. Unparseable input yields the caller's fallback.
func ParseNumber(value string, fallback float64) float64 {
	trimmed := strings.TrimSpace(value)
	if isNullLike(trimmed) {
		return fallback
	}

	trimmed = strings.ReplaceAll(trimmed, ",", ".")
	// Drop a stray trailing unit like "2.5 goals".
	if idx := strings.IndexByte(trimmed, ' '); idx > 0 {
		trimmed = trimmed[:idx]
	}

	out, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return fallback
	}

	return out
}

// ParsePercent normalizes a percentage cell to the 0-100 point scale.
// "79%", "79" and "0.79" all coerce to 79. The result is always clamped.
func ParsePercent(value string, fallback float64) float64 {
	trimmed := strings.TrimSpace(value)
	if isNullLike(trimmed) {
		return clampPct(fallback)
	}

	hadSign := strings.Contains(trimmed, "%")
	trimmed = strings.ReplaceAll(trimmed, "%", "")

	out := ParseNumber(trimmed, -1)
	if out < 0 {
		return clampPct(fallback)
	}
	// A bare fraction like 0.79 means 79%; an explicit "0.5%" stays 0.5.
	if !hadSign && out <= 1 {
		out *= 100
	}

	return clampPct(out)
}

func clampPct(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Spreadsheet serial day zero (the usual 1900 system with its leap bug
// baked in, hence Dec 30th).
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006 15:04",
	"01/02/2006",
	"Jan 2 2006 3:04 PM",
	"Jan 2 2006 15:04",
	"Jan 2 2006",
	"January 2 2006 3:04 PM",
	"January 2 2006",
	"Mon Jan 2 2006 3:04 PM",
	"Mon Jan 2 2006",
	"2 Jan 2006 15:04",
	"2 Jan 2006",
}

// ParseDate reads a kickoff cell that may be a spreadsheet serial code, an
// ISO string, or loose natural language ("Sat, Mar 1st 2025 7:30 PM (EST) ET").
// Ingestion never halts on a bad timestamp: unparseable input yields now().
func ParseDate(value string, now func() time.Time) time.Time {
	if now == nil {
		now = time.Now
	}

	trimmed := strings.TrimSpace(value)
	if isNullLike(trimmed) {
		return now()
	}

	if serial, err := strconv.ParseFloat(strings.ReplaceAll(trimmed, ",", "."), 64); err == nil {
		// Plausible workbook serials only; tiny numbers are not dates.
		if serial > 10000 && serial < 80000 {
			days := int(serial)
			frac := serial - float64(days)
			return serialEpoch.AddDate(0, 0, days).Add(time.Duration(frac * float64(24*time.Hour)))
		}
	}

	if t, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return t
	}

	cleaned := cleanLooseDate(trimmed)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t
		}
	}

	// Retry without a leading weekday token ("Sat Mar 1 2025").
	if idx := strings.IndexByte(cleaned, ' '); idx > 0 {
		rest := cleaned[idx+1:]
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, rest); err == nil {
				return t
			}
		}
	}

	return now()
}

func cleanLooseDate(value string) string {
	out := parentheticalRegex.ReplaceAllString(value, " ")
	out = etMarkerRegex.ReplaceAllString(out, " ")
	out = ordinalSuffixRegex.ReplaceAllString(out, "$1")
	out = strings.ReplaceAll(out, ",", " ")
	out = multiSpaceRegex.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

// SplitGameText extracts (home, away) from a combined game cell such as
// "Real Madrid vs Barcelona". Returns ok=false when no separator splits the
// text into two non-empty sides.
func SplitGameText(text string) (home, away string, ok bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", "", false
	}

	for _, sep := range gameSeparators {
		idx := indexFold(trimmed, sep)
		if idx < 0 {
			continue
		}
		home = strings.TrimSpace(trimmed[:idx])
		away = strings.TrimSpace(trimmed[idx+len(sep):])
		if home != "" && away != "" {
			return home, away, true
		}
	}

	return "", "", false
}

// indexFold finds sep in s case-insensitively ("Milan VS Inter").
func indexFold(s, sep string) int {
	return strings.Index(strings.ToLower(s), strings.ToLower(sep))
}
