// Package identity canonicalizes free-text team and league names so that
// the merge engine, fuzzy matcher and live-score resolver all agree on what
// counts as "the same" name. Every function here is pure: the same input
// always yields the same output.
package identity

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonAlnumRegex = regexp.MustCompile(`[^a-z0-9]+`)
	ageGroupRegex = regexp.MustCompile(`^u\d\d$`)

	accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Tokens that carry no identity: club-type suffixes, articles, squad markers.
var noiseTokens = map[string]struct{}{
	"fc":    {},
	"cf":    {},
	"sc":    {},
	"afc":   {},
	"club":  {},
	"the":   {},
	"women": {},
	"w":     {},
}

// Token spellings rewritten to their long form before comparison.
var tokenRewrites = map[string]string{
	"utd": "united",
	"st":  "saint",
}

// Normalize returns the primary comparable variant of a name: aliased,
// lowercased, accent-folded, with every run of non-alphanumeric characters
// collapsed to a single space.
func Normalize(name string) string {
	name = applyAlias(name)
	return normalizeRaw(name)
}

// Variants returns every comparable spelling of a name. The set is never
// empty for non-blank input and always contains Normalize(name).
func Variants(name string) []string {
	primary := Normalize(name)
	if primary == "" {
		return nil
	}

	stripped := stripNoise(primary)

	seen := make(map[string]struct{}, 4)
	out := make([]string, 0, 4)
	for _, v := range []string{primary, stripped, Compact(primary), Compact(stripped)} {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	return out
}

// Compact removes the spaces from an already-normalized name.
func Compact(normalized string) string {
	return strings.ReplaceAll(normalized, " ", "")
}

// Slug renders a name as a URL/ID-safe token, e.g. "St. Pauli" -> "saint-pauli".
// Abbreviations are rewritten to their long form so the same club slugs
// identically across sources; noise tokens like "fc" are kept.
func Slug(name string) string {
	return strings.ReplaceAll(rewriteTokens(Normalize(name)), " ", "-")
}

// PairKey builds the canonical two-team key used by scoreboards and
// side-sheet joins.
func PairKey(home, away string) string {
	return Normalize(home) + "|" + Normalize(away)
}

func normalizeRaw(name string) string {
	lowered := strings.ToLower(strings.TrimSpace(name))
	if lowered == "" {
		return ""
	}

	if folded, _, err := transform.String(accentFolder, lowered); err == nil {
		lowered = folded
	}

	spaced := nonAlnumRegex.ReplaceAllString(lowered, " ")
	return strings.TrimSpace(spaced)
}

// StripNoise removes generic tokens (fc, club, women, U21, ...) from an
// already-normalized name and rewrites common abbreviations, yielding the
// most aggressive comparable form. Exposed for token-level similarity.
func StripNoise(normalized string) string {
	return stripNoise(normalized)
}

// stripNoise removes generic tokens (fc, club, women, U21, ...) and rewrites
// common abbreviations, yielding the most aggressive comparable form.
func stripNoise(normalized string) string {
	fields := strings.Fields(normalized)
	kept := make([]string, 0, len(fields))
	for _, token := range fields {
		if _, ok := noiseTokens[token]; ok {
			continue
		}
		if ageGroupRegex.MatchString(token) {
			continue
		}
		if rewrite, ok := tokenRewrites[token]; ok {
			token = rewrite
		}
		kept = append(kept, token)
	}

	return strings.Join(kept, " ")
}

// rewriteTokens applies the abbreviation rewrites without dropping any token.
func rewriteTokens(normalized string) string {
	fields := strings.Fields(normalized)
	for i, token := range fields {
		if rewrite, ok := tokenRewrites[token]; ok {
			fields[i] = rewrite
		}
	}

	return strings.Join(fields, " ")
}
