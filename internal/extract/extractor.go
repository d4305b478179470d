// Package extract turns normalized source grids into canonical match
// batches. Each source format gets its own strategy selected by FormatTag;
// new formats are additive, never invasive.
package extract

import (
	"fmt"
	"hash/fnv"
	"strings"

	crerr "github.com/cockroachdb/errors"

	"github.com/oddsight/oddsight/internal/domain/match"
	"github.com/oddsight/oddsight/internal/identity"
	"github.com/oddsight/oddsight/internal/schema"
)

// FormatTag selects which extractor strategy applies to a source.
type FormatTag string

const (
	FormatGeneric     FormatTag = "generic"
	FormatMainList    FormatTag = "mainlist"
	FormatPercentGrid FormatTag = "percentgrid"
)

// ErrNoRows marks a source that yielded zero extractable fixtures. The
// multi-source loader treats it as a source-level failure and moves on.
var ErrNoRows = crerr.New("no extractable rows")

// MainSheet is the sheet name every input must carry.
const MainSheet = "main"

// Input is one source's normalized payload handed to an extractor.
type Input struct {
	SportID   string
	SportName string
	SportIcon string
	Source    string
	Sheets    map[string]schema.Grid
}

// Result is one extractor run: the canonical batch plus how many rows were
// dropped for lacking a resolvable team pair.
type Result struct {
	Batch   match.Collection
	Skipped int
}

// Extractor consumes a normalized source and emits canonical matches.
type Extractor interface {
	Tag() FormatTag
	Extract(in Input) (Result, error)
}

// ForTag returns the strategy registered for a format tag.
func ForTag(tag FormatTag) (Extractor, error) {
	switch tag {
	case FormatGeneric:
		return &GenericExtractor{}, nil
	case FormatMainList:
		return &MainListExtractor{}, nil
	case FormatPercentGrid:
		return &PercentGridExtractor{}, nil
	default:
		return nil, fmt.Errorf("unknown format tag %q", tag)
	}
}

// ParseTag validates a configured format tag string.
func ParseTag(raw string) (FormatTag, error) {
	tag := FormatTag(strings.ToLower(strings.TrimSpace(raw)))
	switch tag {
	case FormatGeneric, FormatMainList, FormatPercentGrid:
		return tag, nil
	default:
		return "", fmt.Errorf("unknown format tag %q", raw)
	}
}

// matchID derives the stable per-batch id: the same physical row always
// hashes to the same id within one ingestion batch.
func matchID(sportID, leagueID, home, away string, rowIndex int, tag FormatTag) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%s|%s|%d|%s", sportID, leagueID, identity.Slug(home), identity.Slug(away), rowIndex, tag)
	return fmt.Sprintf("m-%016x", h.Sum64())
}

// batchBuilder accumulates matches while tracking sports/leagues and
// enforcing the one-fixture-per-identity-key invariant in both orientations.
type batchBuilder struct {
	in      Input
	byKey   map[string]struct{}
	batch   match.Collection
	leagues map[string]struct{}
	skipped int
}

func newBatchBuilder(in Input) *batchBuilder {
	b := &batchBuilder{
		in:      in,
		byKey:   make(map[string]struct{}),
		leagues: make(map[string]struct{}),
	}
	b.batch.Sports = []match.Sport{{
		ID:   in.SportID,
		Name: in.SportName,
		Icon: in.SportIcon,
	}}

	return b
}

func (b *batchBuilder) skip() { b.skipped++ }

func (b *batchBuilder) league(name, country string) string {
	id := match.LeagueID(b.in.SportID, name)
	if _, ok := b.leagues[id]; !ok {
		b.leagues[id] = struct{}{}
		b.batch.Leagues = append(b.batch.Leagues, match.League{
			ID:      id,
			SportID: b.in.SportID,
			Name:    strings.TrimSpace(name),
			Country: strings.TrimSpace(country),
		})
	}

	return id
}

// add appends a match unless its identity key (either orientation) is
// already present in the batch; duplicates within one source count as skips.
func (b *batchBuilder) add(m match.Match) {
	if _, ok := b.byKey[m.IdentityKey()]; ok {
		b.skipped++
		return
	}
	if _, ok := b.byKey[m.ReverseKey()]; ok {
		b.skipped++
		return
	}

	b.byKey[m.IdentityKey()] = struct{}{}
	b.batch.Matches = append(b.batch.Matches, m)
}

func (b *batchBuilder) result() (Result, error) {
	if len(b.batch.Matches) == 0 {
		return Result{Skipped: b.skipped}, crerr.Wrapf(ErrNoRows, "source %s", b.in.Source)
	}

	return Result{Batch: b.batch.Recount(), Skipped: b.skipped}, nil
}

// resolveTeams reads the team pair from dedicated columns, falling back to
// splitting a combined game cell.
func resolveTeams(row []any, headers schema.HeaderMap) (home, away string, ok bool) {
	home = schema.ReadByAlias(row, headers, homeTeamAliases...)
	away = schema.ReadByAlias(row, headers, awayTeamAliases...)
	if home != "" && away != "" {
		return home, away, true
	}

	game := schema.ReadByAlias(row, headers, gameAliases...)
	if game == "" {
		game = schema.ReadByHeaderContains(row, headers, "game", "fixture", "match")
	}

	return schema.SplitGameText(game)
}

// signal lists arrive as one free-text cell; split on the separators the
// sheets actually use.
func splitSignals(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == '|' || r == '\n'
	})

	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if trimmed := strings.TrimSpace(f); trimmed != "" {
			out = append(out, trimmed)
		}
	}

	return out
}
