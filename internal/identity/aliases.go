package identity

// aliasTable maps well-known abbreviations and nicknames to canonical names.
// Keys are matched against the compact (space-removed, lowercased) form of
// the input so that "P.S.G.", "psg" and "PSG " all hit the same row.
var aliasTable = map[string]string{
	"psg":            "paris saint germain",
	"parissg":        "paris saint germain",
	"manutd":         "manchester united",
	"manu":           "manchester united",
	"mancity":        "manchester city",
	"spurs":          "tottenham hotspur",
	"wolves":         "wolverhampton wanderers",
	"barca":          "barcelona",
	"atleti":         "atletico madrid",
	"atletico":       "atletico madrid",
	"realsociedad":   "real sociedad",
	"inter":          "internazionale",
	"intermilan":     "internazionale",
	"juve":           "juventus",
	"bayern":         "bayern munich",
	"bayernmunchen":  "bayern munich",
	"dortmund":       "borussia dortmund",
	"bvb":            "borussia dortmund",
	"gladbach":       "borussia monchengladbach",
	"leverkusen":     "bayer leverkusen",
	"om":             "olympique marseille",
	"ol":             "olympique lyonnais",
	"lyon":           "olympique lyonnais",
	"sporting":       "sporting lisbon",
	"sportingcp":     "sporting lisbon",
	"rbleipzig":      "rasenballsport leipzig",
	"epl":            "premier league",
	"ucl":            "champions league",
	"uel":            "europa league",
	"laliga":         "la liga",
	"seriea":         "serie a",
	"bundes":         "bundesliga",
}

// applyAlias swaps a known abbreviation for its canonical name. Names that
// do not alias are returned unchanged.
func applyAlias(name string) string {
	compact := Compact(normalizeRaw(name))
	if compact == "" {
		return name
	}
	if canonical, ok := aliasTable[compact]; ok {
		return canonical
	}

	return name
}
