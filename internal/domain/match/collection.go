package match

// Collection is the canonical {sports, leagues, matches} set surfaced to
// downstream consumers. It is always swapped in wholesale, never mutated in
// place, so readers see either the old or the new complete collection.
type Collection struct {
	Sports  []Sport
	Leagues []League
	Matches []Match
}

// Recount recomputes derived match counts and prunes leagues and sports
// that ended up with zero matches.
func (c Collection) Recount() Collection {
	leagueCounts := make(map[string]int, len(c.Leagues))
	sportCounts := make(map[string]int, len(c.Sports))
	for _, m := range c.Matches {
		leagueCounts[m.LeagueID]++
		sportCounts[m.SportID]++
	}

	leagues := make([]League, 0, len(c.Leagues))
	for _, l := range c.Leagues {
		count := leagueCounts[l.ID]
		if count == 0 {
			continue
		}
		l.MatchCount = count
		leagues = append(leagues, l)
	}

	sports := make([]Sport, 0, len(c.Sports))
	for _, s := range c.Sports {
		count := sportCounts[s.ID]
		if count == 0 {
			continue
		}
		s.MatchCount = count
		sports = append(sports, s)
	}

	return Collection{Sports: sports, Leagues: leagues, Matches: c.Matches}
}
