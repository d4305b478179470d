package extract

// Accepted header spellings per canonical field. These tables are the whole
// schema contract with the upstream sheets: add a spelling here rather than
// branching in an extractor.
var (
	gameAliases     = []string{"game", "fixture", "match", "event", "matchup"}
	homeTeamAliases = []string{"home team", "home", "team 1", "local"}
	awayTeamAliases = []string{"away team", "away", "team 2", "visitor"}
	leagueAliases   = []string{"league", "competition", "tournament", "division"}
	countryAliases  = []string{"country", "nation"}
	kickoffAliases  = []string{"kickoff", "kick off", "date", "start time", "time", "datetime"}

	homeOddsAliases = []string{"home odds", "odds 1", "1", "odds home", "home price"}
	drawOddsAliases = []string{"draw odds", "odds x", "x", "odds draw", "draw price"}
	awayOddsAliases = []string{"away odds", "odds 2", "2", "odds away", "away price"}
	linesAliases    = []string{"lines", "odds", "prices", "1x2"}

	homePctAliases = []string{"home win", "home win pct", "home pct", "1 pct", "home probability", "prob home"}
	drawPctAliases = []string{"draw", "draw pct", "x pct", "draw probability", "prob draw"}
	awayPctAliases = []string{"away win", "away win pct", "away pct", "2 pct", "away probability", "prob away"}

	confidenceAliases = []string{"confidence", "conf", "confidence score"}
	trustAliases      = []string{"trust", "trust score", "reliability"}

	expectedHomeAliases = []string{"expected home", "xg home", "home xg", "exp home goals"}
	expectedAwayAliases = []string{"expected away", "xg away", "away xg", "exp away goals"}
	expectedPairAliases = []string{"expected score", "predicted score", "score prediction"}

	handicapHomeAliases = []string{"handicap home", "spread home", "home handicap"}
	handicapAwayAliases = []string{"handicap away", "spread away", "away handicap"}

	totalLineAliases = []string{"total line", "over under line", "ou line", "total", "goal line"}
	overPctAliases   = []string{"over", "over pct", "over probability"}
	underPctAliases  = []string{"under", "under pct", "under probability"}
	over15Aliases    = []string{"over 1 5", "over 1 5 pct", "o1 5"}
	over25Aliases    = []string{"over 2 5", "over 2 5 pct", "o2 5"}
	bttsAliases      = []string{"btts", "btts pct", "both teams to score", "gg"}

	signalAliases = []string{"hot trend", "signal", "signals", "trend", "notes"}
	basisAliases  = []string{"prediction basis", "basis", "reasoning", "model basis"}
)
