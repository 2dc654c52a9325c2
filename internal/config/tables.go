package config

// Tables holds the closed lookup tables the feature engine and injury
// scorer depend on. They are injected rather than referenced as package
// globals so tests can substitute small deterministic tables.
type Tables struct {
	Abbreviations map[string]string  // three-letter code -> full team name
	TeamAliases   map[string]string  // reported injury-feed name -> full team name
}

// DefaultAbbreviations returns the league's abbreviation table.
func DefaultAbbreviations() map[string]string {
	return map[string]string{
		"ATL": "Atlanta Hawks", "BOS": "Boston Celtics", "BKN": "Brooklyn Nets",
		"CHA": "Charlotte Hornets", "CHI": "Chicago Bulls", "CLE": "Cleveland Cavaliers",
		"DAL": "Dallas Mavericks", "DEN": "Denver Nuggets", "DET": "Detroit Pistons",
		"GSW": "Golden State Warriors", "HOU": "Houston Rockets", "IND": "Indiana Pacers",
		"LAC": "Los Angeles Clippers", "LAL": "Los Angeles Lakers", "MEM": "Memphis Grizzlies",
		"MIA": "Miami Heat", "MIL": "Milwaukee Bucks", "MIN": "Minnesota Timberwolves",
		"NOP": "New Orleans Pelicans", "NYK": "New York Knicks", "OKC": "Oklahoma City Thunder",
		"ORL": "Orlando Magic", "PHI": "Philadelphia 76ers", "PHX": "Phoenix Suns",
		"POR": "Portland Trail Blazers", "SAC": "Sacramento Kings", "SAS": "San Antonio Spurs",
		"TOR": "Toronto Raptors", "UTA": "Utah Jazz", "WAS": "Washington Wizards",
	}
}

// DefaultTeamAliases returns the injury-feed alias table: every canonical
// name maps to itself, plus the feed's known alternate spellings.
func DefaultTeamAliases() map[string]string {
	aliases := make(map[string]string, 32)
	for _, name := range DefaultAbbreviations() {
		aliases[name] = name
	}
	aliases["L.A. Clippers"] = "Los Angeles Clippers"
	aliases["L.A. Lakers"] = "Los Angeles Lakers"
	return aliases
}

// DefaultStatusWeights returns the closed status-to-severity table.
// Unrecognized statuses fall back to InjuryConfig.DefaultStatusWeight.
func DefaultStatusWeights() map[string]float64 {
	return map[string]float64{
		"Out":              1.0,
		"Out For Season":   1.0,
		"Out Indefinitely": 1.0,
		"Doubtful":         0.8,
		"Day-To-Day":       0.5,
		"Questionable":     0.4,
		"Probable":         0.1,
	}
}

// DefaultTables returns the production lookup tables.
func DefaultTables() Tables {
	return Tables{
		Abbreviations: DefaultAbbreviations(),
		TeamAliases:   DefaultTeamAliases(),
	}
}
