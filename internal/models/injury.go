package models

// InjuryEntry is one row scraped from the injury feed. All fields are
// free-text as reported upstream; nothing is validated before resolution.
type InjuryEntry struct {
	Team      string `json:"team"`
	Player    string `json:"player"`
	Position  string `json:"position"`
	Status    string `json:"status"`
	Injury    string `json:"injury"`
	EstReturn string `json:"est_return"`
}

// InjuryDetail records one player's contribution to a team's injury score.
type InjuryDetail struct {
	Player     string  `json:"player"`
	Status     string  `json:"status"`
	Importance float64 `json:"importance"`
	Impact     float64 `json:"impact"`
}

// InjuryScore aggregates the injury impact for one team. A zero score with
// no details is the normal state for a healthy roster.
type InjuryScore struct {
	Score   float64        `json:"score"`
	Details []InjuryDetail `json:"details"`
}

// PlayerAverage holds a player's per-game season averages, used to weight
// the impact of that player's absence.
type PlayerAverage struct {
	Name     string  `json:"name"`
	Team     string  `json:"team"`
	Points   float64 `json:"points"`
	Rebounds float64 `json:"rebounds"`
	Assists  float64 `json:"assists"`
}

// Importance is the combined per-game production used for injury weighting.
func (p PlayerAverage) Importance() float64 {
	return p.Points + p.Rebounds + p.Assists
}
