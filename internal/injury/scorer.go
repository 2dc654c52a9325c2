package injury

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/swish-predictor/internal/config"
	"github.com/yourusername/swish-predictor/internal/models"
)

// Scorer turns raw injury entries into per-team severity scores. Scores are
// recomputed in full on every pass; nothing is persisted between runs.
type Scorer struct {
	cfg    config.InjuryConfig
	teams  []string
	logger *logrus.Logger
}

// NewScorer creates a scorer. The teams slice enumerates every canonical
// team name; each gets a score, zero for healthy rosters.
func NewScorer(cfg config.InjuryConfig, teams []string, logger *logrus.Logger) *Scorer {
	return &Scorer{cfg: cfg, teams: teams, logger: logger}
}

// Score resolves every entry and accumulates severity-weighted,
// importance-scaled contributions per team. Entries whose team cannot be
// resolved are discarded; players missing from the averages fall back to
// the default importance. Both are expected steady-state outcomes.
func (s *Scorer) Score(entries []models.InjuryEntry, resolver *Resolver) map[string]models.InjuryScore {
	scores := make(map[string]models.InjuryScore, len(s.teams))
	for _, team := range s.teams {
		scores[team] = models.InjuryScore{}
	}

	discarded := 0
	for _, entry := range entries {
		team, ok := resolver.ResolveTeam(entry.Team)
		if !ok {
			discarded++
			s.logger.WithField("team", entry.Team).Debug("Discarding injury entry for unresolvable team")
			continue
		}
		if _, known := scores[team]; !known {
			discarded++
			continue
		}

		importance := s.cfg.DefaultImportance
		if avg, found := resolver.ResolvePlayer(team, entry.Player); found {
			importance = avg.Importance()
		}

		weight := s.StatusWeight(entry.Status)
		impact := weight * (importance / s.cfg.BaselineImportance)

		score := scores[team]
		score.Score += impact
		score.Details = append(score.Details, models.InjuryDetail{
			Player:     strings.TrimSpace(entry.Player),
			Status:     strings.TrimSpace(entry.Status),
			Importance: importance,
			Impact:     impact,
		})
		scores[team] = score
	}

	s.logger.WithFields(logrus.Fields{
		"entries":   len(entries),
		"discarded": discarded,
	}).Info("Computed injury scores")

	return scores
}

// StatusWeight maps a reported status to its severity weight via the closed
// table; any unrecognized status gets the configured default.
func (s *Scorer) StatusWeight(status string) float64 {
	if weight, ok := s.cfg.StatusWeights[strings.TrimSpace(status)]; ok {
		return weight
	}
	return s.cfg.DefaultStatusWeight
}
