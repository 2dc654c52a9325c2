// Package features derives point-in-time statistical features from team
// game logs. Every derived value for a game is a function only of games
// strictly earlier in the same team's timeline.
package features

import (
	"sort"
	"time"

	"github.com/yourusername/swish-predictor/internal/models"
)

// Timeline is the ordered game history for one team. It is never mutated
// after Sort; feature derivation produces new annotated slices.
type Timeline struct {
	Team  string
	Games []models.GameRecord
}

// Sort orders the timeline ascending by date. Must be called once after
// ingestion and before any feature derivation.
func (t *Timeline) Sort() {
	sort.SliceStable(t.Games, func(i, j int) bool {
		return t.Games[i].Date.Before(t.Games[j].Date)
	})
}

// LastGameDate returns the date of the most recent game, or the zero time
// for an empty timeline.
func (t *Timeline) LastGameDate() time.Time {
	if len(t.Games) == 0 {
		return time.Time{}
	}
	return t.Games[len(t.Games)-1].Date
}

// TimelineSet is an arena of per-team timelines keyed by team name.
type TimelineSet struct {
	timelines map[string]*Timeline
}

// NewTimelineSet creates an empty timeline arena.
func NewTimelineSet() *TimelineSet {
	return &TimelineSet{timelines: make(map[string]*Timeline)}
}

// Add appends a game record to its team's timeline, creating the timeline
// on first sight of the team.
func (s *TimelineSet) Add(record models.GameRecord) {
	tl, ok := s.timelines[record.Team]
	if !ok {
		tl = &Timeline{Team: record.Team}
		s.timelines[record.Team] = tl
	}
	tl.Games = append(tl.Games, record)
}

// Get returns the timeline for a team, or nil if the team is unknown.
func (s *TimelineSet) Get(team string) *Timeline {
	return s.timelines[team]
}

// Teams returns the team names in deterministic (sorted) order.
func (s *TimelineSet) Teams() []string {
	teams := make([]string, 0, len(s.timelines))
	for team := range s.timelines {
		teams = append(teams, team)
	}
	sort.Strings(teams)
	return teams
}

// SortAll orders every timeline by date.
func (s *TimelineSet) SortAll() {
	for _, tl := range s.timelines {
		tl.Sort()
	}
}

// TotalGames returns the number of game records across all timelines.
func (s *TimelineSet) TotalGames() int {
	n := 0
	for _, tl := range s.timelines {
		n += len(tl.Games)
	}
	return n
}
