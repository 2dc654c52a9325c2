package features

import (
	"math"
	"regexp"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/swish-predictor/internal/config"
	"github.com/yourusername/swish-predictor/internal/models"
)

var matchupPattern = regexp.MustCompile(`(?:vs\. |@ )([A-Z]{3})`)

// Engine derives pre-game feature snapshots for every game in a timeline.
// Lookup tables and window sizes are injected so tests can substitute
// small deterministic tables.
type Engine struct {
	abbreviations map[string]string
	rollingWindow int
	recentWindow  int
	logger        *logrus.Logger
}

// NewEngine creates a feature engine.
func NewEngine(tables config.Tables, cfg config.FeaturesConfig, logger *logrus.Logger) *Engine {
	return &Engine{
		abbreviations: tables.Abbreviations,
		rollingWindow: cfg.RollingWindow,
		recentWindow:  cfg.RecentFormWindow,
		logger:        logger,
	}
}

// runningState carries the small aggregates for one forward pass over a
// timeline. Everything here reflects games already consumed, so reading it
// before consuming game i yields strictly pre-game values.
type runningState struct {
	rollingWindow int
	recentWindow  int

	recentPts []float64 // up to rollingWindow most recent values
	recentAst []float64
	recentReb []float64
	recentWin []float64 // up to recentWindow most recent outcomes

	fgSum   float64
	fgCount int

	wins  int
	games int

	homeWins  int
	homeGames int
	roadWins  int
	roadGames int

	streak int // signed run length of the current result run

	lastGame models.GameRecord
	hasPrev  bool
	h2hWins  map[string]int
	h2hGames map[string]int
}

func newRunningState(rollingWindow, recentWindow int) *runningState {
	return &runningState{
		rollingWindow: rollingWindow,
		recentWindow:  recentWindow,
		h2hWins:       make(map[string]int),
		h2hGames:      make(map[string]int),
	}
}

// snapshot materializes the pre-game view of the state.
func (st *runningState) snapshot(game models.GameRecord) models.FeatureSnapshot {
	// Rolling averages cover up to the window's worth of prior games and are
	// defined from the first prior game onward. With no history they stay
	// NaN, which drops the row at matchup construction.
	snap := models.FeatureSnapshot{
		PtsAvg:       windowMean(st.recentPts),
		AstAvg:       windowMean(st.recentAst),
		RebAvg:       windowMean(st.recentReb),
		FGPct:        math.NaN(),
		RecentWinPct: windowMean(st.recentWin),
		WinStreak:    st.streak,
		DaysRest:     1,
	}

	if st.fgCount > 0 {
		snap.FGPct = st.fgSum / float64(st.fgCount)
	}
	if st.homeGames > 0 {
		snap.HomeVenuePct = float64(st.homeWins) / float64(st.homeGames)
	}
	if st.roadGames > 0 {
		snap.RoadVenuePct = float64(st.roadWins) / float64(st.roadGames)
	}
	if st.games > 0 {
		snap.OverallPct = float64(st.wins) / float64(st.games)
	}
	if st.hasPrev {
		// Calendar days between games minus one; a same-day or next-day game
		// counts as zero rest.
		snap.DaysRest = int(game.Date.Sub(st.lastGame.Date).Hours()/24) - 1
		if snap.DaysRest < 0 {
			snap.DaysRest = 0
		}
	}
	snap.BackToBack = st.hasPrev && snap.DaysRest == 0

	if game.Opponent != "" {
		snap.H2HWins = st.h2hWins[game.Opponent]
		snap.H2HGames = st.h2hGames[game.Opponent]
	}

	return snap
}

// consume folds a completed game into the running aggregates.
func (st *runningState) consume(game models.GameRecord) {
	st.recentPts = pushTail(st.recentPts, game.Points, st.rollingWindow)
	st.recentAst = pushTail(st.recentAst, game.Assists, st.rollingWindow)
	st.recentReb = pushTail(st.recentReb, game.Rebounds, st.rollingWindow)

	outcome := 0.0
	if game.Win {
		outcome = 1.0
	}
	st.recentWin = pushTail(st.recentWin, outcome, st.recentWindow)

	st.fgSum += game.FGPct
	st.fgCount++

	st.games++
	if game.Win {
		st.wins++
	}
	if game.Home {
		st.homeGames++
		if game.Win {
			st.homeWins++
		}
	} else {
		st.roadGames++
		if game.Win {
			st.roadWins++
		}
	}

	// Signed run length: extend on same result, reset on a change.
	switch {
	case game.Win && st.streak > 0:
		st.streak++
	case game.Win:
		st.streak = 1
	case !game.Win && st.streak < 0:
		st.streak--
	default:
		st.streak = -1
	}

	if game.Opponent != "" {
		st.h2hGames[game.Opponent]++
		if game.Win {
			st.h2hWins[game.Opponent]++
		}
	}

	st.lastGame = game
	st.hasPrev = true
}

// Annotate walks one timeline in date order and produces a pre-game
// snapshot for every game. The input timeline is not modified.
func (e *Engine) Annotate(tl *Timeline) []models.AnnotatedGame {
	annotated := make([]models.AnnotatedGame, 0, len(tl.Games))
	state := newRunningState(e.rollingWindow, e.recentWindow)

	for _, game := range tl.Games {
		game.OppAbbr, game.Opponent = e.resolveOpponent(game)
		if game.Opponent == "" {
			e.logger.WithFields(logrus.Fields{
				"team":    game.Team,
				"matchup": game.Matchup,
			}).Debug("Unmapped opponent in matchup descriptor")
		}

		snap := state.snapshot(game)
		annotated = append(annotated, models.AnnotatedGame{Game: game, Snapshot: snap})

		state.consume(game)
	}

	return annotated
}

// AnnotateAll annotates every timeline in the set, keyed by team.
func (e *Engine) AnnotateAll(set *TimelineSet) map[string][]models.AnnotatedGame {
	out := make(map[string][]models.AnnotatedGame, len(set.timelines))
	for _, team := range set.Teams() {
		out[team] = e.Annotate(set.Get(team))
	}
	return out
}

// HeadToHead counts a team's wins and games against one opponent across the
// full annotated history. Used at prediction time, where the complete season
// to date is fair game.
func HeadToHead(annotated []models.AnnotatedGame, opponent string) (wins, games int) {
	for _, ag := range annotated {
		if ag.Game.Opponent != opponent {
			continue
		}
		games++
		if ag.Game.Win {
			wins++
		}
	}
	return wins, games
}

// resolveOpponent extracts the three-letter opponent code from the matchup
// descriptor and maps it through the abbreviation table. An unmapped
// opponent yields empty strings; downstream joins skip such records.
func (e *Engine) resolveOpponent(game models.GameRecord) (abbr, name string) {
	m := matchupPattern.FindStringSubmatch(game.Matchup)
	if m == nil {
		return "", ""
	}
	abbr = m[1]
	return abbr, e.abbreviations[abbr]
}

// pushTail appends v keeping at most limit trailing values.
func pushTail(window []float64, v float64, limit int) []float64 {
	window = append(window, v)
	if len(window) > limit {
		window = window[1:]
	}
	return window
}

// windowMean returns the mean of the accumulated window values, or NaN when
// no values have accumulated yet.
func windowMean(window []float64) float64 {
	if len(window) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range window {
		sum += v
	}
	return sum / float64(len(window))
}
