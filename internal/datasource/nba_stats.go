package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/swish-predictor/internal/models"
)

const gameDateLayout = "Jan 02, 2006"

// StatsClient fetches game logs and player season averages from the league
// stats API. Responses arrive as resultSets: a header list plus untyped
// row tuples.
type StatsClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	cache      *cache.Cache
	logger     *logrus.Logger
}

// NewStatsClient creates a stats API client. Player averages are cached for
// ttl so repeated runs inside one scheduling window skip the slow endpoint.
func NewStatsClient(httpClient *RateLimitedHTTPClient, baseURL string, ttl time.Duration, logger *logrus.Logger) *StatsClient {
	return &StatsClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		cache:      cache.New(ttl, ttl*2),
		logger:     logger,
	}
}

// resultSetsResponse is the envelope every stats endpoint shares.
type resultSetsResponse struct {
	ResultSets []struct {
		Name    string            `json:"name"`
		Headers []string          `json:"headers"`
		RowSet  [][]json.RawMessage `json:"rowSet"`
	} `json:"resultSets"`
}

// FetchSeasonGameLogs retrieves the season game log for every team. A
// single team's failure is logged and skipped; only an empty overall result
// is an error.
func (c *StatsClient) FetchSeasonGameLogs(ctx context.Context, season string) ([]models.GameRecord, error) {
	var records []models.GameRecord

	for _, teamID := range sortedTeamIDs() {
		teamName := teamIDToName[teamID]
		c.logger.WithField("team", teamName).Debug("Fetching game log")

		teamRecords, err := c.fetchTeamGameLog(ctx, teamID, teamName, season)
		if err != nil {
			c.logger.WithError(err).WithField("team", teamName).Warn("Failed to fetch game log, skipping team")
			continue
		}
		records = append(records, teamRecords...)
	}

	if len(records) == 0 {
		return nil, NewDataSourceError("nba_stats", ErrCodeInvalidData, "no team game logs collected", nil)
	}

	c.logger.WithField("rows", len(records)).Info("Fetched season game logs")
	return records, nil
}

func (c *StatsClient) fetchTeamGameLog(ctx context.Context, teamID int, teamName, season string) ([]models.GameRecord, error) {
	endpoint := fmt.Sprintf("%s/teamgamelog?TeamID=%d&Season=%s&SeasonType=%s",
		c.baseURL, teamID, url.QueryEscape(season), url.QueryEscape("Regular Season"))

	table, err := c.fetchResultSet(ctx, endpoint, "TeamGameLog")
	if err != nil {
		return nil, err
	}

	records := make([]models.GameRecord, 0, len(table.rows))
	for _, row := range table.rows {
		date, err := time.Parse(gameDateLayout, table.str(row, "GAME_DATE"))
		if err != nil {
			// Malformed row; drop rather than guess a date.
			continue
		}
		wl := table.str(row, "WL")
		if wl != "W" && wl != "L" {
			continue
		}
		matchup := table.str(row, "MATCHUP")

		records = append(records, models.GameRecord{
			Team:     teamName,
			Date:     date,
			Matchup:  matchup,
			Home:     strings.Contains(matchup, "vs."),
			Win:      wl == "W",
			Points:   table.num(row, "PTS"),
			Assists:  table.num(row, "AST"),
			Rebounds: table.num(row, "REB"),
			FGPct:    table.num(row, "FG_PCT"),
		})
	}

	return records, nil
}

// FetchPlayerAverages retrieves per-game player stats for the season,
// served from cache when fresh.
func (c *StatsClient) FetchPlayerAverages(ctx context.Context, season string) ([]models.PlayerAverage, error) {
	cacheKey := "player_averages:" + season
	if cached, found := c.cache.Get(cacheKey); found {
		if averages, ok := cached.([]models.PlayerAverage); ok {
			return averages, nil
		}
	}

	endpoint := fmt.Sprintf("%s/leaguedashplayerstats?Season=%s&SeasonType=%s&PerMode=PerGame",
		c.baseURL, url.QueryEscape(season), url.QueryEscape("Regular Season"))

	table, err := c.fetchResultSet(ctx, endpoint, "LeagueDashPlayerStats")
	if err != nil {
		return nil, err
	}

	averages := make([]models.PlayerAverage, 0, len(table.rows))
	for _, row := range table.rows {
		teamName := teamIDToName[int(table.num(row, "TEAM_ID"))]
		if teamName == "" {
			continue
		}
		averages = append(averages, models.PlayerAverage{
			Name:     table.str(row, "PLAYER_NAME"),
			Team:     teamName,
			Points:   table.num(row, "PTS"),
			Rebounds: table.num(row, "REB"),
			Assists:  table.num(row, "AST"),
		})
	}

	c.cache.Set(cacheKey, averages, cache.DefaultExpiration)
	c.logger.WithField("players", len(averages)).Info("Fetched player season averages")
	return averages, nil
}

// resultTable pairs a header index with the raw rows of one result set.
type resultTable struct {
	index map[string]int
	rows  [][]json.RawMessage
}

func (t *resultTable) str(row []json.RawMessage, column string) string {
	i, ok := t.index[column]
	if !ok || i >= len(row) {
		return ""
	}
	var s string
	if err := json.Unmarshal(row[i], &s); err != nil {
		return ""
	}
	return s
}

func (t *resultTable) num(row []json.RawMessage, column string) float64 {
	i, ok := t.index[column]
	if !ok || i >= len(row) {
		return 0
	}
	var f float64
	if err := json.Unmarshal(row[i], &f); err != nil {
		return 0
	}
	return f
}

func (c *StatsClient) fetchResultSet(ctx context.Context, endpoint, name string) (*resultTable, error) {
	resp, err := c.httpClient.Get(ctx, endpoint)
	if err != nil {
		return nil, NewDataSourceError("nba_stats", ErrCodeNetworkError, "request failed", err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != 200 {
		return nil, NewDataSourceError("nba_stats", ErrCodeServerError,
			fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	var envelope resultSetsResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, NewDataSourceError("nba_stats", ErrCodeInvalidData, "failed to parse response", err)
	}

	for _, set := range envelope.ResultSets {
		if set.Name != name {
			continue
		}
		index := make(map[string]int, len(set.Headers))
		for i, h := range set.Headers {
			index[h] = i
		}
		return &resultTable{index: index, rows: set.RowSet}, nil
	}

	return nil, NewDataSourceError("nba_stats", ErrCodeInvalidData,
		fmt.Sprintf("result set %q missing from response", name), nil)
}

// teamIDToName is the league's static team-id table.
var teamIDToName = map[int]string{
	1610612737: "Atlanta Hawks",
	1610612738: "Boston Celtics",
	1610612739: "Cleveland Cavaliers",
	1610612740: "New Orleans Pelicans",
	1610612741: "Chicago Bulls",
	1610612742: "Dallas Mavericks",
	1610612743: "Denver Nuggets",
	1610612744: "Golden State Warriors",
	1610612745: "Houston Rockets",
	1610612746: "Los Angeles Clippers",
	1610612747: "Los Angeles Lakers",
	1610612748: "Miami Heat",
	1610612749: "Milwaukee Bucks",
	1610612750: "Minnesota Timberwolves",
	1610612751: "Brooklyn Nets",
	1610612752: "New York Knicks",
	1610612753: "Orlando Magic",
	1610612754: "Indiana Pacers",
	1610612755: "Philadelphia 76ers",
	1610612756: "Phoenix Suns",
	1610612757: "Portland Trail Blazers",
	1610612758: "Sacramento Kings",
	1610612759: "San Antonio Spurs",
	1610612760: "Oklahoma City Thunder",
	1610612761: "Toronto Raptors",
	1610612762: "Utah Jazz",
	1610612763: "Memphis Grizzlies",
	1610612764: "Washington Wizards",
	1610612765: "Detroit Pistons",
	1610612766: "Charlotte Hornets",
}

func sortedTeamIDs() []int {
	ids := make([]int, 0, len(teamIDToName))
	for id := range teamIDToName {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
