package datasource

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
)

// ScoreboardClient fetches today's slate from the live scoreboard feed.
type ScoreboardClient struct {
	httpClient *RateLimitedHTTPClient
	url        string
	logger     *logrus.Logger
}

// NewScoreboardClient creates a scoreboard client.
func NewScoreboardClient(httpClient *RateLimitedHTTPClient, url string, logger *logrus.Logger) *ScoreboardClient {
	return &ScoreboardClient{httpClient: httpClient, url: url, logger: logger}
}

type scoreboardResponse struct {
	Scoreboard struct {
		Games []struct {
			GameStatusText string         `json:"gameStatusText"`
			HomeTeam       scoreboardTeam `json:"homeTeam"`
			AwayTeam       scoreboardTeam `json:"awayTeam"`
		} `json:"games"`
	} `json:"scoreboard"`
}

type scoreboardTeam struct {
	TeamCity    string `json:"teamCity"`
	TeamName    string `json:"teamName"`
	TeamTricode string `json:"teamTricode"`
}

// FetchTodaysGames returns today's scheduled games with full team names
// assembled from city and nickname.
func (c *ScoreboardClient) FetchTodaysGames(ctx context.Context) ([]ScoreboardGame, error) {
	resp, err := c.httpClient.Get(ctx, c.url)
	if err != nil {
		return nil, NewDataSourceError("scoreboard", ErrCodeNetworkError, "request failed", err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != 200 {
		return nil, NewDataSourceError("scoreboard", ErrCodeServerError,
			fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	var envelope scoreboardResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, NewDataSourceError("scoreboard", ErrCodeInvalidData, "failed to parse response", err)
	}

	games := make([]ScoreboardGame, 0, len(envelope.Scoreboard.Games))
	for _, g := range envelope.Scoreboard.Games {
		games = append(games, ScoreboardGame{
			HomeTeam: g.HomeTeam.TeamCity + " " + g.HomeTeam.TeamName,
			AwayTeam: g.AwayTeam.TeamCity + " " + g.AwayTeam.TeamName,
			HomeAbbr: g.HomeTeam.TeamTricode,
			AwayAbbr: g.AwayTeam.TeamTricode,
			Status:   g.GameStatusText,
		})
	}

	c.logger.WithField("games", len(games)).Info("Fetched today's schedule")
	return games, nil
}
