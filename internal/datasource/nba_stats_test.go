package datasource

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHTTPClient() *RateLimitedHTTPClient {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewRateLimitedHTTPClient(HTTPClientConfig{
		Timeout:           5 * time.Second,
		MaxRetries:        0,
		RetryWaitMin:      time.Millisecond,
		RetryWaitMax:      time.Millisecond,
		RateLimit:         1000,
		CircuitBreakerMax: 5,
	}, logger)
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

const teamGameLogBody = `{
  "resultSets": [{
    "name": "TeamGameLog",
    "headers": ["Team_ID", "Game_ID", "GAME_DATE", "MATCHUP", "WL", "PTS", "AST", "REB", "FG_PCT"],
    "rowSet": [
      [1610612738, "0022400001", "Jan 05, 2025", "BOS vs. NYK", "W", 118, 26, 45, 0.493],
      [1610612738, "0022400002", "Jan 03, 2025", "BOS @ MIA", "L", 98, 21, 40, 0.417],
      [1610612738, "0022400003", "bad date", "BOS vs. MIA", "W", 100, 20, 40, 0.45],
      [1610612738, "0022400004", "Jan 01, 2025", "BOS vs. MIA", "", 100, 20, 40, 0.45]
    ]
  }]
}`

func TestFetchTeamGameLogParsesRows(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.RawQuery, "Season=2024-25")
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		fmt.Fprint(w, teamGameLogBody)
	}))
	defer server.Close()

	c := NewStatsClient(testHTTPClient(), server.URL, time.Minute, testLogger())
	records, err := c.fetchTeamGameLog(context.Background(), 1610612738, "Boston Celtics", "2024-25")
	require.NoError(t, err)

	// The malformed-date row and the unplayed (empty WL) row are dropped.
	require.Len(t, records, 2)

	assert.Equal(t, "Boston Celtics", records[0].Team)
	assert.Equal(t, time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), records[0].Date)
	assert.True(t, records[0].Home)
	assert.True(t, records[0].Win)
	assert.InDelta(t, 118.0, records[0].Points, 1e-9)
	assert.InDelta(t, 26.0, records[0].Assists, 1e-9)
	assert.InDelta(t, 45.0, records[0].Rebounds, 1e-9)
	assert.InDelta(t, 0.493, records[0].FGPct, 1e-9)

	assert.False(t, records[1].Home, "@ descriptor means road game")
	assert.False(t, records[1].Win)
}

func TestFetchResultSetErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
		},
		{
			name: "invalid json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, "not json")
			},
		},
		{
			name: "missing result set",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"resultSets": [{"name": "SomethingElse", "headers": [], "rowSet": []}]}`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			c := NewStatsClient(testHTTPClient(), server.URL, time.Minute, testLogger())
			_, err := c.fetchResultSet(context.Background(), server.URL, "TeamGameLog")
			require.Error(t, err)
			var dsErr DataSourceError
			assert.ErrorAs(t, err, &dsErr)
		})
	}
}

const playerStatsBody = `{
  "resultSets": [{
    "name": "LeagueDashPlayerStats",
    "headers": ["PLAYER_ID", "PLAYER_NAME", "TEAM_ID", "PTS", "REB", "AST"],
    "rowSet": [
      [1, "Jayson Tatum", 1610612738, 27.1, 8.2, 4.9],
      [2, "Unknown Team Guy", 42, 10.0, 3.0, 2.0]
    ]
  }]
}`

func TestFetchPlayerAveragesCaches(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, playerStatsBody)
	}))
	defer server.Close()

	c := NewStatsClient(testHTTPClient(), server.URL, time.Minute, testLogger())

	averages, err := c.FetchPlayerAverages(context.Background(), "2024-25")
	require.NoError(t, err)
	// The row with an unknown team id is dropped.
	require.Len(t, averages, 1)
	assert.Equal(t, "Jayson Tatum", averages[0].Name)
	assert.Equal(t, "Boston Celtics", averages[0].Team)
	assert.InDelta(t, 40.2, averages[0].Importance(), 1e-9)

	_, err = c.FetchPlayerAverages(context.Background(), "2024-25")
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "second fetch must come from cache")
}

func TestCurrentSeason(t *testing.T) {
	tests := []struct {
		now  time.Time
		want string
	}{
		{now: time.Date(2025, 11, 15, 0, 0, 0, 0, time.UTC), want: "2025-26"},
		{now: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), want: "2025-26"},
		{now: time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC), want: "2025-26"},
		{now: time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC), want: "2024-25"},
		{now: time.Date(2099, 12, 1, 0, 0, 0, 0, time.UTC), want: "2099-00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CurrentSeason(tt.now))
	}
}

func TestSortedTeamIDsCoversLeague(t *testing.T) {
	ids := sortedTeamIDs()
	require.Len(t, ids, 30)
	assert.Equal(t, 1610612737, ids[0])
	assert.Equal(t, 1610612766, ids[29])
}
