package datasource

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const injuryPageFixture = `<html><body>
<div class="TeamLogoNameLockup">
  <span class="TeamName"><a href="/nba/teams/BOS/">Boston Celtics</a></span>
</div>
<table class="TableBase-table">
  <thead><tr><th>Player</th><th>Pos</th><th>Updated</th><th>Injury</th><th>Injury Status</th></tr></thead>
  <tbody>
    <tr>
      <td><span class="CellPlayerName--long"><a href="#">Jayson Tatum</a></span><span class="CellPlayerName--short"><a href="#">J. Tatum</a></span></td>
      <td>SF</td>
      <td>Jan 10</td>
      <td>Ankle</td>
      <td>Out</td>
    </tr>
    <tr>
      <td><a href="#">Derrick White</a></td>
      <td>PG</td>
      <td>Jan 12</td>
      <td>Knee</td>
      <td>Questionable</td>
    </tr>
  </tbody>
</table>
<div class="TeamLogoNameLockup">
  <span class="TeamName"><a href="/nba/teams/LAL/">Los Angeles Lakers</a></span>
</div>
<table class="TableBase-table">
  <tbody>
    <tr>
      <td>L. JamesLeBron James</td>
      <td>SF</td>
      <td>Jan 11</td>
      <td>Foot</td>
      <td>Day-To-Day</td>
    </tr>
  </tbody>
</table>
</body></html>`

func TestParseInjuryPage(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(injuryPageFixture))
	require.NoError(t, err)

	entries := ParseInjuryPage(doc)
	require.Len(t, entries, 3)

	assert.Equal(t, "Boston Celtics", entries[0].Team)
	assert.Equal(t, "Jayson Tatum", entries[0].Player, "long span wins over short span")
	assert.Equal(t, "SF", entries[0].Position)
	assert.Equal(t, "Jan 10", entries[0].EstReturn)
	assert.Equal(t, "Ankle", entries[0].Injury)
	assert.Equal(t, "Out", entries[0].Status)

	assert.Equal(t, "Derrick White", entries[1].Player, "anchor fallback")
	assert.Equal(t, "Questionable", entries[1].Status)

	assert.Equal(t, "Los Angeles Lakers", entries[2].Team)
	assert.Equal(t, "LeBron James", entries[2].Player, "doubled text is de-doubled")
	assert.Equal(t, "Day-To-Day", entries[2].Status)
}

func TestParseInjuryPageEmptyDocument(t *testing.T) {
	doc, err := html.Parse(strings.NewReader("<html><body><p>No injuries today</p></body></html>"))
	require.NoError(t, err)
	assert.Empty(t, ParseInjuryPage(doc))
}

func TestDedupePlayerName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "stacked short and long", in: "J. SmithJohn Smith", want: "John Smith"},
		{name: "already clean", in: "John Smith", want: "John Smith"},
		{name: "single word stays", in: "Nene", want: "Nene"},
		{name: "empty becomes unknown", in: "", want: "Unknown"},
		{name: "abbreviated prefix", in: "D. WhiteDerrick White", want: "Derrick White"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DedupePlayerName(tt.in))
		})
	}
}
