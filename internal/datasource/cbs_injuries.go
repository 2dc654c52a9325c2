package datasource

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"

	"github.com/yourusername/swish-predictor/internal/models"
)

// InjuryClient scrapes the current injury report. The page is one table per
// team, each preceded by a team-name header span. Everything extracted here
// is tolerant free text; resolution happens downstream.
type InjuryClient struct {
	httpClient *RateLimitedHTTPClient
	url        string
	logger     *logrus.Logger
}

// NewInjuryClient creates an injury report client.
func NewInjuryClient(httpClient *RateLimitedHTTPClient, url string, logger *logrus.Logger) *InjuryClient {
	return &InjuryClient{httpClient: httpClient, url: url, logger: logger}
}

// FetchInjuries scrapes the injury page into raw entries.
func (c *InjuryClient) FetchInjuries(ctx context.Context) ([]models.InjuryEntry, error) {
	resp, err := c.httpClient.Get(ctx, c.url)
	if err != nil {
		return nil, NewDataSourceError("injuries", ErrCodeNetworkError, "request failed", err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != 200 {
		return nil, NewDataSourceError("injuries", ErrCodeServerError,
			fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, NewDataSourceError("injuries", ErrCodeInvalidData, "failed to parse page", err)
	}

	entries := ParseInjuryPage(doc)
	c.logger.WithField("entries", len(entries)).Info("Scraped injury report")
	return entries, nil
}

// ParseInjuryPage extracts injury entries from the parsed report page.
// Tables and team-name headers are paired in document order.
func ParseInjuryPage(doc *html.Node) []models.InjuryEntry {
	teamNames := collectNodes(doc, func(n *html.Node) bool {
		return n.Data == "span" && hasClass(n, "TeamName")
	})
	tables := collectNodes(doc, func(n *html.Node) bool {
		return n.Data == "table" && hasClass(n, "TableBase-table")
	})

	var entries []models.InjuryEntry
	for i, table := range tables {
		team := "Unknown"
		if i < len(teamNames) {
			team = strings.TrimSpace(textContent(teamNames[i]))
		}

		for _, row := range tableBodyRows(table) {
			cells := collectNodes(row, func(n *html.Node) bool { return n.Data == "td" })
			if len(cells) < 3 {
				continue
			}

			entry := models.InjuryEntry{
				Team:   team,
				Player: extractPlayerName(cells[0]),
			}
			if len(cells) > 1 {
				entry.Position = strings.TrimSpace(textContent(cells[1]))
			}
			if len(cells) > 2 {
				entry.EstReturn = strings.TrimSpace(textContent(cells[2]))
			}
			if len(cells) > 3 {
				entry.Injury = strings.TrimSpace(textContent(cells[3]))
			}
			if len(cells) > 4 {
				entry.Status = strings.TrimSpace(textContent(cells[4]))
			}

			entries = append(entries, entry)
		}
	}

	return entries
}

// extractPlayerName pulls the player name from the name cell. The cell
// usually carries a span whose class contains "long"; older markup uses
// anchor tags; as a last resort the cell text is de-doubled.
func extractPlayerName(cell *html.Node) string {
	longSpans := collectNodes(cell, func(n *html.Node) bool {
		return n.Data == "span" && strings.Contains(strings.ToLower(attr(n, "class")), "long")
	})
	if len(longSpans) > 0 {
		return strings.TrimSpace(textContent(longSpans[0]))
	}

	links := collectNodes(cell, func(n *html.Node) bool { return n.Data == "a" })
	if len(links) > 0 {
		return strings.TrimSpace(textContent(links[len(links)-1]))
	}

	return DedupePlayerName(strings.TrimSpace(textContent(cell)))
}

// DedupePlayerName repairs doubled names produced by the report's stacked
// short/long markup, e.g. "J. SmithJohn Smith" -> "John Smith".
func DedupePlayerName(raw string) string {
	if raw == "" {
		return "Unknown"
	}

	runes := []rune(raw)
	for i := 1; i < len(runes); i++ {
		if unicode.IsUpper(runes[i]) && unicode.IsLower(runes[i-1]) {
			candidate := strings.TrimSpace(string(runes[i:]))
			if strings.Contains(candidate, " ") && len(candidate) > 4 {
				return candidate
			}
		}
	}
	return raw
}

// tableBodyRows returns the tr nodes of a table's tbody, or every tr but
// the first (header) when there is no tbody.
func tableBodyRows(table *html.Node) []*html.Node {
	bodies := collectNodes(table, func(n *html.Node) bool { return n.Data == "tbody" })
	if len(bodies) > 0 {
		return collectNodes(bodies[0], func(n *html.Node) bool { return n.Data == "tr" })
	}

	rows := collectNodes(table, func(n *html.Node) bool { return n.Data == "tr" })
	if len(rows) > 0 {
		rows = rows[1:]
	}
	return rows
}

// collectNodes walks the subtree in document order collecting element nodes
// matching the predicate.
func collectNodes(root *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}
