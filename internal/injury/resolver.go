// Package injury resolves scraped injury rows to known teams and players
// and aggregates per-team injury impact scores.
package injury

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/yourusername/swish-predictor/internal/models"
)

// Resolver maps free-text team and player names onto the known roster.
// Resolution is an explicit, ordered strategy: exact alias match, then
// case-insensitive substring containment in either direction, then (for
// players) a surname-only substring match within the resolved team's roster.
type Resolver struct {
	aliases   map[string]string
	aliasKeys []string                 // sorted, so substring matching is deterministic
	rosters   map[string][]rosterEntry // canonical team -> normalized players
}

type rosterEntry struct {
	normalized string
	average    models.PlayerAverage
}

// NewResolver builds a resolver from the alias table and the player
// season-average rows. A nil or empty averages slice is fine; player
// resolution then always falls through to the caller's default.
func NewResolver(aliases map[string]string, averages []models.PlayerAverage) *Resolver {
	r := &Resolver{
		aliases:   aliases,
		aliasKeys: make([]string, 0, len(aliases)),
		rosters:   make(map[string][]rosterEntry),
	}
	for key := range aliases {
		r.aliasKeys = append(r.aliasKeys, key)
	}
	sort.Strings(r.aliasKeys)
	for _, avg := range averages {
		r.rosters[avg.Team] = append(r.rosters[avg.Team], rosterEntry{
			normalized: NormalizeName(avg.Name),
			average:    avg,
		})
	}
	return r
}

// ResolveTeam maps a reported team name to its canonical name.
//
// Rule 1: exact alias lookup. Rule 2: case-insensitive substring containment
// in either direction against the alias table's keys, checked in sorted key
// order so an ambiguous input always resolves the same way. A total miss
// returns false; callers must discard the entry rather than guess.
func (r *Resolver) ResolveTeam(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	if canonical, ok := r.aliases[raw]; ok {
		return canonical, true
	}

	lower := strings.ToLower(raw)
	for _, key := range r.aliasKeys {
		keyLower := strings.ToLower(key)
		if strings.Contains(lower, keyLower) || strings.Contains(keyLower, lower) {
			return r.aliases[key], true
		}
	}

	return "", false
}

// ResolvePlayer finds a player's season averages within a resolved team.
//
// Rule 1: exact match on the normalized name. Rule 3 (fallback): surname
// substring match within the same team's roster. A miss returns false;
// callers substitute the default importance rather than skipping the entry.
func (r *Resolver) ResolvePlayer(team, playerName string) (models.PlayerAverage, bool) {
	roster := r.rosters[team]
	if len(roster) == 0 {
		return models.PlayerAverage{}, false
	}

	normalized := NormalizeName(playerName)
	for _, entry := range roster {
		if entry.normalized == normalized {
			return entry.average, true
		}
	}

	// Surname-only fallback catches feed rows with mangled first names.
	parts := strings.Fields(normalized)
	if len(parts) == 0 {
		return models.PlayerAverage{}, false
	}
	surname := parts[len(parts)-1]
	for _, entry := range roster {
		if strings.Contains(entry.normalized, surname) {
			return entry.average, true
		}
	}

	return models.PlayerAverage{}, false
}

// NormalizeName strips diacritics, case-folds and trims a player name so
// feed spellings and stats-API spellings compare equal.
func NormalizeName(name string) string {
	decomposed := norm.NFD.String(name)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return strings.TrimSpace(b.String())
}
