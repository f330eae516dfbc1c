package league

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
)

// Permuter reorders n elements by calling swap, same contract as rand.Shuffle.
type Permuter func(n int, swap func(i, j int))

// IdentityPermuter leaves pairs in enumeration order.
func IdentityPermuter(int, func(i, j int)) {}

type fixtureConfig struct {
	permute Permuter
	newID   func() uuid.UUID
}

type FixtureOption func(*fixtureConfig)

func WithPermuter(p Permuter) FixtureOption {
	return func(c *fixtureConfig) {
		c.permute = p
	}
}

func WithIDGenerator(gen func() uuid.UUID) FixtureOption {
	return func(c *fixtureConfig) {
		c.newID = gen
	}
}

type pairing struct {
	home, away int
}

// GenerateFixtures builds the round-robin match list for the given roster.
// A single round-robin keeps one direction of every pairing (the lower roster
// index plays at home), home and away keeps both. Order is shuffled.
func GenerateFixtures(teams []Team, isHomeAndAway bool, opts ...FixtureOption) ([]Match, error) {
	cfg := fixtureConfig{
		permute: rand.Shuffle,
		newID:   uuid.New,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(teams) < 2 {
		return nil, fmt.Errorf("at least 2 teams required, got %d: %w", len(teams), ErrInvalidInput)
	}
	seen := make(map[uuid.UUID]struct{}, len(teams))
	for _, t := range teams {
		if _, ok := seen[t.ID]; ok {
			return nil, fmt.Errorf("duplicate team id %s: %w", t.ID, ErrInvalidInput)
		}
		seen[t.ID] = struct{}{}
	}

	n := len(teams)
	pairs := make([]pairing, 0, n*(n-1))
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if !isHomeAndAway && i > j {
				continue
			}
			pairs = append(pairs, pairing{home: i, away: j})
		}
	}

	cfg.permute(len(pairs), func(i, j int) {
		pairs[i], pairs[j] = pairs[j], pairs[i]
	})

	matches := make([]Match, 0, len(pairs))
	for order, p := range pairs {
		matches = append(matches, Match{
			ID:           cfg.newID(),
			TournamentID: teams[p.home].TournamentID,
			MatchOrder:   order,
			HomeTeamID:   teams[p.home].ID,
			AwayTeamID:   teams[p.away].ID,
		})
	}

	return matches, nil
}
