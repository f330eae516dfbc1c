package league

import (
	"testing"

	"github.com/AdamBeresnev/league-tracker/internal/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func played(home, away Team, homeGoals, awayGoals int) Match {
	return Match{
		ID:         uuid.New(),
		HomeTeamID: home.ID,
		AwayTeamID: away.ID,
		HomeGoals:  utils.Ptr(homeGoals),
		AwayGoals:  utils.Ptr(awayGoals),
	}
}

func pending(home, away Team) Match {
	return Match{ID: uuid.New(), HomeTeamID: home.ID, AwayTeamID: away.ID}
}

func TestCalculateTable_ThreeTeamScenario(t *testing.T) {
	teams := makeTeams(3)
	a, b, c := teams[0], teams[1], teams[2]

	matches := []Match{
		played(a, b, 2, 0),
		played(b, c, 1, 1),
		played(a, c, 0, 3),
	}

	table := CalculateTable(teams, matches)
	require.Len(t, table, 3)

	assert.Equal(t, TableEntry{
		TeamID: c.ID, TeamName: c.Name,
		Played: 2, Won: 1, Drawn: 1, Lost: 0,
		GoalsFor: 4, GoalsAgainst: 1, GoalDifference: 3, Points: 4,
	}, table[0])
	assert.Equal(t, TableEntry{
		TeamID: a.ID, TeamName: a.Name,
		Played: 2, Won: 1, Drawn: 0, Lost: 1,
		GoalsFor: 2, GoalsAgainst: 3, GoalDifference: -1, Points: 3,
	}, table[1])
	assert.Equal(t, TableEntry{
		TeamID: b.ID, TeamName: b.Name,
		Played: 2, Won: 0, Drawn: 1, Lost: 1,
		GoalsFor: 1, GoalsAgainst: 3, GoalDifference: -2, Points: 1,
	}, table[2])
}

func TestCalculateTable_NoCompletedMatches(t *testing.T) {
	teams := makeTeams(4)
	matches, err := GenerateFixtures(teams, true)
	require.NoError(t, err)

	table := CalculateTable(teams, matches)
	require.Len(t, table, len(teams))
	for i, entry := range table {
		assert.Equal(t, teams[i].ID, entry.TeamID, "roster order should be kept")
		assert.Equal(t, TableEntry{TeamID: teams[i].ID, TeamName: teams[i].Name}, entry)
	}
}

func TestCalculateTable_TieBreakers(t *testing.T) {
	teams := makeTeams(4)
	a, b, c, d := teams[0], teams[1], teams[2], teams[3]

	testCases := []struct {
		name     string
		matches  []Match
		expected []uuid.UUID
	}{
		{
			name: "goal difference separates equal points",
			// a and b both win once, b by a bigger margin
			matches: []Match{
				played(a, c, 1, 0),
				played(b, d, 4, 0),
			},
			expected: []uuid.UUID{b.ID, a.ID, c.ID, d.ID},
		},
		{
			name: "goals for separates equal goal difference",
			matches: []Match{
				played(a, c, 1, 0),
				played(d, b, 2, 3),
			},
			expected: []uuid.UUID{b.ID, a.ID, d.ID, c.ID},
		},
		{
			name: "full tie keeps roster order",
			matches: []Match{
				played(d, c, 1, 1),
				played(b, a, 1, 1),
			},
			expected: []uuid.UUID{a.ID, b.ID, c.ID, d.ID},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			table := CalculateTable(teams, tc.matches)
			order := make([]uuid.UUID, len(table))
			for i, e := range table {
				order[i] = e.TeamID
			}
			assert.Equal(t, tc.expected, order)
		})
	}
}

func TestCalculateTable_IgnoresPendingAndHalfSetMatches(t *testing.T) {
	teams := makeTeams(2)
	a, b := teams[0], teams[1]

	halfSet := pending(a, b)
	halfSet.HomeGoals = utils.Ptr(5)

	table := CalculateTable(teams, []Match{pending(a, b), halfSet})
	for _, e := range table {
		assert.Zero(t, e.Played)
		assert.Zero(t, e.GoalsFor)
		assert.Zero(t, e.Points)
	}
}

func TestCalculateTable_SkipsUnknownTeams(t *testing.T) {
	teams := makeTeams(2)
	stranger := Team{ID: uuid.New(), Name: "Stranger"}

	table := CalculateTable(teams, []Match{played(teams[0], stranger, 3, 0)})
	require.Len(t, table, 2)
	assert.Zero(t, table[0].Played)
	assert.Zero(t, table[1].Played)
}

func TestCalculateTable_Totals(t *testing.T) {
	teams := makeTeams(5)
	matches, err := GenerateFixtures(teams, true, WithPermuter(IdentityPermuter))
	require.NoError(t, err)

	decisive, draws := 0, 0
	for i := range matches {
		// leave every third match pending
		if i%3 == 2 {
			continue
		}
		home, away := i%4, (i*7)%5
		matches[i].HomeGoals = utils.Ptr(home)
		matches[i].AwayGoals = utils.Ptr(away)
		if home == away {
			draws++
		} else {
			decisive++
		}
	}

	table := CalculateTable(teams, matches)

	goalsFor, goalsAgainst, points, playedTotal := 0, 0, 0, 0
	for _, e := range table {
		goalsFor += e.GoalsFor
		goalsAgainst += e.GoalsAgainst
		points += e.Points
		playedTotal += e.Played
		assert.Equal(t, e.GoalsFor-e.GoalsAgainst, e.GoalDifference)
		assert.Equal(t, e.Played, e.Won+e.Drawn+e.Lost)
	}
	assert.Equal(t, goalsFor, goalsAgainst)
	assert.Equal(t, 3*decisive+2*draws, points)
	assert.Equal(t, 2*(decisive+draws), playedTotal)
}

func TestCalculateTable_Idempotent(t *testing.T) {
	teams := makeTeams(4)
	a, b, c, d := teams[0], teams[1], teams[2], teams[3]
	matches := []Match{
		played(a, b, 1, 1),
		played(c, d, 0, 0),
		played(b, c, 2, 2),
		pending(a, d),
	}

	first := CalculateTable(teams, matches)
	second := CalculateTable(teams, matches)
	assert.Equal(t, first, second)
}
