package league

import (
	"testing"

	"github.com/AdamBeresnev/league-tracker/internal/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTournament_CompletedMatches(t *testing.T) {
	teams := makeTeams(3)
	a, b, c := teams[0], teams[1], teams[2]

	halfSet := pending(b, c)
	halfSet.HomeGoals = utils.Ptr(1)

	tournament := &Tournament{
		Teams: teams,
		Matches: []Match{
			played(a, b, 1, 0),
			pending(a, c),
			halfSet,
			played(c, a, 0, 0),
		},
	}
	assert.Equal(t, 2, tournament.CompletedMatches())

	assert.Equal(t, 0, (&Tournament{}).CompletedMatches())
}

func TestTournament_TeamByID(t *testing.T) {
	teams := makeTeams(2)
	tournament := &Tournament{Teams: teams}

	team, ok := tournament.TeamByID(teams[1].ID)
	assert.True(t, ok)
	assert.Equal(t, teams[1], team)

	_, ok = tournament.TeamByID(uuid.New())
	assert.False(t, ok)
}
