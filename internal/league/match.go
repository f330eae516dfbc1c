package league

import (
	"github.com/AdamBeresnev/league-tracker/internal/utils"
	"github.com/google/uuid"
)

type Match struct {
	ID           uuid.UUID `db:"id" json:"id"`
	TournamentID uuid.UUID `db:"tournament_id" json:"-"`
	MatchOrder   int       `db:"match_order" json:"order"`

	HomeTeamID uuid.UUID `db:"home_team_id" json:"homeTeamId"`
	AwayTeamID uuid.UUID `db:"away_team_id" json:"awayTeamId"`

	// Both nil while pending, both set once a result is recorded
	HomeGoals *int `db:"home_goals" json:"homeGoals"`
	AwayGoals *int `db:"away_goals" json:"awayGoals"`
}

// IsCompleted reports whether both scores are present. A match with only one
// side set counts as pending.
func (m *Match) IsCompleted() bool {
	return utils.BothSet(m.HomeGoals, m.AwayGoals)
}
