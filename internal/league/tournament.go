package league

import (
	"time"

	"github.com/google/uuid"
)

type Tournament struct {
	ID            uuid.UUID `db:"id" json:"id"`
	OwnerID       uuid.UUID `db:"owner_id" json:"-"`
	Name          string    `db:"name" json:"name"`
	IsHomeAndAway bool      `db:"is_home_and_away" json:"isHomeAndAway"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`

	Teams   []Team  `db:"-" json:"teams"`
	Matches []Match `db:"-" json:"matches"`
}

func (t *Tournament) TeamByID(id uuid.UUID) (Team, bool) {
	for _, team := range t.Teams {
		if team.ID == id {
			return team, true
		}
	}
	return Team{}, false
}

// CompletedMatches returns how many fixtures already have a result.
func (t *Tournament) CompletedMatches() int {
	count := 0
	for i := range t.Matches {
		if t.Matches[i].IsCompleted() {
			count++
		}
	}
	return count
}

// TournamentSummary is a tournament row with counts, for listings that do not
// need the full roster and fixture list.
type TournamentSummary struct {
	Tournament
	TeamCount      int `db:"team_count" json:"teamCount"`
	MatchCount     int `db:"match_count" json:"matchCount"`
	CompletedCount int `db:"completed_count" json:"completedCount"`
}

func (s TournamentSummary) IsFinished() bool {
	return s.MatchCount > 0 && s.CompletedCount == s.MatchCount
}
