package league

import "github.com/google/uuid"

type Team struct {
	ID           uuid.UUID `db:"id" json:"id"`
	TournamentID uuid.UUID `db:"tournament_id" json:"-"`
	Name         string    `db:"name" json:"name"`
	// Roster order, kept so teams come back in the order they were entered
	Position int `db:"position" json:"-"`
}
