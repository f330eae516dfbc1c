package service

import (
	"context"

	"github.com/AdamBeresnev/league-tracker/internal/league"
	"github.com/google/uuid"
)

// TournamentRepository is the persistence the services need. store.TournamentStore
// implements it.
type TournamentRepository interface {
	SaveTournament(ctx context.Context, tournament *league.Tournament) error
	GetTournament(ctx context.Context, id uuid.UUID) (*league.Tournament, error)
	ListTournaments(ctx context.Context, ownerID uuid.UUID) ([]league.TournamentSummary, error)
	SetCurrent(ctx context.Context, ownerID uuid.UUID, tournamentID uuid.UUID) error
	GetCurrent(ctx context.Context, ownerID uuid.UUID) (*league.Tournament, error)
	DeleteTournament(ctx context.Context, id uuid.UUID) error
	GetMatch(ctx context.Context, id uuid.UUID) (*league.Match, error)
	RecordResult(ctx context.Context, matchID uuid.UUID, homeGoals int, awayGoals int) (*league.Match, error)
}

type Publisher interface {
	Publish(room string, msgType string, payload any) error
}
