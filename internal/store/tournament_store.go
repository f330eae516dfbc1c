package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/AdamBeresnev/league-tracker/internal/league"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type TournamentStore struct {
	db *sqlx.DB
}

const (
	createTournamentQuery = `
		INSERT INTO tournaments (id, owner_id, name, is_home_and_away, created_at)
		VALUES (:id, :owner_id, :name, :is_home_and_away, :created_at)
	`
	createTeamsQuery = `
		INSERT INTO teams (id, tournament_id, name, position)
		VALUES (:id, :tournament_id, :name, :position)
	`
	createMatchesQuery = `
		INSERT INTO matches (id, tournament_id, match_order, home_team_id, away_team_id, home_goals, away_goals)
		VALUES (:id, :tournament_id, :match_order, :home_team_id, :away_team_id, :home_goals, :away_goals)
	`
	listTournamentsQuery = `
		SELECT t.*,
			(SELECT COUNT(*) FROM teams WHERE tournament_id = t.id) AS team_count,
			(SELECT COUNT(*) FROM matches WHERE tournament_id = t.id) AS match_count,
			(SELECT COUNT(*) FROM matches WHERE tournament_id = t.id AND home_goals IS NOT NULL) AS completed_count
		FROM tournaments t
		WHERE t.owner_id = ?
		ORDER BY t.created_at DESC
	`
	setCurrentQuery = `
		INSERT INTO current_tournaments (owner_id, tournament_id) VALUES (?, ?)
		ON CONFLICT (owner_id) DO UPDATE SET tournament_id = excluded.tournament_id
	`
	recordResultQuery = "UPDATE matches SET home_goals = ?, away_goals = ? WHERE id = ?"
)

func NewTournamentStore(db *sqlx.DB) *TournamentStore {
	return &TournamentStore{db: db}
}

// SaveTournament writes the tournament with its roster and fixtures in one
// transaction.
func (s *TournamentStore) SaveTournament(ctx context.Context, tournament *league.Tournament) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.NamedExecContext(ctx, createTournamentQuery, tournament); err != nil {
		return fmt.Errorf("inserting tournament: %w", err)
	}
	if len(tournament.Teams) > 0 {
		if _, err := tx.NamedExecContext(ctx, createTeamsQuery, tournament.Teams); err != nil {
			return fmt.Errorf("inserting teams: %w", err)
		}
	}
	if len(tournament.Matches) > 0 {
		if _, err := tx.NamedExecContext(ctx, createMatchesQuery, tournament.Matches); err != nil {
			return fmt.Errorf("inserting matches: %w", err)
		}
	}

	return tx.Commit()
}

func (s *TournamentStore) GetTournament(ctx context.Context, id uuid.UUID) (*league.Tournament, error) {
	var tournament league.Tournament
	if err := s.db.GetContext(ctx, &tournament, "SELECT * FROM tournaments WHERE id = ?", id); err != nil {
		return nil, err
	}

	if err := s.db.SelectContext(ctx, &tournament.Teams, "SELECT * FROM teams WHERE tournament_id = ? ORDER BY position ASC", id); err != nil {
		return nil, fmt.Errorf("loading teams: %w", err)
	}
	if err := s.db.SelectContext(ctx, &tournament.Matches, "SELECT * FROM matches WHERE tournament_id = ? ORDER BY match_order ASC", id); err != nil {
		return nil, fmt.Errorf("loading matches: %w", err)
	}

	return &tournament, nil
}

func (s *TournamentStore) ListTournaments(ctx context.Context, ownerID uuid.UUID) ([]league.TournamentSummary, error) {
	var summaries []league.TournamentSummary
	err := s.db.SelectContext(ctx, &summaries, listTournamentsQuery, ownerID)
	return summaries, err
}

func (s *TournamentStore) SetCurrent(ctx context.Context, ownerID uuid.UUID, tournamentID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, setCurrentQuery, ownerID, tournamentID)
	return err
}

// GetCurrent returns sql.ErrNoRows when the owner has no current tournament.
func (s *TournamentStore) GetCurrent(ctx context.Context, ownerID uuid.UUID) (*league.Tournament, error) {
	var tournamentID uuid.UUID
	err := s.db.GetContext(ctx, &tournamentID, "SELECT tournament_id FROM current_tournaments WHERE owner_id = ?", ownerID)
	if err != nil {
		return nil, err
	}
	return s.GetTournament(ctx, tournamentID)
}

func (s *TournamentStore) GetMatch(ctx context.Context, id uuid.UUID) (*league.Match, error) {
	var match league.Match
	if err := s.db.GetContext(ctx, &match, "SELECT * FROM matches WHERE id = ?", id); err != nil {
		return nil, err
	}
	return &match, nil
}

// RecordResult sets both scores of a match at once, overwriting any earlier
// result.
func (s *TournamentStore) RecordResult(ctx context.Context, matchID uuid.UUID, homeGoals int, awayGoals int) (*league.Match, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, recordResultQuery, homeGoals, awayGoals, matchID)
	if err != nil {
		return nil, fmt.Errorf("updating match: %w", err)
	}
	if err := expectRow(res); err != nil {
		return nil, err
	}

	var match league.Match
	if err := tx.GetContext(ctx, &match, "SELECT * FROM matches WHERE id = ?", matchID); err != nil {
		return nil, err
	}

	return &match, tx.Commit()
}

// DeleteTournament removes the tournament, cascading to teams, matches and
// any current pointer at it.
func (s *TournamentStore) DeleteTournament(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM tournaments WHERE id = ?", id)
	if err != nil {
		return err
	}
	return expectRow(res)
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
