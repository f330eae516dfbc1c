package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AdamBeresnev/league-tracker/internal/league"
	"github.com/AdamBeresnev/league-tracker/internal/middleware"
	"github.com/google/uuid"
)

const maxNameLength = 50

type TournamentService struct {
	repo        TournamentRepository
	fixtureOpts []league.FixtureOption
	now         func() time.Time
}

func NewTournamentService(repo TournamentRepository, fixtureOpts ...league.FixtureOption) *TournamentService {
	return &TournamentService{repo: repo, fixtureOpts: fixtureOpts, now: time.Now}
}

type TournamentData struct {
	Tournament  *league.Tournament
	Table       []league.TableEntry
	Teams       map[uuid.UUID]league.Team
	Played      []league.Match
	Pending     []league.Match
	NextMatchID *uuid.UUID
	IsCurrent   bool
}

func (d *TournamentData) TeamName(id uuid.UUID) string {
	if t, ok := d.Teams[id]; ok {
		return t.Name
	}
	return "?"
}

// CreateTournament validates the roster, generates the fixtures and stores
// everything. The new tournament becomes the owner's current one.
func (s *TournamentService) CreateTournament(ctx context.Context, name string, teamNames []string, isHomeAndAway bool) (uuid.UUID, error) {
	ownerID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return uuid.Nil, ErrNoUser
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return uuid.Nil, invalid("Tournament name is required")
	}
	if len(name) > maxNameLength {
		return uuid.Nil, invalid(fmt.Sprintf("Tournament name exceeds %d characters", maxNameLength))
	}

	tournamentID := uuid.New()
	teams := make([]league.Team, 0, len(teamNames))
	seen := make(map[string]bool, len(teamNames))
	for i, raw := range teamNames {
		teamName := strings.TrimSpace(raw)
		if teamName == "" {
			return uuid.Nil, invalid("Team names cannot be empty")
		}
		if len(teamName) > maxNameLength {
			return uuid.Nil, invalid(fmt.Sprintf("Team name '%s' exceeds %d characters", teamName, maxNameLength))
		}
		key := strings.ToLower(teamName)
		if seen[key] {
			return uuid.Nil, invalid(fmt.Sprintf("Team '%s' is already in the tournament", teamName))
		}
		seen[key] = true

		teams = append(teams, league.Team{
			ID:           uuid.New(),
			TournamentID: tournamentID,
			Name:         teamName,
			Position:     i,
		})
	}
	if len(teams) < 2 {
		return uuid.Nil, invalid("At least 2 teams are required")
	}

	matches, err := league.GenerateFixtures(teams, isHomeAndAway, s.fixtureOpts...)
	if err != nil {
		return uuid.Nil, err
	}

	tournament := &league.Tournament{
		ID:            tournamentID,
		OwnerID:       ownerID,
		Name:          name,
		IsHomeAndAway: isHomeAndAway,
		CreatedAt:     s.now().UTC(),
		Teams:         teams,
		Matches:       matches,
	}

	if err := s.repo.SaveTournament(ctx, tournament); err != nil {
		return uuid.Nil, fmt.Errorf("saving tournament: %w", err)
	}
	if err := s.repo.SetCurrent(ctx, ownerID, tournamentID); err != nil {
		return uuid.Nil, fmt.Errorf("setting current tournament: %w", err)
	}

	return tournamentID, nil
}

func (s *TournamentService) GetTournamentData(ctx context.Context, id uuid.UUID) (*TournamentData, error) {
	tournament, err := s.getOwned(ctx, id)
	if err != nil {
		return nil, err
	}

	data := &TournamentData{
		Tournament: tournament,
		Table:      league.CalculateTable(tournament.Teams, tournament.Matches),
		Teams:      make(map[uuid.UUID]league.Team, len(tournament.Teams)),
	}
	for _, t := range tournament.Teams {
		data.Teams[t.ID] = t
	}
	for _, m := range tournament.Matches {
		if m.IsCompleted() {
			data.Played = append(data.Played, m)
			continue
		}
		if data.NextMatchID == nil {
			id := m.ID
			data.NextMatchID = &id
		}
		data.Pending = append(data.Pending, m)
	}

	current, err := s.GetCurrentTournament(ctx)
	if err != nil {
		return nil, err
	}
	data.IsCurrent = current != nil && current.ID == tournament.ID

	return data, nil
}

func (s *TournamentService) GetStandings(ctx context.Context, id uuid.UUID) ([]league.TableEntry, error) {
	tournament, err := s.getOwned(ctx, id)
	if err != nil {
		return nil, err
	}
	return league.CalculateTable(tournament.Teams, tournament.Matches), nil
}

func (s *TournamentService) ListTournaments(ctx context.Context) ([]league.TournamentSummary, error) {
	ownerID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrNoUser
	}
	return s.repo.ListTournaments(ctx, ownerID)
}

// LoadTournament makes the tournament the owner's current one.
func (s *TournamentService) LoadTournament(ctx context.Context, id uuid.UUID) error {
	tournament, err := s.getOwned(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.SetCurrent(ctx, tournament.OwnerID, tournament.ID)
}

// GetCurrentTournament returns nil without an error when nothing is selected.
func (s *TournamentService) GetCurrentTournament(ctx context.Context) (*league.Tournament, error) {
	ownerID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrNoUser
	}

	tournament, err := s.repo.GetCurrent(ctx, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return tournament, err
}

func (s *TournamentService) DeleteTournament(ctx context.Context, id uuid.UUID) error {
	if _, err := s.getOwned(ctx, id); err != nil {
		return err
	}
	return s.repo.DeleteTournament(ctx, id)
}

func (s *TournamentService) getOwned(ctx context.Context, id uuid.UUID) (*league.Tournament, error) {
	ownerID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrNoUser
	}

	tournament, err := s.repo.GetTournament(ctx, id)
	if err != nil {
		return nil, err
	}
	if tournament.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return tournament, nil
}
