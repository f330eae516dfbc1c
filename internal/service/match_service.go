package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/AdamBeresnev/league-tracker/internal/league"
	"github.com/AdamBeresnev/league-tracker/internal/live"
	"github.com/google/uuid"
)

type MatchService struct {
	tournaments *TournamentService
	repo        TournamentRepository
	publisher   Publisher
}

// NewMatchService wires result recording. publisher may be nil, in which case
// nothing is broadcast.
func NewMatchService(repo TournamentRepository, publisher Publisher) *MatchService {
	return &MatchService{
		tournaments: NewTournamentService(repo),
		repo:        repo,
		publisher:   publisher,
	}
}

type MatchData struct {
	Match      *league.Match
	Tournament *league.Tournament
	HomeTeam   league.Team
	AwayTeam   league.Team
}

type ResultData struct {
	TournamentID uuid.UUID           `json:"tournamentId"`
	Match        *league.Match       `json:"match"`
	Table        []league.TableEntry `json:"table"`
}

func (s *MatchService) GetMatchViewData(ctx context.Context, matchID uuid.UUID) (*MatchData, error) {
	match, err := s.repo.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	tournament, err := s.tournaments.getOwned(ctx, match.TournamentID)
	if err != nil {
		return nil, err
	}

	home, ok := tournament.TeamByID(match.HomeTeamID)
	if !ok {
		return nil, fmt.Errorf("home team %s missing from tournament %s", match.HomeTeamID, tournament.ID)
	}
	away, ok := tournament.TeamByID(match.AwayTeamID)
	if !ok {
		return nil, fmt.Errorf("away team %s missing from tournament %s", match.AwayTeamID, tournament.ID)
	}

	return &MatchData{
		Match:      match,
		Tournament: tournament,
		HomeTeam:   home,
		AwayTeam:   away,
	}, nil
}

// RecordResult stores both scores of a match, replacing any earlier result,
// and publishes the recalculated table to the tournament's live room.
func (s *MatchService) RecordResult(ctx context.Context, matchID uuid.UUID, homeGoals int, awayGoals int) (*ResultData, error) {
	if homeGoals < 0 || awayGoals < 0 {
		return nil, invalid("Goals cannot be negative")
	}
	if homeGoals > league.MaxGoals || awayGoals > league.MaxGoals {
		return nil, invalid(fmt.Sprintf("Goals cannot be more than %d", league.MaxGoals))
	}

	match, err := s.repo.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	tournament, err := s.tournaments.getOwned(ctx, match.TournamentID)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.RecordResult(ctx, matchID, homeGoals, awayGoals)
	if err != nil {
		return nil, fmt.Errorf("failed to record result: %w", err)
	}

	for i := range tournament.Matches {
		if tournament.Matches[i].ID == updated.ID {
			tournament.Matches[i] = *updated
		}
	}

	result := &ResultData{
		TournamentID: tournament.ID,
		Match:        updated,
		Table:        league.CalculateTable(tournament.Teams, tournament.Matches),
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(live.TournamentRoom(tournament.ID), live.StandingsUpdated, result); err != nil {
			slog.Error("publishing standings", "tournament", tournament.ID, "error", err)
		}
	}

	return result, nil
}
