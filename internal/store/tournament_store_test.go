package store

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/AdamBeresnev/league-tracker/internal/db"
	"github.com/AdamBeresnev/league-tracker/internal/league"
	users "github.com/AdamBeresnev/league-tracker/internal/user"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates an in-memory SQLite database and applies migrations
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := db.Connect("file::memory:")
	require.NoError(t, err, "Failed to connect to in-memory DB")

	// Every connection to :memory: is a separate database
	database.SetMaxOpenConns(1)

	err = db.RunMigrations(database.DB, "../../migrations")
	require.NoError(t, err, "Failed to apply migrations")

	return database
}

func newTournament(t *testing.T, name string, teamCount int, homeAndAway bool) *league.Tournament {
	t.Helper()

	tournament := &league.Tournament{
		ID:            uuid.New(),
		OwnerID:       users.GuestID,
		Name:          name,
		IsHomeAndAway: homeAndAway,
		CreatedAt:     time.Now().UTC(),
	}
	for i := 0; i < teamCount; i++ {
		tournament.Teams = append(tournament.Teams, league.Team{
			ID:           uuid.New(),
			TournamentID: tournament.ID,
			Name:         fmt.Sprintf("Team %d", i+1),
			Position:     i,
		})
	}

	matches, err := league.GenerateFixtures(tournament.Teams, homeAndAway)
	require.NoError(t, err)
	tournament.Matches = matches

	return tournament
}

func TestSaveAndGetTournament(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := NewTournamentStore(db)
	ctx := context.Background()

	tournament := newTournament(t, "Test League", 4, true)
	require.NoError(t, store.SaveTournament(ctx, tournament))

	fetched, err := store.GetTournament(ctx, tournament.ID)
	require.NoError(t, err)

	assert.Equal(t, tournament.ID, fetched.ID)
	assert.Equal(t, tournament.OwnerID, fetched.OwnerID)
	assert.Equal(t, tournament.Name, fetched.Name)
	assert.True(t, fetched.IsHomeAndAway)
	assert.WithinDuration(t, tournament.CreatedAt, fetched.CreatedAt, time.Second)

	require.Len(t, fetched.Teams, 4)
	for i := range tournament.Teams {
		assert.Equal(t, tournament.Teams[i], fetched.Teams[i])
	}

	require.Len(t, fetched.Matches, 12)
	for i := range tournament.Matches {
		assert.Equal(t, tournament.Matches[i].ID, fetched.Matches[i].ID)
		assert.Equal(t, tournament.Matches[i].HomeTeamID, fetched.Matches[i].HomeTeamID)
		assert.Equal(t, tournament.Matches[i].AwayTeamID, fetched.Matches[i].AwayTeamID)
		assert.Equal(t, i, fetched.Matches[i].MatchOrder)
		assert.Nil(t, fetched.Matches[i].HomeGoals)
		assert.Nil(t, fetched.Matches[i].AwayGoals)
	}
}

func TestGetTournament_NotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := NewTournamentStore(db)

	_, err := store.GetTournament(context.Background(), uuid.New())
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestRecordResult(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := NewTournamentStore(db)
	ctx := context.Background()

	tournament := newTournament(t, "Results", 3, false)
	require.NoError(t, store.SaveTournament(ctx, tournament))
	matchID := tournament.Matches[0].ID

	match, err := store.RecordResult(ctx, matchID, 2, 1)
	require.NoError(t, err)
	require.True(t, match.IsCompleted())
	assert.Equal(t, 2, *match.HomeGoals)
	assert.Equal(t, 1, *match.AwayGoals)

	// Results can be corrected later
	_, err = store.RecordResult(ctx, matchID, 0, 0)
	require.NoError(t, err)

	fetched, err := store.GetMatch(ctx, matchID)
	require.NoError(t, err)
	assert.Equal(t, 0, *fetched.HomeGoals)
	assert.Equal(t, 0, *fetched.AwayGoals)

	_, err = store.RecordResult(ctx, uuid.New(), 1, 0)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestMatchConstraints(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := NewTournamentStore(db)
	ctx := context.Background()

	tournament := newTournament(t, "Constraints", 2, false)
	require.NoError(t, store.SaveTournament(ctx, tournament))
	matchID := tournament.Matches[0].ID

	_, err := db.Exec("UPDATE matches SET home_goals = 1 WHERE id = ?", matchID)
	assert.Error(t, err, "one-sided result should violate the check constraint")

	_, err = store.RecordResult(ctx, matchID, -1, 0)
	assert.Error(t, err, "negative scores should violate the check constraint")

	_, err = store.RecordResult(ctx, matchID, 100, 0)
	assert.Error(t, err, "scores above 99 should violate the check constraint")

	fetched, err := store.GetMatch(ctx, matchID)
	require.NoError(t, err)
	assert.False(t, fetched.IsCompleted())
}

func TestListTournaments(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := NewTournamentStore(db)
	ctx := context.Background()

	older := newTournament(t, "Older", 3, false)
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	newer := newTournament(t, "Newer", 4, true)
	require.NoError(t, store.SaveTournament(ctx, older))
	require.NoError(t, store.SaveTournament(ctx, newer))

	_, err := store.RecordResult(ctx, older.Matches[0].ID, 1, 0)
	require.NoError(t, err)

	summaries, err := store.ListTournaments(ctx, users.GuestID)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, newer.ID, summaries[0].ID)
	assert.Equal(t, 4, summaries[0].TeamCount)
	assert.Equal(t, 12, summaries[0].MatchCount)
	assert.Equal(t, 0, summaries[0].CompletedCount)

	assert.Equal(t, older.ID, summaries[1].ID)
	assert.Equal(t, 3, summaries[1].TeamCount)
	assert.Equal(t, 3, summaries[1].MatchCount)
	assert.Equal(t, 1, summaries[1].CompletedCount)
	assert.False(t, summaries[1].IsFinished())

	others, err := store.ListTournaments(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, others)
}

func TestCurrentTournament(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := NewTournamentStore(db)
	ctx := context.Background()

	_, err := store.GetCurrent(ctx, users.GuestID)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	first := newTournament(t, "First", 2, false)
	second := newTournament(t, "Second", 3, false)
	require.NoError(t, store.SaveTournament(ctx, first))
	require.NoError(t, store.SaveTournament(ctx, second))

	require.NoError(t, store.SetCurrent(ctx, users.GuestID, first.ID))
	current, err := store.GetCurrent(ctx, users.GuestID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, current.ID)
	assert.Len(t, current.Teams, 2)

	require.NoError(t, store.SetCurrent(ctx, users.GuestID, second.ID))
	current, err = store.GetCurrent(ctx, users.GuestID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, current.ID)

	require.NoError(t, store.DeleteTournament(ctx, second.ID))
	_, err = store.GetCurrent(ctx, users.GuestID)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestDeleteTournament(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := NewTournamentStore(db)
	ctx := context.Background()

	tournament := newTournament(t, "Doomed", 4, false)
	require.NoError(t, store.SaveTournament(ctx, tournament))

	require.NoError(t, store.DeleteTournament(ctx, tournament.ID))

	var remaining int
	require.NoError(t, db.Get(&remaining, "SELECT COUNT(*) FROM matches WHERE tournament_id = ?", tournament.ID))
	assert.Zero(t, remaining)
	require.NoError(t, db.Get(&remaining, "SELECT COUNT(*) FROM teams WHERE tournament_id = ?", tournament.ID))
	assert.Zero(t, remaining)

	err := store.DeleteTournament(ctx, tournament.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
