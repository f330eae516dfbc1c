package service

import (
	"database/sql"
	"math"
	"sync"
	"testing"

	"github.com/AdamBeresnev/league-tracker/internal/league"
	"github.com/AdamBeresnev/league-tracker/internal/live"
	"github.com/AdamBeresnev/league-tracker/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type publishedMessage struct {
	room    string
	msgType string
	payload any
}

type recordingPublisher struct {
	mu       sync.Mutex
	messages []publishedMessage
}

func (p *recordingPublisher) Publish(room string, msgType string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, publishedMessage{room: room, msgType: msgType, payload: payload})
	return nil
}

func TestRecordResult_ThreeTeamScenario(t *testing.T) {
	database := setupTestDB(t)
	tournamentStore := store.NewTournamentStore(database)
	tournamentService := NewTournamentService(tournamentStore, league.WithPermuter(league.IdentityPermuter))
	publisher := &recordingPublisher{}
	matchService := NewMatchService(tournamentStore, publisher)
	ctx := guestContext()

	id, err := tournamentService.CreateTournament(ctx, "Scenario", []string{"A", "B", "C"}, false)
	require.NoError(t, err)

	tournament, err := tournamentStore.GetTournament(ctx, id)
	require.NoError(t, err)
	require.Len(t, tournament.Matches, 3)

	// Identity order: A v B, A v C, B v C
	abID, acID, bcID := tournament.Matches[0].ID, tournament.Matches[1].ID, tournament.Matches[2].ID

	_, err = matchService.RecordResult(ctx, abID, 2, 0)
	require.NoError(t, err)
	_, err = matchService.RecordResult(ctx, bcID, 1, 1)
	require.NoError(t, err)
	result, err := matchService.RecordResult(ctx, acID, 0, 3)
	require.NoError(t, err)

	assert.Equal(t, id, result.TournamentID)
	assert.Equal(t, acID, result.Match.ID)
	require.Len(t, result.Table, 3)

	assert.Equal(t, "C", result.Table[0].TeamName)
	assert.Equal(t, 4, result.Table[0].Points)
	assert.Equal(t, 3, result.Table[0].GoalDifference)
	assert.Equal(t, 4, result.Table[0].GoalsFor)

	assert.Equal(t, "A", result.Table[1].TeamName)
	assert.Equal(t, 3, result.Table[1].Points)
	assert.Equal(t, -1, result.Table[1].GoalDifference)

	assert.Equal(t, "B", result.Table[2].TeamName)
	assert.Equal(t, 1, result.Table[2].Points)
	assert.Equal(t, -2, result.Table[2].GoalDifference)

	standings, err := tournamentService.GetStandings(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, result.Table, standings)

	require.Len(t, publisher.messages, 3)
	last := publisher.messages[2]
	assert.Equal(t, live.TournamentRoom(id), last.room)
	assert.Equal(t, live.StandingsUpdated, last.msgType)
	assert.Same(t, result, last.payload)
}

func TestRecordResult_Overwrite(t *testing.T) {
	database := setupTestDB(t)
	tournamentStore := store.NewTournamentStore(database)
	tournamentService := NewTournamentService(tournamentStore)
	matchService := NewMatchService(tournamentStore, nil)
	ctx := guestContext()

	id, err := tournamentService.CreateTournament(ctx, "Edits", []string{"A", "B"}, false)
	require.NoError(t, err)
	tournament, err := tournamentStore.GetTournament(ctx, id)
	require.NoError(t, err)
	matchID := tournament.Matches[0].ID

	_, err = matchService.RecordResult(ctx, matchID, 5, 0)
	require.NoError(t, err)
	result, err := matchService.RecordResult(ctx, matchID, 1, 1)
	require.NoError(t, err)

	for _, entry := range result.Table {
		assert.Equal(t, 1, entry.Played)
		assert.Equal(t, 1, entry.Drawn)
		assert.Equal(t, 1, entry.Points)
	}
}

func TestRecordResult_Invalid(t *testing.T) {
	database := setupTestDB(t)
	tournamentStore := store.NewTournamentStore(database)
	tournamentService := NewTournamentService(tournamentStore)
	publisher := &recordingPublisher{}
	matchService := NewMatchService(tournamentStore, publisher)
	ctx := guestContext()

	id, err := tournamentService.CreateTournament(ctx, "Invalid", []string{"A", "B"}, false)
	require.NoError(t, err)
	tournament, err := tournamentStore.GetTournament(ctx, id)
	require.NoError(t, err)
	matchID := tournament.Matches[0].ID

	testCases := []struct {
		name      string
		homeGoals int
		awayGoals int
	}{
		{name: "Negative home goals", homeGoals: -1, awayGoals: 2},
		{name: "Negative away goals", homeGoals: 0, awayGoals: -3},
		{name: "Home goals above limit", homeGoals: league.MaxGoals + 1, awayGoals: 0},
		{name: "Away goals above limit", homeGoals: 1, awayGoals: math.MaxInt},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := matchService.RecordResult(ctx, matchID, tc.homeGoals, tc.awayGoals)
			assert.ErrorIs(t, err, league.ErrInvalidInput)
			var validationErr *ValidationError
			assert.ErrorAs(t, err, &validationErr)
		})
	}

	_, err = matchService.RecordResult(ctx, uuid.New(), 1, 0)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	match, err := tournamentStore.GetMatch(ctx, matchID)
	require.NoError(t, err)
	assert.False(t, match.IsCompleted())
	assert.Empty(t, publisher.messages)
}

func TestRecordResult_HighestScore(t *testing.T) {
	database := setupTestDB(t)
	tournamentStore := store.NewTournamentStore(database)
	tournamentService := NewTournamentService(tournamentStore)
	matchService := NewMatchService(tournamentStore, nil)
	ctx := guestContext()

	id, err := tournamentService.CreateTournament(ctx, "Goals", []string{"A", "B", "C"}, true)
	require.NoError(t, err)
	tournament, err := tournamentStore.GetTournament(ctx, id)
	require.NoError(t, err)

	var result *ResultData
	for _, match := range tournament.Matches {
		result, err = matchService.RecordResult(ctx, match.ID, league.MaxGoals, 0)
		require.NoError(t, err)
	}

	// Every team won both home games 99-0 and lost both away games 0-99
	for _, entry := range result.Table {
		assert.Equal(t, 4, entry.Played)
		assert.Equal(t, 2*league.MaxGoals, entry.GoalsFor)
		assert.Equal(t, 2*league.MaxGoals, entry.GoalsAgainst)
		assert.Equal(t, 0, entry.GoalDifference)
		assert.Equal(t, 6, entry.Points)
	}
}

func TestGetMatchViewData(t *testing.T) {
	database := setupTestDB(t)
	tournamentStore := store.NewTournamentStore(database)
	tournamentService := NewTournamentService(tournamentStore, league.WithPermuter(league.IdentityPermuter))
	matchService := NewMatchService(tournamentStore, nil)
	ctx := guestContext()

	id, err := tournamentService.CreateTournament(ctx, "View", []string{"Home", "Away"}, false)
	require.NoError(t, err)
	tournament, err := tournamentStore.GetTournament(ctx, id)
	require.NoError(t, err)

	data, err := matchService.GetMatchViewData(ctx, tournament.Matches[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Home", data.HomeTeam.Name)
	assert.Equal(t, "Away", data.AwayTeam.Name)
	assert.Equal(t, id, data.Tournament.ID)

	_, err = matchService.GetMatchViewData(ctx, uuid.New())
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
