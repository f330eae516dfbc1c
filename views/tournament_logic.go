package views

import (
	"fmt"
	"strconv"

	"github.com/AdamBeresnev/league-tracker/internal/league"
	"github.com/AdamBeresnev/league-tracker/internal/service"
	"github.com/AdamBeresnev/league-tracker/internal/utils"
	"github.com/a-h/templ"
	"github.com/google/uuid"
)

const (
	RowNext    = "next"
	RowPending = "pending"
	RowPlayed  = "played"
)

type MatchRow struct {
	ID       uuid.UUID
	HomeName string
	AwayName string
	Score    string
	Status   string
}

// PrepareMatchRows resolves team names for the fixture list. Pending matches
// come first, then played ones, each in fixture order.
func PrepareMatchRows(data *service.TournamentData) []MatchRow {
	rows := make([]MatchRow, 0, len(data.Played)+len(data.Pending))
	for _, m := range data.Pending {
		row := newMatchRow(data, m)
		if data.NextMatchID != nil && *data.NextMatchID == m.ID {
			row.Status = RowNext
		}
		rows = append(rows, row)
	}
	for _, m := range data.Played {
		rows = append(rows, newMatchRow(data, m))
	}
	return rows
}

func newMatchRow(data *service.TournamentData, m league.Match) MatchRow {
	status := RowPending
	if m.IsCompleted() {
		status = RowPlayed
	}
	return MatchRow{
		ID:       m.ID,
		HomeName: data.TeamName(m.HomeTeamID),
		AwayName: data.TeamName(m.AwayTeamID),
		Score:    ScoreLine(m),
		Status:   status,
	}
}

func ScoreLine(m league.Match) string {
	if !m.IsCompleted() {
		return "vs"
	}
	return fmt.Sprintf("%d - %d", *m.HomeGoals, *m.AwayGoals)
}

// FormatGoalDifference prefixes positive values with a plus sign.
func FormatGoalDifference(gd int) string {
	if gd > 0 {
		return "+" + strconv.Itoa(gd)
	}
	return strconv.Itoa(gd)
}

func FormatLabel(isHomeAndAway bool) string {
	if isHomeAndAway {
		return "Home and away"
	}
	return "Single round-robin"
}

func SummaryLine(s league.TournamentSummary) string {
	return fmt.Sprintf("%d teams, %d/%d matches played, %s", s.TeamCount, s.CompletedCount, s.MatchCount, FormatLabel(s.IsHomeAndAway))
}

func ProgressLine(t *league.Tournament) string {
	return fmt.Sprintf("%d of %d matches played", t.CompletedMatches(), len(t.Matches))
}

// StandingsCells is one table row in column order, position first.
func StandingsCells(position int, e league.TableEntry) []string {
	return []string{
		strconv.Itoa(position),
		e.TeamName,
		strconv.Itoa(e.Played),
		strconv.Itoa(e.Won),
		strconv.Itoa(e.Drawn),
		strconv.Itoa(e.Lost),
		strconv.Itoa(e.GoalsFor),
		strconv.Itoa(e.GoalsAgainst),
		FormatGoalDifference(e.GoalDifference),
		strconv.Itoa(e.Points),
	}
}

// padRoster makes sure the form always offers at least two team rows.
func padRoster(teamNames []string) []string {
	if len(teamNames) >= 2 {
		return teamNames
	}
	padded := make([]string, 2)
	copy(padded, teamNames)
	return padded
}

func teamFieldName(index int) string {
	return "team_name_" + strconv.Itoa(index)
}

func teamPlaceholder(index int) string {
	return "Team " + strconv.Itoa(index+1)
}

func goalsValue(goals *int) string {
	return strconv.Itoa(utils.OrZero(goals))
}

func tournamentURL(id uuid.UUID) templ.SafeURL {
	return templ.URL("/tournaments/" + id.String())
}

func tournamentActionURL(id uuid.UUID, action string) templ.SafeURL {
	return templ.URL("/tournaments/" + id.String() + "/" + action)
}

func matchURL(id uuid.UUID) templ.SafeURL {
	return templ.URL("/matches/" + id.String())
}

func resultURL(id uuid.UUID) templ.SafeURL {
	return templ.URL("/matches/" + id.String() + "/result")
}

func liveSocketPath(id uuid.UUID) string {
	return "/ws/tournaments/" + id.String()
}

func liveFragmentPath(id uuid.UUID) string {
	return "/tournaments/" + id.String() + "/live"
}
