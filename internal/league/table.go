package league

import (
	"sort"

	"github.com/google/uuid"
)

// TableEntry is one row of the standings. It is always derived from the
// matches and never stored.
type TableEntry struct {
	TeamID         uuid.UUID `json:"teamId"`
	TeamName       string    `json:"teamName"`
	Played         int       `json:"played"`
	Won            int       `json:"won"`
	Drawn          int       `json:"drawn"`
	Lost           int       `json:"lost"`
	GoalsFor       int       `json:"goalsFor"`
	GoalsAgainst   int       `json:"goalsAgainst"`
	GoalDifference int       `json:"goalDifference"`
	Points         int       `json:"points"`
}

const (
	pointsForWin  = 3
	pointsForDraw = 1
)

// CalculateTable computes the standings from scratch. Only completed matches
// count. Entries are ordered by points, goal difference, then goals scored;
// full ties keep roster order.
func CalculateTable(teams []Team, matches []Match) []TableEntry {
	entries := make([]TableEntry, len(teams))
	index := make(map[uuid.UUID]*TableEntry, len(teams))
	for i, t := range teams {
		entries[i] = TableEntry{TeamID: t.ID, TeamName: t.Name}
		index[t.ID] = &entries[i]
	}

	for i := range matches {
		m := &matches[i]
		if !m.IsCompleted() {
			continue
		}
		home, away := index[m.HomeTeamID], index[m.AwayTeamID]
		if home == nil || away == nil {
			continue
		}
		homeGoals, awayGoals := *m.HomeGoals, *m.AwayGoals

		home.Played++
		away.Played++

		home.GoalsFor += homeGoals
		home.GoalsAgainst += awayGoals
		away.GoalsFor += awayGoals
		away.GoalsAgainst += homeGoals

		switch {
		case homeGoals > awayGoals:
			home.Won++
			home.Points += pointsForWin
			away.Lost++
		case homeGoals < awayGoals:
			away.Won++
			away.Points += pointsForWin
			home.Lost++
		default:
			home.Drawn++
			away.Drawn++
			home.Points += pointsForDraw
			away.Points += pointsForDraw
		}
	}

	for i := range entries {
		entries[i].GoalDifference = entries[i].GoalsFor - entries[i].GoalsAgainst
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference != b.GoalDifference {
			return a.GoalDifference > b.GoalDifference
		}
		return a.GoalsFor > b.GoalsFor
	})

	return entries
}
