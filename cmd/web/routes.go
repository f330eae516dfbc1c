package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/AdamBeresnev/league-tracker/internal/httputil"
	"github.com/AdamBeresnev/league-tracker/internal/league"
	"github.com/AdamBeresnev/league-tracker/internal/live"
	"github.com/AdamBeresnev/league-tracker/internal/middleware"
	"github.com/AdamBeresnev/league-tracker/internal/service"
	"github.com/AdamBeresnev/league-tracker/views"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
)

const teamFieldPrefix = "team_name_"

func (app *application) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	// Serve static files
	fileServer := http.FileServer(http.Dir(app.cfg.StaticPath))
	r.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	// The websocket handshake hijacks the connection, which the buffered
	// writer of LoadAndSave cannot hand over.
	r.Group(func(r chi.Router) {
		r.Use(app.loadSession)
		r.Use(middleware.LoadAuthenticatedUser(app.sessionManager, app.userStore))
		r.Use(middleware.RequireAuth)
		r.Get("/ws/tournaments/{id}", app.handleLiveStandings)
	})

	r.Group(app.sessionRoutes)

	return r
}

func (app *application) sessionRoutes(r chi.Router) {
	r.Use(app.sessionManager.LoadAndSave)
	r.Use(middleware.LoadAuthenticatedUser(app.sessionManager, app.userStore))

	r.Get("/login", func(w http.ResponseWriter, r *http.Request) {
		views.Render(w, r, views.LoginPage(providerNames()))
	})

	r.Post("/auth/guest", func(w http.ResponseWriter, r *http.Request) {
		user, err := app.users.EnsureGuestUser(r.Context())
		if err != nil {
			httputil.InternalServerError(w, "Failed to login as guest", err)
			return
		}

		if err := app.sessionManager.RenewToken(r.Context()); err != nil {
			httputil.InternalServerError(w, "Failed to renew session", err)
			return
		}
		app.sessionManager.Put(r.Context(), middleware.SessionUserKey, user.ID.String())
		http.Redirect(w, r, "/", http.StatusFound)
	})

	r.Get("/auth/{provider}", func(w http.ResponseWriter, r *http.Request) {
		gothic.BeginAuthHandler(w, withProvider(r))
	})

	r.Get("/auth/{provider}/callback", func(w http.ResponseWriter, r *http.Request) {
		gothUser, err := gothic.CompleteUserAuth(w, withProvider(r))
		if err != nil {
			httputil.BadRequest(w, "Authentication failure", err)
			return
		}

		user, err := app.users.FindOrCreateUserByProvider(r.Context(), gothUser)
		if err != nil {
			httputil.InternalServerError(w, "Failed to find or create user", err)
			return
		}

		if err := app.sessionManager.RenewToken(r.Context()); err != nil {
			httputil.InternalServerError(w, "Failed to renew session", err)
			return
		}
		app.sessionManager.Put(r.Context(), middleware.SessionUserKey, user.ID.String())
		http.Redirect(w, r, "/", http.StatusFound)
	})

	r.Post("/logout", func(w http.ResponseWriter, r *http.Request) {
		if err := app.sessionManager.Destroy(r.Context()); err != nil {
			httputil.InternalServerError(w, "Failed to log out", err)
			return
		}
		if r.Header.Get("HX-Request") != "" {
			w.Header().Set("HX-Redirect", "/login")
			w.WriteHeader(http.StatusOK)
			return
		}
		http.Redirect(w, r, "/login", http.StatusFound)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Get("/", app.handleIndex)
		r.Get("/tournaments/create", func(w http.ResponseWriter, r *http.Request) {
			views.Render(w, r, views.CreateTournamentPage("", "", nil, false))
		})
		r.Post("/tournaments/teams", app.handleAddTeamInput)
		r.Post("/tournaments", app.handleCreateTournament)
		r.Get("/tournaments/{id}", app.handleTournament)
		r.Get("/tournaments/{id}/live", app.handleTournamentLive)
		r.Post("/tournaments/{id}/load", app.handleLoadTournament)
		r.Post("/tournaments/{id}/delete", app.handleDeleteTournament)
		r.Get("/matches/{id}", app.handleMatch)
		r.Post("/matches/{id}/result", app.handleRecordResult)
	})

	r.Route("/api", func(r chi.Router) {
		// Without configured origins the API stays same-origin only
		if origins := app.cfg.AllowedOrigins; len(origins) > 0 {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins:   origins,
				AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
				AllowedHeaders:   []string{"Accept", "Content-Type"},
				AllowCredentials: !slices.Contains(origins, "*"),
				MaxAge:           300,
			}))
		}
		r.Use(middleware.RequireAuth)

		r.Get("/tournaments", app.apiListTournaments)
		r.Post("/tournaments", app.apiCreateTournament)
		r.Get("/tournaments/current", app.apiCurrentTournament)
		r.Get("/tournaments/{id}", app.apiTournament)
		r.Delete("/tournaments/{id}", app.apiDeleteTournament)
		r.Get("/tournaments/{id}/standings", app.apiStandings)
		r.Post("/matches/{id}/result", app.apiRecordResult)
	})
}

// loadSession reads the session into the request context without saving it
// back afterwards.
func (app *application) loadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var token string
		if cookie, err := r.Cookie(app.sessionManager.Cookie.Name); err == nil {
			token = cookie.Value
		}
		ctx, err := app.sessionManager.Load(r.Context(), token)
		if err != nil {
			httputil.InternalServerError(w, "Failed to load session", err)
			return
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (app *application) handleIndex(w http.ResponseWriter, r *http.Request) {
	tournaments, err := app.tournaments.ListTournaments(r.Context())
	if err != nil {
		httputil.InternalServerError(w, "Failed to get tournaments", err)
		return
	}
	current, err := app.tournaments.GetCurrentTournament(r.Context())
	if err != nil {
		httputil.InternalServerError(w, "Failed to get current tournament", err)
		return
	}
	views.Render(w, r, views.Index(current, tournaments))
}

func (app *application) handleAddTeamInput(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httputil.BadRequest(w, "Invalid form data", err)
		return
	}
	keys := teamFieldIndices(r)
	newIndex := 0
	if len(keys) > 0 {
		newIndex = keys[len(keys)-1] + 1
	}
	views.Render(w, r, views.TeamInput(newIndex))
}

func (app *application) handleCreateTournament(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httputil.BadRequest(w, "Invalid form data", err)
		return
	}
	name := r.Form.Get("name")
	homeAndAway := r.Form.Get("home_and_away") == "true"

	// Blank rows are leftovers from the form, not teams
	var teamNames []string
	for _, index := range teamFieldIndices(r) {
		if teamName := strings.TrimSpace(r.Form.Get(teamFieldPrefix + strconv.Itoa(index))); teamName != "" {
			teamNames = append(teamNames, teamName)
		}
	}

	id, err := app.tournaments.CreateTournament(r.Context(), name, teamNames, homeAndAway)
	if err != nil {
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			w.WriteHeader(http.StatusBadRequest)
			views.Render(w, r, views.CreateTournamentPage(validationErr.Message, name, teamNames, homeAndAway))
			return
		}
		handleServiceError(w, "Failed to create tournament", err)
		return
	}

	redirect(w, r, fmt.Sprintf("/tournaments/%s", id))
}

func (app *application) handleTournament(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	data, err := app.tournaments.GetTournamentData(r.Context(), id)
	if err != nil {
		handleServiceError(w, "Failed to get tournament", err)
		return
	}
	views.Render(w, r, views.TournamentView(data))
}

func (app *application) handleTournamentLive(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	data, err := app.tournaments.GetTournamentData(r.Context(), id)
	if err != nil {
		handleServiceError(w, "Failed to get tournament", err)
		return
	}
	views.Render(w, r, views.TournamentLive(data))
}

func (app *application) handleLoadTournament(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := app.tournaments.LoadTournament(r.Context(), id); err != nil {
		handleServiceError(w, "Failed to load tournament", err)
		return
	}
	redirect(w, r, fmt.Sprintf("/tournaments/%s", id))
}

func (app *application) handleDeleteTournament(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := app.tournaments.DeleteTournament(r.Context(), id); err != nil {
		handleServiceError(w, "Failed to delete tournament", err)
		return
	}
	redirect(w, r, "/")
}

func (app *application) handleMatch(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	data, err := app.matches.GetMatchViewData(r.Context(), id)
	if err != nil {
		handleServiceError(w, "Failed to get match data", err)
		return
	}
	views.Render(w, r, views.MatchView(data))
}

func (app *application) handleRecordResult(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		httputil.BadRequest(w, "Invalid form data", err)
		return
	}
	homeGoals, err := strconv.Atoi(r.Form.Get("home_goals"))
	if err != nil {
		httputil.BadRequest(w, "Invalid home goals", err)
		return
	}
	awayGoals, err := strconv.Atoi(r.Form.Get("away_goals"))
	if err != nil {
		httputil.BadRequest(w, "Invalid away goals", err)
		return
	}

	result, err := app.matches.RecordResult(r.Context(), id, homeGoals, awayGoals)
	if err != nil {
		handleServiceError(w, "Failed to record result", err)
		return
	}
	redirect(w, r, fmt.Sprintf("/tournaments/%s", result.TournamentID))
}

func (app *application) handleLiveStandings(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	// Only owners may listen in
	if _, err := app.tournaments.GetStandings(r.Context(), id); err != nil {
		handleServiceError(w, "Failed to open live standings", err)
		return
	}
	app.hub.ServeWs(w, r, live.TournamentRoom(id))
}

type createTournamentRequest struct {
	Name          string   `json:"name"`
	Teams         []string `json:"teams"`
	IsHomeAndAway bool     `json:"isHomeAndAway"`
}

type recordResultRequest struct {
	HomeGoals *int `json:"homeGoals"`
	AwayGoals *int `json:"awayGoals"`
}

func (app *application) apiListTournaments(w http.ResponseWriter, r *http.Request) {
	tournaments, err := app.tournaments.ListTournaments(r.Context())
	if err != nil {
		handleServiceError(w, "Failed to get tournaments", err)
		return
	}
	if tournaments == nil {
		tournaments = []league.TournamentSummary{}
	}
	httputil.JSON(w, http.StatusOK, tournaments)
}

func (app *application) apiCreateTournament(w http.ResponseWriter, r *http.Request) {
	var req createTournamentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.BadRequest(w, "Invalid JSON body", err)
		return
	}

	id, err := app.tournaments.CreateTournament(r.Context(), req.Name, req.Teams, req.IsHomeAndAway)
	if err != nil {
		handleServiceError(w, "Failed to create tournament", err)
		return
	}
	data, err := app.tournaments.GetTournamentData(r.Context(), id)
	if err != nil {
		handleServiceError(w, "Failed to get tournament", err)
		return
	}
	httputil.JSON(w, http.StatusCreated, tournamentResponse(data))
}

func (app *application) apiCurrentTournament(w http.ResponseWriter, r *http.Request) {
	current, err := app.tournaments.GetCurrentTournament(r.Context())
	if err != nil {
		handleServiceError(w, "Failed to get current tournament", err)
		return
	}
	if current == nil {
		httputil.NotFound(w, "No current tournament", nil)
		return
	}
	data, err := app.tournaments.GetTournamentData(r.Context(), current.ID)
	if err != nil {
		handleServiceError(w, "Failed to get tournament", err)
		return
	}
	httputil.JSON(w, http.StatusOK, tournamentResponse(data))
}

func (app *application) apiTournament(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	data, err := app.tournaments.GetTournamentData(r.Context(), id)
	if err != nil {
		handleServiceError(w, "Failed to get tournament", err)
		return
	}
	httputil.JSON(w, http.StatusOK, tournamentResponse(data))
}

func (app *application) apiDeleteTournament(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := app.tournaments.DeleteTournament(r.Context(), id); err != nil {
		handleServiceError(w, "Failed to delete tournament", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (app *application) apiStandings(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	table, err := app.tournaments.GetStandings(r.Context(), id)
	if err != nil {
		handleServiceError(w, "Failed to get standings", err)
		return
	}
	httputil.JSON(w, http.StatusOK, table)
}

func (app *application) apiRecordResult(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req recordResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.BadRequest(w, "Invalid JSON body", err)
		return
	}
	if req.HomeGoals == nil || req.AwayGoals == nil {
		httputil.BadRequest(w, "Both homeGoals and awayGoals are required", nil)
		return
	}

	result, err := app.matches.RecordResult(r.Context(), id, *req.HomeGoals, *req.AwayGoals)
	if err != nil {
		handleServiceError(w, "Failed to record result", err)
		return
	}
	httputil.JSON(w, http.StatusOK, result)
}

type tournamentPayload struct {
	*league.Tournament
	Table       []league.TableEntry `json:"table"`
	IsCurrent   bool                `json:"isCurrent"`
	NextMatchID *uuid.UUID          `json:"nextMatchId"`
}

func tournamentResponse(data *service.TournamentData) tournamentPayload {
	return tournamentPayload{
		Tournament:  data.Tournament,
		Table:       data.Table,
		IsCurrent:   data.IsCurrent,
		NextMatchID: data.NextMatchID,
	}
}

// handleServiceError maps service and store errors onto status codes.
func handleServiceError(w http.ResponseWriter, msg string, err error) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		httputil.BadRequest(w, validationErr.Message, err)
	case errors.Is(err, league.ErrInvalidInput):
		httputil.BadRequest(w, err.Error(), err)
	case errors.Is(err, sql.ErrNoRows):
		httputil.NotFound(w, "Not found", err)
	case errors.Is(err, service.ErrForbidden):
		httputil.Forbidden(w, "This tournament belongs to someone else", err)
	default:
		httputil.InternalServerError(w, msg, err)
	}
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.BadRequest(w, "Invalid ID", err)
		return uuid.Nil, false
	}
	return id, true
}

func teamFieldIndices(r *http.Request) []int {
	var indices []int
	for key := range r.Form {
		if strings.HasPrefix(key, teamFieldPrefix) {
			if index, err := strconv.Atoi(strings.TrimPrefix(key, teamFieldPrefix)); err == nil {
				indices = append(indices, index)
			}
		}
	}
	sort.Ints(indices)
	return indices
}

// redirect sends htmx requests an HX-Redirect and everyone else a 303.
func redirect(w http.ResponseWriter, r *http.Request, url string) {
	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", url)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}

func withProvider(r *http.Request) *http.Request {
	provider := chi.URLParam(r, "provider")
	return r.WithContext(context.WithValue(r.Context(), gothic.ProviderParamKey, provider))
}

func providerNames() []string {
	names := make([]string, 0, len(goth.GetProviders()))
	for name := range goth.GetProviders() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
