package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	users "github.com/AdamBeresnev/league-tracker/internal/user"
	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUsers map[uuid.UUID]*users.User

func (s stubUsers) GetUser(_ context.Context, id uuid.UUID) (*users.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func TestRequireAuth(t *testing.T) {
	handler := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	testCases := []struct {
		name     string
		path     string
		userID   *uuid.UUID
		expected int
	}{
		{name: "page without user redirects", path: "/", expected: http.StatusFound},
		{name: "api without user is unauthorized", path: "/api/tournaments/x", expected: http.StatusUnauthorized},
		{name: "user passes through", path: "/", userID: &users.GuestID, expected: http.StatusNoContent},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.userID != nil {
				req = req.WithContext(WithUserID(req.Context(), *tc.userID))
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tc.expected, rec.Code)
		})
	}
}

func TestLoadAuthenticatedUser(t *testing.T) {
	sessionManager := scs.New()
	guest := &users.User{ID: users.GuestID, Username: "Guest User"}

	var gotID uuid.UUID
	var gotUser *users.User
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = GetUserIDFromContext(r.Context())
		gotUser = GetAuthenticatedUser(r.Context())
	})

	login := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionManager.Put(r.Context(), SessionUserKey, users.GuestID.String())
	})

	loginRec := httptest.NewRecorder()
	sessionManager.LoadAndSave(login).ServeHTTP(loginRec, httptest.NewRequest(http.MethodPost, "/auth/guest", nil))
	cookies := loginRec.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	handler := sessionManager.LoadAndSave(LoadAuthenticatedUser(sessionManager, stubUsers{users.GuestID: guest})(inner))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, users.GuestID, gotID)
	assert.Same(t, guest, gotUser)
}
