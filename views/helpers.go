package views

import (
	"context"

	"github.com/AdamBeresnev/league-tracker/internal/middleware"
	users "github.com/AdamBeresnev/league-tracker/internal/user"
)

func GetUser(ctx context.Context) *users.User {
	return middleware.GetAuthenticatedUser(ctx)
}
