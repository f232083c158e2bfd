package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/storefront/internal/server/models"
)

// Repository is the identity store: rows of the users table keyed by username.
//
// FindByUsername returns common.ErrorNotFound when no row matches, Create
// returns common.ErrorAlreadyExists when the username is taken, and
// UpdatePassword returns common.ErrorNotFound when nothing was updated.
// Any other error is a transport/database failure.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	UpdatePassword(ctx context.Context, username string, passwordHash string) error
	TouchLastLogin(ctx context.Context, username string, at time.Time) error
}
