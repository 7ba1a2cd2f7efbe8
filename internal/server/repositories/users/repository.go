package users

import (
	"context"

	"github.com/avelkers/carwash/internal/server/models"
)

// Repository is the credential store contract the auth service depends on.
type Repository interface {
	// Create inserts a new user and returns it with the generated ID.
	// Duplicate email or phone surfaces as common.ErrEmailTaken / ErrPhoneTaken.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail looks a user up by email; common.ErrorNotFound when absent.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByPhone looks a user up by phone number; common.ErrorNotFound when absent.
	GetByPhone(ctx context.Context, phone string) (*models.User, error)

	// GetByID looks a user up by primary key; common.ErrorNotFound when absent.
	GetByID(ctx context.Context, id int64) (*models.User, error)
}
