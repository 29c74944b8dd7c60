package ports

import (
	"context"

	"github.com/pulselink/pulselink-api/internal/core/domain"
)

// AuthRepository defines the persistence needed by the credential service.
// FindByEmail returns domain.ErrUserNotFound when no user matches exactly;
// Create returns domain.ErrUserExists when the email is already taken.
type AuthRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
