package repository

import (
	"context"

	"github.com/idigest/idigest-server/internal/domain/entity"
)

// UserRepository defines the interface for user account persistence.
type UserRepository interface {
	// Create inserts a new user and fills in the generated ID.
	Create(ctx context.Context, u *entity.User) error

	GetByID(ctx context.Context, id int64) (*entity.User, error)

	// GetByLoginOrResetToken matches a single row whose loginId equals
	// loginID or whose stored reset token equals credential. The dual lookup
	// is what lets a reset token act as a one-time password.
	GetByLoginOrResetToken(ctx context.Context, loginID, credential string) (*entity.User, error)

	ExistsByLoginID(ctx context.Context, loginID string) (bool, error)

	// UpdateDisplayName fails with ErrNotFound unless exactly one row changes.
	UpdateDisplayName(ctx context.Context, id int64, displayName string) error

	// UpdatePassword stores a new hash and clears any pending reset token.
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error

	// SetResetToken stores token and its issuance time on the single
	// email-type row with the given loginId; ErrNotFound if none matches.
	SetResetToken(ctx context.Context, loginID, token string) error
}

// OrganizationRepository resolves administrative role and org membership.
type OrganizationRepository interface {
	// AdminOrganizations lists organizations the user administers (role 1).
	AdminOrganizations(ctx context.Context, userID int64) ([]entity.Organization, error)
}

// ClassRepository is the lookup collaborator for notes/answer keys.
type ClassRepository interface {
	// ResolveClassID resolves a classId-or-resourceId reference to the
	// canonical class id; ErrNotFound when nothing matches.
	ResolveClassID(ctx context.Context, ref string) (int64, error)
}
