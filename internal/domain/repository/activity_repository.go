package repository

import (
	"context"

	"github.com/idigest/idigest-server/internal/domain/entity"
)

// DeviceRepository stores push registration tokens.
type DeviceRepository interface {
	// Replace claims the token for the given user, removing any previous
	// owner first: a device that changes hands must not notify its old user.
	Replace(ctx context.Context, userID int64, token string) error
	Delete(ctx context.Context, userID int64, token string) error
}

// GroupRepository reads study-group membership.
type GroupRepository interface {
	// InviteCandidates lists users sharing an active study group with userID.
	InviteCandidates(ctx context.Context, userID int64) ([]entity.InviteCandidate, error)
	GroupsForUser(ctx context.Context, userID int64) ([]entity.StudyGroup, error)
}

// MessageRepository reads and purges per-user server messages.
type MessageRepository interface {
	// ListByUser returns messages newest first.
	ListByUser(ctx context.Context, userID int64) ([]entity.UserMessage, error)
	// DeleteUpTo removes the user's messages with id <= fromID.
	DeleteUpTo(ctx context.Context, userID, fromID int64) error
}
