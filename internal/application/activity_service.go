package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/idigest/idigest-server/internal/domain/entity"
	"github.com/idigest/idigest-server/internal/domain/repository"
)

// ActivityService covers the supporting account surface: device
// registration for push delivery, invite candidate listing, and the
// group/message sync payload.
type ActivityService struct {
	Devices  repository.DeviceRepository
	Groups   repository.GroupRepository
	Messages repository.MessageRepository
	Logger   *logrus.Logger
}

func NewActivityService(devices repository.DeviceRepository, groups repository.GroupRepository, messages repository.MessageRepository, logger *logrus.Logger) *ActivityService {
	return &ActivityService{Devices: devices, Groups: groups, Messages: messages, Logger: logger}
}

func (s *ActivityService) RegisterDevice(ctx context.Context, userID int64, token string) error {
	if token == "" {
		return invalidInput("Missing token!")
	}
	return s.Devices.Replace(ctx, userID, token)
}

func (s *ActivityService) UnregisterDevice(ctx context.Context, userID int64, token string) error {
	if token == "" {
		return invalidInput("Missing token!")
	}
	return s.Devices.Delete(ctx, userID, token)
}

func (s *ActivityService) InviteCandidates(ctx context.Context, userID int64) ([]entity.InviteCandidate, error) {
	return s.Groups.InviteCandidates(ctx, userID)
}

// Update is the sync payload: the user's active study groups plus their
// pending messages, newest first.
type Update struct {
	Groups   []entity.StudyGroup
	Messages []entity.UserMessage
}

func (s *ActivityService) GetUpdate(ctx context.Context, userID int64) (*Update, error) {
	groups, err := s.Groups.GroupsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	messages, err := s.Messages.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Update{Groups: groups, Messages: messages}, nil
}

// DeleteMessages purges the user's messages up to and including fromID.
func (s *ActivityService) DeleteMessages(ctx context.Context, userID, fromID int64) error {
	return s.Messages.DeleteUpTo(ctx, userID, fromID)
}
