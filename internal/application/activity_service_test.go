package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/idigest/idigest-server/internal/domain/entity"
)

type fakeDeviceRepo struct {
	owners map[string]int64
}

func (f *fakeDeviceRepo) Replace(_ context.Context, userID int64, token string) error {
	f.owners[token] = userID
	return nil
}

func (f *fakeDeviceRepo) Delete(_ context.Context, userID int64, token string) error {
	if f.owners[token] == userID {
		delete(f.owners, token)
	}
	return nil
}

type fakeGroupRepo struct {
	candidates []entity.InviteCandidate
	groups     []entity.StudyGroup
}

func (f *fakeGroupRepo) InviteCandidates(_ context.Context, _ int64) ([]entity.InviteCandidate, error) {
	return f.candidates, nil
}

func (f *fakeGroupRepo) GroupsForUser(_ context.Context, _ int64) ([]entity.StudyGroup, error) {
	return f.groups, nil
}

type fakeMessageRepo struct {
	messages []entity.UserMessage
}

func (f *fakeMessageRepo) ListByUser(_ context.Context, userID int64) ([]entity.UserMessage, error) {
	var out []entity.UserMessage
	for _, m := range f.messages {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMessageRepo) DeleteUpTo(_ context.Context, userID, fromID int64) error {
	kept := f.messages[:0]
	for _, m := range f.messages {
		if m.UserID != userID || m.ID > fromID {
			kept = append(kept, m)
		}
	}
	f.messages = kept
	return nil
}

func newActivityService(devices *fakeDeviceRepo, groups *fakeGroupRepo, messages *fakeMessageRepo) *ActivityService {
	if devices == nil {
		devices = &fakeDeviceRepo{owners: map[string]int64{}}
	}
	if groups == nil {
		groups = &fakeGroupRepo{}
	}
	if messages == nil {
		messages = &fakeMessageRepo{}
	}
	return NewActivityService(devices, groups, messages, testLogger())
}

func TestRegisterDevice(t *testing.T) {
	devices := &fakeDeviceRepo{owners: map[string]int64{"tok-1": 1}}
	svc := newActivityService(devices, nil, nil)
	ctx := context.Background()

	// a token that changes hands moves to the new owner
	require.NoError(t, svc.RegisterDevice(ctx, 2, "tok-1"))
	require.Equal(t, int64(2), devices.owners["tok-1"])

	err := svc.RegisterDevice(ctx, 1, "")
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Equal(t, "Missing token!", Message(err))
}

func TestUnregisterDevice(t *testing.T) {
	devices := &fakeDeviceRepo{owners: map[string]int64{"tok-1": 1}}
	svc := newActivityService(devices, nil, nil)
	ctx := context.Background()

	require.NoError(t, svc.UnregisterDevice(ctx, 1, "tok-1"))
	require.Empty(t, devices.owners)

	err := svc.UnregisterDevice(ctx, 1, "")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetUpdate(t *testing.T) {
	groups := &fakeGroupRepo{groups: []entity.StudyGroup{{ID: 5, Name: "Genesis"}}}
	messages := &fakeMessageRepo{messages: []entity.UserMessage{
		{ID: 2, UserID: 1, Date: time.Now(), Category: "invite", Content: "join us"},
		{ID: 1, UserID: 1, Date: time.Now().Add(-time.Hour), Category: "system", Content: "welcome"},
		{ID: 3, UserID: 9, Category: "system", Content: "not yours"},
	}}
	svc := newActivityService(nil, groups, messages)

	upd, err := svc.GetUpdate(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, upd.Groups, 1)
	require.Len(t, upd.Messages, 2)
}

func TestDeleteMessages(t *testing.T) {
	messages := &fakeMessageRepo{messages: []entity.UserMessage{
		{ID: 1, UserID: 1},
		{ID: 2, UserID: 1},
		{ID: 3, UserID: 1},
		{ID: 2, UserID: 9},
	}}
	svc := newActivityService(nil, nil, messages)

	require.NoError(t, svc.DeleteMessages(context.Background(), 1, 2))

	require.Len(t, messages.messages, 2)
	require.Equal(t, int64(3), messages.messages[0].ID)
	require.Equal(t, int64(9), messages.messages[1].UserID)
}
