package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/idigest/idigest-server/internal/domain/datakey"
	"github.com/idigest/idigest-server/internal/domain/repository"
	"github.com/idigest/idigest-server/pkg/obscure"
)

// UserDataService serves the polymorphic /user/data surface: the shape of
// the key selects the storage strategy. The userId always comes from
// verified claims, so a caller can only ever touch their own rows.
type UserDataService struct {
	Data    repository.UserDataRepository
	Classes repository.ClassRepository
	Logger  *logrus.Logger
}

func NewUserDataService(data repository.UserDataRepository, classes repository.ClassRepository, logger *logrus.Logger) *UserDataService {
	return &UserDataService{Data: data, Classes: classes, Logger: logger}
}

type chatPayload struct {
	Time *int64 `json:"time"`
}

// topLevelFieldCount reports how many top-level fields the submitted object
// carries. Non-object bodies count zero.
func topLevelFieldCount(body json.RawMessage) int {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return 0
	}
	return len(obj)
}

func (s *UserDataService) resolveClass(ctx context.Context, ref string) (int64, error) {
	classID, err := s.Classes.ResolveClassID(ctx, ref)
	if errors.Is(err, repository.ErrNotFound) {
		return 0, invalidInput("Invalid classId or resourceId!")
	}
	return classID, err
}

// Set stores body under the key, idempotently: every write is an upsert
// keyed by the strategy's primary key.
func (s *UserDataService) Set(ctx context.Context, userID int64, rawKey string, body json.RawMessage) error {
	key, err := datakey.Parse(rawKey)
	if err != nil {
		return invalidInput("Invalid data key")
	}
	if !json.Valid(body) {
		return invalidInput("Invalid input")
	}

	switch key.Kind {
	case datakey.KindChat:
		var p chatPayload
		if err := json.Unmarshal(body, &p); err != nil || p.Time == nil {
			return invalidInput("Missing time field")
		}
		return s.Data.UpsertChatRead(ctx, userID, key.GroupID, *p.Time)

	case datakey.KindNote:
		classID, err := s.resolveClass(ctx, key.ClassRef)
		if err != nil {
			return err
		}
		return s.Data.UpsertNote(ctx, userID, classID, obscure.Encode(string(body)))

	case datakey.KindAnswer:
		classID, err := s.resolveClass(ctx, key.ClassRef)
		if err != nil {
			return err
		}
		count := topLevelFieldCount(body)
		return s.Data.UpsertAnswer(ctx, userID, classID, key.Week, obscure.Encode(string(body)), count)

	default:
		return s.Data.UpsertRecord(ctx, userID, key.Raw, obscure.Encode(string(body)))
	}
}

func (s *UserDataService) decode(stored string) (json.RawMessage, error) {
	plain, err := obscure.Decode(stored)
	if err != nil {
		return nil, fmt.Errorf("decode stored content: %w", err)
	}
	return json.RawMessage(plain), nil
}

// Get returns the content stored under the key. Missing rows, and keys
// that cannot address a row at all, are ErrNotFound.
func (s *UserDataService) Get(ctx context.Context, userID int64, rawKey string) (json.RawMessage, error) {
	key, err := datakey.Parse(rawKey)
	if err != nil {
		return nil, ErrNotFound
	}

	switch key.Kind {
	case datakey.KindChat:
		t, err := s.Data.GetChatRead(ctx, userID, key.GroupID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		return json.Marshal(map[string]int64{"time": t})

	case datakey.KindNote:
		classID, err := s.Classes.ResolveClassID(ctx, key.ClassRef)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		stored, err := s.Data.GetNote(ctx, userID, classID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		return s.decode(stored)

	case datakey.KindAnswer:
		classID, err := s.Classes.ResolveClassID(ctx, key.ClassRef)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		stored, err := s.Data.GetAnswer(ctx, userID, classID, key.Week)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		return s.decode(stored)

	default:
		stored, err := s.Data.GetRecord(ctx, userID, key.Raw)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		return s.decode(stored)
	}
}

// Delete removes the generic record stored under the raw key, whatever its
// shape: the prefixed strategies define no delete of their own, so delete
// always targets the generic table and succeeds silently on missing rows.
func (s *UserDataService) Delete(ctx context.Context, userID int64, rawKey string) error {
	return s.Data.DeleteRecord(ctx, userID, rawKey)
}
