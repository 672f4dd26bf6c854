package repository

import "context"

// UserDataRepository persists the four keyed data strategies. Every upsert
// is a single atomic replace-on-conflict statement keyed by the table's
// primary key; gets return ErrNotFound for missing rows.
type UserDataRepository interface {
	UpsertRecord(ctx context.Context, userID int64, name, content string) error
	GetRecord(ctx context.Context, userID int64, name string) (string, error)
	// DeleteRecord removes the row if present; deleting a missing row is not
	// an error.
	DeleteRecord(ctx context.Context, userID int64, name string) error

	UpsertChatRead(ctx context.Context, userID, groupID, lastReadTime int64) error
	GetChatRead(ctx context.Context, userID, groupID int64) (int64, error)

	UpsertNote(ctx context.Context, userID, classID int64, note string) error
	GetNote(ctx context.Context, userID, classID int64) (string, error)

	UpsertAnswer(ctx context.Context, userID, classID int64, week int, answer string, answeredCount int) error
	GetAnswer(ctx context.Context, userID, classID int64, week int) (string, error)
}
