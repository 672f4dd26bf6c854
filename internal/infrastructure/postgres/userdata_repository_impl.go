package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/idigest/idigest-server/internal/domain/repository"
)

// UserDataRepository backs the four keyed storage strategies. Every write is
// a single INSERT ... ON CONFLICT DO UPDATE so concurrent sets on the same
// key resolve last-write-wins without a transaction.
type UserDataRepository struct {
	pool *pgxpool.Pool
}

func NewUserDataRepository(pool *pgxpool.Pool) *UserDataRepository {
	return &UserDataRepository{pool: pool}
}

func (r *UserDataRepository) UpsertRecord(ctx context.Context, userID int64, name, content string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_data (user_id, name, content)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, name) DO UPDATE SET content = EXCLUDED.content
	`, userID, name, content)
	return err
}

func (r *UserDataRepository) GetRecord(ctx context.Context, userID int64, name string) (string, error) {
	var content string
	err := r.pool.QueryRow(ctx, `
		SELECT content FROM user_data WHERE user_id = $1 AND name = $2
	`, userID, name).Scan(&content)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", repository.ErrNotFound
	}
	return content, err
}

func (r *UserDataRepository) DeleteRecord(ctx context.Context, userID int64, name string) error {
	// No existence check: deleting an absent row succeeds silently.
	_, err := r.pool.Exec(ctx, `
		DELETE FROM user_data WHERE user_id = $1 AND name = $2
	`, userID, name)
	return err
}

func (r *UserDataRepository) UpsertChatRead(ctx context.Context, userID, groupID, lastReadTime int64) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_chat_last_read (user_id, study_group_id, last_read_time)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, study_group_id) DO UPDATE SET last_read_time = EXCLUDED.last_read_time
	`, userID, groupID, lastReadTime)
	return err
}

func (r *UserDataRepository) GetChatRead(ctx context.Context, userID, groupID int64) (int64, error) {
	var t int64
	err := r.pool.QueryRow(ctx, `
		SELECT last_read_time FROM user_chat_last_read
		WHERE user_id = $1 AND study_group_id = $2
	`, userID, groupID).Scan(&t)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, repository.ErrNotFound
	}
	return t, err
}

func (r *UserDataRepository) UpsertNote(ctx context.Context, userID, classID int64, note string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_notes (user_id, class_id, note, update_time)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id, class_id) DO UPDATE
		SET note = EXCLUDED.note, update_time = now()
	`, userID, classID, note)
	return err
}

func (r *UserDataRepository) GetNote(ctx context.Context, userID, classID int64) (string, error) {
	var note string
	err := r.pool.QueryRow(ctx, `
		SELECT note FROM user_notes WHERE user_id = $1 AND class_id = $2
	`, userID, classID).Scan(&note)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", repository.ErrNotFound
	}
	return note, err
}

func (r *UserDataRepository) UpsertAnswer(ctx context.Context, userID, classID int64, week int, answer string, answeredCount int) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_answers (user_id, class_id, week, answer, answer_count, update_time)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (user_id, class_id, week) DO UPDATE
		SET answer = EXCLUDED.answer, answer_count = EXCLUDED.answer_count, update_time = now()
	`, userID, classID, week, answer, answeredCount)
	return err
}

func (r *UserDataRepository) GetAnswer(ctx context.Context, userID, classID int64, week int) (string, error) {
	var answer string
	err := r.pool.QueryRow(ctx, `
		SELECT answer FROM user_answers
		WHERE user_id = $1 AND class_id = $2 AND week = $3
	`, userID, classID, week).Scan(&answer)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", repository.ErrNotFound
	}
	return answer, err
}

var _ repository.UserDataRepository = (*UserDataRepository)(nil)
