package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/idigest/idigest-server/internal/domain/entity"
	"github.com/idigest/idigest-server/internal/domain/repository"
)

type DeviceRepository struct {
	pool *pgxpool.Pool
}

func NewDeviceRepository(pool *pgxpool.Pool) *DeviceRepository {
	return &DeviceRepository{pool: pool}
}

func (r *DeviceRepository) Replace(ctx context.Context, userID int64, token string) error {
	// The token is the primary key: reclaim it from whichever user held it.
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_devices (token, user_id)
		VALUES ($1, $2)
		ON CONFLICT (token) DO UPDATE SET user_id = EXCLUDED.user_id
	`, token, userID)
	return err
}

func (r *DeviceRepository) Delete(ctx context.Context, userID int64, token string) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM user_devices WHERE user_id = $1 AND token = $2
	`, userID, token)
	return err
}

var _ repository.DeviceRepository = (*DeviceRepository)(nil)

type GroupRepository struct {
	pool *pgxpool.Pool
}

func NewGroupRepository(pool *pgxpool.Pool) *GroupRepository {
	return &GroupRepository{pool: pool}
}

func (r *GroupRepository) InviteCandidates(ctx context.Context, userID int64) ([]entity.InviteCandidate, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT u.display_name, u.login_id
		FROM study_group_users AS sgu
		INNER JOIN users AS u ON u.user_id = sgu.user_id
		WHERE sgu.study_group_id IN
			(SELECT study_group_id FROM study_group_users WHERE user_id = $1 AND status = 1)
		ORDER BY u.display_name ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.InviteCandidate
	for rows.Next() {
		var c entity.InviteCandidate
		if err := rows.Scan(&c.DisplayName, &c.LoginID); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *GroupRepository) GroupsForUser(ctx context.Context, userID int64) ([]entity.StudyGroup, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT sg.study_group_id, sg.name
		FROM study_groups AS sg
		INNER JOIN study_group_users AS sgu ON sgu.study_group_id = sg.study_group_id
		WHERE sgu.user_id = $1 AND sgu.status = 1
		ORDER BY sg.name ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.StudyGroup
	for rows.Next() {
		var g entity.StudyGroup
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

var _ repository.GroupRepository = (*GroupRepository)(nil)

type MessageRepository struct {
	pool *pgxpool.Pool
}

func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{pool: pool}
}

func (r *MessageRepository) ListByUser(ctx context.Context, userID int64) ([]entity.UserMessage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT user_message_id, user_id, date, category, content
		FROM user_messages
		WHERE user_id = $1
		ORDER BY date DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.UserMessage
	for rows.Next() {
		var m entity.UserMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.Date, &m.Category, &m.Content); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *MessageRepository) DeleteUpTo(ctx context.Context, userID, fromID int64) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM user_messages WHERE user_id = $1 AND user_message_id <= $2
	`, userID, fromID)
	return err
}

var _ repository.MessageRepository = (*MessageRepository)(nil)
