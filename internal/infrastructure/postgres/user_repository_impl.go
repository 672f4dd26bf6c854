package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/idigest/idigest-server/internal/domain/entity"
	"github.com/idigest/idigest-server/internal/domain/repository"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (login_id, login_id_type, display_name, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING user_id, created_at, updated_at
	`, u.LoginID, u.LoginIDType, u.DisplayName, u.PasswordHash)

	return row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	u := &entity.User{}

	row := r.pool.QueryRow(ctx, `
		SELECT user_id, login_id, login_id_type, display_name, password_hash,
		       reset_token, reset_token_time, created_at, updated_at
		FROM users
		WHERE user_id = $1
	`, id)

	if err := row.Scan(&u.ID, &u.LoginID, &u.LoginIDType, &u.DisplayName,
		&u.PasswordHash, &u.ResetToken, &u.ResetTokenTime, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return u, nil
}

func (r *UserRepository) GetByLoginOrResetToken(ctx context.Context, loginID, credential string) (*entity.User, error) {
	u := &entity.User{}

	// Matching on reset_token lets a previously issued token act as a
	// one-time password in the credential field. Empty tokens never match
	// because login rejects empty credentials first.
	row := r.pool.QueryRow(ctx, `
		SELECT user_id, login_id, login_id_type, display_name, password_hash,
		       reset_token, reset_token_time, created_at, updated_at
		FROM users
		WHERE login_id = $1 OR (reset_token <> '' AND reset_token = $2)
		LIMIT 1
	`, loginID, credential)

	if err := row.Scan(&u.ID, &u.LoginID, &u.LoginIDType, &u.DisplayName,
		&u.PasswordHash, &u.ResetToken, &u.ResetTokenTime, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return u, nil
}

func (r *UserRepository) ExistsByLoginID(ctx context.Context, loginID string) (bool, error) {
	var one int
	err := r.pool.QueryRow(ctx, `SELECT 1 FROM users WHERE login_id = $1 LIMIT 1`, loginID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *UserRepository) UpdateDisplayName(ctx context.Context, id int64, displayName string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users SET display_name = $1, updated_at = now() WHERE user_id = $2
	`, displayName, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() != 1 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET password_hash = $1, reset_token = '', reset_token_time = NULL, updated_at = now()
		WHERE user_id = $2
	`, passwordHash, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() != 1 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) SetResetToken(ctx context.Context, loginID, token string) error {
	// Only email-type logins can receive a reset mail.
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET reset_token = $1, reset_token_time = now(), updated_at = now()
		WHERE login_id_type = $2 AND login_id = $3
	`, token, entity.LoginIDTypeEmail, loginID)
	if err != nil {
		return err
	}
	if res.RowsAffected() != 1 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
