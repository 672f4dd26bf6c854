package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/idigest/idigest-server/internal/domain/entity"
	"github.com/idigest/idigest-server/internal/domain/repository"
)

type ClassRepository struct {
	pool *pgxpool.Pool
}

func NewClassRepository(pool *pgxpool.Pool) *ClassRepository {
	return &ClassRepository{pool: pool}
}

// ResolveClassID accepts either the numeric class id or the resource id in
// the same reference string.
func (r *ClassRepository) ResolveClassID(ctx context.Context, ref string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		SELECT class_id FROM classes
		WHERE class_id::text = $1 OR resource_id = $1
		LIMIT 1
	`, ref).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, repository.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

var _ repository.ClassRepository = (*ClassRepository)(nil)

type OrganizationRepository struct {
	pool *pgxpool.Pool
}

func NewOrganizationRepository(pool *pgxpool.Pool) *OrganizationRepository {
	return &OrganizationRepository{pool: pool}
}

func (r *OrganizationRepository) AdminOrganizations(ctx context.Context, userID int64) ([]entity.Organization, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT o.organization_id, o.name
		FROM organizations AS o
		INNER JOIN organization_users AS ou ON ou.organization_id = o.organization_id
		WHERE ou.role = 1 AND ou.user_id = $1
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orgs []entity.Organization
	for rows.Next() {
		var o entity.Organization
		if err := rows.Scan(&o.ID, &o.Name); err != nil {
			return nil, err
		}
		orgs = append(orgs, o)
	}
	return orgs, rows.Err()
}

var _ repository.OrganizationRepository = (*OrganizationRepository)(nil)
