package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aidhubhq/aidhub/internal/domain"
)

type TenantRepository struct {
	pool *pgxpool.Pool
}

func NewTenantRepository(pool *pgxpool.Pool) *TenantRepository {
	return &TenantRepository{pool: pool}
}

func (r *TenantRepository) Create(ctx context.Context, tenant *domain.Tenant) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO tenants (id, name, slug, domain, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		tenant.ID, tenant.Name, tenant.Slug, nullableString(tenant.Domain), tenant.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrTenantAlreadyExists
		}
		return err
	}
	return nil
}

func (r *TenantRepository) GetByID(ctx context.Context, id string) (*domain.Tenant, error) {
	return r.get(ctx, `SELECT id, name, slug, domain, created_at FROM tenants WHERE id = $1`, id)
}

func (r *TenantRepository) GetByName(ctx context.Context, name string) (*domain.Tenant, error) {
	return r.get(ctx, `SELECT id, name, slug, domain, created_at FROM tenants WHERE name = $1`, name)
}

func (r *TenantRepository) get(ctx context.Context, query, arg string) (*domain.Tenant, error) {
	var tenant domain.Tenant
	var domainName pgtype.Text
	err := r.pool.QueryRow(ctx, query, arg).
		Scan(&tenant.ID, &tenant.Name, &tenant.Slug, &domainName, &tenant.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTenantNotFound
		}
		return nil, err
	}
	if domainName.Valid {
		tenant.Domain = domainName.String
	}
	return &tenant, nil
}

func (r *TenantRepository) List(ctx context.Context) ([]*domain.Tenant, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, slug, domain, created_at FROM tenants ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenants []*domain.Tenant
	for rows.Next() {
		var tenant domain.Tenant
		var domainName pgtype.Text
		if err := rows.Scan(&tenant.ID, &tenant.Name, &tenant.Slug, &domainName, &tenant.CreatedAt); err != nil {
			return nil, err
		}
		if domainName.Valid {
			tenant.Domain = domainName.String
		}
		tenants = append(tenants, &tenant)
	}
	return tenants, rows.Err()
}

func (r *TenantRepository) Delete(ctx context.Context, id string) error {
	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM tenants WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrTenantNotFound
	}
	return nil
}
