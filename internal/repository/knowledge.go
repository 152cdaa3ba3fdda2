package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aidhubhq/aidhub/internal/domain"
)

type KnowledgeRepository struct {
	db dbtx
}

func NewKnowledgeRepository(pool *pgxpool.Pool) *KnowledgeRepository {
	return &KnowledgeRepository{db: pool}
}

func NewKnowledgeRepositoryWithTx(tx pgx.Tx) *KnowledgeRepository {
	return &KnowledgeRepository{db: tx}
}

func (r *KnowledgeRepository) Create(ctx context.Context, doc *domain.KnowledgeDocument) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO knowledge_documents (id, tenant_id, title, content, category, searchable, tags, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		doc.ID, doc.TenantID, doc.Title, doc.Content, doc.Category, doc.Searchable, doc.Tags, doc.CreatedAt, doc.UpdatedAt,
	)
	return err
}

func (r *KnowledgeRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.KnowledgeDocument, error) {
	var doc domain.KnowledgeDocument
	err := r.db.QueryRow(ctx,
		`SELECT id, tenant_id, title, content, category, searchable, tags, created_at, updated_at
		 FROM knowledge_documents WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	).Scan(&doc.ID, &doc.TenantID, &doc.Title, &doc.Content, &doc.Category, &doc.Searchable, &doc.Tags, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrKnowledgeNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func (r *KnowledgeRepository) ListByTenant(ctx context.Context, tenantID string, category domain.KnowledgeCategory) ([]*domain.KnowledgeDocument, error) {
	query := `SELECT id, tenant_id, title, content, category, searchable, tags, created_at, updated_at
		 FROM knowledge_documents WHERE tenant_id = $1`
	args := []any{tenantID}

	if category != "" {
		query += ` AND category = $2`
		args = append(args, category)
	}
	query += ` ORDER BY updated_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanKnowledgeRows(rows)
}

// FindSearchable returns the documents eligible for relevance ranking, in
// insertion order so tie-breaking stays deterministic.
func (r *KnowledgeRepository) FindSearchable(ctx context.Context, tenantID string, category domain.KnowledgeCategory) ([]*domain.KnowledgeDocument, error) {
	query := `SELECT id, tenant_id, title, content, category, searchable, tags, created_at, updated_at
		 FROM knowledge_documents WHERE tenant_id = $1 AND searchable = TRUE`
	args := []any{tenantID}

	if category != "" {
		query += ` AND category = $2`
		args = append(args, category)
	}
	query += ` ORDER BY created_at ASC, id ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanKnowledgeRows(rows)
}

func (r *KnowledgeRepository) Update(ctx context.Context, doc *domain.KnowledgeDocument) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE knowledge_documents
		 SET title = $1, content = $2, category = $3, searchable = $4, tags = $5, updated_at = $6
		 WHERE tenant_id = $7 AND id = $8`,
		doc.Title, doc.Content, doc.Category, doc.Searchable, doc.Tags, doc.UpdatedAt, doc.TenantID, doc.ID,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrKnowledgeNotFound
	}
	return nil
}

func (r *KnowledgeRepository) Delete(ctx context.Context, tenantID, id string) error {
	cmdTag, err := r.db.Exec(ctx,
		`DELETE FROM knowledge_documents WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrKnowledgeNotFound
	}
	return nil
}

func scanKnowledgeRows(rows pgx.Rows) ([]*domain.KnowledgeDocument, error) {
	var docs []*domain.KnowledgeDocument
	for rows.Next() {
		var doc domain.KnowledgeDocument
		if err := rows.Scan(&doc.ID, &doc.TenantID, &doc.Title, &doc.Content, &doc.Category, &doc.Searchable, &doc.Tags, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, &doc)
	}
	return docs, rows.Err()
}
