package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aidhubhq/aidhub/internal/domain"
)

// SuggestionRepository stores generation audit records for review and
// evaluation loops.
type SuggestionRepository struct {
	pool *pgxpool.Pool
}

func NewSuggestionRepository(pool *pgxpool.Pool) *SuggestionRepository {
	return &SuggestionRepository{pool: pool}
}

func (r *SuggestionRepository) Create(ctx context.Context, s *domain.Suggestion) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO ai_suggestions (id, tenant_id, ticket_id, type, input_context, output, accepted, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.TenantID, s.TicketID, s.Type, s.InputContext, s.Output, s.Accepted, s.CreatedAt,
	)
	return err
}

func (r *SuggestionRepository) ListByTicket(ctx context.Context, tenantID, ticketID string) ([]*domain.Suggestion, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, tenant_id, ticket_id, type, input_context, output, accepted, created_at
		 FROM ai_suggestions WHERE tenant_id = $1 AND ticket_id = $2 ORDER BY created_at DESC`,
		tenantID, ticketID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var suggestions []*domain.Suggestion
	for rows.Next() {
		var s domain.Suggestion
		if err := rows.Scan(&s.ID, &s.TenantID, &s.TicketID, &s.Type, &s.InputContext, &s.Output, &s.Accepted, &s.CreatedAt); err != nil {
			return nil, err
		}
		suggestions = append(suggestions, &s)
	}
	return suggestions, rows.Err()
}

// MarkAccepted records that an advisor used the suggestion.
func (r *SuggestionRepository) MarkAccepted(ctx context.Context, tenantID, id string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE ai_suggestions SET accepted = TRUE WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSuggestionNotFound
	}
	return nil
}
