package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aidhubhq/aidhub/internal/domain"
)

type MessageRepository struct {
	db dbtx
}

func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: pool}
}

func NewMessageRepositoryWithTx(tx pgx.Tx) *MessageRepository {
	return &MessageRepository{db: tx}
}

func (r *MessageRepository) Create(ctx context.Context, m *domain.Message) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO messages (id, tenant_id, ticket_id, sender_email, recipient_email, subject, body, direction, thread_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		m.ID, m.TenantID, m.TicketID, m.SenderEmail, nullableString(m.RecipientEmail),
		nullableString(m.Subject), m.Body, m.Direction, m.ThreadID, m.CreatedAt,
	)
	return err
}

func (r *MessageRepository) ListByTicket(ctx context.Context, tenantID, ticketID string) ([]*domain.Message, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, tenant_id, ticket_id, sender_email, recipient_email, subject, body, direction, thread_id, created_at
		 FROM messages WHERE tenant_id = $1 AND ticket_id = $2 ORDER BY created_at ASC`,
		tenantID, ticketID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*domain.Message
	for rows.Next() {
		var m domain.Message
		var recipient, subject pgtype.Text
		if err := rows.Scan(&m.ID, &m.TenantID, &m.TicketID, &m.SenderEmail, &recipient,
			&subject, &m.Body, &m.Direction, &m.ThreadID, &m.CreatedAt); err != nil {
			return nil, err
		}
		if recipient.Valid {
			m.RecipientEmail = recipient.String
		}
		if subject.Valid {
			m.Subject = subject.String
		}
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}
