package repository

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aidhubhq/aidhub/internal/domain"
	"github.com/aidhubhq/aidhub/internal/pagination"
	"github.com/aidhubhq/aidhub/internal/service"
)

type TicketRepository struct {
	db dbtx
}

func NewTicketRepository(pool *pgxpool.Pool) *TicketRepository {
	return &TicketRepository{db: pool}
}

func NewTicketRepositoryWithTx(tx pgx.Tx) *TicketRepository {
	return &TicketRepository{db: tx}
}

const ticketColumns = `id, tenant_id, student_id, subject, status, priority, category, queue_id, assignee_id, channel, created_at, updated_at`

func (r *TicketRepository) Create(ctx context.Context, t *domain.Ticket) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO tickets (`+ticketColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		t.ID, t.TenantID, t.StudentID, t.Subject, t.Status, t.Priority, t.Category,
		nullableString(t.QueueID), nullableString(t.AssigneeID), t.Channel, t.CreatedAt, t.UpdatedAt,
	)
	return err
}

func (r *TicketRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Ticket, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+ticketColumns+` FROM tickets WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	)
	ticket, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTicketNotFound
		}
		return nil, err
	}
	return ticket, nil
}

func (r *TicketRepository) ListWithCursor(ctx context.Context, tenantID string, status domain.TicketStatus, cursor *pagination.Cursor, limit int) (*service.TicketPageResult, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE tenant_id = $1`
	args := []any{tenantID}

	if status != "" {
		args = append(args, status)
		query += ` AND status = $2`
	}
	if cursor != nil {
		query += ` AND (updated_at, id) < ($` + strconv.Itoa(len(args)+1) + `, $` + strconv.Itoa(len(args)+2) + `)`
		args = append(args, cursor.Timestamp, cursor.LastID)
	}
	query += ` ORDER BY updated_at DESC, id DESC LIMIT $` + strconv.Itoa(len(args)+1)
	args = append(args, limit+1)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	hasMore := len(items) > limit
	if hasMore {
		items = items[:limit]
	}

	var nextCursor string
	if hasMore && len(items) > 0 {
		last := items[len(items)-1]
		nextCursor = pagination.EncodeCursor(last.ID, last.UpdatedAt)
	}

	return &service.TicketPageResult{
		Items:      items,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}, nil
}

func (r *TicketRepository) Update(ctx context.Context, t *domain.Ticket) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE tickets
		 SET subject = $1, status = $2, priority = $3, category = $4, queue_id = $5, assignee_id = $6, updated_at = $7
		 WHERE tenant_id = $8 AND id = $9`,
		t.Subject, t.Status, t.Priority, t.Category,
		nullableString(t.QueueID), nullableString(t.AssigneeID), t.UpdatedAt, t.TenantID, t.ID,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrTicketNotFound
	}
	return nil
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var t domain.Ticket
	var queueID, assigneeID pgtype.Text
	err := row.Scan(&t.ID, &t.TenantID, &t.StudentID, &t.Subject, &t.Status, &t.Priority, &t.Category,
		&queueID, &assigneeID, &t.Channel, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if queueID.Valid {
		t.QueueID = queueID.String
	}
	if assigneeID.Valid {
		t.AssigneeID = assigneeID.String
	}
	return &t, nil
}
