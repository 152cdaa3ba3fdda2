package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aidhubhq/aidhub/internal/domain"
)

type StudentRepository struct {
	pool *pgxpool.Pool
}

func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

const studentColumns = `id, tenant_id, email, name, student_id, phone, notes, sis_url, created_at`

func (r *StudentRepository) Create(ctx context.Context, st *domain.Student) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO students (`+studentColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		st.ID, st.TenantID, st.Email, st.Name, nullableString(st.StudentID),
		nullableString(st.Phone), nullableString(st.Notes), nullableString(st.SISURL), st.CreatedAt,
	)
	return err
}

func (r *StudentRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Student, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+studentColumns+` FROM students WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	)
	return scanStudentRow(row)
}

func (r *StudentRepository) GetByEmail(ctx context.Context, tenantID, email string) (*domain.Student, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+studentColumns+` FROM students WHERE tenant_id = $1 AND email = $2`,
		tenantID, email,
	)
	return scanStudentRow(row)
}

func scanStudentRow(row pgx.Row) (*domain.Student, error) {
	var st domain.Student
	var studentID, phone, notes, sisURL pgtype.Text
	err := row.Scan(&st.ID, &st.TenantID, &st.Email, &st.Name, &studentID, &phone, &notes, &sisURL, &st.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrStudentNotFound
		}
		return nil, err
	}
	if studentID.Valid {
		st.StudentID = studentID.String
	}
	if phone.Valid {
		st.Phone = phone.String
	}
	if notes.Valid {
		st.Notes = notes.String
	}
	if sisURL.Valid {
		st.SISURL = sisURL.String
	}
	return &st, nil
}

func (r *StudentRepository) ListByTenant(ctx context.Context, tenantID string) ([]*domain.Student, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+studentColumns+` FROM students WHERE tenant_id = $1 ORDER BY name ASC`,
		tenantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []*domain.Student
	for rows.Next() {
		st, err := scanStudentRow(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, st)
	}
	return students, rows.Err()
}

func (r *StudentRepository) Update(ctx context.Context, st *domain.Student) error {
	cmdTag, err := r.pool.Exec(ctx,
		`UPDATE students SET email = $1, name = $2, student_id = $3, phone = $4, notes = $5, sis_url = $6
		 WHERE tenant_id = $7 AND id = $8`,
		st.Email, st.Name, nullableString(st.StudentID), nullableString(st.Phone),
		nullableString(st.Notes), nullableString(st.SISURL), st.TenantID, st.ID,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrStudentNotFound
	}
	return nil
}

type StudentEventRepository struct {
	pool *pgxpool.Pool
}

func NewStudentEventRepository(pool *pgxpool.Pool) *StudentEventRepository {
	return &StudentEventRepository{pool: pool}
}

func (r *StudentEventRepository) Create(ctx context.Context, ev *domain.StudentEvent) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO student_events (id, tenant_id, student_id, ticket_id, event_type, content, created_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		ev.ID, ev.TenantID, ev.StudentID, nullableString(ev.TicketID),
		ev.EventType, ev.Content, nullableString(ev.CreatedBy), ev.CreatedAt,
	)
	return err
}

func (r *StudentEventRepository) ListByStudent(ctx context.Context, tenantID, studentID string) ([]*domain.StudentEvent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, tenant_id, student_id, ticket_id, event_type, content, created_by, created_at
		 FROM student_events WHERE tenant_id = $1 AND student_id = $2 ORDER BY created_at DESC`,
		tenantID, studentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*domain.StudentEvent
	for rows.Next() {
		var ev domain.StudentEvent
		var ticketID, createdBy pgtype.Text
		if err := rows.Scan(&ev.ID, &ev.TenantID, &ev.StudentID, &ticketID, &ev.EventType, &ev.Content, &createdBy, &ev.CreatedAt); err != nil {
			return nil, err
		}
		if ticketID.Valid {
			ev.TicketID = ticketID.String
		}
		if createdBy.Valid {
			ev.CreatedBy = createdBy.String
		}
		events = append(events, &ev)
	}
	return events, rows.Err()
}
