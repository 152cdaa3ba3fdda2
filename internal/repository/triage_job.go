package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aidhubhq/aidhub/internal/domain"
)

var ErrTriageJobNotFound = errors.New("triage job not found")

type TriageJobRepository struct {
	db dbtx
}

func NewTriageJobRepository(pool *pgxpool.Pool) *TriageJobRepository {
	return &TriageJobRepository{db: pool}
}

func NewTriageJobRepositoryWithTx(tx pgx.Tx) *TriageJobRepository {
	return &TriageJobRepository{db: tx}
}

func (r *TriageJobRepository) Create(ctx context.Context, job *domain.TriageJob) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO triage_jobs (id, tenant_id, ticket_id, status, retries, error, created_at, processed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		job.ID, job.TenantID, job.TicketID, job.Status, job.Retries, nullableString(job.Error), job.CreatedAt, job.ProcessedAt,
	)
	return err
}

func (r *TriageJobRepository) GetByID(ctx context.Context, id string) (*domain.TriageJob, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, tenant_id, ticket_id, status, retries, error, created_at, processed_at
		 FROM triage_jobs WHERE id = $1`,
		id,
	)
	job, err := scanTriageJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTriageJobNotFound
		}
		return nil, err
	}
	return job, nil
}

// ClaimPending atomically takes up to limit pending jobs so concurrent
// workers never process the same ticket twice.
func (r *TriageJobRepository) ClaimPending(ctx context.Context, limit int) ([]*domain.TriageJob, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(ctx,
		`WITH cte AS (
			 SELECT id
			 FROM triage_jobs
			 WHERE status = $1
			 ORDER BY created_at ASC
			 FOR UPDATE SKIP LOCKED
			 LIMIT $2
		 )
		 UPDATE triage_jobs
		 SET status = $3,
		     error = NULL,
		     processed_at = NULL
		 FROM cte
		 WHERE triage_jobs.id = cte.id
		 RETURNING triage_jobs.id, triage_jobs.tenant_id, triage_jobs.ticket_id, triage_jobs.status,
		           triage_jobs.retries, triage_jobs.error, triage_jobs.created_at, triage_jobs.processed_at`,
		domain.TriageJobStatusPending, limit, domain.TriageJobStatusProcessing,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*domain.TriageJob
	for rows.Next() {
		job, err := scanTriageJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func scanTriageJob(row pgx.Row) (*domain.TriageJob, error) {
	var job domain.TriageJob
	var errMsg pgtype.Text
	err := row.Scan(&job.ID, &job.TenantID, &job.TicketID, &job.Status, &job.Retries, &errMsg, &job.CreatedAt, &job.ProcessedAt)
	if err != nil {
		return nil, err
	}
	if errMsg.Valid {
		job.Error = errMsg.String
	}
	return &job, nil
}

func (r *TriageJobRepository) UpdateStatus(ctx context.Context, id string, status domain.TriageJobStatus, errMsg string) error {
	var processedAt *time.Time
	if status == domain.TriageJobStatusCompleted || status == domain.TriageJobStatusFailed {
		now := time.Now().UTC()
		processedAt = &now
	}

	cmdTag, err := r.db.Exec(ctx,
		`UPDATE triage_jobs SET status = $1, error = $2, processed_at = $3 WHERE id = $4`,
		status, nullableString(errMsg), processedAt, id,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrTriageJobNotFound
	}
	return nil
}

func (r *TriageJobRepository) IncrementRetries(ctx context.Context, id string) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE triage_jobs SET retries = retries + 1, status = $1 WHERE id = $2`,
		domain.TriageJobStatusPending, id,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrTriageJobNotFound
	}
	return nil
}
