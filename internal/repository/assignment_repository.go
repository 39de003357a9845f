package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cloudavize/ticket-relay/internal/domain"
)

// AssignmentRepository persists the audit trail of ticket assignments.
// A nil pool disables persistence; every method becomes a no-op so the
// relay keeps working without a database.
type AssignmentRepository interface {
	Record(ctx context.Context, record *domain.AssignmentRecord) error
	MarkRelayed(ctx context.Context, ticketID int64) error
	ListRecent(ctx context.Context, limit int) ([]domain.AssignmentRecord, error)
	Enabled() bool
}

type assignmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssignmentRepository instantiates the repository.
func NewAssignmentRepository(pool *pgxpool.Pool) AssignmentRepository {
	return &assignmentRepository{pool: pool}
}

func (r *assignmentRepository) Enabled() bool {
	return r.pool != nil
}

func (r *assignmentRepository) Record(ctx context.Context, record *domain.AssignmentRecord) error {
	if r.pool == nil {
		return nil
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	const query = `
        INSERT INTO assignments (id, ticket_id, ticket_number, subject, category, assigned_to, mention_id, priority, status, relayed, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`
	_, err := r.pool.Exec(ctx, query,
		record.ID,
		record.TicketID,
		record.TicketNumber,
		record.Subject,
		record.Category,
		record.AssignedTo,
		record.MentionID,
		record.Priority,
		record.Status,
		record.Relayed,
		record.CreatedAt,
	)
	return err
}

func (r *assignmentRepository) MarkRelayed(ctx context.Context, ticketID int64) error {
	if r.pool == nil {
		return nil
	}
	const query = `UPDATE assignments SET relayed = TRUE WHERE ticket_id = $1`
	_, err := r.pool.Exec(ctx, query, ticketID)
	return err
}

func (r *assignmentRepository) ListRecent(ctx context.Context, limit int) ([]domain.AssignmentRecord, error) {
	if r.pool == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}
	const query = `
        SELECT id, ticket_id, ticket_number, subject, category, assigned_to, mention_id, priority, status, relayed, created_at
        FROM assignments
        ORDER BY created_at DESC
        LIMIT $1`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.AssignmentRecord
	for rows.Next() {
		var rec domain.AssignmentRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.TicketID,
			&rec.TicketNumber,
			&rec.Subject,
			&rec.Category,
			&rec.AssignedTo,
			&rec.MentionID,
			&rec.Priority,
			&rec.Status,
			&rec.Relayed,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
