package postgresql

import (
	"context"
	"errors"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/leave"
	"github.com/attendly/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.Repository {
	return &leaveRepositoryImpl{db: db}
}

// Create implements leave.Repository.
func (r *leaveRepositoryImpl) Create(ctx context.Context, newLeave leave.Leave) (leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leaves (user_id, leave_type, reason, start_date, end_date, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, user_id, leave_type, reason, start_date, end_date, status,
				  admin_remarks, created_at, updated_at
	`

	var created leave.Leave
	err := q.QueryRow(ctx, query,
		newLeave.UserID,
		newLeave.Type,
		newLeave.Reason,
		newLeave.StartDate,
		newLeave.EndDate,
		newLeave.Status,
	).Scan(
		&created.ID,
		&created.UserID,
		&created.Type,
		&created.Reason,
		&created.StartDate,
		&created.EndDate,
		&created.Status,
		&created.AdminRemarks,
		&created.CreatedAt,
		&created.UpdatedAt,
	)
	if err != nil {
		return leave.Leave{}, err
	}

	return created, nil
}

// GetByID implements leave.Repository.
func (r *leaveRepositoryImpl) GetByID(ctx context.Context, id string) (leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT l.id, l.user_id, l.leave_type, l.reason, l.start_date, l.end_date,
			   l.status, l.admin_remarks, l.created_at, l.updated_at,
			   u.first_name || ' ' || u.last_name AS user_name
		FROM leaves l
		JOIN users u ON u.id = l.user_id
		WHERE l.id = $1
	`

	var found leave.Leave
	err := q.QueryRow(ctx, query, id).Scan(
		&found.ID,
		&found.UserID,
		&found.Type,
		&found.Reason,
		&found.StartDate,
		&found.EndDate,
		&found.Status,
		&found.AdminRemarks,
		&found.CreatedAt,
		&found.UpdatedAt,
		&found.UserName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Leave{}, leave.ErrLeaveNotFound
		}
		return leave.Leave{}, err
	}

	return found, nil
}

// ListByUser implements leave.Repository.
func (r *leaveRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, leave_type, reason, start_date, end_date, status,
			   admin_remarks, created_at, updated_at
		FROM leaves
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leaves []leave.Leave
	for rows.Next() {
		var l leave.Leave
		if err := rows.Scan(
			&l.ID,
			&l.UserID,
			&l.Type,
			&l.Reason,
			&l.StartDate,
			&l.EndDate,
			&l.Status,
			&l.AdminRemarks,
			&l.CreatedAt,
			&l.UpdatedAt,
		); err != nil {
			return nil, err
		}
		leaves = append(leaves, l)
	}

	return leaves, rows.Err()
}

// ListPending implements leave.Repository.
func (r *leaveRepositoryImpl) ListPending(ctx context.Context) ([]leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT l.id, l.user_id, l.leave_type, l.reason, l.start_date, l.end_date,
			   l.status, l.admin_remarks, l.created_at, l.updated_at,
			   u.first_name || ' ' || u.last_name AS user_name
		FROM leaves l
		JOIN users u ON u.id = l.user_id
		WHERE l.status = 'pending'
		ORDER BY l.created_at DESC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leaves []leave.Leave
	for rows.Next() {
		var l leave.Leave
		if err := rows.Scan(
			&l.ID,
			&l.UserID,
			&l.Type,
			&l.Reason,
			&l.StartDate,
			&l.EndDate,
			&l.Status,
			&l.AdminRemarks,
			&l.CreatedAt,
			&l.UpdatedAt,
			&l.UserName,
		); err != nil {
			return nil, err
		}
		leaves = append(leaves, l)
	}

	return leaves, rows.Err()
}

// Update implements leave.Repository.
//
// The status guard makes review exactly-once: only a pending application can
// transition, so when two reviews race on the same row exactly one UPDATE
// matches. The loser affects zero rows and gets ErrAlreadyProcessed.
func (r *leaveRepositoryImpl) Update(ctx context.Context, l leave.Leave) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leaves
		SET status = $1, admin_remarks = $2, updated_at = NOW()
		WHERE id = $3 AND status = 'pending'
	`

	tag, err := q.Exec(ctx, query, l.Status, l.AdminRemarks, l.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrAlreadyProcessed
	}

	return nil
}

// HasApprovedLeaveOn implements leave.Repository.
func (r *leaveRepositoryImpl) HasApprovedLeaveOn(ctx context.Context, userID string, date time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS(
			SELECT 1 FROM leaves
			WHERE user_id = $1 AND status = 'approved'
			  AND start_date <= $2 AND end_date >= $2
		)
	`

	var exists bool
	err := q.QueryRow(ctx, query, userID, date).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}
