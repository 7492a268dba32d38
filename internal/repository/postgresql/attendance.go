package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.Repository {
	return &attendanceRepositoryImpl{db: db}
}

const attendanceColumns = `
	a.id, a.user_id, a.date, a.check_in_time, a.check_out_time,
	a.check_in_picture_path, a.check_out_picture_path,
	a.check_in_latitude, a.check_in_longitude,
	a.check_out_latitude, a.check_out_longitude,
	a.is_present, a.is_absent, a.is_late_check_in, a.is_early_check_out,
	a.created_at
`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	err := row.Scan(
		&att.ID,
		&att.UserID,
		&att.Date,
		&att.CheckInTime,
		&att.CheckOutTime,
		&att.CheckInPicturePath,
		&att.CheckOutPicturePath,
		&att.CheckInLatitude,
		&att.CheckInLongitude,
		&att.CheckOutLatitude,
		&att.CheckOutLongitude,
		&att.IsPresent,
		&att.IsAbsent,
		&att.IsLateCheckIn,
		&att.IsEarlyCheckOut,
		&att.CreatedAt,
	)
	return att, err
}

// GetByUserAndDate implements attendance.Repository.
func (r *attendanceRepositoryImpl) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.user_id = $1 AND a.date = $2
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, userID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &att, nil
}

// ClaimCheckIn implements attendance.Repository.
//
// The upsert fills an existing row only when it has no check-in yet, so two
// concurrent check-ins for the same (user, date) race on the unique constraint
// and exactly one RETURNING fires. The loser sees no row and gets
// ErrAlreadyCheckedIn.
func (r *attendanceRepositoryImpl) ClaimCheckIn(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances (
			user_id, date, check_in_time, check_in_picture_path,
			check_in_latitude, check_in_longitude,
			is_present, is_absent, is_late_check_in
		)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE, FALSE, $7)
		ON CONFLICT (user_id, date) DO UPDATE
		SET check_in_time = EXCLUDED.check_in_time,
			check_in_picture_path = EXCLUDED.check_in_picture_path,
			check_in_latitude = EXCLUDED.check_in_latitude,
			check_in_longitude = EXCLUDED.check_in_longitude,
			is_present = TRUE,
			is_absent = FALSE,
			is_late_check_in = EXCLUDED.is_late_check_in
		WHERE attendances.check_in_time IS NULL
		RETURNING ` + claimReturningColumns + `
	`

	claimed, err := scanAttendance(q.QueryRow(ctx, query,
		att.UserID,
		att.Date,
		att.CheckInTime,
		att.CheckInPicturePath,
		att.CheckInLatitude,
		att.CheckInLongitude,
		att.IsLateCheckIn,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Attendance{}, err
	}

	return claimed, nil
}

const claimReturningColumns = `
	id, user_id, date, check_in_time, check_out_time,
	check_in_picture_path, check_out_picture_path,
	check_in_latitude, check_in_longitude,
	check_out_latitude, check_out_longitude,
	is_present, is_absent, is_late_check_in, is_early_check_out,
	created_at
`

// Update implements attendance.Repository.
func (r *attendanceRepositoryImpl) Update(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances
		SET check_in_time = $1, check_out_time = $2,
			check_in_picture_path = $3, check_out_picture_path = $4,
			check_in_latitude = $5, check_in_longitude = $6,
			check_out_latitude = $7, check_out_longitude = $8,
			is_present = $9, is_absent = $10,
			is_late_check_in = $11, is_early_check_out = $12
		WHERE id = $13
	`

	tag, err := q.Exec(ctx, query,
		att.CheckInTime,
		att.CheckOutTime,
		att.CheckInPicturePath,
		att.CheckOutPicturePath,
		att.CheckInLatitude,
		att.CheckInLongitude,
		att.CheckOutLatitude,
		att.CheckOutLongitude,
		att.IsPresent,
		att.IsAbsent,
		att.IsLateCheckIn,
		att.IsEarlyCheckOut,
		att.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

// CreateAbsence implements attendance.Repository.
func (r *attendanceRepositoryImpl) CreateAbsence(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, r.db)

	// A row created concurrently (e.g. a late check-in) wins
	query := `
		INSERT INTO attendances (user_id, date, is_present, is_absent)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, date) DO NOTHING
	`

	_, err := q.Exec(ctx, query, att.UserID, att.Date, att.IsPresent, att.IsAbsent)
	return err
}

// ListByUserAndRange implements attendance.Repository.
func (r *attendanceRepositoryImpl) ListByUserAndRange(ctx context.Context, userID string, from, to time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.user_id = $1 AND a.date >= $2 AND a.date <= $3
		ORDER BY a.date ASC
	`

	rows, err := q.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, att)
	}

	return records, rows.Err()
}

// ListActivities implements attendance.Repository.
func (r *attendanceRepositoryImpl) ListActivities(ctx context.Context, filter attendance.ActivityFilter) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `,
			   u.first_name || ' ' || u.last_name AS user_name
		FROM attendances a
		JOIN users u ON u.id = a.user_id
		WHERE 1=1
	`

	var args []interface{}
	argPos := 1

	if filter.UserID != nil {
		query += fmt.Sprintf(" AND a.user_id = $%d", argPos)
		args = append(args, *filter.UserID)
		argPos++
	}
	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND a.date >= $%d", argPos)
		args = append(args, *filter.StartDate)
		argPos++
	}
	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND a.date <= $%d", argPos)
		args = append(args, *filter.EndDate)
		argPos++
	}

	query += " ORDER BY a.date DESC, u.first_name ASC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		var att attendance.Attendance
		if err := rows.Scan(
			&att.ID,
			&att.UserID,
			&att.Date,
			&att.CheckInTime,
			&att.CheckOutTime,
			&att.CheckInPicturePath,
			&att.CheckOutPicturePath,
			&att.CheckInLatitude,
			&att.CheckInLongitude,
			&att.CheckOutLatitude,
			&att.CheckOutLongitude,
			&att.IsPresent,
			&att.IsAbsent,
			&att.IsLateCheckIn,
			&att.IsEarlyCheckOut,
			&att.CreatedAt,
			&att.UserName,
		); err != nil {
			return nil, err
		}
		records = append(records, att)
	}

	return records, rows.Err()
}
