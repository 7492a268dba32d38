package postgresql

import (
	"context"
	"errors"

	"github.com/attendly/attendance-backend-go/internal/domain/user"
	"github.com/attendly/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.Repository {
	return &userRepositoryImpl{db: db}
}

// Create implements user.Repository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO users (
			first_name, last_name, email, password_hash, domain, address,
			profile_picture_path, is_admin
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, first_name, last_name, email, password_hash, domain, address,
				  profile_picture_path, is_admin, created_at, updated_at
	`

	var created user.User
	err := q.QueryRow(ctx, query,
		newUser.FirstName,
		newUser.LastName,
		newUser.Email,
		newUser.PasswordHash,
		newUser.Domain,
		newUser.Address,
		newUser.ProfilePicturePath,
		newUser.IsAdmin,
	).Scan(
		&created.ID,
		&created.FirstName,
		&created.LastName,
		&created.Email,
		&created.PasswordHash,
		&created.Domain,
		&created.Address,
		&created.ProfilePicturePath,
		&created.IsAdmin,
		&created.CreatedAt,
		&created.UpdatedAt,
	)
	if err != nil {
		return user.User{}, err
	}

	return created, nil
}

// GetByID implements user.Repository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, first_name, last_name, email, password_hash, domain, address,
			   profile_picture_path, is_admin, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var found user.User
	err := q.QueryRow(ctx, query, id).Scan(
		&found.ID,
		&found.FirstName,
		&found.LastName,
		&found.Email,
		&found.PasswordHash,
		&found.Domain,
		&found.Address,
		&found.ProfilePicturePath,
		&found.IsAdmin,
		&found.CreatedAt,
		&found.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, err
	}

	return found, nil
}

// GetByEmail implements user.Repository.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, first_name, last_name, email, password_hash, domain, address,
			   profile_picture_path, is_admin, created_at, updated_at
		FROM users
		WHERE LOWER(email) = LOWER($1)
	`

	var found user.User
	err := q.QueryRow(ctx, query, email).Scan(
		&found.ID,
		&found.FirstName,
		&found.LastName,
		&found.Email,
		&found.PasswordHash,
		&found.Domain,
		&found.Address,
		&found.ProfilePicturePath,
		&found.IsAdmin,
		&found.CreatedAt,
		&found.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, err
	}

	return found, nil
}

// EmailExists implements user.Repository.
func (r *userRepositoryImpl) EmailExists(ctx context.Context, email string, excludeID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1) AND id::text <> $2)`

	var exists bool
	err := q.QueryRow(ctx, query, email, excludeID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// Update implements user.Repository.
func (r *userRepositoryImpl) Update(ctx context.Context, u user.User) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users
		SET first_name = $1, last_name = $2, email = $3, password_hash = $4,
			domain = $5, address = $6, profile_picture_path = $7, is_admin = $8,
			updated_at = NOW()
		WHERE id = $9
	`

	tag, err := q.Exec(ctx, query,
		u.FirstName,
		u.LastName,
		u.Email,
		u.PasswordHash,
		u.Domain,
		u.Address,
		u.ProfilePicturePath,
		u.IsAdmin,
		u.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}

	return nil
}

// List implements user.Repository.
func (r *userRepositoryImpl) List(ctx context.Context) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, first_name, last_name, email, password_hash, domain, address,
			   profile_picture_path, is_admin, created_at, updated_at
		FROM users
		ORDER BY first_name, last_name
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		var u user.User
		if err := rows.Scan(
			&u.ID,
			&u.FirstName,
			&u.LastName,
			&u.Email,
			&u.PasswordHash,
			&u.Domain,
			&u.Address,
			&u.ProfilePicturePath,
			&u.IsAdmin,
			&u.CreatedAt,
			&u.UpdatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, rows.Err()
}
