package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"auctionhub/api/internal/apperrors"
	"auctionhub/api/internal/models"
)

type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user models.User) error {
	const query = `
		INSERT INTO users (id, password_hash, email, nickname, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	cmd, err := r.db.Exec(ctx, query, user.ID, user.PasswordHash, user.Email, user.Nickname)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.ErrNoRowsAffected
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	const query = `
		SELECT id, password_hash, email, nickname, created_at
		FROM users WHERE id = $1
	`
	row := r.db.QueryRow(ctx, query, id)
	var user models.User
	if err := row.Scan(
		&user.ID,
		&user.PasswordHash,
		&user.Email,
		&user.Nickname,
		&user.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, apperrors.ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	const query = `SELECT COUNT(*) FROM users WHERE id = $1`
	return r.exists(ctx, query, id)
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const query = `SELECT COUNT(*) FROM users WHERE email = $1`
	return r.exists(ctx, query, email)
}

func (r *UserRepository) ExistsByNickname(ctx context.Context, nickname string) (bool, error) {
	const query = `SELECT COUNT(*) FROM users WHERE nickname = $1`
	return r.exists(ctx, query, nickname)
}

func (r *UserRepository) exists(ctx context.Context, query string, arg any) (bool, error) {
	var count int
	if err := r.db.QueryRow(ctx, query, arg).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM users WHERE id = $1`
	cmd, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.ErrNoRowsAffected
	}
	return nil
}

func (r *UserRepository) Statuses(ctx context.Context, userID string) ([]models.UserStatus, error) {
	const query = `SELECT status FROM user_statuses WHERE user_id = $1`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var statuses []models.UserStatus
	for rows.Next() {
		var status models.UserStatus
		if err := rows.Scan(&status); err != nil {
			return nil, err
		}
		statuses = append(statuses, status)
	}
	return statuses, rows.Err()
}

func (r *UserRepository) AddStatus(ctx context.Context, userID string, status models.UserStatus) error {
	const query = `INSERT INTO user_statuses (user_id, status) VALUES ($1, $2)`
	cmd, err := r.db.Exec(ctx, query, userID, status)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.ErrNoRowsAffected
	}
	return nil
}

func (r *UserRepository) DeleteStatus(ctx context.Context, userID string, status models.UserStatus) error {
	const query = `DELETE FROM user_statuses WHERE user_id = $1 AND status = $2`
	cmd, err := r.db.Exec(ctx, query, userID, status)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.ErrNoRowsAffected
	}
	return nil
}

func (r *UserRepository) DeleteStatuses(ctx context.Context, userID string) error {
	const query = `DELETE FROM user_statuses WHERE user_id = $1`
	cmd, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.ErrNoRowsAffected
	}
	return nil
}
