package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ridloal/mini-store/internal/platform/apperr"
	"github.com/ridloal/mini-store/internal/platform/auth"
	"github.com/ridloal/mini-store/internal/platform/database"
	"github.com/ridloal/mini-store/internal/platform/logger"
	"github.com/ridloal/mini-store/internal/user/domain"
)

var (
	ErrUserNotFound      = apperr.New(apperr.ErrNotFound, "user not found")
	ErrUserConflict      = apperr.New(apperr.ErrConflict, "username already exists")
	ErrStatusChanged     = apperr.New(apperr.ErrInvalidTransition, "account status changed concurrently")
	ErrRefreshTokenTaken = apperr.New(apperr.ErrConflict, "refresh token collision")
)

const userColumns = `id, user_name, full_name, password_hash, password_salt, role, status,
	refresh_token, refresh_token_expiry, created_at, deleted_at`

type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, id string, includeDeleted bool) (*domain.User, error)
	GetUserByUserName(ctx context.Context, userName string, includeDeleted bool) (*domain.User, error)
	GetUserByRefreshToken(ctx context.Context, token string) (*domain.User, error)
	ListUsersByRole(ctx context.Context, role auth.Role, includeDeleted bool) ([]domain.User, error)
	CountByRole(ctx context.Context, role auth.Role) (int, error)
	// UpdateUserStatus moves the account from one status to another. It fails with
	// ErrStatusChanged when the stored status is no longer from.
	UpdateUserStatus(ctx context.Context, id string, from, to domain.Status, deletedAt *time.Time) error
	UpdateRefreshToken(ctx context.Context, id string, token *string, expiry *time.Time) error
	// DeactivateUser disables an Active account and revokes its refresh token.
	DeactivateUser(ctx context.Context, id string, at time.Time) error
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	u := &domain.User{}
	var refreshToken sql.NullString
	var refreshExpiry, deletedAt sql.NullTime
	err := row.Scan(
		&u.ID, &u.UserName, &u.FullName, &u.PasswordHash, &u.PasswordSalt, &u.Role, &u.Status,
		&refreshToken, &refreshExpiry, &u.CreatedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}
	if refreshToken.Valid {
		u.RefreshToken = &refreshToken.String
	}
	if refreshExpiry.Valid {
		u.RefreshTokenExpiry = &refreshExpiry.Time
	}
	if deletedAt.Valid {
		u.DeletedAt = &deletedAt.Time
	}
	return u, nil
}

func (r *postgresUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	if user.Status == "" {
		user.Status = domain.StatusActive
	}

	query := `INSERT INTO users (id, user_name, full_name, password_hash, password_salt, role, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.UserName, user.FullName, user.PasswordHash, user.PasswordSalt, user.Role, user.Status, user.CreatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrUserConflict
		}
		logger.Error("CreateUser: failed to insert user", err)
		return err
	}
	return nil
}

func (r *postgresUserRepository) getUserBy(ctx context.Context, field string, value any, includeDeleted bool) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + field + ` = $1 AND ($2 OR status <> 'Deleted')`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, value, includeDeleted))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		logger.Error("GetUserBy: query failed", err, zap.String("field", field))
		return nil, err
	}
	return user, nil
}

func (r *postgresUserRepository) GetUserByID(ctx context.Context, id string, includeDeleted bool) (*domain.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrUserNotFound
	}
	return r.getUserBy(ctx, "id", id, includeDeleted)
}

func (r *postgresUserRepository) GetUserByUserName(ctx context.Context, userName string, includeDeleted bool) (*domain.User, error) {
	return r.getUserBy(ctx, "user_name", userName, includeDeleted)
}

func (r *postgresUserRepository) GetUserByRefreshToken(ctx context.Context, token string) (*domain.User, error) {
	return r.getUserBy(ctx, "refresh_token", token, false)
}

func (r *postgresUserRepository) ListUsersByRole(ctx context.Context, role auth.Role, includeDeleted bool) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		WHERE role = $1 AND ($2 OR status <> 'Deleted')
		ORDER BY created_at DESC, id`
	rows, err := r.db.QueryContext(ctx, query, role, includeDeleted)
	if err != nil {
		logger.Error("ListUsersByRole: query failed", err)
		return nil, err
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			logger.Error("ListUsersByRole: scan failed", err)
			return nil, err
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *postgresUserRepository) CountByRole(ctx context.Context, role auth.Role) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, role).Scan(&n); err != nil {
		logger.Error("CountByRole: query failed", err)
		return 0, err
	}
	return n, nil
}

func (r *postgresUserRepository) UpdateUserStatus(ctx context.Context, id string, from, to domain.Status, deletedAt *time.Time) error {
	query := `UPDATE users SET status = $3, deleted_at = $4 WHERE id = $1 AND status = $2`
	res, err := r.db.ExecContext(ctx, query, id, from, to, deletedAt)
	if err != nil {
		logger.Error("UpdateUserStatus: exec failed", err, zap.String("user_id", id), zap.String("to", string(to)))
		return err
	}
	return expectOneRow(res, ErrStatusChanged)
}

func (r *postgresUserRepository) UpdateRefreshToken(ctx context.Context, id string, token *string, expiry *time.Time) error {
	query := `UPDATE users SET refresh_token = $2, refresh_token_expiry = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, token, expiry)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrRefreshTokenTaken
		}
		logger.Error("UpdateRefreshToken: exec failed", err, zap.String("user_id", id))
		return err
	}
	return expectOneRow(res, ErrUserNotFound)
}

func (r *postgresUserRepository) DeactivateUser(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE users
		SET status = $2, deleted_at = $3, refresh_token = NULL, refresh_token_expiry = NULL
		WHERE id = $1 AND status = $4`
	res, err := r.db.ExecContext(ctx, query, id, domain.StatusDisabled, at, domain.StatusActive)
	if err != nil {
		logger.Error("DeactivateUser: exec failed", err, zap.String("user_id", id))
		return err
	}
	return expectOneRow(res, ErrStatusChanged)
}

func expectOneRow(res sql.Result, none error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return none
	}
	return nil
}
