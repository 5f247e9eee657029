// internal/repository/users.go
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	commonerrors "yesloans-backend/internal/common/errors"
	"yesloans-backend/internal/common/logger"
	"yesloans-backend/internal/models"
)

// UserRepository persists applicant accounts.
type UserRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewUserRepository(db *sql.DB, log logger.Logger) *UserRepository {
	return &UserRepository{db: db, logger: log}
}

// Create stores a new account. A unique violation on email maps to a
// DUPLICATE_EMAIL error so the handler can answer 400 instead of 500.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.ID = uuid.New().String()
	user.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		user.ID, user.Name, user.Email, user.PasswordHash, user.CreatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return &commonerrors.StandardError{
				Code:      commonerrors.ErrCodeDuplicateEmail,
				Message:   "Email already exists",
				Retryable: false,
				Timestamp: time.Now().UTC(),
			}
		}
		return commonerrors.NewPersistenceError(fmt.Sprintf("insert user: %v", err))
	}

	r.logger.Info("user account created", map[string]interface{}{
		"userId": user.ID,
		"email":  user.Email,
	})
	return nil
}

// GetByEmail looks up an account for login. Unknown emails come back as
// INVALID_CREDENTIALS so callers cannot distinguish them from a bad
// password.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, created_at
		FROM users
		WHERE email = $1`, email).
		Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, &commonerrors.StandardError{
			Code:      commonerrors.ErrCodeInvalidCredentials,
			Message:   "Invalid email or password",
			Retryable: false,
			Timestamp: time.Now().UTC(),
		}
	}
	if err != nil {
		return nil, commonerrors.NewPersistenceError(fmt.Sprintf("query user: %v", err))
	}
	return &user, nil
}
