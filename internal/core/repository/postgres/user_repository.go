package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/swarajjadhav12/piggybankai-online/internal/core/logger"
	"github.com/swarajjadhav12/piggybankai-online/internal/core/models"
	"github.com/swarajjadhav12/piggybankai-online/internal/core/repository"
)

const userColumns = "id, name, email, phone, created_at"

type postgresUserRepo struct {
	db  *sqlx.DB
	log logger.Logger
}

func NewPostgresUserRepo(db *sqlx.DB, log logger.Logger) repository.UserRepository {
	return &postgresUserRepo{
		db:  db,
		log: log,
	}
}

func (r *postgresUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	return &user, nil
}

func (r *postgresUserRepo) FindByPhone(ctx context.Context, candidates []string, last10 string) (*models.User, error) {
	if len(candidates) == 0 && last10 == "" {
		return nil, repository.ErrUserNotFound
	}

	var user models.User
	// The suffix check strips formatting from the stored number before
	// comparing, so "+1 (555) 010-0100" matches a bare "5550100100" input.
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE phone = ANY($1)
		   OR ($2 <> '' AND regexp_replace(phone, '\D', '', 'g') LIKE '%' || $2 || '%')
		ORDER BY phone
		LIMIT 1`
	err := r.db.GetContext(ctx, &user, query, pq.Array(candidates), last10)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("error finding user by phone: %w", err)
	}

	return &user, nil
}
