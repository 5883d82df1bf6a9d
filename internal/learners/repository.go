package learners

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateLearner(ctx context.Context, login string, passwordHash string, email *string) (*Learner, error) {
	query := `
		INSERT INTO learners (login, password_hash, email, telegram_ids)
		VALUES ($1, $2, $3, $4)
		RETURNING id, login, email, password_hash, telegram_ids, created_at, updated_at
	`

	initialTelegramIDs := pq.Int64Array{}
	var learner Learner
	err := r.db.GetContext(ctx, &learner, query, login, passwordHash, email, initialTelegramIDs)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar aluno: %w", err)
	}
	return &learner, nil
}

func (r *Repository) GetLearnerByLogin(ctx context.Context, login string) (*Learner, error) {
	query := `
		SELECT id, login, email, password_hash, telegram_ids, created_at, updated_at
		FROM learners
		WHERE login = $1
	`
	var learner Learner
	err := r.db.GetContext(ctx, &learner, query, login)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao buscar aluno pelo login: %w", err)
	}
	return &learner, nil
}

func (r *Repository) GetLearnerByID(ctx context.Context, id int64) (*Learner, error) {
	query := `
		SELECT id, login, email, password_hash, telegram_ids, created_at, updated_at
		FROM learners
		WHERE id = $1
	`
	var learner Learner
	err := r.db.GetContext(ctx, &learner, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao buscar aluno pelo ID: %w", err)
	}
	return &learner, nil
}

func (r *Repository) LearnerExistsByID(ctx context.Context, id int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM learners WHERE id = $1)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, id)
	if err != nil {
		return false, fmt.Errorf("erro ao verificar existência do aluno %d: %w", id, err)
	}
	return exists, nil
}

func (r *Repository) AddTelegramIDToLearner(ctx context.Context, learnerID int64, telegramID int64) (pq.Int64Array, error) {
	query := `
		UPDATE learners
		SET telegram_ids = array_append(COALESCE(telegram_ids, '{}'), $2)
		WHERE id = $1
		AND NOT ($2 = ANY(COALESCE(telegram_ids, '{}')))
		RETURNING telegram_ids
	`

	var updatedTelegramIDs pq.Int64Array
	err := r.db.GetContext(ctx, &updatedTelegramIDs, query, learnerID, telegramID)
	if err != nil {
		if err == sql.ErrNoRows {
			currentLearner, getErr := r.GetLearnerByID(ctx, learnerID)
			if getErr != nil {
				return nil, fmt.Errorf("erro ao buscar aluno %d após tentativa de vincular telegram_id: %w", learnerID, getErr)
			}
			if currentLearner == nil {
				return nil, fmt.Errorf("aluno com ID %d não encontrado ao vincular telegram_id", learnerID)
			}
			return currentLearner.TelegramIDs, nil
		}
		return nil, fmt.Errorf("erro ao vincular telegram_id %d ao aluno %d: %w", telegramID, learnerID, err)
	}
	return updatedTelegramIDs, nil
}

func (r *Repository) GetLearnerByTelegramID(ctx context.Context, telegramID int64) (*Learner, error) {
	query := `
		SELECT id, login, email, password_hash, telegram_ids, created_at, updated_at
		FROM learners
		WHERE $1 = ANY(telegram_ids)
		LIMIT 1
	`
	var learner Learner
	err := r.db.GetContext(ctx, &learner, query, telegramID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao buscar aluno pelo telegram_id %d: %w", telegramID, err)
	}
	return &learner, nil
}
