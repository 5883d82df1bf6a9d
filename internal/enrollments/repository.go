package enrollments

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type Enrollment struct {
	ID                 int64     `db:"id" json:"id"`
	LearnerID          int64     `db:"learner_id" json:"learner_id"`
	ContestID          int64     `db:"contest_id" json:"contest_id"`
	DifficultyTier     string    `db:"difficulty_tier" json:"difficulty_tier"`
	QuestionMultiplier float64   `db:"question_multiplier" json:"question_multiplier"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// ActiveEnrollment retorna a inscrição ativa do aluno, ou nil quando ele não
// está inscrito em nenhum concurso.
func (r *Repository) ActiveEnrollment(ctx context.Context, learnerID int64) (*Enrollment, error) {
	query := `
		SELECT id, learner_id, contest_id, difficulty_tier, question_multiplier, created_at
		FROM enrollments
		WHERE learner_id = $1 AND active = true
		ORDER BY created_at DESC
		LIMIT 1
	`

	var enrollment Enrollment
	err := r.db.GetContext(ctx, &enrollment, query, learnerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao buscar inscrição ativa do aluno %d: %w", learnerID, err)
	}
	return &enrollment, nil
}
