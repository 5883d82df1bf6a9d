package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/sirupsen/logrus"
)

// Repository expõe leituras dos registros de atividade do aluno. Cada linha
// crua é validada e convertida em uma das quatro variantes antes de chegar ao
// agregador; linhas inválidas são descartadas e registradas no log.
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

type examAttemptRow struct {
	ID          int64          `db:"id"`
	Answers     types.JSONText `db:"answers"`
	CompletedAt time.Time      `db:"completed_at"`
}

func (r *Repository) ExamAttempts(ctx context.Context, learnerID int64) ([]ExamAttempt, error) {
	query := `
		SELECT id, answers, completed_at
		FROM exam_attempts
		WHERE learner_id = $1 AND completed_at IS NOT NULL
	`

	var rows []examAttemptRow
	if err := r.db.SelectContext(ctx, &rows, query, learnerID); err != nil {
		return nil, fmt.Errorf("erro ao buscar simulados do aluno %d: %w", learnerID, err)
	}

	attempts := make([]ExamAttempt, 0, len(rows))
	for _, row := range rows {
		var answers map[string]string
		if err := json.Unmarshal(row.Answers, &answers); err != nil {
			logrus.Warnf("Atividade: simulado %d com respostas em formato inválido, registro descartado: %v", row.ID, err)
			continue
		}
		attempts = append(attempts, ExamAttempt{Answers: answers, CompletedAt: row.CompletedAt})
	}
	return attempts, nil
}

type weeklyResponseRow struct {
	CreatedAt time.Time `db:"created_at"`
}

func (r *Repository) WeeklyResponses(ctx context.Context, learnerID int64) ([]WeeklyResponse, error) {
	query := `
		SELECT created_at
		FROM weekly_responses
		WHERE learner_id = $1
	`

	var rows []weeklyResponseRow
	if err := r.db.SelectContext(ctx, &rows, query, learnerID); err != nil {
		return nil, fmt.Errorf("erro ao buscar respostas semanais do aluno %d: %w", learnerID, err)
	}

	responses := make([]WeeklyResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, WeeklyResponse{CreatedAt: row.CreatedAt})
	}
	return responses, nil
}

type flashcardStateRow struct {
	ID     int64  `db:"id"`
	Status string `db:"status"`
}

func (r *Repository) FlashcardStates(ctx context.Context, learnerID int64) ([]FlashcardState, error) {
	query := `
		SELECT id, status
		FROM flashcard_states
		WHERE learner_id = $1
	`

	var rows []flashcardStateRow
	if err := r.db.SelectContext(ctx, &rows, query, learnerID); err != nil {
		return nil, fmt.Errorf("erro ao buscar flashcards do aluno %d: %w", learnerID, err)
	}

	states := make([]FlashcardState, 0, len(rows))
	for _, row := range rows {
		status, err := ParseFlashcardStatus(row.Status)
		if err != nil {
			logrus.Warnf("Atividade: flashcard %d descartado: %v", row.ID, err)
			continue
		}
		states = append(states, FlashcardState{Status: status})
	}
	return states, nil
}

type readingProgressRow struct {
	ID         int64   `db:"id"`
	Percentage float64 `db:"percentage"`
	Completed  bool    `db:"completed"`
}

func (r *Repository) ReadingProgress(ctx context.Context, learnerID int64) ([]ReadingProgress, error) {
	query := `
		SELECT id, percentage, completed
		FROM reading_progress
		WHERE learner_id = $1
	`

	var rows []readingProgressRow
	if err := r.db.SelectContext(ctx, &rows, query, learnerID); err != nil {
		return nil, fmt.Errorf("erro ao buscar progresso de leitura do aluno %d: %w", learnerID, err)
	}

	progress := make([]ReadingProgress, 0, len(rows))
	for _, row := range rows {
		if row.Percentage < 0 || row.Percentage > 100 {
			logrus.Warnf("Atividade: progresso de leitura %d com percentual inválido (%.2f), registro descartado", row.ID, row.Percentage)
			continue
		}
		progress = append(progress, ReadingProgress{Percentage: row.Percentage, Completed: row.Completed})
	}
	return progress, nil
}
