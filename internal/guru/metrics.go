package guru

import (
	"context"
	"time"

	"aprovaguru/internal/activity"

	"github.com/sirupsen/logrus"
)

const (
	questionsBaseGoal     = 5000.0
	consistencyWindowDays = 30
)

// ActivitySource é a capacidade de leitura que o agregador consome. A
// implementação de produção é o repositório de atividade sobre o Postgres.
type ActivitySource interface {
	ExamAttempts(ctx context.Context, learnerID int64) ([]activity.ExamAttempt, error)
	WeeklyResponses(ctx context.Context, learnerID int64) ([]activity.WeeklyResponse, error)
	FlashcardStates(ctx context.Context, learnerID int64) ([]activity.FlashcardState, error)
	ReadingProgress(ctx context.Context, learnerID int64) ([]activity.ReadingProgress, error)
}

type SubMetrics struct {
	Questions   float64
	Flashcards  float64
	Reading     float64
	Consistency float64
}

type Aggregator struct {
	source ActivitySource
	now    func() time.Time
}

func NewAggregator(source ActivitySource) *Aggregator {
	return &Aggregator{source: source, now: time.Now}
}

// Collect calcula as quatro sub-métricas do aluno. A falha na leitura de um
// tipo de registro zera apenas as métricas que dependem dele; as demais
// continuam sendo calculadas.
func (a *Aggregator) Collect(ctx context.Context, learnerID int64, questionMultiplier float64) SubMetrics {
	attempts, errAttempts := a.source.ExamAttempts(ctx, learnerID)
	if errAttempts != nil {
		logrus.Warnf("Guru: falha ao buscar simulados do aluno %d, métricas de questões e constância zeradas: %v", learnerID, errAttempts)
	}

	weekly, errWeekly := a.source.WeeklyResponses(ctx, learnerID)
	if errWeekly != nil {
		logrus.Warnf("Guru: falha ao buscar respostas semanais do aluno %d, métricas de questões e constância zeradas: %v", learnerID, errWeekly)
	}

	cards, errCards := a.source.FlashcardStates(ctx, learnerID)
	if errCards != nil {
		logrus.Warnf("Guru: falha ao buscar flashcards do aluno %d, métrica de flashcards zerada: %v", learnerID, errCards)
	}

	guides, errGuides := a.source.ReadingProgress(ctx, learnerID)
	if errGuides != nil {
		logrus.Warnf("Guru: falha ao buscar progresso de leitura do aluno %d, métrica de leitura zerada: %v", learnerID, errGuides)
	}

	var m SubMetrics
	if errAttempts == nil && errWeekly == nil {
		m.Questions = questionsProgress(attempts, weekly, questionMultiplier)
		m.Consistency = studyConsistency(attempts, weekly, a.now())
	}
	if errCards == nil {
		m.Flashcards = flashcardProficiency(cards)
	}
	if errGuides == nil {
		m.Reading = readingProgress(guides)
	}
	return m
}

func questionsProgress(attempts []activity.ExamAttempt, weekly []activity.WeeklyResponse, questionMultiplier float64) float64 {
	goal := questionsBaseGoal * questionMultiplier
	if goal <= 0 {
		return 0
	}

	answered := 0
	for _, attempt := range attempts {
		answered += len(attempt.Answers)
	}
	answered += len(weekly)

	ratio := float64(answered) / goal * 100
	if ratio > 100 {
		ratio = 100
	}
	return round2(ratio)
}

func flashcardProficiency(cards []activity.FlashcardState) float64 {
	if len(cards) == 0 {
		return 0
	}

	var sum float64
	for _, card := range cards {
		switch card.Status {
		case activity.StatusMastered:
			sum += 100
		case activity.StatusReviewing:
			sum += 70
		case activity.StatusLearning:
			sum += 40
		}
	}

	proficiency := sum / float64(len(cards))
	if proficiency > 100 {
		proficiency = 100
	}
	return round2(proficiency)
}

func readingProgress(guides []activity.ReadingProgress) float64 {
	if len(guides) == 0 {
		return 0
	}

	var sum float64
	for _, guide := range guides {
		pct := guide.Percentage
		if guide.Completed && pct < 100 {
			pct = 100
		}
		sum += pct
	}

	progress := sum / float64(len(guides))
	if progress > 100 {
		progress = 100
	}
	return round2(progress)
}

// studyConsistency conta os dias de calendário distintos com alguma atividade
// na janela dos últimos 30 dias. Duas atividades no mesmo dia contam uma vez.
func studyConsistency(attempts []activity.ExamAttempt, weekly []activity.WeeklyResponse, now time.Time) float64 {
	windowStart := now.AddDate(0, 0, -consistencyWindowDays)

	days := make(map[string]struct{})
	for _, attempt := range attempts {
		if !attempt.CompletedAt.Before(windowStart) {
			days[attempt.CompletedAt.Format("2006-01-02")] = struct{}{}
		}
	}
	for _, response := range weekly {
		if !response.CreatedAt.Before(windowStart) {
			days[response.CreatedAt.Format("2006-01-02")] = struct{}{}
		}
	}

	consistency := float64(len(days)) / consistencyWindowDays * 100
	if consistency > 100 {
		consistency = 100
	}
	return round2(consistency)
}
