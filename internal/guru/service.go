package guru

import (
	"context"
	"errors"
	"fmt"
	"time"

	"aprovaguru/internal/enrollments"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrLearnerNotFound    = errors.New("aluno não encontrado")
	ErrNoActiveEnrollment = errors.New("aluno não possui inscrição ativa em nenhum concurso")
)

type Snapshot struct {
	QuestionsProgress     float64   `json:"questions_progress"`
	FlashcardsProficiency float64   `json:"flashcards_proficiency"`
	ReadingProgress       float64   `json:"reading_progress"`
	StudyConsistency      float64   `json:"study_consistency"`
	OverallScore          float64   `json:"overall_score"`
	DistanceToGoal        float64   `json:"distance_to_goal"`
	TimeEstimate          string    `json:"time_estimate"`
	ComputedAt            time.Time `json:"computed_at"`
}

type Prognosis struct {
	DistanceToGoal  float64  `json:"distance_to_goal"`
	TimeEstimate    string   `json:"time_estimate"`
	Recommendations []string `json:"recommendations"`
}

type LearnerStore interface {
	LearnerExists(ctx context.Context, learnerID int64) (bool, error)
}

type EnrollmentStore interface {
	ActiveEnrollment(ctx context.Context, learnerID int64) (*enrollments.Enrollment, error)
}

// Service orquestra o cálculo do prognóstico de aprovação: cache, validações,
// agregação de métricas, pontuação, estimativa e recomendações.
type Service struct {
	learners    LearnerStore
	enrollments EnrollmentStore
	aggregator  *Aggregator
	cache       SnapshotCache
}

func NewService(learners LearnerStore, enrollmentStore EnrollmentStore, source ActivitySource, cache SnapshotCache) *Service {
	return &Service{
		learners:    learners,
		enrollments: enrollmentStore,
		aggregator:  NewAggregator(source),
		cache:       cache,
	}
}

// ComputeMetrics devolve o snapshot do aluno, servindo do cache quando há
// entrada válida. Qualquer erro do cache é tratado como ausência de entrada.
func (s *Service) ComputeMetrics(ctx context.Context, learnerID int64) (*Snapshot, error) {
	opID := uuid.NewString()
	logrus.Infof("Guru[%s]: calculando métricas do aluno %d", opID, learnerID)

	cached, err := s.cache.Get(ctx, learnerID)
	if err != nil {
		logrus.Warnf("Guru[%s]: cache indisponível, recalculando métricas do aluno %d: %v", opID, learnerID, err)
	}
	if cached != nil {
		logrus.Infof("Guru[%s]: métricas do aluno %d servidas do cache", opID, learnerID)
		return cached, nil
	}

	exists, err := s.learners.LearnerExists(ctx, learnerID)
	if err != nil {
		return nil, fmt.Errorf("erro ao verificar existência do aluno %d: %w", learnerID, err)
	}
	if !exists {
		return nil, ErrLearnerNotFound
	}

	enrollment, err := s.enrollments.ActiveEnrollment(ctx, learnerID)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar inscrição ativa do aluno %d: %w", learnerID, err)
	}
	if enrollment == nil {
		return nil, ErrNoActiveEnrollment
	}

	metrics := s.aggregator.Collect(ctx, learnerID, enrollment.QuestionMultiplier)
	overall := OverallScore(metrics)

	snapshot := &Snapshot{
		QuestionsProgress:     metrics.Questions,
		FlashcardsProficiency: metrics.Flashcards,
		ReadingProgress:       metrics.Reading,
		StudyConsistency:      metrics.Consistency,
		OverallScore:          overall,
		DistanceToGoal:        DistanceToGoal(overall),
		TimeEstimate:          EstimateTime(overall, metrics.Consistency, enrollment.DifficultyTier),
		ComputedAt:            s.aggregator.now(),
	}

	if err := s.cache.Put(ctx, learnerID, snapshot, snapshotTTL); err != nil {
		logrus.Warnf("Guru[%s]: falha ao gravar snapshot do aluno %d no cache: %v", opID, learnerID, err)
	}

	logrus.Infof("Guru[%s]: métricas do aluno %d calculadas, pontuação geral %.2f", opID, learnerID, overall)
	return snapshot, nil
}

func (s *Service) ComputePrognosis(ctx context.Context, learnerID int64) (*Prognosis, error) {
	snapshot, err := s.ComputeMetrics(ctx, learnerID)
	if err != nil {
		return nil, err
	}

	return &Prognosis{
		DistanceToGoal:  snapshot.DistanceToGoal,
		TimeEstimate:    snapshot.TimeEstimate,
		Recommendations: Recommendations(snapshot),
	}, nil
}

// Refresh invalida o snapshot do aluno e força o recálculo imediato.
func (s *Service) Refresh(ctx context.Context, learnerID int64) error {
	if err := s.cache.Invalidate(ctx, learnerID); err != nil {
		logrus.Warnf("Guru: falha ao invalidar snapshot do aluno %d, recalculando mesmo assim: %v", learnerID, err)
	}

	_, err := s.ComputeMetrics(ctx, learnerID)
	return err
}
