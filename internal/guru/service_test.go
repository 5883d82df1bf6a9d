package guru

import (
	"context"
	"errors"
	"testing"
	"time"

	"aprovaguru/internal/activity"
	"aprovaguru/internal/enrollments"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLearnerStore struct {
	exists bool
	err    error
}

func (s *stubLearnerStore) LearnerExists(ctx context.Context, learnerID int64) (bool, error) {
	return s.exists, s.err
}

type stubEnrollmentStore struct {
	enrollment *enrollments.Enrollment
	err        error
}

func (s *stubEnrollmentStore) ActiveEnrollment(ctx context.Context, learnerID int64) (*enrollments.Enrollment, error) {
	return s.enrollment, s.err
}

type failingCache struct{}

func (failingCache) Get(ctx context.Context, learnerID int64) (*Snapshot, error) {
	return nil, errors.New("cache indisponível")
}

func (failingCache) Put(ctx context.Context, learnerID int64, snapshot *Snapshot, ttl time.Duration) error {
	return errors.New("cache indisponível")
}

func (failingCache) Invalidate(ctx context.Context, learnerID int64) error {
	return errors.New("cache indisponível")
}

func newTestService(source *fakeSource, cache SnapshotCache) *Service {
	return NewService(
		&stubLearnerStore{exists: true},
		&stubEnrollmentStore{enrollment: &enrollments.Enrollment{DifficultyTier: "medio", QuestionMultiplier: 1.0}},
		source,
		cache,
	)
}

func newActiveSource() *fakeSource {
	recent := time.Now().Add(-5 * time.Minute)
	return &fakeSource{
		attempts: []activity.ExamAttempt{
			{Answers: map[string]string{"q1": "a", "q2": "b"}, CompletedAt: recent},
		},
		weekly: []activity.WeeklyResponse{{CreatedAt: recent}},
		cards: []activity.FlashcardState{
			{Status: activity.StatusMastered},
			{Status: activity.StatusMastered},
			{Status: activity.StatusReviewing},
			{Status: activity.StatusLearning},
		},
		guides: []activity.ReadingProgress{{Percentage: 50}},
	}
}

func TestComputeMetricsForUnknownLearner(t *testing.T) {
	service := NewService(
		&stubLearnerStore{exists: false},
		&stubEnrollmentStore{},
		newActiveSource(),
		NewMemoryCache(),
	)

	_, err := service.ComputeMetrics(context.Background(), 1)
	assert.ErrorIs(t, err, ErrLearnerNotFound)
}

func TestComputeMetricsWithoutActiveEnrollment(t *testing.T) {
	service := NewService(
		&stubLearnerStore{exists: true},
		&stubEnrollmentStore{enrollment: nil},
		newActiveSource(),
		NewMemoryCache(),
	)

	_, err := service.ComputeMetrics(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNoActiveEnrollment)
}

func TestComputeMetricsSnapshotValues(t *testing.T) {
	service := newTestService(newActiveSource(), NewMemoryCache())

	snapshot, err := service.ComputeMetrics(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 0.06, snapshot.QuestionsProgress)
	assert.Equal(t, 77.5, snapshot.FlashcardsProficiency)
	assert.Equal(t, 50.0, snapshot.ReadingProgress)
	assert.Equal(t, 100.0, snapshot.OverallScore+snapshot.DistanceToGoal)
	assert.NotEmpty(t, snapshot.TimeEstimate)
	assert.False(t, snapshot.ComputedAt.IsZero())
}

func TestComputeMetricsServesFromCache(t *testing.T) {
	source := newActiveSource()
	service := newTestService(source, NewMemoryCache())
	ctx := context.Background()

	first, err := service.ComputeMetrics(ctx, 1)
	require.NoError(t, err)

	source.guides = []activity.ReadingProgress{{Percentage: 100}}

	second, err := service.ComputeMetrics(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, first.ReadingProgress, second.ReadingProgress)
	assert.Equal(t, first.ComputedAt, second.ComputedAt)
}

func TestRefreshRecomputesTheSnapshot(t *testing.T) {
	source := newActiveSource()
	service := newTestService(source, NewMemoryCache())
	ctx := context.Background()

	_, err := service.ComputeMetrics(ctx, 1)
	require.NoError(t, err)

	source.guides = []activity.ReadingProgress{{Percentage: 100}}

	require.NoError(t, service.Refresh(ctx, 1))

	snapshot, err := service.ComputeMetrics(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 100.0, snapshot.ReadingProgress)
}

func TestRefreshWithoutPriorSnapshot(t *testing.T) {
	service := newTestService(newActiveSource(), NewMemoryCache())
	assert.NoError(t, service.Refresh(context.Background(), 1))
}

func TestComputeMetricsSurvivesBrokenCache(t *testing.T) {
	service := newTestService(newActiveSource(), failingCache{})

	snapshot, err := service.ComputeMetrics(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 77.5, snapshot.FlashcardsProficiency)
}

func TestRefreshSurvivesBrokenCache(t *testing.T) {
	service := newTestService(newActiveSource(), failingCache{})
	assert.NoError(t, service.Refresh(context.Background(), 1))
}

func TestComputePrognosis(t *testing.T) {
	service := newTestService(newActiveSource(), NewMemoryCache())

	prognosis, err := service.ComputePrognosis(context.Background(), 1)
	require.NoError(t, err)

	snapshot, err := service.ComputeMetrics(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, snapshot.DistanceToGoal, prognosis.DistanceToGoal)
	assert.Equal(t, snapshot.TimeEstimate, prognosis.TimeEstimate)
	assert.NotEmpty(t, prognosis.Recommendations)
	assert.LessOrEqual(t, len(prognosis.Recommendations), maxRecommendations)
}

func TestComputePrognosisPropagatesLearnerNotFound(t *testing.T) {
	service := NewService(
		&stubLearnerStore{exists: false},
		&stubEnrollmentStore{},
		newActiveSource(),
		NewMemoryCache(),
	)

	_, err := service.ComputePrognosis(context.Background(), 1)
	assert.ErrorIs(t, err, ErrLearnerNotFound)
}
