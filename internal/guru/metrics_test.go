package guru

import (
	"context"
	"errors"
	"testing"
	"time"

	"aprovaguru/internal/activity"

	"github.com/stretchr/testify/assert"
)

type fakeSource struct {
	attempts []activity.ExamAttempt
	weekly   []activity.WeeklyResponse
	cards    []activity.FlashcardState
	guides   []activity.ReadingProgress

	attemptsErr error
	weeklyErr   error
	cardsErr    error
	guidesErr   error
}

func (f *fakeSource) ExamAttempts(ctx context.Context, learnerID int64) ([]activity.ExamAttempt, error) {
	return f.attempts, f.attemptsErr
}

func (f *fakeSource) WeeklyResponses(ctx context.Context, learnerID int64) ([]activity.WeeklyResponse, error) {
	return f.weekly, f.weeklyErr
}

func (f *fakeSource) FlashcardStates(ctx context.Context, learnerID int64) ([]activity.FlashcardState, error) {
	return f.cards, f.cardsErr
}

func (f *fakeSource) ReadingProgress(ctx context.Context, learnerID int64) ([]activity.ReadingProgress, error) {
	return f.guides, f.guidesErr
}

var testNow = time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

func newTestAggregator(source *fakeSource) *Aggregator {
	return &Aggregator{source: source, now: func() time.Time { return testNow }}
}

func TestQuestionsProgress(t *testing.T) {
	testCases := []struct {
		name       string
		attempts   []activity.ExamAttempt
		weekly     []activity.WeeklyResponse
		multiplier float64
		expected   float64
	}{
		{
			name:       "sem atividade",
			multiplier: 1.0,
			expected:   0,
		},
		{
			name: "simulados e respostas semanais somados",
			attempts: []activity.ExamAttempt{
				{Answers: map[string]string{"q1": "a", "q2": "b", "q3": "c"}},
				{Answers: map[string]string{"q4": "d", "q5": "e"}},
			},
			weekly:     []activity.WeeklyResponse{{}, {}, {}, {}, {}},
			multiplier: 1.0,
			expected:   0.2,
		},
		{
			name:       "multiplicador dobra a meta",
			weekly:     make([]activity.WeeklyResponse, 2500),
			multiplier: 2.0,
			expected:   25,
		},
		{
			name:       "limitado a 100",
			weekly:     make([]activity.WeeklyResponse, 6000),
			multiplier: 1.0,
			expected:   100,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := questionsProgress(tc.attempts, tc.weekly, tc.multiplier)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestFlashcardProficiency(t *testing.T) {
	cards := []activity.FlashcardState{
		{Status: activity.StatusMastered},
		{Status: activity.StatusMastered},
		{Status: activity.StatusReviewing},
		{Status: activity.StatusLearning},
	}

	got := flashcardProficiency(cards)
	assert.Equal(t, 77.5, got)
}

func TestFlashcardProficiencyWithoutRecords(t *testing.T) {
	assert.Equal(t, 0.0, flashcardProficiency(nil))
}

func TestFlashcardProficiencyNotStartedWeighsZero(t *testing.T) {
	cards := []activity.FlashcardState{
		{Status: activity.StatusMastered},
		{Status: activity.StatusNotStarted},
	}

	assert.Equal(t, 50.0, flashcardProficiency(cards))
}

func TestReadingProgress(t *testing.T) {
	guides := []activity.ReadingProgress{
		{Percentage: 50},
		{Percentage: 30},
	}

	assert.Equal(t, 40.0, readingProgress(guides))
	assert.Equal(t, 0.0, readingProgress(nil))
}

func TestReadingProgressCompletedCountsAsFull(t *testing.T) {
	guides := []activity.ReadingProgress{
		{Percentage: 80, Completed: true},
		{Percentage: 20},
	}

	assert.Equal(t, 60.0, readingProgress(guides))
}

func TestStudyConsistencySameDayCountsOnce(t *testing.T) {
	sameDay := testNow.Add(-2 * time.Hour)

	attempts := []activity.ExamAttempt{{CompletedAt: sameDay}}
	weekly := []activity.WeeklyResponse{{CreatedAt: sameDay.Add(time.Hour)}}

	got := studyConsistency(attempts, weekly, testNow)
	assert.Equal(t, 3.33, got)
}

func TestStudyConsistencyIgnoresActivityOutsideWindow(t *testing.T) {
	attempts := []activity.ExamAttempt{
		{CompletedAt: testNow.AddDate(0, 0, -40)},
		{CompletedAt: testNow.AddDate(0, 0, -2)},
	}

	got := studyConsistency(attempts, nil, testNow)
	assert.Equal(t, 3.33, got)
}

func TestStudyConsistencyFullWindow(t *testing.T) {
	var weekly []activity.WeeklyResponse
	for day := 0; day < 30; day++ {
		weekly = append(weekly, activity.WeeklyResponse{CreatedAt: testNow.AddDate(0, 0, -day)})
	}

	got := studyConsistency(nil, weekly, testNow)
	assert.Equal(t, 100.0, got)
}

func TestCollectDegradesFailedSourceToZero(t *testing.T) {
	source := &fakeSource{
		attemptsErr: errors.New("fonte indisponível"),
		cards:       []activity.FlashcardState{{Status: activity.StatusMastered}},
		guides:      []activity.ReadingProgress{{Percentage: 60}},
	}

	m := newTestAggregator(source).Collect(context.Background(), 1, 1.0)

	assert.Equal(t, 0.0, m.Questions)
	assert.Equal(t, 0.0, m.Consistency)
	assert.Equal(t, 100.0, m.Flashcards)
	assert.Equal(t, 60.0, m.Reading)
}

func TestCollectDegradesOnlyTheFailedMetric(t *testing.T) {
	source := &fakeSource{
		weekly:    []activity.WeeklyResponse{{CreatedAt: testNow.Add(-time.Hour)}},
		cardsErr:  errors.New("fonte indisponível"),
		guidesErr: errors.New("fonte indisponível"),
	}

	m := newTestAggregator(source).Collect(context.Background(), 1, 1.0)

	assert.Equal(t, 0.02, m.Questions)
	assert.Equal(t, 3.33, m.Consistency)
	assert.Equal(t, 0.0, m.Flashcards)
	assert.Equal(t, 0.0, m.Reading)
}
