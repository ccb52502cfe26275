package usecase

import (
	"fmt"
	"testing"
	"time"

	"github.com/evandrarf/hangeul-quiz-be/internal/delivery/http/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func makeQuestions(n int) []entity.QuizQuestion {
	questions := make([]entity.QuizQuestion, n)
	for i := range questions {
		questions[i] = entity.QuizQuestion{
			ID:            fmt.Sprintf("q-%d", i),
			GrammarID:     fmt.Sprintf("int-%d", i),
			Type:          entity.QuizTypeTranslation,
			Question:      "Translate",
			CorrectAnswer: fmt.Sprintf("answer %d", i),
			Explanation:   "because",
		}
	}
	return questions
}

func startedSession(t *testing.T, clock *fakeClock, n int, limit time.Duration) *QuizSession {
	t.Helper()
	s := NewQuizSession("s-1", "user-1", clock.Now)
	require.NoError(t, s.Start(makeQuestions(n), limit))
	return s
}

// play answers every question in order, correctly when the pattern says so.
func play(t *testing.T, s *QuizSession, pattern []bool) []QuestionOutcome {
	t.Helper()
	outcomes := make([]QuestionOutcome, 0, len(pattern))
	for _, correct := range pattern {
		q, ok := s.Current()
		require.True(t, ok)
		answer := "wrong"
		if correct {
			answer = q.CorrectAnswer
		}
		out, err := s.Submit(q.ID, answer)
		require.NoError(t, err)
		outcomes = append(outcomes, out)
	}
	return outcomes
}

func TestQuizSessionStart(t *testing.T) {
	clock := newFakeClock()
	s := NewQuizSession("s-1", "user-1", clock.Now)
	assert.Equal(t, entity.SessionIdle, s.State())

	_, err := s.Submit("q-0", "x")
	assert.ErrorIs(t, err, ErrSessionNotStarted)

	assert.ErrorIs(t, s.Start(nil, time.Minute), ErrNoQuestions)
	assert.Equal(t, entity.SessionIdle, s.State())

	require.NoError(t, s.Start(makeQuestions(3), time.Minute))
	assert.Equal(t, entity.SessionInProgress, s.State())
	assert.Equal(t, clock.Now().Add(time.Minute), s.Deadline())

	assert.ErrorIs(t, s.Start(makeQuestions(3), time.Minute), ErrSessionAlreadyStarted)
}

func TestQuizSessionStreaks(t *testing.T) {
	tests := []struct {
		name       string
		pattern    []bool
		score      int
		streak     int
		bestStreak int
	}{
		{"one miss in the middle", []bool{true, true, false, true, true, true}, 5, 3, 3},
		{"two misses then a longer run", []bool{true, true, true, false, false, true, true, true, true}, 7, 4, 4},
		{"five right one wrong two right", []bool{true, true, true, true, true, false, true, true}, 7, 2, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := newFakeClock()
			s := startedSession(t, clock, len(tt.pattern)+1, 0)

			play(t, s, tt.pattern)

			view := s.View()
			assert.Equal(t, tt.score, view.Score)
			assert.Equal(t, tt.streak, view.Streak)
			assert.Equal(t, tt.bestStreak, view.BestStreak)
			assert.Len(t, s.Pending(), len(tt.pattern))
		})
	}
}

func TestQuizSessionFinishes(t *testing.T) {
	clock := newFakeClock()
	s := startedSession(t, clock, 3, time.Minute)

	outcomes := play(t, s, []bool{true, false, true})

	assert.Nil(t, outcomes[0].Summary)
	assert.Nil(t, outcomes[1].Summary)
	require.NotNil(t, outcomes[2].Summary)
	assert.Equal(t, entity.SessionSummary{Score: 2, Total: 3, BestStreak: 1}, *outcomes[2].Summary)
	assert.Equal(t, entity.SessionFinished, s.State())

	_, err := s.Submit("q-2", "answer 2")
	assert.ErrorIs(t, err, ErrSessionFinished)
	_, err = s.Timeout("q-2")
	assert.ErrorIs(t, err, ErrSessionFinished)
	assert.ErrorIs(t, s.Start(makeQuestions(1), time.Minute), ErrSessionAlreadyStarted)

	view := s.View()
	require.NotNil(t, view.Summary)
	assert.Nil(t, view.Current)
	assert.Equal(t, "answer 0", view.Questions[0].CorrectAnswer, "answers are revealed once finished")
}

func TestQuizSessionRejectsStaleQuestion(t *testing.T) {
	clock := newFakeClock()
	s := startedSession(t, clock, 3, time.Minute)

	_, err := s.Submit("q-0", "answer 0")
	require.NoError(t, err)

	_, err = s.Submit("q-0", "answer 0")
	assert.ErrorIs(t, err, ErrQuestionMismatch)
	assert.Len(t, s.Pending(), 1, "a double submit records nothing")
}

func TestQuizSessionTimeout(t *testing.T) {
	clock := newFakeClock()
	s := startedSession(t, clock, 3, 30*time.Second)

	clock.Advance(45 * time.Second)
	out, err := s.Timeout("q-0")
	require.NoError(t, err)

	assert.True(t, out.TimedOut)
	assert.False(t, out.Result.IsCorrect)
	assert.Equal(t, 30.0, out.Result.TimeSpentSeconds, "time spent is capped at the limit")
	assert.Equal(t, 1, out.Result.Attempts)
	assert.Equal(t, clock.Now().Add(30*time.Second), s.Deadline(), "timer restarts for the next question")
}

func TestQuizSessionLateAnswerCountsAsTimeout(t *testing.T) {
	clock := newFakeClock()
	s := startedSession(t, clock, 2, 30*time.Second)

	clock.Advance(31 * time.Second)
	out, err := s.Submit("q-0", "answer 0")
	require.NoError(t, err)

	assert.True(t, out.TimedOut)
	assert.False(t, out.Result.IsCorrect)
	assert.Equal(t, 0, s.View().Score)
}

func TestQuizSessionRecordsTimeSpent(t *testing.T) {
	clock := newFakeClock()
	s := startedSession(t, clock, 2, time.Minute)

	clock.Advance(12 * time.Second)
	out, err := s.Submit("q-0", " ANSWER   0 ")
	require.NoError(t, err)

	assert.True(t, out.Result.IsCorrect)
	assert.Equal(t, 12.0, out.Result.TimeSpentSeconds)
	assert.Equal(t, "int-0", out.Result.GrammarID)
	assert.Equal(t, entity.QuizTypeTranslation, out.Result.QuizType)
}

func TestQuizSessionPendingAck(t *testing.T) {
	clock := newFakeClock()
	s := startedSession(t, clock, 4, 0)

	play(t, s, []bool{true, false, true})
	require.Len(t, s.Pending(), 3)

	s.Ack(2)
	pending := s.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, "int-2", pending[0].GrammarID)

	s.Ack(5)
	assert.Empty(t, s.Pending())
}

func TestQuizSessionViewHidesAnswers(t *testing.T) {
	clock := newFakeClock()
	s := startedSession(t, clock, 3, time.Minute)

	_, err := s.Submit("q-0", "answer 0")
	require.NoError(t, err)

	view := s.View()
	require.NotNil(t, view.Current)
	assert.Equal(t, "q-1", view.Current.ID)
	assert.Empty(t, view.Current.CorrectAnswer)
	assert.Equal(t, "answer 0", view.Questions[0].CorrectAnswer)
	assert.Empty(t, view.Questions[1].CorrectAnswer)
	assert.Empty(t, view.Questions[2].CorrectAnswer)
	assert.NotEmpty(t, view.Deadline)
	assert.Equal(t, 60, view.TimeLimitSeconds)
}

func TestQuizSessionIdleSince(t *testing.T) {
	clock := newFakeClock()
	s := startedSession(t, clock, 2, 0)

	clock.Advance(10 * time.Minute)
	assert.Equal(t, 10*time.Minute, s.IdleSince())

	s.Touch()
	assert.Zero(t, s.IdleSince())
}
