package usecase

import (
	"sync"
	"time"

	"github.com/evandrarf/hangeul-quiz-be/internal/delivery/http/entity"
)

// QuestionOutcome is what ending one question produces.
type QuestionOutcome struct {
	Question entity.QuizQuestion
	Result   entity.QuizResult
	TimedOut bool
	Summary  *entity.SessionSummary
}

// QuizSession sequences a fixed list of questions: Idle -> InProgress -> Finished.
// It is not safe for concurrent use; callers hold Lock while driving it.
type QuizSession struct {
	sync.Mutex

	ID     string
	UserID string

	state      entity.SessionState
	questions  []entity.QuizQuestion
	index      int
	score      int
	streak     int
	bestStreak int

	timeLimit       time.Duration
	questionStarted time.Time
	lastTouched     time.Time

	// results completed but not yet folded into the user's progress, oldest first
	pending []entity.QuizResult

	now func() time.Time
}

func NewQuizSession(id, userID string, now func() time.Time) *QuizSession {
	if now == nil {
		now = time.Now
	}
	return &QuizSession{
		ID:          id,
		UserID:      userID,
		state:       entity.SessionIdle,
		now:         now,
		lastTouched: now(),
	}
}

// Start moves an idle session to InProgress. A non-positive timeLimit disables the timer.
func (s *QuizSession) Start(questions []entity.QuizQuestion, timeLimit time.Duration) error {
	if s.state != entity.SessionIdle {
		return ErrSessionAlreadyStarted
	}
	if len(questions) == 0 {
		return ErrNoQuestions
	}

	s.questions = append([]entity.QuizQuestion(nil), questions...)
	s.index = 0
	s.score = 0
	s.streak = 0
	s.bestStreak = 0
	s.timeLimit = timeLimit
	s.state = entity.SessionInProgress
	s.questionStarted = s.now()
	s.lastTouched = s.questionStarted
	return nil
}

func (s *QuizSession) State() entity.SessionState {
	return s.state
}

func (s *QuizSession) Current() (entity.QuizQuestion, bool) {
	if s.state != entity.SessionInProgress {
		return entity.QuizQuestion{}, false
	}
	return s.questions[s.index], true
}

// Deadline is zero when the session has no timer or no current question.
func (s *QuizSession) Deadline() time.Time {
	if s.state != entity.SessionInProgress || s.timeLimit <= 0 {
		return time.Time{}
	}
	return s.questionStarted.Add(s.timeLimit)
}

// Submit ends the current question with an answer. An answer arriving after the deadline counts as a timeout.
func (s *QuizSession) Submit(questionID, answer string) (QuestionOutcome, error) {
	q, err := s.current(questionID)
	if err != nil {
		return QuestionOutcome{}, err
	}

	deadline := s.Deadline()
	if !deadline.IsZero() && s.now().After(deadline) {
		return s.complete(q, false, true), nil
	}
	return s.complete(q, AnswersMatch(q.CorrectAnswer, answer), false), nil
}

// Timeout ends the current question as incorrect.
func (s *QuizSession) Timeout(questionID string) (QuestionOutcome, error) {
	q, err := s.current(questionID)
	if err != nil {
		return QuestionOutcome{}, err
	}
	return s.complete(q, false, true), nil
}

func (s *QuizSession) current(questionID string) (entity.QuizQuestion, error) {
	switch s.state {
	case entity.SessionIdle:
		return entity.QuizQuestion{}, ErrSessionNotStarted
	case entity.SessionFinished:
		return entity.QuizQuestion{}, ErrSessionFinished
	}
	q := s.questions[s.index]
	if questionID != q.ID {
		return entity.QuizQuestion{}, ErrQuestionMismatch
	}
	return q, nil
}

func (s *QuizSession) complete(q entity.QuizQuestion, correct, timedOut bool) QuestionOutcome {
	now := s.now()
	spent := now.Sub(s.questionStarted)
	if spent < 0 {
		spent = 0
	}
	if s.timeLimit > 0 && spent > s.timeLimit {
		spent = s.timeLimit
	}

	if correct {
		s.score++
		s.streak++
		if s.streak > s.bestStreak {
			s.bestStreak = s.streak
		}
	} else {
		s.streak = 0
	}

	result := entity.QuizResult{
		GrammarID:        q.GrammarID,
		QuizType:         q.Type,
		IsCorrect:        correct,
		TimeSpentSeconds: spent.Seconds(),
		Attempts:         1,
	}
	s.pending = append(s.pending, result)
	s.lastTouched = now

	out := QuestionOutcome{Question: q, Result: result, TimedOut: timedOut}
	if s.index+1 < len(s.questions) {
		s.index++
		s.questionStarted = now
		return out
	}

	s.state = entity.SessionFinished
	summary := s.Summary()
	out.Summary = &summary
	return out
}

func (s *QuizSession) Summary() entity.SessionSummary {
	return entity.SessionSummary{
		Score:      s.score,
		Total:      len(s.questions),
		BestStreak: s.bestStreak,
	}
}

// Pending returns the results not yet acknowledged, oldest first.
func (s *QuizSession) Pending() []entity.QuizResult {
	return append([]entity.QuizResult(nil), s.pending...)
}

// Ack drops the n oldest pending results once they are durable.
func (s *QuizSession) Ack(n int) {
	if n <= 0 {
		return
	}
	if n > len(s.pending) {
		n = len(s.pending)
	}
	s.pending = s.pending[n:]
}

func (s *QuizSession) Touch() {
	s.lastTouched = s.now()
}

// IdleSince reports how long the session has gone without activity.
func (s *QuizSession) IdleSince() time.Duration {
	return s.now().Sub(s.lastTouched)
}

// View renders the session for a client. Answers of unanswered questions are never included.
func (s *QuizSession) View() entity.SessionView {
	view := entity.SessionView{
		ID:               s.ID,
		State:            s.state,
		Index:            s.index,
		Total:            len(s.questions),
		Score:            s.score,
		Streak:           s.streak,
		BestStreak:       s.bestStreak,
		TimeLimitSeconds: int(s.timeLimit / time.Second),
		Pending:          len(s.pending),
	}

	if q, ok := s.Current(); ok {
		stripped := q.WithoutAnswer()
		view.Current = &stripped
		if d := s.Deadline(); !d.IsZero() {
			view.Deadline = d.UTC().Format(time.RFC3339)
		}
	}

	view.Questions = make([]entity.QuizQuestion, 0, len(s.questions))
	for i, q := range s.questions {
		if s.state == entity.SessionInProgress && i >= s.index {
			q = q.WithoutAnswer()
		}
		view.Questions = append(view.Questions, q)
	}

	if s.state == entity.SessionFinished {
		summary := s.Summary()
		view.Summary = &summary
	}
	return view
}
