package usecase

import "errors"

var (
	ErrNoQuestions           = errors.New("no questions available")
	ErrSessionNotFound       = errors.New("quiz session not found")
	ErrSessionNotStarted     = errors.New("quiz session has not started")
	ErrSessionAlreadyStarted = errors.New("quiz session already started")
	ErrSessionFinished       = errors.New("quiz session already finished")
	ErrQuestionMismatch      = errors.New("question is not the current question")
	ErrInvalidQuizType       = errors.New("invalid quiz type")
	ErrInvalidLevel          = errors.New("invalid grammar level")
	ErrGrammarNotFound       = errors.New("grammar not found")

	// ErrProgressUnavailable wraps any persistence failure of the progress aggregate. Retryable.
	ErrProgressUnavailable = errors.New("progress storage unavailable")
	ErrExplainUnavailable  = errors.New("explanation service unavailable")
)
