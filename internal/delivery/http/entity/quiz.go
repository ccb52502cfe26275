package entity

type QuizType string

const (
	QuizTypeTranslation    QuizType = "translation"
	QuizTypeFillBlank      QuizType = "fill-blank"
	QuizTypeMultipleChoice QuizType = "multiple-choice"
	QuizTypeGrammarMatch   QuizType = "grammar-match"
	QuizTypeUsageContext   QuizType = "usage-context"
	QuizTypeSentenceOrder  QuizType = "sentence-order"

	// QuizTypeMixed draws one of the concrete types per question. It is never stored on a question.
	QuizTypeMixed QuizType = "mixed"
)

// QuizTypes lists the concrete question types in draw order for QuizTypeMixed.
var QuizTypes = []QuizType{
	QuizTypeTranslation,
	QuizTypeFillBlank,
	QuizTypeMultipleChoice,
	QuizTypeGrammarMatch,
	QuizTypeUsageContext,
	QuizTypeSentenceOrder,
}

func (t QuizType) Concrete() bool {
	for _, c := range QuizTypes {
		if c == t {
			return true
		}
	}
	return false
}

// Valid accepts the concrete types plus mixed.
func (t QuizType) Valid() bool {
	return t == QuizTypeMixed || t.Concrete()
}

// Choice reports whether questions of this type carry options.
func (t QuizType) Choice() bool {
	switch t {
	case QuizTypeMultipleChoice, QuizTypeGrammarMatch, QuizTypeUsageContext:
		return true
	}
	return false
}

type GrammarSummary struct {
	Korean    string       `json:"korean"`
	English   string       `json:"english"`
	Structure string       `json:"structure"`
	Level     GrammarLevel `json:"level"`
}

type QuizQuestion struct {
	ID            string         `json:"id"`
	GrammarID     string         `json:"grammarId"`
	Type          QuizType       `json:"type"`
	Question      string         `json:"question"`
	Options       []string       `json:"options,omitempty"`
	Words         []string       `json:"words,omitempty"`
	CorrectAnswer string         `json:"correctAnswer,omitempty"`
	Explanation   string         `json:"explanation,omitempty"`
	Degraded      bool           `json:"degraded,omitempty"`
	Grammar       GrammarSummary `json:"grammar"`
}

// WithoutAnswer returns a copy safe to hand to a client that must not see the key.
func (q QuizQuestion) WithoutAnswer() QuizQuestion {
	q.CorrectAnswer = ""
	q.Explanation = ""
	return q
}

type QuizResult struct {
	GrammarID        string   `json:"grammarId"`
	QuizType         QuizType `json:"quizType"`
	IsCorrect        bool     `json:"isCorrect"`
	TimeSpentSeconds float64  `json:"timeSpent"`
	Attempts         int      `json:"attempts"`
}

type GenerateQuizRequest struct {
	Level         GrammarLevel
	Count         int
	Type          QuizType
	GrammarIDs    []string
	IncludeAnswer bool
}

// GenerateQuizQuery is the query string of the generate endpoints. GrammarIDs is comma separated.
type GenerateQuizQuery struct {
	Level         string `query:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	Count         int    `query:"count" validate:"omitempty,min=1,max=50"`
	Type          string `query:"type"`
	GrammarIDs    string `query:"grammar_ids"`
	IncludeAnswer *bool  `query:"include_answer"`
}

type SessionState string

const (
	SessionIdle       SessionState = "idle"
	SessionInProgress SessionState = "in_progress"
	SessionFinished   SessionState = "finished"
)

type SessionSummary struct {
	Score      int `json:"score"`
	Total      int `json:"total"`
	BestStreak int `json:"bestStreak"`
}

type StartSessionRequest struct {
	Level            GrammarLevel `json:"level"`
	Count            int          `json:"count" validate:"omitempty,min=1,max=50"`
	Type             QuizType     `json:"type"`
	GrammarIDs       []string     `json:"grammar_ids"`
	TimeLimitSeconds int          `json:"time_limit_seconds" validate:"omitempty,min=5,max=600"`
}

type SessionAnswerRequest struct {
	QuestionID string `json:"question_id" validate:"required"`
	Answer     string `json:"answer"`
}

type SessionTimeoutRequest struct {
	QuestionID string `json:"question_id" validate:"required"`
}

type SessionView struct {
	ID               string          `json:"id"`
	State            SessionState    `json:"state"`
	Index            int             `json:"index"`
	Total            int             `json:"total"`
	Score            int             `json:"score"`
	Streak           int             `json:"streak"`
	BestStreak       int             `json:"bestStreak"`
	TimeLimitSeconds int             `json:"timeLimitSeconds"`
	Deadline         string          `json:"deadline,omitempty"`
	Current          *QuizQuestion   `json:"current,omitempty"`
	Questions        []QuizQuestion  `json:"questions,omitempty"`
	Pending          int             `json:"pendingResults"`
	Summary          *SessionSummary `json:"summary,omitempty"`
}

type AnswerOutcome struct {
	QuestionID    string          `json:"questionId"`
	IsCorrect     bool            `json:"isCorrect"`
	TimedOut      bool            `json:"timedOut"`
	CorrectAnswer string          `json:"correctAnswer"`
	Explanation   string          `json:"explanation,omitempty"`
	Session       SessionView     `json:"session"`
	Recorded      bool            `json:"recorded"`
	Progress      *UserProgress   `json:"progress,omitempty"`
	Summary       *SessionSummary `json:"summary,omitempty"`
}
