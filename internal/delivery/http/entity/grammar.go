package entity

type GrammarLevel string

const (
	LevelBeginner     GrammarLevel = "beginner"
	LevelIntermediate GrammarLevel = "intermediate"
	LevelAdvanced     GrammarLevel = "advanced"
)

func (l GrammarLevel) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

type GrammarExample struct {
	Korean       string `json:"korean"`
	English      string `json:"english"`
	Vietnamese   string `json:"vietnamese,omitempty"`
	Romanization string `json:"romanization"`
}

// GrammarRecord is the catalog's view of one grammar point. Read-only to the quiz engine.
type GrammarRecord struct {
	ID          string           `json:"id"`
	Korean      string           `json:"korean"`
	English     string           `json:"english"`
	Vietnamese  string           `json:"vietnamese,omitempty"`
	Structure   string           `json:"structure"`
	Usage       string           `json:"usage"`
	Explanation string           `json:"explanation,omitempty"`
	Examples    []GrammarExample `json:"examples"`
	Level       GrammarLevel     `json:"level"`
	TopikLevel  int              `json:"topikLevel"`
	Category    string           `json:"category,omitempty"`
	Difficulty  int              `json:"difficulty,omitempty"`
	Tags        []string         `json:"tags,omitempty"`
}

// FirstExample returns examples[0] when present.
func (g GrammarRecord) FirstExample() (GrammarExample, bool) {
	if len(g.Examples) == 0 {
		return GrammarExample{}, false
	}
	return g.Examples[0], true
}

type GrammarFilter struct {
	IDs   []string
	Level GrammarLevel
	Limit int
}

type ExplainGrammarRequest struct {
	GrammarID string `json:"grammar_id" validate:"required"`
}

type ExplainGrammarResponse struct {
	GrammarID   string `json:"grammar_id"`
	Korean      string `json:"korean"`
	Explanation string `json:"explanation"`
}
