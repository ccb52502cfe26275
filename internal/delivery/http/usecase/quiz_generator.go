package usecase

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/evandrarf/hangeul-quiz-be/internal/delivery/http/entity"
	"github.com/google/uuid"
)

type FillBlankPolicy string

const (
	// FillBlankDegrade turns a fill-blank question with nothing to blank out into a flagged base question.
	FillBlankDegrade FillBlankPolicy = "degrade"
	// FillBlankAccept keeps the unchanged sentence as the prompt.
	FillBlankAccept FillBlankPolicy = "accept"
)

const blankMarker = "____"

// DefaultDistractorPool holds common particle forms used as multiple-choice distractors.
var DefaultDistractorPool = []string{
	"에서", "부터", "까지", "처럼", "같이", "마다", "조차", "만큼", "보다", "대신",
}

var (
	defaultMeaningDistractors = []string{
		"To express ability",
		"To show direction",
		"To indicate possession",
	}
	defaultUsageDistractors = []string{
		"To express past actions",
		"To show location",
		"To indicate time",
	}
)

type GeneratorConfig struct {
	DistractorPool     []string
	MeaningDistractors []string
	UsageDistractors   []string
	FillBlankPolicy    FillBlankPolicy
	// DistractorCount is how many distractors choice questions aim for.
	DistractorCount int
}

// QuestionGenerator turns one grammar record into one quiz question. It performs no I/O;
// all randomness comes from the injected source so a fixed seed gives a fixed output.
type QuestionGenerator struct {
	cfg GeneratorConfig

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewQuestionGenerator(cfg GeneratorConfig, rnd *rand.Rand) *QuestionGenerator {
	if len(cfg.DistractorPool) == 0 {
		cfg.DistractorPool = DefaultDistractorPool
	}
	if len(cfg.MeaningDistractors) == 0 {
		cfg.MeaningDistractors = defaultMeaningDistractors
	}
	if len(cfg.UsageDistractors) == 0 {
		cfg.UsageDistractors = defaultUsageDistractors
	}
	if cfg.FillBlankPolicy == "" {
		cfg.FillBlankPolicy = FillBlankDegrade
	}
	if cfg.DistractorCount <= 0 {
		cfg.DistractorCount = 3
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &QuestionGenerator{cfg: cfg, rnd: rnd}
}

func (g *QuestionGenerator) Generate(grammar entity.GrammarRecord, quizType entity.QuizType) entity.QuizQuestion {
	g.mu.Lock()
	defer g.mu.Unlock()

	selected := quizType
	if selected == entity.QuizTypeMixed {
		selected = entity.QuizTypes[g.rnd.Intn(len(entity.QuizTypes))]
	}

	switch selected {
	case entity.QuizTypeTranslation:
		return g.translation(grammar)
	case entity.QuizTypeFillBlank:
		return g.fillBlank(grammar)
	case entity.QuizTypeMultipleChoice:
		return g.multipleChoice(grammar)
	case entity.QuizTypeGrammarMatch:
		return g.grammarMatch(grammar)
	case entity.QuizTypeUsageContext:
		return g.usageContext(grammar)
	case entity.QuizTypeSentenceOrder:
		return g.sentenceOrder(grammar)
	}
	return g.degraded(grammar, selected)
}

// ShuffleRecords permutes records in place with the generator's source.
func (g *QuestionGenerator) ShuffleRecords(records []entity.GrammarRecord) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rnd.Shuffle(len(records), func(i, j int) {
		records[i], records[j] = records[j], records[i]
	})
}

func (g *QuestionGenerator) base(grammar entity.GrammarRecord, quizType entity.QuizType) entity.QuizQuestion {
	id, err := uuid.NewRandomFromReader(g.rnd)
	if err != nil {
		id = uuid.New()
	}
	return entity.QuizQuestion{
		ID:        id.String(),
		GrammarID: grammar.ID,
		Type:      quizType,
		Grammar: entity.GrammarSummary{
			Korean:    grammar.Korean,
			English:   grammar.English,
			Structure: grammar.Structure,
			Level:     grammar.Level,
		},
	}
}

// degraded is the flagged fallback used when a record cannot support the requested shape.
func (g *QuestionGenerator) degraded(grammar entity.GrammarRecord, quizType entity.QuizType) entity.QuizQuestion {
	q := g.base(grammar, quizType)
	q.Question = fmt.Sprintf("Which grammar pattern means %q?", grammar.English)
	q.CorrectAnswer = grammar.Korean
	q.Explanation = fmt.Sprintf("%q translates to %q", grammar.Korean, grammar.English)
	q.Degraded = true
	return q
}

func (g *QuestionGenerator) translation(grammar entity.GrammarRecord) entity.QuizQuestion {
	q := g.base(grammar, entity.QuizTypeTranslation)

	prompt, answer := grammar.English, grammar.Korean
	if ex, ok := grammar.FirstExample(); ok {
		prompt, answer = ex.English, ex.Korean
	}

	q.Question = fmt.Sprintf("Translate to Korean: %q", prompt)
	q.CorrectAnswer = answer
	q.Explanation = fmt.Sprintf("This uses the grammar pattern: %s", grammar.Structure)
	return q
}

func (g *QuestionGenerator) fillBlank(grammar entity.GrammarRecord) entity.QuizQuestion {
	ex, ok := grammar.FirstExample()
	if !ok {
		return g.degraded(grammar, entity.QuizTypeFillBlank)
	}

	token := strings.TrimSpace(strings.Split(grammar.Korean, "/")[0])
	blanked := ex.Korean
	if token != "" {
		blanked = strings.ReplaceAll(ex.Korean, token, blankMarker)
	}
	if blanked == ex.Korean && g.cfg.FillBlankPolicy != FillBlankAccept {
		return g.degraded(grammar, entity.QuizTypeFillBlank)
	}

	q := g.base(grammar, entity.QuizTypeFillBlank)
	q.Question = fmt.Sprintf("Fill in the blank: %s", blanked)
	q.CorrectAnswer = token
	q.Explanation = fmt.Sprintf("The correct answer is %q which means %q", token, grammar.English)
	return q
}

func (g *QuestionGenerator) multipleChoice(grammar entity.GrammarRecord) entity.QuizQuestion {
	correct := grammar.Korean

	eligible := make([]string, 0, len(g.cfg.DistractorPool))
	for _, opt := range g.cfg.DistractorPool {
		if opt == "" || strings.Contains(correct, opt) {
			continue
		}
		eligible = append(eligible, opt)
	}
	g.shuffle(eligible)

	q := g.base(grammar, entity.QuizTypeMultipleChoice)
	q.Question = fmt.Sprintf("Which grammar pattern means %q?", grammar.English)
	q.Options = g.options(correct, eligible)
	q.CorrectAnswer = correct
	q.Explanation = fmt.Sprintf("%q is used %s", correct, strings.ToLower(grammar.Usage))
	return q
}

func (g *QuestionGenerator) grammarMatch(grammar entity.GrammarRecord) entity.QuizQuestion {
	q := g.base(grammar, entity.QuizTypeGrammarMatch)
	q.Question = fmt.Sprintf("What does %q mean in English?", grammar.Korean)
	q.Options = g.options(grammar.English, g.cfg.MeaningDistractors)
	q.CorrectAnswer = grammar.English
	q.Explanation = fmt.Sprintf("%q translates to %q", grammar.Korean, grammar.English)
	return q
}

func (g *QuestionGenerator) usageContext(grammar entity.GrammarRecord) entity.QuizQuestion {
	q := g.base(grammar, entity.QuizTypeUsageContext)
	q.Question = fmt.Sprintf("When do you use %q?", grammar.Korean)
	q.Options = g.options(grammar.Usage, g.cfg.UsageDistractors)
	q.CorrectAnswer = grammar.Usage
	q.Explanation = fmt.Sprintf("%q is specifically used %s", grammar.Korean, strings.ToLower(grammar.Usage))
	return q
}

func (g *QuestionGenerator) sentenceOrder(grammar entity.GrammarRecord) entity.QuizQuestion {
	ex, ok := grammar.FirstExample()
	if !ok {
		return g.degraded(grammar, entity.QuizTypeSentenceOrder)
	}
	words := strings.Fields(ex.Korean)
	if len(words) == 0 {
		return g.degraded(grammar, entity.QuizTypeSentenceOrder)
	}

	shuffled := append([]string(nil), words...)
	g.shuffle(shuffled)

	q := g.base(grammar, entity.QuizTypeSentenceOrder)
	q.Question = "Arrange these words in the correct order:"
	q.Words = shuffled
	q.CorrectAnswer = strings.Join(words, " ")
	q.Explanation = fmt.Sprintf("The correct sentence is: %s (%s)", ex.Korean, ex.English)
	return q
}

// options takes up to DistractorCount candidates that differ from correct (and from each other),
// adds correct and shuffles. Fewer candidates simply means fewer options.
func (g *QuestionGenerator) options(correct string, candidates []string) []string {
	picked := make([]string, 0, g.cfg.DistractorCount+1)
	picked = append(picked, correct)
	for _, c := range candidates {
		if len(picked) > g.cfg.DistractorCount {
			break
		}
		if c == "" || containsFold(picked, c) {
			continue
		}
		picked = append(picked, c)
	}
	g.shuffle(picked)
	return picked
}

func (g *QuestionGenerator) shuffle(items []string) {
	g.rnd.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
}

func containsFold(items []string, s string) bool {
	for _, it := range items {
		if strings.EqualFold(it, s) {
			return true
		}
	}
	return false
}

// AnswersMatch compares a user answer with the key: trimmed, whitespace-collapsed, case-insensitive.
func AnswersMatch(expected, given string) bool {
	return strings.EqualFold(normalizeAnswer(expected), normalizeAnswer(given))
}

func normalizeAnswer(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
