package usecase

import (
	"time"

	"github.com/evandrarf/hangeul-quiz-be/internal/delivery/http/entity"
)

const dayKeyLayout = "2006-01-02"

// CurrentDayKey returns the local calendar date of now in loc and that day's local midnight.
func CurrentDayKey(now time.Time, loc *time.Location) (string, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return midnight.Format(dayKeyLayout), midnight
}

// WeekStart is Monday 00:00 of the week containing now, in loc.
func WeekStart(now time.Time, loc *time.Location) time.Time {
	_, midnight := CurrentDayKey(now, loc)
	offset := (int(midnight.Weekday()) + 6) % 7
	return midnight.AddDate(0, 0, -offset)
}

func NewUserProgress(userID string, weeklyTarget int, now time.Time, loc *time.Location) *entity.UserProgress {
	tz := "UTC"
	if loc != nil {
		tz = loc.String()
	}
	return &entity.UserProgress{
		UserID:        userID,
		StudySessions: []entity.StudySession{},
		SavedGrammar:  []entity.SavedGrammar{},
		WeeklyGoal: entity.WeeklyGoal{
			Target:    weeklyTarget,
			WeekStart: WeekStart(now, loc),
		},
		CurrentLevel: entity.LevelBeginner,
		Achievements: []entity.Achievement{},
		Timezone:     tz,
		LastActiveAt: now,
	}
}

// ApplyQuizResult folds one result into p and returns the index of the day bucket it landed in.
func ApplyQuizResult(p *entity.UserProgress, r entity.QuizResult, now time.Time, loc *time.Location) int {
	if r.TimeSpentSeconds < 0 {
		r.TimeSpentSeconds = 0
	}
	if r.Attempts <= 0 {
		r.Attempts = 1
	}

	stats := &p.QuizStats
	stats.Total++
	if r.IsCorrect {
		stats.Correct++
		stats.Streak++
		if stats.Streak > stats.BestStreak {
			stats.BestStreak = stats.Streak
		}
	} else {
		stats.Streak = 0
	}
	stats.AverageTimeSeconds = (stats.AverageTimeSeconds*float64(stats.Total-1) + r.TimeSpentSeconds) / float64(stats.Total)

	RollWeeklyGoal(p, now, loc)
	idx := todaySession(p, now, loc)
	p.StudySessions[idx].QuizResults = append(p.StudySessions[idx].QuizResults, r)

	touch(p, now)
	return idx
}

// ApplyStudyTime adds duration seconds to the totals and today's bucket and marks grammarIDs as studied.
func ApplyStudyTime(p *entity.UserProgress, duration int, grammarIDs []string, now time.Time, loc *time.Location) int {
	if duration < 0 {
		duration = 0
	}

	RollWeeklyGoal(p, now, loc)
	p.TotalStudyTimeSeconds += duration
	p.WeeklyGoal.Current += duration

	idx := todaySession(p, now, loc)
	session := &p.StudySessions[idx]
	session.DurationSeconds += duration
	for _, id := range grammarIDs {
		if id == "" || session.HasStudied(id) {
			continue
		}
		session.GrammarStudiedIDs = append(session.GrammarStudiedIDs, id)
	}

	touch(p, now)
	return idx
}

// ApplySaveGrammar is idempotent; the first savedAt wins. Reports whether anything changed.
func ApplySaveGrammar(p *entity.UserProgress, grammarID string, now time.Time) bool {
	if findSaved(p, grammarID) >= 0 {
		return false
	}
	p.SavedGrammar = append(p.SavedGrammar, entity.SavedGrammar{GrammarID: grammarID, SavedAt: now})
	touch(p, now)
	return true
}

// ApplyUnsaveGrammar removes grammarID; a missing id is a no-op.
func ApplyUnsaveGrammar(p *entity.UserProgress, grammarID string, now time.Time) bool {
	i := findSaved(p, grammarID)
	if i < 0 {
		return false
	}
	p.SavedGrammar = append(p.SavedGrammar[:i], p.SavedGrammar[i+1:]...)
	touch(p, now)
	return true
}

// ApplyMastered sets the mastered flag, saving the grammar first if needed.
func ApplyMastered(p *entity.UserProgress, grammarID string, mastered bool, now time.Time) {
	ApplySaveGrammar(p, grammarID, now)
	saved := &p.SavedGrammar[findSaved(p, grammarID)]
	if saved.Mastered == mastered {
		return
	}
	saved.Mastered = mastered
	if mastered {
		at := now
		saved.MasteredAt = &at
	} else {
		saved.MasteredAt = nil
	}
	touch(p, now)
}

func ApplyWeeklyTarget(p *entity.UserProgress, target int, now time.Time, loc *time.Location) {
	RollWeeklyGoal(p, now, loc)
	p.WeeklyGoal.Target = target
	touch(p, now)
}

// RollWeeklyGoal resets the weekly counter once the stored week has ended.
func RollWeeklyGoal(p *entity.UserProgress, now time.Time, loc *time.Location) bool {
	start := WeekStart(now, loc)
	if !p.WeeklyGoal.WeekStart.Before(start) {
		return false
	}
	p.WeeklyGoal.Current = 0
	p.WeeklyGoal.WeekStart = start
	return true
}

func todaySession(p *entity.UserProgress, now time.Time, loc *time.Location) int {
	key, midnight := CurrentDayKey(now, loc)
	for i := range p.StudySessions {
		if p.StudySessions[i].DayKey == key {
			return i
		}
	}
	p.StudySessions = append(p.StudySessions, entity.StudySession{
		DayKey:            key,
		Date:              midnight,
		GrammarStudiedIDs: []string{},
		QuizResults:       []entity.QuizResult{},
	})
	return len(p.StudySessions) - 1
}

func findSaved(p *entity.UserProgress, grammarID string) int {
	for i := range p.SavedGrammar {
		if p.SavedGrammar[i].GrammarID == grammarID {
			return i
		}
	}
	return -1
}

func touch(p *entity.UserProgress, now time.Time) {
	p.LastActiveAt = now
	p.CurrentLevel = levelFor(p)
	unlockAchievements(p, now)
}

// levelFor promotes on volume and accuracy; it never demotes.
func levelFor(p *entity.UserProgress) entity.GrammarLevel {
	level := p.CurrentLevel
	if level == "" {
		level = entity.LevelBeginner
	}
	stats := p.QuizStats
	if stats.Total == 0 {
		return level
	}
	accuracy := float64(stats.Correct) / float64(stats.Total)
	switch {
	case stats.Total >= 200 && accuracy >= 0.8:
		return entity.LevelAdvanced
	case stats.Total >= 50 && accuracy >= 0.7 && level == entity.LevelBeginner:
		return entity.LevelIntermediate
	}
	return level
}

type achievementRule struct {
	id, name, description string
	met                   func(p *entity.UserProgress) bool
}

var achievementRules = []achievementRule{
	{"first-quiz", "First Steps", "Answer your first quiz question", func(p *entity.UserProgress) bool {
		return p.QuizStats.Total >= 1
	}},
	{"streak-5", "On a Roll", "Answer 5 questions correctly in a row", func(p *entity.UserProgress) bool {
		return p.QuizStats.BestStreak >= 5
	}},
	{"streak-10", "Unstoppable", "Answer 10 questions correctly in a row", func(p *entity.UserProgress) bool {
		return p.QuizStats.BestStreak >= 10
	}},
	{"quiz-100", "Centurion", "Answer 100 quiz questions", func(p *entity.UserProgress) bool {
		return p.QuizStats.Total >= 100
	}},
	{"study-hour", "Dedicated", "Study for a total of one hour", func(p *entity.UserProgress) bool {
		return p.TotalStudyTimeSeconds >= 3600
	}},
	{"collector-10", "Collector", "Save 10 grammar points", func(p *entity.UserProgress) bool {
		return len(p.SavedGrammar) >= 10
	}},
}

// unlockAchievements appends newly met achievements. Unlocked ones are never removed.
func unlockAchievements(p *entity.UserProgress, now time.Time) []string {
	var unlocked []string
	for _, rule := range achievementRules {
		if hasAchievement(p, rule.id) || !rule.met(p) {
			continue
		}
		p.Achievements = append(p.Achievements, entity.Achievement{
			ID:          rule.id,
			Name:        rule.name,
			Description: rule.description,
			UnlockedAt:  now,
		})
		unlocked = append(unlocked, rule.id)
	}
	return unlocked
}

func hasAchievement(p *entity.UserProgress, id string) bool {
	for _, a := range p.Achievements {
		if a.ID == id {
			return true
		}
	}
	return false
}

// ComputeStats derives the display figures without mutating p.
func ComputeStats(p *entity.UserProgress, now time.Time, loc *time.Location) entity.ProgressStats {
	stats := entity.ProgressStats{
		Total:              p.QuizStats.Total,
		Correct:            p.QuizStats.Correct,
		AverageTimeSeconds: p.QuizStats.AverageTimeSeconds,
		Streak:             p.QuizStats.Streak,
		BestStreak:         p.QuizStats.BestStreak,
		TotalStudyTime:     p.TotalStudyTimeSeconds,
		WeeklyGoal:         p.WeeklyGoal,
		SavedCount:         len(p.SavedGrammar),
	}
	if stats.Total > 0 {
		stats.Accuracy = float64(stats.Correct) / float64(stats.Total) * 100
	}

	if p.WeeklyGoal.WeekStart.Before(WeekStart(now, loc)) {
		stats.WeeklyGoal.Current = 0
	}
	if stats.WeeklyGoal.Target > 0 {
		stats.WeeklyGoalPercent = float64(stats.WeeklyGoal.Current) / float64(stats.WeeklyGoal.Target) * 100
		if stats.WeeklyGoalPercent > 100 {
			stats.WeeklyGoalPercent = 100
		}
	}

	for _, s := range p.SavedGrammar {
		if s.Mastered {
			stats.MasteredCount++
		}
	}

	days := make(map[string]bool, len(p.StudySessions))
	today, midnight := CurrentDayKey(now, loc)
	for i := range p.StudySessions {
		s := p.StudySessions[i]
		days[s.DayKey] = true
		if s.DayKey == today {
			stats.Today = &s
		}
	}

	// the streak survives until the end of today even if nothing has been logged yet
	day := midnight
	if !days[today] {
		day = day.AddDate(0, 0, -1)
	}
	for days[day.Format(dayKeyLayout)] {
		stats.StudyDayStreak++
		day = day.AddDate(0, 0, -1)
	}

	return stats
}
