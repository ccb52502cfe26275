package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/evandrarf/hangeul-quiz-be/internal/delivery/http/entity"
	"github.com/evandrarf/hangeul-quiz-be/internal/delivery/http/repository"
	internalEntity "github.com/evandrarf/hangeul-quiz-be/internal/entity"
	"github.com/evandrarf/hangeul-quiz-be/internal/pkg/keylock"
	"github.com/evandrarf/hangeul-quiz-be/internal/pkg/mapper"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

type ProgressUsecase interface {
	Get(ctx context.Context, user entity.UserContext) (*entity.UserProgress, error)
	Stats(ctx context.Context, user entity.UserContext) (*entity.ProgressStats, error)
	RecordQuizResult(ctx context.Context, user entity.UserContext, result entity.QuizResult) (*entity.UserProgress, error)
	RecordStudyTime(ctx context.Context, user entity.UserContext, durationSeconds int, grammarIDs []string) (*entity.UserProgress, error)
	SaveGrammar(ctx context.Context, user entity.UserContext, grammarID string) (*entity.UserProgress, error)
	UnsaveGrammar(ctx context.Context, user entity.UserContext, grammarID string) (*entity.UserProgress, error)
	SetMastered(ctx context.Context, user entity.UserContext, grammarID string, mastered bool) (*entity.UserProgress, error)
	SetWeeklyGoal(ctx context.Context, user entity.UserContext, target int) (*entity.UserProgress, error)
	// RollWeeklyGoals resets the weekly counter of every user whose stored week has ended.
	RollWeeklyGoals(ctx context.Context) (int, error)
}

type ProgressConfig struct {
	DB         *gorm.DB
	Repository repository.UserProgressRepository
	Config     *viper.Viper
	Log        *logrus.Logger
	// Now is the clock; defaults to time.Now.
	Now func() time.Time
}

type progressUsecase struct {
	cfg   ProgressConfig
	locks *keylock.KeyLock

	weeklyTarget    int
	defaultTimezone string
}

func NewProgressUsecase(cfg ProgressConfig) ProgressUsecase {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Log == nil {
		cfg.Log = logrus.StandardLogger()
	}

	u := &progressUsecase{
		cfg:             cfg,
		locks:           keylock.New(),
		weeklyTarget:    300,
		defaultTimezone: "UTC",
	}
	if cfg.Config != nil {
		if v := cfg.Config.GetInt("progress.weekly_goal_target"); v > 0 {
			u.weeklyTarget = v
		}
		if v := cfg.Config.GetString("progress.default_timezone"); v != "" {
			u.defaultTimezone = v
		}
	}
	return u
}

func (u *progressUsecase) Get(ctx context.Context, user entity.UserContext) (*entity.UserProgress, error) {
	return u.mutate(ctx, user, "get", nil)
}

func (u *progressUsecase) Stats(ctx context.Context, user entity.UserContext) (*entity.ProgressStats, error) {
	p, err := u.mutate(ctx, user, "stats", nil)
	if err != nil {
		return nil, err
	}
	loc, _ := u.location(user.Timezone, p.Timezone)
	stats := ComputeStats(p, u.cfg.Now(), loc)
	return &stats, nil
}

func (u *progressUsecase) RecordQuizResult(ctx context.Context, user entity.UserContext, result entity.QuizResult) (*entity.UserProgress, error) {
	return u.mutate(ctx, user, "quiz_result", func(p *entity.UserProgress, now time.Time, loc *time.Location) error {
		ApplyQuizResult(p, result, now, loc)
		return nil
	})
}

func (u *progressUsecase) RecordStudyTime(ctx context.Context, user entity.UserContext, durationSeconds int, grammarIDs []string) (*entity.UserProgress, error) {
	return u.mutate(ctx, user, "study_time", func(p *entity.UserProgress, now time.Time, loc *time.Location) error {
		ApplyStudyTime(p, durationSeconds, grammarIDs, now, loc)
		return nil
	})
}

func (u *progressUsecase) SaveGrammar(ctx context.Context, user entity.UserContext, grammarID string) (*entity.UserProgress, error) {
	return u.mutate(ctx, user, "save_grammar", func(p *entity.UserProgress, now time.Time, _ *time.Location) error {
		ApplySaveGrammar(p, grammarID, now)
		return nil
	})
}

func (u *progressUsecase) UnsaveGrammar(ctx context.Context, user entity.UserContext, grammarID string) (*entity.UserProgress, error) {
	return u.mutate(ctx, user, "unsave_grammar", func(p *entity.UserProgress, now time.Time, _ *time.Location) error {
		ApplyUnsaveGrammar(p, grammarID, now)
		return nil
	})
}

func (u *progressUsecase) SetMastered(ctx context.Context, user entity.UserContext, grammarID string, mastered bool) (*entity.UserProgress, error) {
	return u.mutate(ctx, user, "mastered", func(p *entity.UserProgress, now time.Time, _ *time.Location) error {
		ApplyMastered(p, grammarID, mastered, now)
		return nil
	})
}

func (u *progressUsecase) SetWeeklyGoal(ctx context.Context, user entity.UserContext, target int) (*entity.UserProgress, error) {
	return u.mutate(ctx, user, "weekly_goal", func(p *entity.UserProgress, now time.Time, loc *time.Location) error {
		ApplyWeeklyTarget(p, target, now, loc)
		return nil
	})
}

func (u *progressUsecase) RollWeeklyGoals(ctx context.Context) (int, error) {
	// Monday 00:00 in UTC+14 is the earliest week start on earth; RollWeeklyGoal decides per zone
	cutoff := WeekStart(u.cfg.Now(), time.UTC).Add(-14 * time.Hour)

	userIDs, err := u.cfg.Repository.FindStaleWeeklyGoalUserIDs(u.cfg.DB.WithContext(ctx), cutoff, 0)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrProgressUnavailable, err)
	}

	rolled := 0
	for _, userID := range userIDs {
		if ctx.Err() != nil {
			return rolled, ctx.Err()
		}
		changed := false
		_, err := u.mutate(ctx, entity.UserContext{UserID: userID}, "weekly_roll", func(p *entity.UserProgress, now time.Time, loc *time.Location) error {
			changed = RollWeeklyGoal(p, now, loc)
			return nil
		})
		if err != nil {
			return rolled, err
		}
		if changed {
			rolled++
		}
	}
	return rolled, nil
}

type progressMutation func(p *entity.UserProgress, now time.Time, loc *time.Location) error

// mutate runs one serialized read-modify-write of a user's aggregate inside a single transaction.
// A nil fn only loads (creating the aggregate if it does not exist yet).
func (u *progressUsecase) mutate(ctx context.Context, user entity.UserContext, op string, fn progressMutation) (*entity.UserProgress, error) {
	unlock := u.locks.Lock(user.UserID)
	defer unlock()

	now := u.cfg.Now()
	var result *entity.UserProgress

	err := u.cfg.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := u.loadForUpdate(tx, user, now)
		if err != nil {
			return err
		}

		p, err := mapper.ConvertToUserProgress(row)
		if err != nil {
			return err
		}

		loc, tz := u.location(user.Timezone, p.Timezone)
		if fn == nil {
			result = p
			return nil
		}
		p.Timezone = tz

		if err := fn(p, now, loc); err != nil {
			return err
		}
		if err := u.persist(tx, row, p); err != nil {
			return err
		}
		result = p
		return nil
	})
	if err != nil {
		u.cfg.Log.WithFields(logrus.Fields{
			"user_id": user.UserID,
			"op":      op,
		}).WithError(err).Error("progress write failed")
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrProgressUnavailable, err)
	}
	return result, nil
}

func (u *progressUsecase) loadForUpdate(tx *gorm.DB, user entity.UserContext, now time.Time) (*internalEntity.UserProgress, error) {
	row, err := u.cfg.Repository.FindByUserIDForUpdate(tx, user.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		loc, _ := u.location(user.Timezone, "")
		fresh := NewUserProgress(user.UserID, u.weeklyTarget, now, loc)
		created := &internalEntity.UserProgress{}
		if err := mapper.FillUserProgressRow(created, fresh); err != nil {
			return nil, err
		}
		if err := u.cfg.Repository.CreateIfAbsent(tx, created); err != nil {
			return nil, err
		}
		row, err = u.cfg.Repository.FindByUserIDForUpdate(tx, user.UserID)
	}
	if err != nil {
		return nil, err
	}

	if row.StudySessions, err = u.cfg.Repository.FindStudySessions(tx, row.ID); err != nil {
		return nil, err
	}
	if row.SavedGrammar, err = u.cfg.Repository.FindSavedGrammar(tx, row.ID); err != nil {
		return nil, err
	}
	return row, nil
}

// persist writes only what changed between the loaded row set and the folded aggregate.
func (u *progressUsecase) persist(tx *gorm.DB, row *internalEntity.UserProgress, p *entity.UserProgress) error {
	if err := mapper.FillUserProgressRow(row, p); err != nil {
		return err
	}
	if err := u.cfg.Repository.Update(tx, row); err != nil {
		return err
	}

	sessions := make(map[string]*internalEntity.StudySession, len(row.StudySessions))
	for i := range row.StudySessions {
		sessions[row.StudySessions[i].DayKey] = &row.StudySessions[i]
	}
	for _, s := range p.StudySessions {
		sessionRow, ok := sessions[s.DayKey]
		if !ok {
			sessionRow = &internalEntity.StudySession{UserProgressID: row.ID}
		}
		stored := len(sessionRow.QuizResults)

		changed, err := mapper.FillStudySessionRow(sessionRow, s)
		if err != nil {
			return err
		}
		if changed {
			if err := u.cfg.Repository.SaveStudySession(tx, sessionRow); err != nil {
				return err
			}
		}
		for i := stored; i < len(s.QuizResults); i++ {
			result := mapper.ConvertToQuizResultEntity(row.ID, sessionRow.ID, i, s.QuizResults[i])
			if err := u.cfg.Repository.CreateQuizResult(tx, result); err != nil {
				return err
			}
		}
	}

	saved := make(map[string]*internalEntity.SavedGrammar, len(row.SavedGrammar))
	for i := range row.SavedGrammar {
		saved[row.SavedGrammar[i].GrammarID] = &row.SavedGrammar[i]
	}
	kept := make(map[string]bool, len(p.SavedGrammar))
	for _, s := range p.SavedGrammar {
		kept[s.GrammarID] = true
		existing, ok := saved[s.GrammarID]
		if !ok {
			if err := u.cfg.Repository.CreateSavedGrammar(tx, mapper.ConvertToSavedGrammarEntity(row.ID, s)); err != nil {
				return err
			}
			continue
		}
		if existing.Mastered != s.Mastered {
			existing.Mastered = s.Mastered
			existing.MasteredAt = s.MasteredAt
			if err := u.cfg.Repository.UpdateSavedGrammar(tx, existing); err != nil {
				return err
			}
		}
	}
	for grammarID := range saved {
		if kept[grammarID] {
			continue
		}
		if err := u.cfg.Repository.DeleteSavedGrammar(tx, row.ID, grammarID); err != nil {
			return err
		}
	}
	return nil
}

// location resolves the first loadable zone among the request's, the stored one and the configured default.
func (u *progressUsecase) location(candidates ...string) (*time.Location, string) {
	candidates = append(candidates, u.defaultTimezone)
	for _, name := range candidates {
		if name == "" {
			continue
		}
		if loc, err := time.LoadLocation(name); err == nil {
			return loc, name
		}
	}
	return time.UTC, "UTC"
}
