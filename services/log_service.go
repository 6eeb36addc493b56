package services

import (
	"context"
	"fmt"
	"time"

	"pillar-log-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	sliderMin    = 1
	sliderMax    = 5
	warLogMaxLen = 5000
)

// LogPayload is the submit/draft body for one day. The same shape feeds the
// scoring preview, the draft store, and the durable upsert.
type LogPayload struct {
	BodyUnhealthyFlag bool                 `json:"body_unhealthy_flag"`
	BodyEnergy        int                  `json:"body_energy"`
	MindReadFlag      bool                 `json:"mind_read_flag"`
	MindFocus         int                  `json:"mind_focus"`
	MoneyValue        float64              `json:"money_value"`
	MoneyCurrency     models.MoneyCurrency `json:"money_currency"`
	MoneySpeed        int                  `json:"money_speed"`
	SkillPracticeFlag bool                 `json:"skill_practice_flag"`
	SkillDifficulty   int                  `json:"skill_difficulty"`
	WarLog            string               `json:"war_log"`
	ImageURL          *string              `json:"image_url"`
	IsPublic          bool                 `json:"is_public"`
}

// DefaultLogPayload is the Unsubmitted-Default state: sliders at 3, flags
// off, no money, public.
func DefaultLogPayload() LogPayload {
	return LogPayload{
		BodyEnergy:      3,
		MindFocus:       3,
		MoneyValue:      0,
		MoneyCurrency:   models.CurrencyUSD,
		MoneySpeed:      3,
		SkillDifficulty: 3,
		IsPublic:        true,
	}
}

// ScoreInput projects the payload's gameplay fields for the scoring
// function, so previews and submissions score identically.
func (p LogPayload) ScoreInput() ScoreInput {
	return ScoreInput{
		BodyUnhealthyFlag: p.BodyUnhealthyFlag,
		BodyEnergy:        p.BodyEnergy,
		MindReadFlag:      p.MindReadFlag,
		MindFocus:         p.MindFocus,
		MoneyValue:        p.MoneyValue,
		MoneySpeed:        p.MoneySpeed,
		SkillPracticeFlag: p.SkillPracticeFlag,
		SkillDifficulty:   p.SkillDifficulty,
	}
}

func clampSlider(v int) int {
	if v < sliderMin {
		return sliderMin
	}
	if v > sliderMax {
		return sliderMax
	}
	return v
}

// Clamped returns a copy with every slider forced into [1,5]. Applied at
// submission time regardless of what the client staged.
func (p LogPayload) Clamped() LogPayload {
	p.BodyEnergy = clampSlider(p.BodyEnergy)
	p.MindFocus = clampSlider(p.MindFocus)
	p.MoneySpeed = clampSlider(p.MoneySpeed)
	p.SkillDifficulty = clampSlider(p.SkillDifficulty)
	return p
}

// Validate rejects values client clamping cannot fix.
func (p LogPayload) Validate() error {
	if p.MoneyValue < 0 {
		return &ValidationError{Field: "money_value", Reason: "must be ≥ 0"}
	}
	if !models.ValidCurrency(p.MoneyCurrency) {
		return &ValidationError{Field: "money_currency", Reason: "must be USD or BDT"}
	}
	if len(p.WarLog) > warLogMaxLen {
		return &ValidationError{Field: "war_log", Reason: fmt.Sprintf("exceeds %d characters", warLogMaxLen)}
	}
	return nil
}

// Day truncates t to a UTC calendar day.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a yyyy-mm-dd date string.
func ParseDay(s string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "date", Reason: "must be yyyy-mm-dd"}
	}
	return d, nil
}

// LogService owns the daily-log lifecycle: fetch-by-date, the idempotent
// per-day upsert, and the draft handoff around submission.
type LogService struct {
	DB       *gorm.DB
	Progress *ProgressionService
	Drafts   *DraftService
}

func NewLogService(db *gorm.DB, progress *ProgressionService, drafts *DraftService) *LogService {
	return &LogService{DB: db, Progress: progress, Drafts: drafts}
}

// FetchByDate returns the persisted record for (user, date) if one exists.
func (s *LogService) FetchByDate(userID string, date time.Time) (*models.DailyLog, bool, error) {
	day := Day(date)
	var entry models.DailyLog
	result := s.DB.
		Where("user_id = ? AND date >= ? AND date < ?", userID, day, day.AddDate(0, 0, 1)).
		Limit(1).
		Find(&entry)
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, false, nil
	}
	return &entry, true, nil
}

// Open resolves the editing state for a date: the persisted record wins
// over any staged draft, the draft wins over defaults. The returned source
// is "persisted", "draft" or "default".
func (s *LogService) Open(ctx context.Context, userID string, date time.Time) (LogPayload, string, error) {
	if entry, found, err := s.FetchByDate(userID, date); err != nil {
		return LogPayload{}, "", err
	} else if found {
		return payloadFromLog(entry), "persisted", nil
	}

	if s.Drafts != nil {
		if draft, found, err := s.Drafts.Recover(ctx, userID, date); err == nil && found {
			return *draft, "draft", nil
		}
	}
	return DefaultLogPayload(), "default", nil
}

// Submit performs the idempotent wholesale upsert keyed by (user_id, date),
// moves the user's XP by the day's score delta, refreshes the streak cache,
// purges the staged draft, and re-reads the record to confirm identity.
// On any failure the draft is left in place.
func (s *LogService) Submit(ctx context.Context, userID string, date time.Time, payload LogPayload) (*models.DailyLog, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	payload = payload.Clamped()
	day := Day(date)

	prev, existed, err := s.FetchByDate(userID, day)
	if err != nil {
		return nil, err
	}
	oldXP := 0
	if existed {
		oldXP = ScoreLog(prev)
	}
	newXP := CalculateScore(payload.ScoreInput())

	entry := models.DailyLog{
		ID:                uuid.NewString(),
		UserID:            userID,
		Date:              day,
		IsPublic:          payload.IsPublic,
		BodyUnhealthyFlag: payload.BodyUnhealthyFlag,
		BodyEnergy:        payload.BodyEnergy,
		MindReadFlag:      payload.MindReadFlag,
		MindFocus:         payload.MindFocus,
		MoneyValue:        payload.MoneyValue,
		MoneyCurrency:     payload.MoneyCurrency,
		MoneySpeed:        payload.MoneySpeed,
		SkillPracticeFlag: payload.SkillPracticeFlag,
		SkillDifficulty:   payload.SkillDifficulty,
		WarLog:            payload.WarLog,
		ImageURL:          payload.ImageURL,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		// Wholesale overwrite on conflict — no field-level merge. The id
		// and created_at of the first write survive resubmissions.
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"is_public",
				"body_unhealthy_flag", "body_energy",
				"mind_read_flag", "mind_focus",
				"money_value", "money_currency", "money_speed",
				"skill_practice_flag", "skill_difficulty",
				"war_log", "image_url", "updated_at",
			}),
		}).Create(&entry).Error; err != nil {
			return err
		}

		_, err := s.Progress.ApplyScoreDelta(tx, userID, int64(newXP-oldXP))
		return err
	})
	if err != nil {
		return nil, err
	}

	if s.Drafts != nil {
		s.Drafts.Discard(ctx, userID, day)
	}

	saved, found, err := s.FetchByDate(userID, day)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("log vanished after upsert for %s on %s", userID, day.Format("2006-01-02"))
	}
	return saved, nil
}

func payloadFromLog(l *models.DailyLog) LogPayload {
	return LogPayload{
		BodyUnhealthyFlag: l.BodyUnhealthyFlag,
		BodyEnergy:        l.BodyEnergy,
		MindReadFlag:      l.MindReadFlag,
		MindFocus:         l.MindFocus,
		MoneyValue:        l.MoneyValue,
		MoneyCurrency:     l.MoneyCurrency,
		MoneySpeed:        l.MoneySpeed,
		SkillPracticeFlag: l.SkillPracticeFlag,
		SkillDifficulty:   l.SkillDifficulty,
		WarLog:            l.WarLog,
		ImageURL:          l.ImageURL,
		IsPublic:          l.IsPublic,
	}
}
