package services

import (
	"context"
	"time"

	"pillar-log-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	reviewWindowDays = 7
	reviewMinLogs    = 3
)

// ReviewService batches the trailing 7-day window into a generator request
// and persists the opaque result keyed by (user, week_start).
type ReviewService struct {
	DB        *gorm.DB
	Generator ReviewGenerator
}

func NewReviewService(db *gorm.DB, generator ReviewGenerator) *ReviewService {
	return &ReviewService{DB: db, Generator: generator}
}

// Generate runs the pipeline for the week ending at now. Fewer than 3 logs
// in the window is rejected with ErrInsufficientData before any generator
// call; a generator failure persists nothing. Regenerating a week replaces
// the stored content and timestamp instead of duplicating the record.
func (s *ReviewService) Generate(ctx context.Context, userID string, now time.Time) (*models.WeeklyReview, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}

	var user models.User
	if err := s.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	weekEnd := Day(now)
	weekStart := weekEnd.AddDate(0, 0, -reviewWindowDays)

	var logs []models.DailyLog
	if err := s.DB.
		Where("user_id = ? AND date >= ? AND date <= ?", userID, weekStart, weekEnd).
		Order("date ASC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	if len(logs) < reviewMinLogs {
		return nil, ErrInsufficientData
	}

	content, err := s.Generator.GenerateReview(ctx, ReviewRequest{
		Username: user.Username,
		Domain:   user.Domain,
		Goals:    user.Goals,
		Logs:     logs,
	})
	if err != nil {
		return nil, err
	}

	review := models.WeeklyReview{
		ID:        uuid.NewString(),
		UserID:    userID,
		WeekStart: weekStart,
		WeekEnd:   weekEnd,
		Review:    content,
	}
	if err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "week_start"}},
		DoUpdates: clause.AssignmentColumns([]string{"review", "week_end", "updated_at"}),
	}).Create(&review).Error; err != nil {
		return nil, err
	}

	var saved models.WeeklyReview
	if err := s.DB.
		Where("user_id = ? AND week_start = ?", userID, weekStart).
		First(&saved).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

// List returns the user's reviews, newest week first.
func (s *ReviewService) List(userID string) ([]models.WeeklyReview, error) {
	reviews := make([]models.WeeklyReview, 0)
	err := s.DB.
		Where("user_id = ?", userID).
		Order("week_start DESC").
		Find(&reviews).Error
	return reviews, err
}
