package services

import (
	"fmt"
	"log"

	"pillar-log-system/models"

	"gorm.io/gorm"
)

// ProgressionService owns the total-XP accumulator and the cached streak
// counter on the user row. It is always invoked inside the log-submit
// transaction so the accumulators move together with the log write.
type ProgressionService struct {
	DB *gorm.DB
}

func NewProgressionService(db *gorm.DB) *ProgressionService {
	return &ProgressionService{DB: db}
}

// ApplyScoreDelta moves total_xp by the difference between the new and the
// previous score of the submitted day, floors the accumulator at zero, and
// refreshes the cached streak from log contiguity. Returns the updated user.
func (s *ProgressionService) ApplyScoreDelta(tx *gorm.DB, userID string, xpDelta int64) (*models.User, error) {
	var user models.User
	if err := tx.Where("id = ?", userID).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("profile not found for %s: %w", userID, ErrNotFound)
		}
		return nil, err
	}

	user.TotalXP += xpDelta
	if user.TotalXP < 0 {
		user.TotalXP = 0
	}

	streak, err := s.streakFromLogs(tx, userID)
	if err != nil {
		return nil, err
	}
	user.CurrentStreak = streak

	if err := tx.Save(&user).Error; err != nil {
		return nil, err
	}

	log.Printf("🎮 [PROGRESSION] %s → XP=%d (Δ%+d), Streak=%d, Rank=%s",
		userID, user.TotalXP, xpDelta, user.CurrentStreak, RankFor(user.TotalXP))
	return &user, nil
}

// Streak recomputes the consecutive-day streak from the log table. This is
// the source of truth; users.current_streak is only a cache of it.
func (s *ProgressionService) Streak(userID string) (int, error) {
	return s.streakFromLogs(s.DB, userID)
}

func (s *ProgressionService) streakFromLogs(tx *gorm.DB, userID string) (int, error) {
	var logs []models.DailyLog
	if err := tx.Select("date").
		Where("user_id = ?", userID).
		Order("date DESC").
		Find(&logs).Error; err != nil {
		return 0, err
	}
	return ComputeStreak(logs), nil
}
