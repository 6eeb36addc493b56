package services

import (
	"pillar-log-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EndorsementService owns the durable half of the endorsement toggle. The
// (log_id, user_id) unique index makes a repeated endorse a no-op, so the
// set cardinality never double-counts regardless of call ordering.
type EndorsementService struct {
	DB *gorm.DB
}

func NewEndorsementService(db *gorm.DB) *EndorsementService {
	return &EndorsementService{DB: db}
}

// Toggle endorses (endorse=true) or retracts (endorse=false) the viewer's
// reaction on a log. Only public logs accept endorsements from non-owners.
func (s *EndorsementService) Toggle(logID, userID string, endorse bool) error {
	if userID == "" {
		return ErrUnauthorized
	}

	var entry models.DailyLog
	result := s.DB.Where("id = ?", logID).Limit(1).Find(&entry)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	if !entry.IsPublic && entry.UserID != userID {
		return ErrNotFound
	}

	if endorse {
		// Duplicate insert is the designed idempotent outcome, not an error.
		return s.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "log_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).Create(&models.Endorsement{
			ID:     uuid.NewString(),
			LogID:  logID,
			UserID: userID,
		}).Error
	}
	return s.DB.Where("log_id = ? AND user_id = ?", logID, userID).
		Delete(&models.Endorsement{}).Error
}

// Count returns the cardinality of the endorsement set for a log.
func (s *EndorsementService) Count(logID string) (int64, error) {
	var count int64
	err := s.DB.Model(&models.Endorsement{}).Where("log_id = ?", logID).Count(&count).Error
	return count, err
}

// HasEndorsed reports the viewer's durable endorsement state.
func (s *EndorsementService) HasEndorsed(logID, userID string) (bool, error) {
	var count int64
	err := s.DB.Model(&models.Endorsement{}).
		Where("log_id = ? AND user_id = ?", logID, userID).
		Count(&count).Error
	return count > 0, err
}

// EndorsementToggle is the optimistic, client-visible half: ApplyLocal
// flips the state immediately, Reconcile either confirms or rolls back
// once the durable write resolves. Each phase is independently testable.
type EndorsementToggle struct {
	Endorsed bool
	Count    int64

	prevEndorsed bool
	prevCount    int64
	applied      bool
}

// ApplyLocal flips the endorsed flag and adjusts the count by ±1 before
// the durable write resolves. Calling it twice without Reconcile keeps the
// original pre-toggle snapshot so a rollback restores the true baseline.
func (t *EndorsementToggle) ApplyLocal() {
	if !t.applied {
		t.prevEndorsed = t.Endorsed
		t.prevCount = t.Count
		t.applied = true
	}
	t.Endorsed = !t.Endorsed
	if t.Endorsed {
		t.Count++
	} else {
		t.Count--
	}
}

// Reconcile finalizes the optimistic state: a nil result confirms it, any
// error reverts flag and count to their pre-toggle values. The rollback
// never propagates beyond this value.
func (t *EndorsementToggle) Reconcile(result error) {
	if result != nil {
		t.Endorsed = t.prevEndorsed
		t.Count = t.prevCount
	}
	t.applied = false
}
