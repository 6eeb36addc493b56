package services

import (
	"errors"
	"testing"

	"pillar-log-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func seedLog(t *testing.T, db *gorm.DB, userID, day string, public bool) *models.DailyLog {
	t.Helper()
	entry := models.DailyLog{
		ID:              uuid.NewString(),
		UserID:          userID,
		Date:            mustDay(t, day),
		IsPublic:        public,
		BodyEnergy:      3,
		MindFocus:       3,
		MoneyCurrency:   models.CurrencyUSD,
		MoneySpeed:      3,
		SkillDifficulty: 3,
	}
	if err := db.Create(&entry).Error; err != nil {
		t.Fatalf("failed to seed log: %v", err)
	}
	return &entry
}

func TestToggleEndorseAndRetract(t *testing.T) {
	db := newTestDB(t)
	svc := NewEndorsementService(db)
	seedUser(t, db, "owner", "owner_one")
	seedUser(t, db, "viewer", "viewer_one")
	entry := seedLog(t, db, "owner", "2026-08-28", true)

	if err := svc.Toggle(entry.ID, "viewer", true); err != nil {
		t.Fatalf("endorse failed: %v", err)
	}
	if count, _ := svc.Count(entry.ID); count != 1 {
		t.Fatalf("expected count 1, got %d", count)
	}
	if ok, _ := svc.HasEndorsed(entry.ID, "viewer"); !ok {
		t.Fatal("viewer endorsement not recorded")
	}

	if err := svc.Toggle(entry.ID, "viewer", false); err != nil {
		t.Fatalf("retract failed: %v", err)
	}
	if count, _ := svc.Count(entry.ID); count != 0 {
		t.Fatalf("expected count 0 after retract, got %d", count)
	}
	if ok, _ := svc.HasEndorsed(entry.ID, "viewer"); ok {
		t.Fatal("endorsement survived retract")
	}
}

func TestRepeatedEndorseNeverDoubleCounts(t *testing.T) {
	db := newTestDB(t)
	svc := NewEndorsementService(db)
	seedUser(t, db, "owner", "owner_one")
	seedUser(t, db, "viewer", "viewer_one")
	entry := seedLog(t, db, "owner", "2026-08-28", true)

	for i := 0; i < 3; i++ {
		if err := svc.Toggle(entry.ID, "viewer", true); err != nil {
			t.Fatalf("endorse #%d failed: %v", i+1, err)
		}
	}
	if count, _ := svc.Count(entry.ID); count != 1 {
		t.Fatalf("duplicate endorsements must collapse to 1, got %d", count)
	}
}

func TestToggleRejectsHiddenLogs(t *testing.T) {
	db := newTestDB(t)
	svc := NewEndorsementService(db)
	seedUser(t, db, "owner", "owner_one")
	seedUser(t, db, "viewer", "viewer_one")
	private := seedLog(t, db, "owner", "2026-08-28", false)

	if err := svc.Toggle(private.ID, "viewer", true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("private log must look nonexistent to others, got %v", err)
	}
	// The owner still sees and can react to their own private log.
	if err := svc.Toggle(private.ID, "owner", true); err != nil {
		t.Fatalf("owner toggle on own private log failed: %v", err)
	}

	if err := svc.Toggle(uuid.NewString(), "viewer", true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing log must return not-found, got %v", err)
	}
	if err := svc.Toggle(private.ID, "", true); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("anonymous toggle must be unauthorized, got %v", err)
	}
}

func TestEndorsementToggleOptimisticRollback(t *testing.T) {
	state := EndorsementToggle{Endorsed: false, Count: 4}

	state.ApplyLocal()
	if !state.Endorsed || state.Count != 5 {
		t.Fatalf("optimistic apply wrong: endorsed=%v count=%d", state.Endorsed, state.Count)
	}

	state.Reconcile(errors.New("network down"))
	if state.Endorsed || state.Count != 4 {
		t.Fatalf("rollback must restore the baseline: endorsed=%v count=%d", state.Endorsed, state.Count)
	}

	state.ApplyLocal()
	state.Reconcile(nil)
	if !state.Endorsed || state.Count != 5 {
		t.Fatalf("confirmed toggle lost: endorsed=%v count=%d", state.Endorsed, state.Count)
	}

	// Retract path mirrors it.
	state.ApplyLocal()
	if state.Endorsed || state.Count != 4 {
		t.Fatalf("optimistic retract wrong: endorsed=%v count=%d", state.Endorsed, state.Count)
	}
	state.Reconcile(errors.New("timeout"))
	if !state.Endorsed || state.Count != 5 {
		t.Fatalf("retract rollback wrong: endorsed=%v count=%d", state.Endorsed, state.Count)
	}
}

func TestEndorsementToggleDoubleApplyKeepsBaseline(t *testing.T) {
	state := EndorsementToggle{Endorsed: false, Count: 2}

	// Two rapid taps before the durable write resolves.
	state.ApplyLocal()
	state.ApplyLocal()
	state.Reconcile(errors.New("write failed"))

	if state.Endorsed || state.Count != 2 {
		t.Fatalf("rollback after double tap must restore the original snapshot: endorsed=%v count=%d", state.Endorsed, state.Count)
	}
}
