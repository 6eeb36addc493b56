package services

import (
	"strings"
	"testing"

	"pillar-log-system/models"

	"github.com/google/uuid"
)

func pillarLog(day string, mutate func(*models.DailyLog)) models.DailyLog {
	entry := logOn(day)
	entry.ID = uuid.NewString()
	entry.BodyEnergy = 3
	entry.MindFocus = 3
	entry.MoneyCurrency = models.CurrencyUSD
	entry.MoneySpeed = 3
	entry.SkillDifficulty = 3
	if mutate != nil {
		mutate(&entry)
	}
	return entry
}

func TestComputePillarAveragesWindow(t *testing.T) {
	now := mustDay(t, "2026-08-28")

	t.Run("no logs", func(t *testing.T) {
		averages := ComputePillarAverages(nil, now)
		if averages != (PillarAverages{}) {
			t.Fatalf("expected zero averages, got %+v", averages)
		}
	})

	t.Run("logs outside the window are ignored", func(t *testing.T) {
		stale := []models.DailyLog{
			pillarLog("2026-08-10", func(l *models.DailyLog) { l.BodyEnergy = 5; l.MoneyValue = 100 }),
		}
		averages := ComputePillarAverages(stale, now)
		if averages != (PillarAverages{}) {
			t.Fatalf("stale logs leaked into the window: %+v", averages)
		}
	})

	t.Run("means scale to percentages", func(t *testing.T) {
		logs := []models.DailyLog{
			pillarLog("2026-08-27", func(l *models.DailyLog) { l.BodyEnergy = 5; l.MindFocus = 1; l.SkillDifficulty = 4; l.MoneyValue = 50 }),
			pillarLog("2026-08-28", func(l *models.DailyLog) { l.BodyEnergy = 3; l.MindFocus = 3; l.SkillDifficulty = 2 }),
		}
		averages := ComputePillarAverages(logs, now)
		if averages.Body != 80 { // mean(5,3)=4 → 80
			t.Fatalf("body: expected 80, got %v", averages.Body)
		}
		if averages.Mind != 40 { // mean(1,3)=2 → 40
			t.Fatalf("mind: expected 40, got %v", averages.Mind)
		}
		if averages.Skill != 60 { // mean(4,2)=3 → 60
			t.Fatalf("skill: expected 60, got %v", averages.Skill)
		}
		// Financial is day-count based: 1 money day out of a fixed 7-day window.
		want := 1.0 / 7 * 100
		if averages.Financial != want {
			t.Fatalf("financial: expected %v, got %v", want, averages.Financial)
		}
	})
}

func TestComputeHeatmapShape(t *testing.T) {
	now := mustDay(t, "2026-08-28")

	series := ComputeHeatmap(nil, now)
	if len(series) != 365 {
		t.Fatalf("expected exactly 365 entries, got %d", len(series))
	}
	for _, point := range series {
		if point.XP != 0 {
			t.Fatalf("empty history must be all zeros, got %d on %s", point.XP, point.Date)
		}
	}
	if series[len(series)-1].Date != "2026-08-28" {
		t.Fatalf("series must end at today, got %s", series[len(series)-1].Date)
	}
	if series[0].Date != now.AddDate(0, 0, -364).Format("2006-01-02") {
		t.Fatalf("series must start 364 days back, got %s", series[0].Date)
	}

	logs := []models.DailyLog{
		pillarLog("2026-08-28", func(l *models.DailyLog) { l.MindReadFlag = true }),
	}
	series = ComputeHeatmap(logs, now)
	if got := series[len(series)-1].XP; got != 15 {
		t.Fatalf("today's entry must equal the log's score, got %d", got)
	}
}

func TestComputePersonalFeed(t *testing.T) {
	logs := make([]models.DailyLog, 0, 40)
	base := mustDay(t, "2026-08-28")
	for i := 0; i < 40; i++ {
		day := base.AddDate(0, 0, -i).Format("2006-01-02")
		logs = append(logs, pillarLog(day, func(l *models.DailyLog) {
			l.MoneyValue = 1250000
			l.IsPublic = i%2 == 0
		}))
	}

	feed := ComputePersonalFeed(logs)
	if len(feed) != 30 {
		t.Fatalf("feed must cap at 30 entries, got %d", len(feed))
	}
	for i, entry := range feed {
		if len(entry.Pillars) > 2 {
			t.Fatalf("entry %d carries %d tags, max is 2", i, len(entry.Pillars))
		}
		if entry.IsPublic != (i%2 == 0) {
			t.Fatalf("entry %d visibility not passed through", i)
		}
	}
	// The owner's own feed shows the amount, grouped for readability.
	if !strings.Contains(feed[0].MoneyDisplay, "1,250,000") {
		t.Fatalf("expected grouped money display, got %q", feed[0].MoneyDisplay)
	}
}

func TestDashboardAggregates(t *testing.T) {
	db := newTestDB(t)
	svc := NewDashboardService(db)
	user := seedUser(t, db, "user-1", "operator_one")
	user.TotalXP = 5200
	db.Save(user)

	now := mustDay(t, "2026-08-28")
	seedLog(t, db, "user-1", "2026-08-27", true)
	seedLog(t, db, "user-1", "2026-08-28", true)

	dash, err := svc.Dashboard("user-1", now)
	if err != nil {
		t.Fatalf("dashboard failed: %v", err)
	}
	if dash.Stats.Streak != 2 {
		t.Fatalf("expected streak 2, got %d", dash.Stats.Streak)
	}
	if dash.Stats.Rank != "Operative" {
		t.Fatalf("expected Operative at 5200 XP, got %s", dash.Stats.Rank)
	}
	want := 2.0 / 30 * 100
	if dash.Stats.Consistency != want {
		t.Fatalf("expected consistency %v, got %v", want, dash.Stats.Consistency)
	}
	if len(dash.Heatmap) != 365 {
		t.Fatalf("expected 365 heatmap entries, got %d", len(dash.Heatmap))
	}
	if len(dash.Feed) != 2 {
		t.Fatalf("expected 2 feed entries, got %d", len(dash.Feed))
	}

	if _, err := svc.Dashboard("ghost", now); err != ErrNotFound {
		t.Fatalf("expected not-found for unknown user, got %v", err)
	}
}

func TestPublicGridPrivacyAndCounts(t *testing.T) {
	db := newTestDB(t)
	svc := NewDashboardService(db)
	endorsements := NewEndorsementService(db)
	seedUser(t, db, "owner", "owner_one")
	seedUser(t, db, "viewer", "viewer_one")

	visible := seedLog(t, db, "owner", "2026-08-28", true)
	visible.MoneyValue = 9999 // must never surface cross-user
	visible.WarLog = "shipped the release"
	db.Save(visible)
	seedLog(t, db, "owner", "2026-08-27", false)

	if err := endorsements.Toggle(visible.ID, "viewer", true); err != nil {
		t.Fatalf("endorse failed: %v", err)
	}

	grid, err := svc.PublicGrid("viewer", 50)
	if err != nil {
		t.Fatalf("grid failed: %v", err)
	}
	if len(grid) != 1 {
		t.Fatalf("private logs must not surface, got %d entries", len(grid))
	}

	entry := grid[0]
	if entry.Username != "owner_one" {
		t.Fatalf("expected joined username, got %s", entry.Username)
	}
	if entry.EndorsementCount != 1 || !entry.HasEndorsed {
		t.Fatalf("endorsement state wrong: count=%d hasEndorsed=%v", entry.EndorsementCount, entry.HasEndorsed)
	}
	if entry.WarLog != "shipped the release" {
		t.Fatalf("war log not carried: %q", entry.WarLog)
	}
	// The amount stays hidden; only the Growth tag betrays financial activity.
	for _, tag := range entry.Pillars {
		if tag == "Growth" {
			return
		}
	}
	t.Fatal("expected a Growth tag on a money day")
}
