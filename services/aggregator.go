package services

import (
	"time"

	"pillar-log-system/models"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
	"gorm.io/gorm"
)

const (
	averagesWindowDays = 7
	heatmapDays        = 365
	personalFeedLimit  = 30
	consistencyDays    = 30
	publicGridLimit    = 50
	maxFeedPillars     = 2
)

// PillarAverages are trailing-7-day percentages per pillar. Body, mind and
// skill are the 1–5 mean scaled ×20; financial is the share of the 7 days
// that had any money_value > 0, not an amount average.
type PillarAverages struct {
	Body      float64 `json:"body"`
	Mind      float64 `json:"mind"`
	Financial float64 `json:"financial"`
	Skill     float64 `json:"skill"`
}

// HeatmapPoint is one day of the fixed 365-entry series.
type HeatmapPoint struct {
	Date string `json:"date"`
	XP   int    `json:"xp"`
}

// FeedEntry is one row of the owner's recent-activity feed.
type FeedEntry struct {
	ID           string   `json:"id"`
	Date         string   `json:"date"`
	XP           int      `json:"xp"`
	Pillars      []string `json:"pillars"`
	IsPublic     bool     `json:"is_public"`
	MoneyDisplay string   `json:"money_display,omitempty"`
}

// DashboardStats is the headline strip.
type DashboardStats struct {
	Streak      int     `json:"streak"`
	TotalXP     int64   `json:"total_xp"`
	Rank        string  `json:"rank"`
	Consistency float64 `json:"consistency"`
}

// Dashboard bundles every owner-facing aggregate.
type Dashboard struct {
	Stats    DashboardStats `json:"stats"`
	Averages PillarAverages `json:"averages"`
	Heatmap  []HeatmapPoint `json:"heatmap"`
	Feed     []FeedEntry    `json:"feed"`
}

// GridEntry is one public log as seen by a viewer. The financial amount is
// never exposed across users — only the "Growth" activity tag survives.
type GridEntry struct {
	LogID            string   `json:"log_id"`
	Username         string   `json:"username"`
	AvatarURL        *string  `json:"avatar_url,omitempty"`
	Domain           string   `json:"domain"`
	Date             string   `json:"date"`
	Pillars          []string `json:"pillars"`
	WarLog           string   `json:"war_log"`
	ImageURL         *string  `json:"image_url,omitempty"`
	XP               int      `json:"xp"`
	EndorsementCount int64    `json:"endorsement_count"`
	HasEndorsed      bool     `json:"has_endorsed"`
}

// DashboardService derives every time-windowed view from log history. All
// aggregations are deterministic given the same slice and "now".
type DashboardService struct {
	DB *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{DB: db}
}

var moneyPrinter = message.NewPrinter(language.English)

func formatMoney(currency models.MoneyCurrency, value float64) string {
	return moneyPrinter.Sprintf("%s %v", string(currency), number.Decimal(value))
}

// activePillars tags a log with the pillars it touched, in fixed order.
func activePillars(l *models.DailyLog) []string {
	pillars := make([]string, 0, 4)
	if l.BodyEnergy > 0 {
		pillars = append(pillars, "Body")
	}
	if l.MindFocus > 0 {
		pillars = append(pillars, "Mind")
	}
	if l.MoneyValue > 0 {
		pillars = append(pillars, "Growth")
	}
	if l.SkillDifficulty > 0 {
		pillars = append(pillars, "Skill")
	}
	return pillars
}

// ComputePillarAverages filters logs to the trailing 7 calendar days
// (inclusive of today) and averages each pillar.
func ComputePillarAverages(logs []models.DailyLog, now time.Time) PillarAverages {
	today := Day(now)
	windowStart := today.AddDate(0, 0, -(averagesWindowDays - 1))

	var bodySum, mindSum, skillSum float64
	var count, moneyDays int
	for i := range logs {
		day := logs[i].Day()
		if day.Before(windowStart) || day.After(today) {
			continue
		}
		count++
		bodySum += float64(logs[i].BodyEnergy)
		mindSum += float64(logs[i].MindFocus)
		skillSum += float64(logs[i].SkillDifficulty)
		if logs[i].MoneyValue > 0 {
			moneyDays++
		}
	}
	if count == 0 {
		return PillarAverages{}
	}
	return PillarAverages{
		Body:      bodySum / float64(count) * 20,
		Mind:      mindSum / float64(count) * 20,
		Financial: float64(moneyDays) / averagesWindowDays * 100,
		Skill:     skillSum / float64(count) * 20,
	}
}

// ComputeHeatmap emits exactly 365 entries, oldest first, zero for days
// without a log.
func ComputeHeatmap(logs []models.DailyLog, now time.Time) []HeatmapPoint {
	today := Day(now)
	xpByDay := make(map[string]int, len(logs))
	for i := range logs {
		xpByDay[logs[i].Day().Format("2006-01-02")] = ScoreLog(&logs[i])
	}

	series := make([]HeatmapPoint, 0, heatmapDays)
	for offset := heatmapDays - 1; offset >= 0; offset-- {
		date := today.AddDate(0, 0, -offset).Format("2006-01-02")
		series = append(series, HeatmapPoint{Date: date, XP: xpByDay[date]})
	}
	return series
}

// ComputePersonalFeed maps the most recent 30 logs (expected date-descending)
// into tagged feed rows, at most 2 tags each, visibility passed through.
func ComputePersonalFeed(logs []models.DailyLog) []FeedEntry {
	feed := make([]FeedEntry, 0, personalFeedLimit)
	for i := range logs {
		if len(feed) == personalFeedLimit {
			break
		}
		l := &logs[i]
		pillars := activePillars(l)
		if len(pillars) > maxFeedPillars {
			pillars = pillars[:maxFeedPillars]
		}
		entry := FeedEntry{
			ID:       l.ID,
			Date:     l.Day().Format("2006-01-02"),
			XP:       ScoreLog(l),
			Pillars:  pillars,
			IsPublic: l.IsPublic,
		}
		if l.MoneyValue > 0 {
			// Owner's own feed may show the amount; the public grid never does.
			entry.MoneyDisplay = formatMoney(l.MoneyCurrency, l.MoneyValue)
		}
		feed = append(feed, entry)
	}
	return feed
}

func computeConsistency(logs []models.DailyLog, now time.Time) float64 {
	today := Day(now)
	windowStart := today.AddDate(0, 0, -(consistencyDays - 1))
	days := make(map[time.Time]bool)
	for i := range logs {
		day := logs[i].Day()
		if !day.Before(windowStart) && !day.After(today) {
			days[day] = true
		}
	}
	return float64(len(days)) / consistencyDays * 100
}

// Dashboard assembles stats, averages, heatmap and feed for the owner.
func (s *DashboardService) Dashboard(userID string, now time.Time) (*Dashboard, error) {
	var user models.User
	if err := s.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var logs []models.DailyLog
	if err := s.DB.
		Where("user_id = ?", userID).
		Order("date DESC").
		Limit(heatmapDays).
		Find(&logs).Error; err != nil {
		return nil, err
	}

	streak := ComputeStreak(logs)
	return &Dashboard{
		Stats: DashboardStats{
			Streak:      streak,
			TotalXP:     user.TotalXP,
			Rank:        RankFor(user.TotalXP),
			Consistency: computeConsistency(logs, now),
		},
		Averages: ComputePillarAverages(logs, now),
		Heatmap:  ComputeHeatmap(logs, now),
		Feed:     ComputePersonalFeed(logs),
	}, nil
}

// PublicGrid returns recent public logs joined with profile attributes,
// endorsement cardinality, and the viewer's own endorsement state.
func (s *DashboardService) PublicGrid(viewerID string, limit int) ([]GridEntry, error) {
	if limit <= 0 || limit > publicGridLimit {
		limit = publicGridLimit
	}

	var logs []models.DailyLog
	if err := s.DB.
		Where("is_public = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error; err != nil {
		return nil, err
	}
	if len(logs) == 0 {
		return []GridEntry{}, nil
	}

	logIDs := make([]string, len(logs))
	userIDs := make([]string, 0, len(logs))
	seenUsers := make(map[string]bool)
	for i := range logs {
		logIDs[i] = logs[i].ID
		if !seenUsers[logs[i].UserID] {
			seenUsers[logs[i].UserID] = true
			userIDs = append(userIDs, logs[i].UserID)
		}
	}

	var users []models.User
	if err := s.DB.Where("id IN ?", userIDs).Find(&users).Error; err != nil {
		return nil, err
	}
	usersByID := make(map[string]*models.User, len(users))
	for i := range users {
		usersByID[users[i].ID] = &users[i]
	}

	var endorsements []models.Endorsement
	if err := s.DB.Where("log_id IN ?", logIDs).Find(&endorsements).Error; err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(logIDs))
	endorsed := make(map[string]bool)
	for i := range endorsements {
		counts[endorsements[i].LogID]++
		if endorsements[i].UserID == viewerID {
			endorsed[endorsements[i].LogID] = true
		}
	}

	grid := make([]GridEntry, 0, len(logs))
	for i := range logs {
		l := &logs[i]
		entry := GridEntry{
			LogID:            l.ID,
			Username:         "unknown",
			Domain:           string(models.DomainOther),
			Date:             l.Day().Format("2006-01-02"),
			Pillars:          activePillars(l),
			WarLog:           l.WarLog,
			ImageURL:         l.ImageURL,
			XP:               ScoreLog(l),
			EndorsementCount: counts[l.ID],
			HasEndorsed:      endorsed[l.ID],
		}
		if u, ok := usersByID[l.UserID]; ok {
			entry.Username = u.Username
			entry.AvatarURL = u.AvatarURL
			if u.Domain != "" {
				entry.Domain = string(u.Domain)
			}
		}
		grid = append(grid, entry)
	}
	return grid, nil
}
