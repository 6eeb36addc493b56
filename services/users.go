// services/users.go
package services

import (
	"errors"
	"regexp"
	"strings"

	"pillar-log-system/models"

	"github.com/gosimple/unidecode"
	"gorm.io/gorm"
)

var usernameRx = regexp.MustCompile(`^[a-z0-9_]{3,20}$`)

// NormalizeUsername transliterates, lowercases and strips everything
// outside [a-z0-9_]. Validation runs on the normalized form.
func NormalizeUsername(raw string) string {
	flat := strings.ToLower(unidecode.Unidecode(strings.TrimSpace(raw)))
	var b strings.Builder
	for _, r := range flat {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// OnboardingInput is the profile-creation payload. The user ID comes from
// the identity provider, never from the body.
type OnboardingInput struct {
	Username  string            `json:"username"`
	FullName  string            `json:"full_name"`
	Email     string            `json:"email"`
	AvatarURL *string           `json:"avatar_url"`
	Domain    models.UserDomain `json:"domain"`
	Goals     models.Goals      `json:"goals"`
}

// LeaderboardEntry is the public ranking row.
type LeaderboardEntry struct {
	Username      string  `json:"username"`
	AvatarURL     *string `json:"avatar_url,omitempty"`
	Domain        string  `json:"domain"`
	TotalXP       int64   `json:"total_xp"`
	CurrentStreak int     `json:"current_streak"`
	Rank          string  `json:"rank"`
}

// PublicLogEntry is a public log as shown on someone else's profile. Same
// privacy rule as the grid: the financial amount stays hidden, only the
// Growth tag survives.
type PublicLogEntry struct {
	ID       string   `json:"id"`
	Date     string   `json:"date"`
	Pillars  []string `json:"pillars"`
	WarLog   string   `json:"war_log"`
	ImageURL *string  `json:"image_url,omitempty"`
	XP       int      `json:"xp"`
}

// PublicProfile is the restricted cross-user projection: no goals, no
// email, no financial amounts.
type PublicProfile struct {
	ID            string  `json:"id"`
	Username      string  `json:"username"`
	AvatarURL     *string `json:"avatar_url,omitempty"`
	Domain        string  `json:"domain"`
	TotalXP       int64   `json:"total_xp"`
	CurrentStreak int     `json:"current_streak"`
	Rank          string  `json:"rank"`
}

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

// Onboard creates the local profile row at onboarding completion.
func (s *UserService) Onboard(userID string, input OnboardingInput) (*models.User, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}

	username := NormalizeUsername(input.Username)
	if !usernameRx.MatchString(username) {
		return nil, &ValidationError{Field: "username", Reason: "must be 3–20 chars of [a-z0-9_]"}
	}
	if !models.ValidDomain(input.Domain) {
		return nil, &ValidationError{Field: "domain", Reason: "unknown domain"}
	}

	var count int64
	if err := s.DB.Model(&models.User{}).
		Where("username = ? OR id = ?", username, userID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, &ConflictError{Resource: "username"}
	}

	user := models.User{
		ID:        userID,
		Username:  username,
		FullName:  input.FullName,
		Email:     input.Email,
		AvatarURL: input.AvatarURL,
		Domain:    input.Domain,
		Goals:     input.Goals,
	}
	if err := s.DB.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Profile returns the caller's own row.
func (s *UserService) Profile(userID string) (*models.User, error) {
	var user models.User
	if err := s.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Leaderboard ranks users by accumulated XP.
func (s *UserService) Leaderboard(limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var users []models.User
	if err := s.DB.Order("total_xp DESC").Limit(limit).Find(&users).Error; err != nil {
		return nil, err
	}
	entries := make([]LeaderboardEntry, len(users))
	for i := range users {
		entries[i] = LeaderboardEntry{
			Username:      users[i].Username,
			AvatarURL:     users[i].AvatarURL,
			Domain:        string(users[i].Domain),
			TotalXP:       users[i].TotalXP,
			CurrentStreak: users[i].CurrentStreak,
			Rank:          RankFor(users[i].TotalXP),
		}
	}
	return entries, nil
}

// PublicProfileByUsername returns the restricted projection plus the user's
// public logs (most recent first, capped at 100), with financial amounts
// withheld.
func (s *UserService) PublicProfileByUsername(username string) (*PublicProfile, []PublicLogEntry, error) {
	var user models.User
	if err := s.DB.Where("username = ?", NormalizeUsername(username)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	var logs []models.DailyLog
	if err := s.DB.
		Where("user_id = ? AND is_public = ?", user.ID, true).
		Order("date DESC").
		Limit(100).
		Find(&logs).Error; err != nil {
		return nil, nil, err
	}

	entries := make([]PublicLogEntry, len(logs))
	for i := range logs {
		entries[i] = PublicLogEntry{
			ID:       logs[i].ID,
			Date:     logs[i].Day().Format("2006-01-02"),
			Pillars:  activePillars(&logs[i]),
			WarLog:   logs[i].WarLog,
			ImageURL: logs[i].ImageURL,
			XP:       ScoreLog(&logs[i]),
		}
	}

	return &PublicProfile{
		ID:            user.ID,
		Username:      user.Username,
		AvatarURL:     user.AvatarURL,
		Domain:        string(user.Domain),
		TotalXP:       user.TotalXP,
		CurrentStreak: user.CurrentStreak,
		Rank:          RankFor(user.TotalXP),
	}, entries, nil
}
