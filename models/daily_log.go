package models

import "time"

// MoneyCurrency is the currency of the day's financial value.
type MoneyCurrency string

const (
	CurrencyUSD MoneyCurrency = "USD"
	CurrencyBDT MoneyCurrency = "BDT"
)

// ValidCurrency reports whether c is a supported currency.
func ValidCurrency(c MoneyCurrency) bool {
	return c == CurrencyUSD || c == CurrencyBDT
}

// DailyLog is one day's self-assessment across the four pillars.
// Identity is (user_id, date): the composite unique index is the sole
// concurrency guard for submissions — the later writer wins wholesale.
type DailyLog struct {
	ID     string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string    `gorm:"not null;uniqueIndex:uidx_user_date" json:"user_id"`
	Date   time.Time `gorm:"type:date;not null;uniqueIndex:uidx_user_date" json:"date"`

	IsPublic bool `gorm:"default:true" json:"is_public"`

	// Body pillar
	BodyUnhealthyFlag bool `gorm:"default:false" json:"body_unhealthy_flag"`
	BodyEnergy        int  `gorm:"default:3" json:"body_energy"` // 1–5

	// Mind pillar
	MindReadFlag bool `gorm:"default:false" json:"mind_read_flag"`
	MindFocus    int  `gorm:"default:3" json:"mind_focus"` // 1–5

	// Financial pillar
	MoneyValue    float64       `gorm:"default:0" json:"money_value"` // ≥0
	MoneyCurrency MoneyCurrency `gorm:"type:varchar(8);default:'USD'" json:"money_currency"`
	MoneySpeed    int           `gorm:"default:3" json:"money_speed"` // 1–5

	// Skill pillar
	SkillPracticeFlag bool `gorm:"default:false" json:"skill_practice_flag"`
	SkillDifficulty   int  `gorm:"default:3" json:"skill_difficulty"` // 1–5

	// Narrative
	WarLog   string  `gorm:"type:text" json:"war_log"`
	ImageURL *string `json:"image_url,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Day returns the log's date truncated to UTC midnight.
func (l *DailyLog) Day() time.Time {
	return time.Date(l.Date.Year(), l.Date.Month(), l.Date.Day(), 0, 0, 0, 0, time.UTC)
}
