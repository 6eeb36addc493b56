package models

import "time"

// WeeklyReview stores one generated performance review per (user, week).
// Regeneration replaces Review and UpdatedAt in place — the (user_id,
// week_start) unique index guarantees a single row per week.
type WeeklyReview struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID    string    `gorm:"not null;uniqueIndex:uidx_user_week" json:"user_id"`
	WeekStart time.Time `gorm:"type:date;not null;uniqueIndex:uidx_user_week" json:"week_start"`
	WeekEnd   time.Time `gorm:"type:date;not null" json:"week_end"`

	// Opaque generator output, stored verbatim.
	Review string `gorm:"type:text" json:"review"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
