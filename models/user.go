package models

import (
	"time"

	"gorm.io/gorm"
)

// UserDomain is the operator's self-declared field of work.
type UserDomain string

const (
	DomainDev      UserDomain = "Dev"
	DomainDesigner UserDomain = "Designer"
	DomainAgency   UserDomain = "Agency"
	DomainStudent  UserDomain = "Student"
	DomainOther    UserDomain = "Other"
)

// ValidDomain reports whether d is one of the five fixed domains.
func ValidDomain(d UserDomain) bool {
	switch d {
	case DomainDev, DomainDesigner, DomainAgency, DomainStudent, DomainOther:
		return true
	}
	return false
}

// Goals holds the structured onboarding objectives.
type Goals struct {
	MainQuest       string `json:"main_quest"`
	FinancialTarget string `json:"financial_target"`
	TheEnemy        string `json:"the_enemy"`
}

// User is the local profile row. The primary key is the opaque user ID
// issued by the identity provider — this service never mints user IDs.
type User struct {
	ID        string     `gorm:"primaryKey;type:uuid" json:"id"`
	Username  string     `gorm:"uniqueIndex;not null" json:"username"`
	FullName  string     `json:"full_name"`
	Email     string     `json:"email,omitempty"`
	AvatarURL *string    `json:"avatar_url,omitempty"`
	Bio       *string    `json:"bio,omitempty"`
	Domain    UserDomain `gorm:"type:varchar(16)" json:"domain"`
	Goals     Goals      `gorm:"serializer:json" json:"goals"`

	// Progression accumulators. TotalXP only ever moves by the score delta
	// of a submitted day and is floored at zero. CurrentStreak is a cache
	// refreshed on every log write; readers that need the real value
	// recompute it from log contiguity.
	TotalXP       int64 `gorm:"default:0" json:"total_xp"`
	CurrentStreak int   `gorm:"default:0" json:"current_streak"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
