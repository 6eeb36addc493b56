package models

import "time"

// Endorsement is a peer reaction on a shared log. The (log_id, user_id)
// unique index makes repeated endorse calls no-ops; the visible count is
// always the cardinality of this table, never a stored counter.
type Endorsement struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	LogID     string    `gorm:"not null;uniqueIndex:uidx_log_user" json:"log_id"`
	UserID    string    `gorm:"not null;uniqueIndex:uidx_log_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
