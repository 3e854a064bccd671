package model

import "time"

// Submission is one finalized wizard outcome. The table is append-only: rows
// are never updated or deleted, and participant ids are not unique here — the
// wizard's per-session guard is the only duplicate prevention.
type Submission struct {
	ID            int64     `gorm:"primaryKey;autoIncrement"`
	ParticipantID string    `gorm:"size:128;not null;index"`
	Device        string    `gorm:"size:256;not null"`
	Decision      string    `gorm:"size:32;not null"`
	WorkingStatus string    `gorm:"size:32;not null"`
	WipeSkipped   bool      `gorm:"not null"`
	CreatedAt     time.Time `gorm:"not null"`
}
