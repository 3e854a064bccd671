package model

import "time"

// PushSubscription holds a researcher's browser push subscription. Every
// subscription receives a notification when a new submission is recorded.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}
