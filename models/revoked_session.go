package models

import "time"

// RevokedSession remembers a logged-out token id until the token would have expired anyway.
type RevokedSession struct {
	JTI       string    `gorm:"primaryKey;size:64" json:"jti"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
}
