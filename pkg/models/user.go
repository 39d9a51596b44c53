package models

import (
	"time"

	"gorm.io/gorm"
)

// User is a registered account. The password is stored as a bcrypt hash,
// never in clear text. Reset tokens are single-use and expire.
type User struct {
	gorm.Model
	Username         string `gorm:"size:50;uniqueIndex"`
	Email            string `gorm:"size:100;uniqueIndex"`
	PasswordHash     string
	ResetToken       string `gorm:"size:64;index"`
	ResetTokenExpiry time.Time
}
