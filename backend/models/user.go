package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username        string `gorm:"unique;not null"`
	Email           string `gorm:"unique;not null"`
	PasswordHash    string `gorm:"not null"`
	Role            string `gorm:"default:user"` // user, admin
	City            string
	PrimaryPlatform string
}

type LoginHistory struct {
	gorm.Model
	UserID    uint `gorm:"index"`
	LoginTime time.Time
}
