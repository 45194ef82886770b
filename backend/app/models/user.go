package models

import (
	"strings"
	"time"
)

// User is an account. Username is the primary key and never changes.
type User struct {
	Username  string     `gorm:"primaryKey;size:20"`
	Password  string     `gorm:"size:255;not null"`
	Email     string     `gorm:"uniqueIndex;size:50;not null"`
	FirstName string     `gorm:"size:30;not null"`
	LastName  string     `gorm:"size:30;not null"`
	Feedback  []Feedback `gorm:"foreignKey:Username;references:Username;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
