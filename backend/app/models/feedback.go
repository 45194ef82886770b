package models

import "time"

// Feedback is a note owned by exactly one user.
type Feedback struct {
	ID        uint   `gorm:"primaryKey"`
	Title     string `gorm:"size:100;not null"`
	Content   string `gorm:"type:text;not null"`
	Username  string `gorm:"size:20;not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Feedback) TableName() string { return "feedback" }
