package models

import (
	"time"
)

// Task is the single durable entity. IDs are assigned by the database
// sequence, so they are unique and monotonically increasing.
type Task struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"`
	Title       string    `gorm:"not null"`
	Description string    `gorm:"default:''"`
	Completed   bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time
}

func (Task) TableName() string {
	return "tasks"
}
