package model

import (
	"time"

	"gorm.io/gorm"
)

type TrainingStatus string

const (
	TrainingOpen       TrainingStatus = "open"
	TrainingClosed     TrainingStatus = "closed"
	TrainingInProgress TrainingStatus = "in_progress"
	TrainingFinished   TrainingStatus = "finished"
)

// TrainingActivity is one empowerment/training event with a participant quota.
// The quota is enforced at enrollment time by counting enrollment rows, it is
// not a database constraint.
type TrainingActivity struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Title       string         `gorm:"type:varchar(200);not null" json:"title"`
	Schedule    string         `gorm:"type:varchar(150)" json:"schedule"` // free text, e.g. "12-14 Maret 2026, Aula Dinas"
	Year        int            `gorm:"not null;index" json:"year"`
	Quota       int            `gorm:"not null" json:"quota"`
	Status      TrainingStatus `gorm:"type:varchar(20);not null;default:'open'" json:"status"`
	Description string         `gorm:"type:text" json:"description"`

	Enrollments []Enrollment `gorm:"foreignKey:TrainingActivityID" json:"enrollments,omitempty"`
}

func (TrainingActivity) TableName() string {
	return "training_activities"
}
