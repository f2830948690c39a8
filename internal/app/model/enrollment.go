package model

import "time"

// Enrollment joins a Business to a TrainingActivity. The business is
// referenced, not owned: one IKM can be enrolled in many activities.
// Enrollments have no recycle bin tier; unenrolling removes the row.
type Enrollment struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	TrainingActivityID uint `gorm:"not null;index;uniqueIndex:uniq_training_enrollments_pair" json:"training_activity_id"`
	BusinessID         uint `gorm:"not null;uniqueIndex:uniq_training_enrollments_pair" json:"business_id"`

	Business *Business `gorm:"foreignKey:BusinessID" json:"business,omitempty"`
}

func (Enrollment) TableName() string {
	return "training_enrollments"
}
