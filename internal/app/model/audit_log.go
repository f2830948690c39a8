package model

import "time"

type AuditAction string

const (
	AuditCreate AuditAction = "create"
	AuditEdit   AuditAction = "edit"
	AuditDelete AuditAction = "delete"
	AuditSearch AuditAction = "search"
	AuditView   AuditAction = "view"
	AuditLogin  AuditAction = "login"
)

// AuditLog is append-only: rows are written once and never updated or
// deleted, so there is no UpdatedAt or DeletedAt.
type AuditLog struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	ActorName   string      `gorm:"type:varchar(150);not null" json:"actor_name"`
	ActorRole   string      `gorm:"type:varchar(50);not null" json:"actor_role"`
	Action      AuditAction `gorm:"type:varchar(20);not null;index" json:"action"`
	Description string      `gorm:"type:text;not null" json:"description"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
