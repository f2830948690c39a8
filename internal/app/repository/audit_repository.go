package repository

import (
	"time"

	"github.com/dinperin/simikm-backend/internal/app/model"
	"github.com/dinperin/simikm-backend/pkg/logger"
	"gorm.io/gorm"
)

type AuditFilter struct {
	Action model.AuditAction
	Actor  string
	From   time.Time
	To     time.Time
	Limit  int
	Offset int
}

// AuditRepository is append-only by construction: it exposes no update or
// delete operations.
type AuditRepository interface {
	Create(entry *model.AuditLog) error
	FindAll(filter AuditFilter) ([]model.AuditLog, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(entry *model.AuditLog) error {
	if err := r.db.Create(entry).Error; err != nil {
		logger.Error("Failed to append audit log entry", err, map[string]interface{}{
			"actor":  entry.ActorName,
			"action": entry.Action,
		})
		return err
	}
	return nil
}

func (r *auditRepository) FindAll(filter AuditFilter) ([]model.AuditLog, error) {
	var entries []model.AuditLog
	query := r.db.Order("created_at DESC")

	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.Actor != "" {
		query = query.Where("actor_name LIKE ?", "%"+filter.Actor+"%")
	}
	if !filter.From.IsZero() {
		query = query.Where("created_at >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		query = query.Where("created_at <= ?", filter.To)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	if err := query.Find(&entries).Error; err != nil {
		logger.Error("Failed to list audit log entries", err)
		return nil, err
	}
	return entries, nil
}
