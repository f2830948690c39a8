package service

import (
	"github.com/dinperin/simikm-backend/internal/app/model"
	"github.com/dinperin/simikm-backend/internal/app/repository"
	"github.com/dinperin/simikm-backend/pkg/logger"
)

// Actor identifies who performed an operation, taken from the verified SSO
// token (or the fixed public identity for the citizen intake form).
type Actor struct {
	Name string
	Role string
}

// PublicActor attributes mutations coming from the public registration form.
var PublicActor = Actor{Name: "Formulir Publik", Role: "publik"}

type AuditService interface {
	// Append writes one entry and reports failure to the caller. Used where
	// the audit entry is part of the operation's contract.
	Append(actor Actor, action model.AuditAction, description string) error
	// Record is the fire-and-forget variant: a failed write is logged to the
	// diagnostic channel and never surfaces to the caller, so audit problems
	// cannot roll back or fail the primary mutation.
	Record(actor Actor, action model.AuditAction, description string)
	List(filter repository.AuditFilter) ([]model.AuditLog, error)
}

type auditService struct {
	auditRepo repository.AuditRepository
}

func NewAuditService(auditRepo repository.AuditRepository) AuditService {
	return &auditService{auditRepo: auditRepo}
}

func (s *auditService) Append(actor Actor, action model.AuditAction, description string) error {
	entry := &model.AuditLog{
		ActorName:   actor.Name,
		ActorRole:   actor.Role,
		Action:      action,
		Description: description,
	}
	return s.auditRepo.Create(entry)
}

func (s *auditService) Record(actor Actor, action model.AuditAction, description string) {
	if err := s.Append(actor, action, description); err != nil {
		logger.Error("Audit entry dropped", err, map[string]interface{}{
			"actor":       actor.Name,
			"action":      action,
			"description": description,
		})
	}
}

func (s *auditService) List(filter repository.AuditFilter) ([]model.AuditLog, error) {
	return s.auditRepo.FindAll(filter)
}
