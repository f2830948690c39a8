package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dinperin/simikm-backend/internal/app/model"
	"github.com/dinperin/simikm-backend/internal/app/repository"
	apperrors "github.com/dinperin/simikm-backend/internal/errors"
	"github.com/dinperin/simikm-backend/internal/notify"
	"github.com/dinperin/simikm-backend/pkg/logger"
	"github.com/dinperin/simikm-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrBusinessNotFound = errors.New("business not found")
	ErrInvalidNIB       = errors.New("nib must be exactly 13 digits")
	ErrInvalidNIK       = errors.New("nik must be exactly 16 digits")
	ErrNIBRegistered    = errors.New("nib already registered")
	ErrNIKRegistered    = errors.New("nik already registered")
	ErrUnknownField     = errors.New("unknown conflict field")
)

const businessTable = "businesses"

type CreateBusinessInput struct {
	NIB          string
	NIK          string
	OwnerName    string
	BusinessName string
	Address      string
	Phone        string
}

// UpdateBusinessInput carries the editable fields. Identity (NIB, NIK) is
// immutable after creation.
type UpdateBusinessInput struct {
	OwnerName    string
	BusinessName string
	Address      string
	Phone        string
}

type BusinessService interface {
	Create(input CreateBusinessInput, actor Actor) (*model.Business, error)
	Update(id uint, input UpdateBusinessInput, actor Actor) (*model.Business, error)
	Get(id uint) (*model.Business, error)
	List(filter repository.BusinessFilter) ([]model.Business, error)
	ListDeleted(filter repository.BusinessFilter) ([]model.Business, error)
	SoftDelete(id uint, actor Actor) error
	Restore(id uint, actor Actor) error
	Purge(id uint, actor Actor) error
	// CheckConflict answers the interactive "is this identifier taken?"
	// probe. field is "nib" or "nik". A nil result means no active conflict.
	CheckConflict(field, value string) (*model.Business, error)
}

type businessService struct {
	businessRepo repository.BusinessRepository
	audit        AuditService
	notifier     notify.Notifier
}

func NewBusinessService(
	businessRepo repository.BusinessRepository,
	audit AuditService,
	notifier notify.Notifier,
) BusinessService {
	return &businessService{
		businessRepo: businessRepo,
		audit:        audit,
		notifier:     notifier,
	}
}

// validate enforces the identifier format invariants. Free-text fields pass
// through unchecked.
func validate(nib, nik string) error {
	if !util.IsValidNIB(nib) {
		return ErrInvalidNIB
	}
	if !util.IsValidNIK(nik) {
		return ErrInvalidNIK
	}
	return nil
}

func (s *businessService) Create(input CreateBusinessInput, actor Actor) (*model.Business, error) {
	logger.Info("Registering business", map[string]interface{}{
		"nib":   input.NIB,
		"actor": actor.Name,
	})

	if err := validate(input.NIB, input.NIK); err != nil {
		return nil, err
	}

	// Pre-check for an immediate, field-scoped answer. The partial unique
	// indexes remain the backstop against concurrent submissions.
	if conflict, err := s.CheckConflict("nib", input.NIB); err != nil {
		return nil, err
	} else if conflict != nil {
		return nil, ErrNIBRegistered
	}
	if conflict, err := s.CheckConflict("nik", input.NIK); err != nil {
		return nil, err
	} else if conflict != nil {
		return nil, ErrNIKRegistered
	}

	business := &model.Business{
		NIB:          input.NIB,
		NIK:          input.NIK,
		OwnerName:    input.OwnerName,
		BusinessName: input.BusinessName,
		Address:      input.Address,
		Phone:        input.Phone,
	}

	if err := s.businessRepo.Create(business); err != nil {
		if apperrors.IsDuplicateKey(err) {
			// Lost the race against a concurrent submission.
			if strings.Contains(strings.ToLower(err.Error()), "nik") {
				return nil, ErrNIKRegistered
			}
			return nil, ErrNIBRegistered
		}
		return nil, err
	}

	s.audit.Record(actor, model.AuditCreate,
		fmt.Sprintf("Mendaftarkan IKM %s (NIB %s)", business.BusinessName, business.NIB))
	s.notifier.Changed(businessTable, "create")

	logger.Info("Business registered", map[string]interface{}{
		"business_id": business.ID,
		"nib":         business.NIB,
	})
	return business, nil
}

func (s *businessService) Update(id uint, input UpdateBusinessInput, actor Actor) (*model.Business, error) {
	business, err := s.businessRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}

	business.OwnerName = input.OwnerName
	business.BusinessName = input.BusinessName
	business.Address = input.Address
	business.Phone = input.Phone

	if err := s.businessRepo.Update(business); err != nil {
		return nil, err
	}

	s.audit.Record(actor, model.AuditEdit,
		fmt.Sprintf("Mengubah data IKM %s (NIB %s)", business.BusinessName, business.NIB))
	s.notifier.Changed(businessTable, "edit")

	return business, nil
}

func (s *businessService) Get(id uint) (*model.Business, error) {
	business, err := s.businessRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}
	return business, nil
}

func (s *businessService) List(filter repository.BusinessFilter) ([]model.Business, error) {
	return s.businessRepo.FindAll(filter)
}

func (s *businessService) ListDeleted(filter repository.BusinessFilter) ([]model.Business, error) {
	return s.businessRepo.FindDeleted(filter)
}

func (s *businessService) SoftDelete(id uint, actor Actor) error {
	business, err := s.businessRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBusinessNotFound
		}
		return err
	}

	if err := s.businessRepo.SoftDelete(id); err != nil {
		return err
	}

	s.audit.Record(actor, model.AuditDelete,
		fmt.Sprintf("Menghapus IKM %s (NIB %s) ke tempat sampah", business.BusinessName, business.NIB))
	s.notifier.Changed(businessTable, "delete")
	return nil
}

// Restore brings a binned record back. Restoring an already-active record is
// a no-op success.
func (s *businessService) Restore(id uint, actor Actor) error {
	business, err := s.businessRepo.FindByIDUnscoped(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBusinessNotFound
		}
		return err
	}
	if !business.IsDeleted() {
		return nil
	}

	if err := s.businessRepo.Restore(id); err != nil {
		return err
	}

	s.audit.Record(actor, model.AuditEdit,
		fmt.Sprintf("Memulihkan IKM %s (NIB %s)", business.BusinessName, business.NIB))
	s.notifier.Changed(businessTable, "restore")
	return nil
}

func (s *businessService) Purge(id uint, actor Actor) error {
	business, err := s.businessRepo.FindByIDUnscoped(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBusinessNotFound
		}
		return err
	}

	if err := s.businessRepo.Purge(id); err != nil {
		return err
	}

	s.audit.Record(actor, model.AuditDelete,
		fmt.Sprintf("Menghapus permanen IKM %s (NIB %s)", business.BusinessName, business.NIB))
	s.notifier.Changed(businessTable, "purge")
	return nil
}

func (s *businessService) CheckConflict(field, value string) (*model.Business, error) {
	var (
		business *model.Business
		err      error
	)
	switch field {
	case "nib":
		business, err = s.businessRepo.FindActiveByNIB(value)
	case "nik":
		business, err = s.businessRepo.FindActiveByNIK(value)
	default:
		return nil, ErrUnknownField
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return business, nil
}
