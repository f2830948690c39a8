package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/dinperin/simikm-backend/internal/app/model"
	"github.com/dinperin/simikm-backend/internal/app/repository"
	"github.com/dinperin/simikm-backend/internal/notify"
	"gorm.io/gorm"
)

var (
	ErrServiceRecordNotFound = errors.New("service record not found")
	ErrInvalidServiceType    = errors.New("invalid service type")
	ErrInvalidCertStatus     = errors.New("invalid certificate status")
)

const serviceRecordTable = "service_records"

type ServiceRecordInput struct {
	BusinessID        uint
	ServiceType       model.ServiceType
	DocumentNumber    string
	DocumentURL       string
	SupplementURL     string
	CertificateStatus *model.CertificateStatus
	FacilitationYear  int
	TestDate          *time.Time
}

type ServiceRecordService interface {
	Create(input ServiceRecordInput, actor Actor) (*model.ServiceRecord, error)
	Update(id uint, input ServiceRecordInput, actor Actor) (*model.ServiceRecord, error)
	Get(id uint) (*model.ServiceRecord, error)
	List(filter repository.ServiceRecordFilter) ([]model.ServiceRecord, error)
	ListDeleted() ([]model.ServiceRecord, error)
	SoftDelete(id uint, actor Actor) error
	Restore(id uint, actor Actor) error
	Purge(id uint, actor Actor) error
}

type serviceRecordService struct {
	recordRepo   repository.ServiceRecordRepository
	businessRepo repository.BusinessRepository
	audit        AuditService
	notifier     notify.Notifier
}

func NewServiceRecordService(
	recordRepo repository.ServiceRecordRepository,
	businessRepo repository.BusinessRepository,
	audit AuditService,
	notifier notify.Notifier,
) ServiceRecordService {
	return &serviceRecordService{
		recordRepo:   recordRepo,
		businessRepo: businessRepo,
		audit:        audit,
		notifier:     notifier,
	}
}

func validateRecordInput(input ServiceRecordInput) error {
	if !model.ValidServiceType(input.ServiceType) {
		return ErrInvalidServiceType
	}
	if input.CertificateStatus != nil {
		switch *input.CertificateStatus {
		case model.CertificateInProcess, model.CertificateIssued:
		default:
			return ErrInvalidCertStatus
		}
	}
	return nil
}

func (s *serviceRecordService) Create(input ServiceRecordInput, actor Actor) (*model.ServiceRecord, error) {
	if err := validateRecordInput(input); err != nil {
		return nil, err
	}

	business, err := s.businessRepo.FindByID(input.BusinessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}

	record := &model.ServiceRecord{
		BusinessID:        input.BusinessID,
		ServiceType:       input.ServiceType,
		DocumentNumber:    input.DocumentNumber,
		DocumentURL:       input.DocumentURL,
		SupplementURL:     input.SupplementURL,
		CertificateStatus: input.CertificateStatus,
		FacilitationYear:  input.FacilitationYear,
		TestDate:          input.TestDate,
	}

	if err := s.recordRepo.Create(record); err != nil {
		return nil, err
	}

	s.audit.Record(actor, model.AuditCreate,
		fmt.Sprintf("Mencatat layanan %s untuk IKM %s", record.ServiceType, business.BusinessName))
	s.notifier.Changed(serviceRecordTable, "create")

	return record, nil
}

func (s *serviceRecordService) Update(id uint, input ServiceRecordInput, actor Actor) (*model.ServiceRecord, error) {
	if err := validateRecordInput(input); err != nil {
		return nil, err
	}

	record, err := s.recordRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceRecordNotFound
		}
		return nil, err
	}

	// The owning business is fixed; only the service details change.
	record.ServiceType = input.ServiceType
	record.DocumentNumber = input.DocumentNumber
	record.DocumentURL = input.DocumentURL
	record.SupplementURL = input.SupplementURL
	record.CertificateStatus = input.CertificateStatus
	record.FacilitationYear = input.FacilitationYear
	record.TestDate = input.TestDate

	if err := s.recordRepo.Update(record); err != nil {
		return nil, err
	}

	s.audit.Record(actor, model.AuditEdit,
		fmt.Sprintf("Mengubah catatan layanan %s #%d", record.ServiceType, record.ID))
	s.notifier.Changed(serviceRecordTable, "edit")

	return record, nil
}

func (s *serviceRecordService) Get(id uint) (*model.ServiceRecord, error) {
	record, err := s.recordRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceRecordNotFound
		}
		return nil, err
	}
	return record, nil
}

func (s *serviceRecordService) List(filter repository.ServiceRecordFilter) ([]model.ServiceRecord, error) {
	return s.recordRepo.FindAll(filter)
}

func (s *serviceRecordService) ListDeleted() ([]model.ServiceRecord, error) {
	return s.recordRepo.FindDeleted()
}

func (s *serviceRecordService) SoftDelete(id uint, actor Actor) error {
	record, err := s.recordRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrServiceRecordNotFound
		}
		return err
	}

	if err := s.recordRepo.SoftDelete(id); err != nil {
		return err
	}

	s.audit.Record(actor, model.AuditDelete,
		fmt.Sprintf("Menghapus catatan layanan %s #%d ke tempat sampah", record.ServiceType, record.ID))
	s.notifier.Changed(serviceRecordTable, "delete")
	return nil
}

func (s *serviceRecordService) Restore(id uint, actor Actor) error {
	record, err := s.recordRepo.FindByIDUnscoped(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrServiceRecordNotFound
		}
		return err
	}
	if !record.DeletedAt.Valid {
		return nil
	}

	if err := s.recordRepo.Restore(id); err != nil {
		return err
	}

	s.audit.Record(actor, model.AuditEdit,
		fmt.Sprintf("Memulihkan catatan layanan %s #%d", record.ServiceType, record.ID))
	s.notifier.Changed(serviceRecordTable, "restore")
	return nil
}

func (s *serviceRecordService) Purge(id uint, actor Actor) error {
	record, err := s.recordRepo.FindByIDUnscoped(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrServiceRecordNotFound
		}
		return err
	}

	if err := s.recordRepo.Purge(id); err != nil {
		return err
	}

	s.audit.Record(actor, model.AuditDelete,
		fmt.Sprintf("Menghapus permanen catatan layanan %s #%d", record.ServiceType, record.ID))
	s.notifier.Changed(serviceRecordTable, "purge")
	return nil
}
