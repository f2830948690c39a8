package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/dinperin/simikm-backend/internal/app/model"
	"github.com/dinperin/simikm-backend/internal/app/repository"
	apperrors "github.com/dinperin/simikm-backend/internal/errors"
	"github.com/dinperin/simikm-backend/internal/notify"
	"github.com/dinperin/simikm-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrTrainingNotFound   = errors.New("training activity not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrQuotaExceeded      = errors.New("training quota exceeded")
	ErrAlreadyEnrolled    = errors.New("business already enrolled")
	ErrInvalidStatus      = errors.New("invalid training status")
)

const trainingTable = "training_activities"

type TrainingInput struct {
	Title       string
	Schedule    string
	Year        int
	Quota       int
	Status      model.TrainingStatus
	Description string
}

type TrainingService interface {
	Create(input TrainingInput, actor Actor) (*model.TrainingActivity, error)
	Update(id uint, input TrainingInput, actor Actor) (*model.TrainingActivity, error)
	Get(id uint) (*model.TrainingActivity, error)
	List(filter repository.TrainingFilter) ([]model.TrainingActivity, error)
	ListDeleted() ([]model.TrainingActivity, error)
	SoftDelete(id uint, actor Actor) error
	Restore(id uint, actor Actor) error
	Purge(id uint, actor Actor) error
	// PurgeExpired hard-deletes activities binned before the cutoff,
	// rosters included. Driven by the retention scheduler.
	PurgeExpired(olderThan time.Duration) (int64, error)

	Enroll(activityID, businessID uint, actor Actor) (*model.Enrollment, error)
	Unenroll(enrollmentID uint, actor Actor) error
	Roster(activityID uint) ([]model.Enrollment, error)
}

type trainingService struct {
	trainingRepo   repository.TrainingRepository
	enrollmentRepo repository.EnrollmentRepository
	businessRepo   repository.BusinessRepository
	audit          AuditService
	notifier       notify.Notifier
}

func NewTrainingService(
	trainingRepo repository.TrainingRepository,
	enrollmentRepo repository.EnrollmentRepository,
	businessRepo repository.BusinessRepository,
	audit AuditService,
	notifier notify.Notifier,
) TrainingService {
	return &trainingService{
		trainingRepo:   trainingRepo,
		enrollmentRepo: enrollmentRepo,
		businessRepo:   businessRepo,
		audit:          audit,
		notifier:       notifier,
	}
}

func validStatus(status model.TrainingStatus) bool {
	switch status {
	case model.TrainingOpen, model.TrainingClosed, model.TrainingInProgress, model.TrainingFinished:
		return true
	}
	return false
}

func (s *trainingService) Create(input TrainingInput, actor Actor) (*model.TrainingActivity, error) {
	if input.Status == "" {
		input.Status = model.TrainingOpen
	}
	if !validStatus(input.Status) {
		return nil, ErrInvalidStatus
	}

	activity := &model.TrainingActivity{
		Title:       input.Title,
		Schedule:    input.Schedule,
		Year:        input.Year,
		Quota:       input.Quota,
		Status:      input.Status,
		Description: input.Description,
	}

	if err := s.trainingRepo.Create(activity); err != nil {
		return nil, err
	}

	s.audit.Record(actor, model.AuditCreate,
		fmt.Sprintf("Membuat kegiatan pelatihan %q tahun %d", activity.Title, activity.Year))
	s.notifier.Changed(trainingTable, "create")

	return activity, nil
}

func (s *trainingService) Update(id uint, input TrainingInput, actor Actor) (*model.TrainingActivity, error) {
	if !validStatus(input.Status) {
		return nil, ErrInvalidStatus
	}

	activity, err := s.trainingRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTrainingNotFound
		}
		return nil, err
	}

	activity.Title = input.Title
	activity.Schedule = input.Schedule
	activity.Year = input.Year
	activity.Quota = input.Quota
	activity.Status = input.Status
	activity.Description = input.Description

	if err := s.trainingRepo.Update(activity); err != nil {
		return nil, err
	}

	s.audit.Record(actor, model.AuditEdit,
		fmt.Sprintf("Mengubah kegiatan pelatihan %q", activity.Title))
	s.notifier.Changed(trainingTable, "edit")

	return activity, nil
}

func (s *trainingService) Get(id uint) (*model.TrainingActivity, error) {
	activity, err := s.trainingRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTrainingNotFound
		}
		return nil, err
	}
	return activity, nil
}

func (s *trainingService) List(filter repository.TrainingFilter) ([]model.TrainingActivity, error) {
	return s.trainingRepo.FindAll(filter)
}

func (s *trainingService) ListDeleted() ([]model.TrainingActivity, error) {
	return s.trainingRepo.FindDeleted()
}

// SoftDelete bins the activity. The roster is left in place so a restore
// brings the activity back with its participants intact.
func (s *trainingService) SoftDelete(id uint, actor Actor) error {
	activity, err := s.trainingRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTrainingNotFound
		}
		return err
	}

	if err := s.trainingRepo.SoftDelete(id); err != nil {
		return err
	}

	s.audit.Record(actor, model.AuditDelete,
		fmt.Sprintf("Menghapus kegiatan pelatihan %q ke tempat sampah", activity.Title))
	s.notifier.Changed(trainingTable, "delete")
	return nil
}

func (s *trainingService) Restore(id uint, actor Actor) error {
	activity, err := s.trainingRepo.FindByIDUnscoped(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTrainingNotFound
		}
		return err
	}
	if !activity.DeletedAt.Valid {
		return nil
	}

	if err := s.trainingRepo.Restore(id); err != nil {
		return err
	}

	s.audit.Record(actor, model.AuditEdit,
		fmt.Sprintf("Memulihkan kegiatan pelatihan %q", activity.Title))
	s.notifier.Changed(trainingTable, "restore")
	return nil
}

func (s *trainingService) Purge(id uint, actor Actor) error {
	activity, err := s.trainingRepo.FindByIDUnscoped(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTrainingNotFound
		}
		return err
	}

	if err := s.trainingRepo.Purge(id); err != nil {
		return err
	}

	s.audit.Record(actor, model.AuditDelete,
		fmt.Sprintf("Menghapus permanen kegiatan pelatihan %q", activity.Title))
	s.notifier.Changed(trainingTable, "purge")
	return nil
}

func (s *trainingService) PurgeExpired(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	purged, err := s.trainingRepo.PurgeDeletedBefore(cutoff)
	if err != nil {
		return 0, err
	}
	if purged > 0 {
		s.notifier.Changed(trainingTable, "purge")
		logger.Info("Expired training activities purged", map[string]interface{}{
			"purged": purged,
			"cutoff": cutoff,
		})
	}
	return purged, nil
}

// Enroll adds a business to an activity's roster, enforcing the quota by a
// count at enrollment time. The composite unique index catches the
// concurrent double-enroll.
func (s *trainingService) Enroll(activityID, businessID uint, actor Actor) (*model.Enrollment, error) {
	activity, err := s.trainingRepo.FindByID(activityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTrainingNotFound
		}
		return nil, err
	}

	business, err := s.businessRepo.FindByID(businessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}

	enrolled, err := s.enrollmentRepo.Exists(activityID, businessID)
	if err != nil {
		return nil, err
	}
	if enrolled {
		return nil, ErrAlreadyEnrolled
	}

	count, err := s.enrollmentRepo.CountByActivity(activityID)
	if err != nil {
		return nil, err
	}
	if count >= int64(activity.Quota) {
		return nil, ErrQuotaExceeded
	}

	enrollment := &model.Enrollment{
		TrainingActivityID: activityID,
		BusinessID:         businessID,
	}
	if err := s.enrollmentRepo.Create(enrollment); err != nil {
		if apperrors.IsDuplicateKey(err) {
			return nil, ErrAlreadyEnrolled
		}
		return nil, err
	}

	s.audit.Record(actor, model.AuditEdit,
		fmt.Sprintf("Mendaftarkan IKM %s ke pelatihan %q", business.BusinessName, activity.Title))
	s.notifier.Changed(trainingTable, "enroll")

	return enrollment, nil
}

func (s *trainingService) Unenroll(enrollmentID uint, actor Actor) error {
	enrollment, err := s.enrollmentRepo.FindByID(enrollmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEnrollmentNotFound
		}
		return err
	}

	if err := s.enrollmentRepo.Delete(enrollmentID); err != nil {
		return err
	}

	s.audit.Record(actor, model.AuditEdit,
		fmt.Sprintf("Membatalkan peserta pelatihan (kegiatan #%d, IKM #%d)",
			enrollment.TrainingActivityID, enrollment.BusinessID))
	s.notifier.Changed(trainingTable, "unenroll")
	return nil
}

func (s *trainingService) Roster(activityID uint) ([]model.Enrollment, error) {
	if _, err := s.trainingRepo.FindByID(activityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTrainingNotFound
		}
		return nil, err
	}
	return s.enrollmentRepo.FindByActivity(activityID)
}
