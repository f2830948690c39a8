package repository

import (
	"github.com/dinperin/simikm-backend/internal/app/model"
	"github.com/dinperin/simikm-backend/pkg/logger"
	"gorm.io/gorm"
)

type EnrollmentRepository interface {
	Create(enrollment *model.Enrollment) error
	FindByID(id uint) (*model.Enrollment, error)
	FindByActivity(activityID uint) ([]model.Enrollment, error)
	CountByActivity(activityID uint) (int64, error)
	Exists(activityID, businessID uint) (bool, error)
	Delete(id uint) error
}

type enrollmentRepository struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) Create(enrollment *model.Enrollment) error {
	if err := r.db.Create(enrollment).Error; err != nil {
		logger.Error("Failed to create enrollment", err, map[string]interface{}{
			"activity_id": enrollment.TrainingActivityID,
			"business_id": enrollment.BusinessID,
		})
		return err
	}
	return nil
}

func (r *enrollmentRepository) FindByID(id uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	if err := r.db.First(&enrollment, id).Error; err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *enrollmentRepository) FindByActivity(activityID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.db.Preload("Business").
		Where("training_activity_id = ?", activityID).
		Order("created_at ASC").
		Find(&enrollments).Error
	if err != nil {
		logger.Error("Failed to list enrollments", err, map[string]interface{}{
			"activity_id": activityID,
		})
		return nil, err
	}
	return enrollments, nil
}

// CountByActivity derives the occupancy by counting rows. The count is never
// cached against the activity, so it cannot drift.
func (r *enrollmentRepository) CountByActivity(activityID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Enrollment{}).
		Where("training_activity_id = ?", activityID).
		Count(&count).Error
	return count, err
}

func (r *enrollmentRepository) Exists(activityID, businessID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.Enrollment{}).
		Where("training_activity_id = ? AND business_id = ?", activityID, businessID).
		Count(&count).Error
	return count > 0, err
}

func (r *enrollmentRepository) Delete(id uint) error {
	result := r.db.Delete(&model.Enrollment{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete enrollment", result.Error, map[string]interface{}{
			"enrollment_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
