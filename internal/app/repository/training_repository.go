package repository

import (
	"time"

	"github.com/dinperin/simikm-backend/internal/app/model"
	"github.com/dinperin/simikm-backend/pkg/logger"
	"gorm.io/gorm"
)

type TrainingFilter struct {
	Year   int
	Status model.TrainingStatus
	Search string
}

type TrainingRepository interface {
	Create(activity *model.TrainingActivity) error
	FindByID(id uint) (*model.TrainingActivity, error)
	FindByIDUnscoped(id uint) (*model.TrainingActivity, error)
	FindAll(filter TrainingFilter) ([]model.TrainingActivity, error)
	FindDeleted() ([]model.TrainingActivity, error)
	Update(activity *model.TrainingActivity) error
	SoftDelete(id uint) error
	Restore(id uint) error
	Purge(id uint) error
	PurgeDeletedBefore(cutoff time.Time) (int64, error)
	CountActive() (int64, error)
}

type trainingRepository struct {
	db *gorm.DB
}

func NewTrainingRepository(db *gorm.DB) TrainingRepository {
	return &trainingRepository{db: db}
}

func (r *trainingRepository) Create(activity *model.TrainingActivity) error {
	if err := r.db.Create(activity).Error; err != nil {
		logger.Error("Failed to create training activity", err, map[string]interface{}{
			"title": activity.Title,
		})
		return err
	}
	return nil
}

func (r *trainingRepository) FindByID(id uint) (*model.TrainingActivity, error) {
	var activity model.TrainingActivity
	if err := r.db.First(&activity, id).Error; err != nil {
		return nil, err
	}
	return &activity, nil
}

func (r *trainingRepository) FindByIDUnscoped(id uint) (*model.TrainingActivity, error) {
	var activity model.TrainingActivity
	if err := r.db.Unscoped().First(&activity, id).Error; err != nil {
		return nil, err
	}
	return &activity, nil
}

func (r *trainingRepository) FindAll(filter TrainingFilter) ([]model.TrainingActivity, error) {
	var activities []model.TrainingActivity
	query := r.db.Order("created_at DESC")

	if filter.Year != 0 {
		query = query.Where("year = ?", filter.Year)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		q := "%" + filter.Search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", q, q)
	}

	if err := query.Find(&activities).Error; err != nil {
		logger.Error("Failed to list training activities", err)
		return nil, err
	}
	return activities, nil
}

func (r *trainingRepository) FindDeleted() ([]model.TrainingActivity, error) {
	var activities []model.TrainingActivity
	err := r.db.Unscoped().
		Where("deleted_at IS NOT NULL").
		Order("deleted_at DESC").
		Find(&activities).Error
	if err != nil {
		logger.Error("Failed to list deleted training activities", err)
		return nil, err
	}
	return activities, nil
}

func (r *trainingRepository) Update(activity *model.TrainingActivity) error {
	if err := r.db.Save(activity).Error; err != nil {
		logger.Error("Failed to update training activity", err, map[string]interface{}{
			"activity_id": activity.ID,
		})
		return err
	}
	return nil
}

// SoftDelete moves the activity to the recycle bin. Enrollment rows are left
// in place: the roster stays reachable from the bin view until the activity
// is either restored or purged.
func (r *trainingRepository) SoftDelete(id uint) error {
	result := r.db.Delete(&model.TrainingActivity{}, id)
	if result.Error != nil {
		logger.Error("Failed to soft delete training activity", result.Error, map[string]interface{}{
			"activity_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *trainingRepository) Restore(id uint) error {
	var activity model.TrainingActivity
	if err := r.db.Unscoped().First(&activity, id).Error; err != nil {
		return err
	}

	return r.db.Unscoped().Model(&model.TrainingActivity{}).
		Where("id = ?", id).
		Update("deleted_at", nil).Error
}

func (r *trainingRepository) Purge(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// The roster has no meaning without its activity.
		if err := tx.Where("training_activity_id = ?", id).
			Delete(&model.Enrollment{}).Error; err != nil {
			return err
		}

		result := tx.Unscoped().Delete(&model.TrainingActivity{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// PurgeDeletedBefore hard-deletes activities whose soft delete is older than
// cutoff. Used by the retention sweep.
func (r *trainingRepository) PurgeDeletedBefore(cutoff time.Time) (int64, error) {
	var expired []model.TrainingActivity
	err := r.db.Unscoped().
		Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
		Find(&expired).Error
	if err != nil {
		return 0, err
	}

	var purged int64
	for _, activity := range expired {
		if err := r.Purge(activity.ID); err != nil {
			logger.Error("Failed to purge expired training activity", err, map[string]interface{}{
				"activity_id": activity.ID,
			})
			return purged, err
		}
		purged++
	}
	return purged, nil
}

func (r *trainingRepository) CountActive() (int64, error) {
	var count int64
	err := r.db.Model(&model.TrainingActivity{}).Count(&count).Error
	return count, err
}
