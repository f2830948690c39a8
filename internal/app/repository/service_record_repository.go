package repository

import (
	"github.com/dinperin/simikm-backend/internal/app/model"
	"github.com/dinperin/simikm-backend/pkg/logger"
	"gorm.io/gorm"
)

type ServiceRecordFilter struct {
	BusinessID  uint
	ServiceType model.ServiceType
	Year        int
}

type ServiceRecordRepository interface {
	Create(record *model.ServiceRecord) error
	FindByID(id uint) (*model.ServiceRecord, error)
	FindByIDUnscoped(id uint) (*model.ServiceRecord, error)
	FindAll(filter ServiceRecordFilter) ([]model.ServiceRecord, error)
	FindDeleted() ([]model.ServiceRecord, error)
	Update(record *model.ServiceRecord) error
	SoftDelete(id uint) error
	Restore(id uint) error
	Purge(id uint) error
	CountActive() (int64, error)
}

type serviceRecordRepository struct {
	db *gorm.DB
}

func NewServiceRecordRepository(db *gorm.DB) ServiceRecordRepository {
	return &serviceRecordRepository{db: db}
}

func (r *serviceRecordRepository) Create(record *model.ServiceRecord) error {
	if err := r.db.Create(record).Error; err != nil {
		logger.Error("Failed to create service record", err, map[string]interface{}{
			"business_id":  record.BusinessID,
			"service_type": record.ServiceType,
		})
		return err
	}
	return nil
}

func (r *serviceRecordRepository) FindByID(id uint) (*model.ServiceRecord, error) {
	var record model.ServiceRecord
	if err := r.db.Preload("Business").First(&record, id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *serviceRecordRepository) FindByIDUnscoped(id uint) (*model.ServiceRecord, error) {
	var record model.ServiceRecord
	if err := r.db.Unscoped().First(&record, id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *serviceRecordRepository) FindAll(filter ServiceRecordFilter) ([]model.ServiceRecord, error) {
	var records []model.ServiceRecord
	query := r.db.Preload("Business").Order("created_at DESC")

	if filter.BusinessID != 0 {
		query = query.Where("business_id = ?", filter.BusinessID)
	}
	if filter.ServiceType != "" {
		query = query.Where("service_type = ?", filter.ServiceType)
	}
	if filter.Year != 0 {
		query = query.Where("facilitation_year = ?", filter.Year)
	}

	if err := query.Find(&records).Error; err != nil {
		logger.Error("Failed to list service records", err)
		return nil, err
	}
	return records, nil
}

func (r *serviceRecordRepository) FindDeleted() ([]model.ServiceRecord, error) {
	var records []model.ServiceRecord
	err := r.db.Unscoped().
		Where("deleted_at IS NOT NULL").
		Order("deleted_at DESC").
		Find(&records).Error
	if err != nil {
		logger.Error("Failed to list deleted service records", err)
		return nil, err
	}
	return records, nil
}

func (r *serviceRecordRepository) Update(record *model.ServiceRecord) error {
	if err := r.db.Save(record).Error; err != nil {
		logger.Error("Failed to update service record", err, map[string]interface{}{
			"record_id": record.ID,
		})
		return err
	}
	return nil
}

func (r *serviceRecordRepository) SoftDelete(id uint) error {
	result := r.db.Delete(&model.ServiceRecord{}, id)
	if result.Error != nil {
		logger.Error("Failed to soft delete service record", result.Error, map[string]interface{}{
			"record_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *serviceRecordRepository) Restore(id uint) error {
	var record model.ServiceRecord
	if err := r.db.Unscoped().First(&record, id).Error; err != nil {
		return err
	}

	return r.db.Unscoped().Model(&model.ServiceRecord{}).
		Where("id = ?", id).
		Update("deleted_at", nil).Error
}

func (r *serviceRecordRepository) Purge(id uint) error {
	result := r.db.Unscoped().Delete(&model.ServiceRecord{}, id)
	if result.Error != nil {
		logger.Error("Failed to purge service record", result.Error, map[string]interface{}{
			"record_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *serviceRecordRepository) CountActive() (int64, error) {
	var count int64
	err := r.db.Model(&model.ServiceRecord{}).Count(&count).Error
	return count, err
}
