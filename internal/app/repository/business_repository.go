package repository

import (
	"github.com/dinperin/simikm-backend/internal/app/model"
	"github.com/dinperin/simikm-backend/pkg/logger"
	"gorm.io/gorm"
)

// BusinessFilter narrows listings. Search matches NIB, owner name, business
// name and address. The export endpoints accept the same filter so "export
// what is displayed" stays well-defined.
type BusinessFilter struct {
	Search string
}

type BusinessRepository interface {
	Create(business *model.Business) error
	CreateInBatches(businesses []model.Business, batchSize int) error
	FindByID(id uint) (*model.Business, error)
	FindByIDUnscoped(id uint) (*model.Business, error)
	FindAll(filter BusinessFilter) ([]model.Business, error)
	FindDeleted(filter BusinessFilter) ([]model.Business, error)
	FindActiveByNIB(nib string) (*model.Business, error)
	FindActiveByNIK(nik string) (*model.Business, error)
	ActiveNIBSet() (map[string]struct{}, error)
	ActiveNIKSet() (map[string]struct{}, error)
	Update(business *model.Business) error
	SoftDelete(id uint) error
	Restore(id uint) error
	Purge(id uint) error
	CountActive() (int64, error)
	CountDeleted() (int64, error)
}

type businessRepository struct {
	db *gorm.DB
}

func NewBusinessRepository(db *gorm.DB) BusinessRepository {
	return &businessRepository{db: db}
}

func (r *businessRepository) Create(business *model.Business) error {
	if err := r.db.Create(business).Error; err != nil {
		logger.Error("Failed to create business in database", err, map[string]interface{}{
			"nib": business.NIB,
		})
		return err
	}

	logger.Debug("Business created in database", map[string]interface{}{
		"business_id": business.ID,
		"nib":         business.NIB,
	})
	return nil
}

// CreateInBatches inserts the rows of a confirmed import plan. All-or-nothing:
// the whole batch runs in one transaction so a constraint rejection rolls back
// every row.
func (r *businessRepository) CreateInBatches(businesses []model.Business, batchSize int) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(businesses, batchSize).Error
	})
	if err != nil {
		logger.Error("Failed to bulk create businesses", err, map[string]interface{}{
			"count": len(businesses),
		})
		return err
	}

	logger.Debug("Businesses bulk created", map[string]interface{}{
		"count": len(businesses),
	})
	return nil
}

func (r *businessRepository) FindByID(id uint) (*model.Business, error) {
	var business model.Business
	if err := r.db.First(&business, id).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

// FindByIDUnscoped also finds soft-deleted rows, for the recycle bin view.
func (r *businessRepository) FindByIDUnscoped(id uint) (*model.Business, error) {
	var business model.Business
	if err := r.db.Unscoped().First(&business, id).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

func (r *businessRepository) FindAll(filter BusinessFilter) ([]model.Business, error) {
	var businesses []model.Business
	query := r.db.Order("created_at DESC")
	query = applyBusinessSearch(query, filter)

	if err := query.Find(&businesses).Error; err != nil {
		logger.Error("Failed to list businesses", err, map[string]interface{}{
			"search": filter.Search,
		})
		return nil, err
	}
	return businesses, nil
}

func (r *businessRepository) FindDeleted(filter BusinessFilter) ([]model.Business, error) {
	var businesses []model.Business
	query := r.db.Unscoped().Where("deleted_at IS NOT NULL").Order("deleted_at DESC")
	query = applyBusinessSearch(query, filter)

	if err := query.Find(&businesses).Error; err != nil {
		logger.Error("Failed to list deleted businesses", err, map[string]interface{}{
			"search": filter.Search,
		})
		return nil, err
	}
	return businesses, nil
}

func applyBusinessSearch(query *gorm.DB, filter BusinessFilter) *gorm.DB {
	if filter.Search == "" {
		return query
	}
	q := "%" + filter.Search + "%"
	return query.Where(
		"nib LIKE ? OR owner_name LIKE ? OR business_name LIKE ? OR address LIKE ?",
		q, q, q, q,
	)
}

func (r *businessRepository) FindActiveByNIB(nib string) (*model.Business, error) {
	var business model.Business
	if err := r.db.Where("nib = ?", nib).First(&business).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

func (r *businessRepository) FindActiveByNIK(nik string) (*model.Business, error) {
	var business model.Business
	if err := r.db.Where("nik = ?", nik).First(&business).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

// ActiveNIBSet fetches the NIB values of every active record in one query.
// The import reconciler partitions an uploaded batch against this set instead
// of probing the store row by row.
func (r *businessRepository) ActiveNIBSet() (map[string]struct{}, error) {
	var nibs []string
	if err := r.db.Model(&model.Business{}).Pluck("nib", &nibs).Error; err != nil {
		logger.Error("Failed to fetch active NIB set", err)
		return nil, err
	}

	set := make(map[string]struct{}, len(nibs))
	for _, nib := range nibs {
		set[nib] = struct{}{}
	}
	return set, nil
}

func (r *businessRepository) ActiveNIKSet() (map[string]struct{}, error) {
	var niks []string
	if err := r.db.Model(&model.Business{}).Pluck("nik", &niks).Error; err != nil {
		logger.Error("Failed to fetch active NIK set", err)
		return nil, err
	}

	set := make(map[string]struct{}, len(niks))
	for _, nik := range niks {
		set[nik] = struct{}{}
	}
	return set, nil
}

func (r *businessRepository) Update(business *model.Business) error {
	if err := r.db.Save(business).Error; err != nil {
		logger.Error("Failed to update business in database", err, map[string]interface{}{
			"business_id": business.ID,
		})
		return err
	}
	return nil
}

func (r *businessRepository) SoftDelete(id uint) error {
	result := r.db.Delete(&model.Business{}, id)
	if result.Error != nil {
		logger.Error("Failed to soft delete business", result.Error, map[string]interface{}{
			"business_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Restore clears deleted_at and nothing else, so every other field survives
// the delete/restore round trip untouched. Restoring an already-active row
// is a no-op success.
func (r *businessRepository) Restore(id uint) error {
	var business model.Business
	if err := r.db.Unscoped().First(&business, id).Error; err != nil {
		return err
	}

	return r.db.Unscoped().Model(&model.Business{}).
		Where("id = ?", id).
		Update("deleted_at", nil).Error
}

func (r *businessRepository) Purge(id uint) error {
	result := r.db.Unscoped().Delete(&model.Business{}, id)
	if result.Error != nil {
		logger.Error("Failed to purge business", result.Error, map[string]interface{}{
			"business_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *businessRepository) CountActive() (int64, error) {
	var count int64
	err := r.db.Model(&model.Business{}).Count(&count).Error
	return count, err
}

func (r *businessRepository) CountDeleted() (int64, error) {
	var count int64
	err := r.db.Unscoped().Model(&model.Business{}).
		Where("deleted_at IS NOT NULL").Count(&count).Error
	return count, err
}
