package model

import (
	"time"

	"gorm.io/gorm"
)

// Business is one registered IKM (usaha industri kecil/menengah).
// NIB and NIK are each unique among active rows only: the partial unique
// indexes skip soft-deleted rows, so the identifier of a deleted
// registration can be reused by a new one.
type Business struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	NIB          string `gorm:"column:nib;type:varchar(13);not null;uniqueIndex:uniq_businesses_nib_active,where:deleted_at IS NULL" json:"nib"`            // nomor induk berusaha (13 digit)
	NIK          string `gorm:"column:nik;type:varchar(16);not null;uniqueIndex:uniq_businesses_nik_active,where:deleted_at IS NULL" json:"nik"`            // nomor induk kependudukan (16 digit)
	OwnerName    string `gorm:"type:varchar(150);not null" json:"owner_name"`
	BusinessName string `gorm:"type:varchar(150)" json:"business_name"`
	Address      string `gorm:"type:text" json:"address"`
	Phone        string `gorm:"type:varchar(20)" json:"phone"`
}

func (Business) TableName() string {
	return "businesses"
}

// IsDeleted reports whether the record sits in the recycle bin.
func (b *Business) IsDeleted() bool {
	return b.DeletedAt.Valid
}
