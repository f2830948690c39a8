package model

import (
	"time"

	"gorm.io/gorm"
)

type ServiceType string

const (
	ServiceHalal ServiceType = "sertifikasi_halal"
	ServicePIRT  ServiceType = "pirt"
	ServiceBPOM  ServiceType = "bpom"
	ServiceMerek ServiceType = "merek"
	ServiceHKI   ServiceType = "hki"
)

// ValidServiceType reports whether t is one of the supported service kinds.
func ValidServiceType(t ServiceType) bool {
	switch t {
	case ServiceHalal, ServicePIRT, ServiceBPOM, ServiceMerek, ServiceHKI:
		return true
	}
	return false
}

type CertificateStatus string

const (
	CertificateInProcess CertificateStatus = "proses"
	CertificateIssued    CertificateStatus = "terbit"
)

// ServiceRecord is one fulfilled facilitation service (certification or
// registration) granted to a business. CertificateStatus and TestDate only
// apply to certain service types and stay null otherwise.
type ServiceRecord struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	BusinessID uint      `gorm:"not null;index" json:"business_id"`
	Business   *Business `gorm:"foreignKey:BusinessID" json:"business,omitempty"`

	ServiceType       ServiceType        `gorm:"type:varchar(30);not null;index" json:"service_type"`
	DocumentNumber    string             `gorm:"type:varchar(100)" json:"document_number"`
	DocumentURL       string             `gorm:"type:text" json:"document_url"`
	SupplementURL     string             `gorm:"type:text" json:"supplement_url"`
	CertificateStatus *CertificateStatus `gorm:"type:varchar(20)" json:"certificate_status,omitempty"`
	FacilitationYear  int                `gorm:"not null;index" json:"facilitation_year"`
	TestDate          *time.Time         `json:"test_date,omitempty"`
}

func (ServiceRecord) TableName() string {
	return "service_records"
}
