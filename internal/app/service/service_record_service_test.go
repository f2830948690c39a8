package service

import (
	"testing"

	"github.com/dinperin/simikm-backend/internal/app/model"
	"github.com/dinperin/simikm-backend/internal/app/repository"
	"github.com/dinperin/simikm-backend/internal/db"
	"github.com/dinperin/simikm-backend/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRecordTest(t *testing.T) (ServiceRecordService, *model.Business) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	businessRepo := repository.NewBusinessRepository(testDB)
	recordRepo := repository.NewServiceRecordRepository(testDB)
	auditRepo := repository.NewAuditRepository(testDB)
	svc := NewServiceRecordService(recordRepo, businessRepo,
		NewAuditService(auditRepo), notify.NewNoop())

	business := &model.Business{
		NIB:          "1234567890123",
		NIK:          "3201234567890001",
		OwnerName:    "Budi Santoso",
		BusinessName: "Keripik Tempe Barokah",
	}
	require.NoError(t, businessRepo.Create(business))

	return svc, business
}

func TestServiceRecordService_Create(t *testing.T) {
	svc, business := setupRecordTest(t)

	status := model.CertificateIssued
	record, err := svc.Create(ServiceRecordInput{
		BusinessID:        business.ID,
		ServiceType:       model.ServiceHalal,
		DocumentNumber:    "ID1234567890",
		CertificateStatus: &status,
		FacilitationYear:  2026,
	}, testActor)
	require.NoError(t, err)

	assert.NotZero(t, record.ID)
	assert.Equal(t, model.ServiceHalal, record.ServiceType)
	require.NotNil(t, record.CertificateStatus)
	assert.Equal(t, model.CertificateIssued, *record.CertificateStatus)
}

func TestServiceRecordService_Create_Invalid(t *testing.T) {
	svc, business := setupRecordTest(t)

	_, err := svc.Create(ServiceRecordInput{
		BusinessID:       business.ID,
		ServiceType:      "izin_usaha",
		FacilitationYear: 2026,
	}, testActor)
	assert.ErrorIs(t, err, ErrInvalidServiceType)

	bad := model.CertificateStatus("ditolak")
	_, err = svc.Create(ServiceRecordInput{
		BusinessID:        business.ID,
		ServiceType:       model.ServicePIRT,
		CertificateStatus: &bad,
		FacilitationYear:  2026,
	}, testActor)
	assert.ErrorIs(t, err, ErrInvalidCertStatus)

	_, err = svc.Create(ServiceRecordInput{
		BusinessID:       9999,
		ServiceType:      model.ServicePIRT,
		FacilitationYear: 2026,
	}, testActor)
	assert.ErrorIs(t, err, ErrBusinessNotFound)
}

func TestServiceRecordService_ListFilters(t *testing.T) {
	svc, business := setupRecordTest(t)

	_, err := svc.Create(ServiceRecordInput{
		BusinessID:       business.ID,
		ServiceType:      model.ServiceHalal,
		FacilitationYear: 2025,
	}, testActor)
	require.NoError(t, err)
	_, err = svc.Create(ServiceRecordInput{
		BusinessID:       business.ID,
		ServiceType:      model.ServiceMerek,
		FacilitationYear: 2026,
	}, testActor)
	require.NoError(t, err)

	byType, err := svc.List(repository.ServiceRecordFilter{ServiceType: model.ServiceMerek})
	require.NoError(t, err)
	require.Len(t, byType, 1)
	assert.Equal(t, model.ServiceMerek, byType[0].ServiceType)

	byYear, err := svc.List(repository.ServiceRecordFilter{Year: 2025})
	require.NoError(t, err)
	require.Len(t, byYear, 1)
	assert.Equal(t, model.ServiceHalal, byYear[0].ServiceType)
}

func TestServiceRecordService_Lifecycle(t *testing.T) {
	svc, business := setupRecordTest(t)

	record, err := svc.Create(ServiceRecordInput{
		BusinessID:       business.ID,
		ServiceType:      model.ServiceBPOM,
		FacilitationYear: 2026,
	}, testActor)
	require.NoError(t, err)

	require.NoError(t, svc.SoftDelete(record.ID, testActor))

	_, err = svc.Get(record.ID)
	assert.ErrorIs(t, err, ErrServiceRecordNotFound)

	deleted, err := svc.ListDeleted()
	require.NoError(t, err)
	assert.Len(t, deleted, 1)

	require.NoError(t, svc.Restore(record.ID, testActor))
	assert.NoError(t, svc.Restore(record.ID, testActor)) // idempotent

	restored, err := svc.Get(record.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ServiceBPOM, restored.ServiceType)

	require.NoError(t, svc.SoftDelete(record.ID, testActor))
	require.NoError(t, svc.Purge(record.ID, testActor))

	err = svc.Restore(record.ID, testActor)
	assert.ErrorIs(t, err, ErrServiceRecordNotFound)
}
