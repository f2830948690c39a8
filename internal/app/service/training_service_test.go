package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/dinperin/simikm-backend/internal/app/model"
	"github.com/dinperin/simikm-backend/internal/app/repository"
	"github.com/dinperin/simikm-backend/internal/db"
	"github.com/dinperin/simikm-backend/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type trainingTestEnv struct {
	db           *gorm.DB
	svc          TrainingService
	businessRepo repository.BusinessRepository
	enrollRepo   repository.EnrollmentRepository
	auditRepo    repository.AuditRepository
}

func setupTrainingTest(t *testing.T) *trainingTestEnv {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	trainingRepo := repository.NewTrainingRepository(testDB)
	enrollRepo := repository.NewEnrollmentRepository(testDB)
	businessRepo := repository.NewBusinessRepository(testDB)
	auditRepo := repository.NewAuditRepository(testDB)

	svc := NewTrainingService(trainingRepo, enrollRepo, businessRepo,
		NewAuditService(auditRepo), notify.NewNoop())

	return &trainingTestEnv{
		db:           testDB,
		svc:          svc,
		businessRepo: businessRepo,
		enrollRepo:   enrollRepo,
		auditRepo:    auditRepo,
	}
}

var testActor = Actor{Name: "Dewi Lestari", Role: "petugas"}

func (e *trainingTestEnv) createActivity(t *testing.T, quota int) *model.TrainingActivity {
	activity, err := e.svc.Create(TrainingInput{
		Title:    "Pelatihan Sertifikasi Halal",
		Schedule: "12-14 Maret 2026, Aula Dinas",
		Year:     2026,
		Quota:    quota,
	}, testActor)
	require.NoError(t, err)
	return activity
}

func (e *trainingTestEnv) createBusiness(t *testing.T, seq int) *model.Business {
	business := &model.Business{
		NIB:          fmt.Sprintf("12345678901%02d", seq),
		NIK:          fmt.Sprintf("32012345678900%02d", seq),
		OwnerName:    fmt.Sprintf("Pemilik %d", seq),
		BusinessName: fmt.Sprintf("Usaha %d", seq),
	}
	require.NoError(t, e.businessRepo.Create(business))
	return business
}

func TestTrainingService_Create_DefaultsToOpen(t *testing.T) {
	env := setupTrainingTest(t)

	activity := env.createActivity(t, 20)
	assert.Equal(t, model.TrainingOpen, activity.Status)
	assert.NotZero(t, activity.ID)
}

func TestTrainingService_Create_RejectsUnknownStatus(t *testing.T) {
	env := setupTrainingTest(t)

	_, err := env.svc.Create(TrainingInput{
		Title:  "Pelatihan",
		Year:   2026,
		Quota:  10,
		Status: "cancelled",
	}, testActor)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestTrainingService_Update(t *testing.T) {
	env := setupTrainingTest(t)
	activity := env.createActivity(t, 20)

	updated, err := env.svc.Update(activity.ID, TrainingInput{
		Title:    "Pelatihan Sertifikasi Halal Gelombang 2",
		Schedule: "20-22 April 2026, Aula Dinas",
		Year:     2026,
		Quota:    30,
		Status:   model.TrainingClosed,
	}, testActor)
	require.NoError(t, err)

	assert.Equal(t, "Pelatihan Sertifikasi Halal Gelombang 2", updated.Title)
	assert.Equal(t, 30, updated.Quota)
	assert.Equal(t, model.TrainingClosed, updated.Status)
}

func TestTrainingService_Enroll_QuotaEnforced(t *testing.T) {
	env := setupTrainingTest(t)
	activity := env.createActivity(t, 5)

	businesses := make([]*model.Business, 0, 6)
	for i := 0; i < 6; i++ {
		businesses = append(businesses, env.createBusiness(t, i))
	}

	for i := 0; i < 5; i++ {
		_, err := env.svc.Enroll(activity.ID, businesses[i].ID, testActor)
		require.NoError(t, err)
	}

	// Sixth enrollment must bounce off the full roster.
	_, err := env.svc.Enroll(activity.ID, businesses[5].ID, testActor)
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	count, err := env.enrollRepo.CountByActivity(activity.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
}

func TestTrainingService_Enroll_FreedSlotReusable(t *testing.T) {
	env := setupTrainingTest(t)
	activity := env.createActivity(t, 2)

	first := env.createBusiness(t, 1)
	second := env.createBusiness(t, 2)
	third := env.createBusiness(t, 3)

	enrollment, err := env.svc.Enroll(activity.ID, first.ID, testActor)
	require.NoError(t, err)
	_, err = env.svc.Enroll(activity.ID, second.ID, testActor)
	require.NoError(t, err)

	_, err = env.svc.Enroll(activity.ID, third.ID, testActor)
	require.ErrorIs(t, err, ErrQuotaExceeded)

	require.NoError(t, env.svc.Unenroll(enrollment.ID, testActor))

	_, err = env.svc.Enroll(activity.ID, third.ID, testActor)
	assert.NoError(t, err)
}

func TestTrainingService_Enroll_Duplicate(t *testing.T) {
	env := setupTrainingTest(t)
	activity := env.createActivity(t, 10)
	business := env.createBusiness(t, 1)

	_, err := env.svc.Enroll(activity.ID, business.ID, testActor)
	require.NoError(t, err)

	_, err = env.svc.Enroll(activity.ID, business.ID, testActor)
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)
}

func TestTrainingService_Enroll_MissingReferences(t *testing.T) {
	env := setupTrainingTest(t)
	activity := env.createActivity(t, 10)
	business := env.createBusiness(t, 1)

	_, err := env.svc.Enroll(9999, business.ID, testActor)
	assert.ErrorIs(t, err, ErrTrainingNotFound)

	_, err = env.svc.Enroll(activity.ID, 9999, testActor)
	assert.ErrorIs(t, err, ErrBusinessNotFound)
}

func TestTrainingService_SoftDeleteKeepsRoster(t *testing.T) {
	env := setupTrainingTest(t)
	activity := env.createActivity(t, 10)
	business := env.createBusiness(t, 1)

	_, err := env.svc.Enroll(activity.ID, business.ID, testActor)
	require.NoError(t, err)

	require.NoError(t, env.svc.SoftDelete(activity.ID, testActor))

	_, err = env.svc.Get(activity.ID)
	assert.ErrorIs(t, err, ErrTrainingNotFound)

	count, err := env.enrollRepo.CountByActivity(activity.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, env.svc.Restore(activity.ID, testActor))

	roster, err := env.svc.Roster(activity.ID)
	require.NoError(t, err)
	assert.Len(t, roster, 1)
}

func TestTrainingService_Restore_ActiveIsNoOp(t *testing.T) {
	env := setupTrainingTest(t)
	activity := env.createActivity(t, 10)

	assert.NoError(t, env.svc.Restore(activity.ID, testActor))
}

func TestTrainingService_Purge_RemovesRoster(t *testing.T) {
	env := setupTrainingTest(t)
	activity := env.createActivity(t, 10)
	business := env.createBusiness(t, 1)

	_, err := env.svc.Enroll(activity.ID, business.ID, testActor)
	require.NoError(t, err)

	require.NoError(t, env.svc.SoftDelete(activity.ID, testActor))
	require.NoError(t, env.svc.Purge(activity.ID, testActor))

	count, err := env.enrollRepo.CountByActivity(activity.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	err = env.svc.Restore(activity.ID, testActor)
	assert.ErrorIs(t, err, ErrTrainingNotFound)
}

func TestTrainingService_PurgeExpired(t *testing.T) {
	env := setupTrainingTest(t)

	aged := env.createActivity(t, 10)
	recent := env.createActivity(t, 10)

	require.NoError(t, env.svc.SoftDelete(aged.ID, testActor))
	require.NoError(t, env.svc.SoftDelete(recent.ID, testActor))

	// Backdate the first deletion past the retention window.
	backdated := time.Now().Add(-10 * 24 * time.Hour)
	require.NoError(t, env.db.Unscoped().Model(&model.TrainingActivity{}).
		Where("id = ?", aged.ID).
		Update("deleted_at", backdated).Error)

	purged, err := env.svc.PurgeExpired(7 * 24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	deleted, err := env.svc.ListDeleted()
	require.NoError(t, err)
	require.Len(t, deleted, 1)
	assert.Equal(t, recent.ID, deleted[0].ID)
}

func TestTrainingService_ListFilters(t *testing.T) {
	env := setupTrainingTest(t)

	_, err := env.svc.Create(TrainingInput{Title: "Pelatihan Halal", Year: 2025, Quota: 10}, testActor)
	require.NoError(t, err)
	_, err = env.svc.Create(TrainingInput{Title: "Pelatihan Kemasan", Year: 2026, Quota: 10, Status: model.TrainingClosed}, testActor)
	require.NoError(t, err)

	byYear, err := env.svc.List(repository.TrainingFilter{Year: 2026})
	require.NoError(t, err)
	require.Len(t, byYear, 1)
	assert.Equal(t, "Pelatihan Kemasan", byYear[0].Title)

	byStatus, err := env.svc.List(repository.TrainingFilter{Status: model.TrainingOpen})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, "Pelatihan Halal", byStatus[0].Title)
}
