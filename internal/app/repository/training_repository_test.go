package repository

import (
	"testing"
	"time"

	"github.com/dinperin/simikm-backend/internal/app/model"
	"github.com/dinperin/simikm-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTrainingTest(t *testing.T) (*gorm.DB, TrainingRepository, EnrollmentRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	return testDB, NewTrainingRepository(testDB), NewEnrollmentRepository(testDB)
}

func sampleActivity(title string) *model.TrainingActivity {
	return &model.TrainingActivity{
		Title:    title,
		Schedule: "12-14 Maret 2026, Aula Dinas",
		Year:     2026,
		Quota:    20,
		Status:   model.TrainingOpen,
	}
}

func TestTrainingRepository_CreateAndFilter(t *testing.T) {
	_, repo, _ := setupTrainingTest(t)

	a := sampleActivity("Pelatihan Kemasan Produk")
	require.NoError(t, repo.Create(a))
	b := sampleActivity("Pelatihan Pemasaran Digital")
	b.Year = 2025
	b.Status = model.TrainingFinished
	require.NoError(t, repo.Create(b))

	byYear, err := repo.FindAll(TrainingFilter{Year: 2026})
	require.NoError(t, err)
	require.Len(t, byYear, 1)
	assert.Equal(t, a.ID, byYear[0].ID)

	byStatus, err := repo.FindAll(TrainingFilter{Status: model.TrainingFinished})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, b.ID, byStatus[0].ID)

	bySearch, err := repo.FindAll(TrainingFilter{Search: "Kemasan"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	assert.Equal(t, a.ID, bySearch[0].ID)
}

func TestTrainingRepository_SoftDeleteKeepsRoster(t *testing.T) {
	testDB, repo, enrollRepo := setupTrainingTest(t)

	activity := sampleActivity("Pelatihan Kemasan Produk")
	require.NoError(t, repo.Create(activity))

	business := sampleBusiness("1234567890123", "3201234567890001")
	require.NoError(t, testDB.Create(business).Error)
	require.NoError(t, enrollRepo.Create(&model.Enrollment{
		TrainingActivityID: activity.ID,
		BusinessID:         business.ID,
	}))

	require.NoError(t, repo.SoftDelete(activity.ID))

	// No cascade on soft delete: the roster rows stay put.
	count, err := enrollRepo.CountByActivity(activity.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestTrainingRepository_PurgeRemovesRoster(t *testing.T) {
	testDB, repo, enrollRepo := setupTrainingTest(t)

	activity := sampleActivity("Pelatihan Kemasan Produk")
	require.NoError(t, repo.Create(activity))

	business := sampleBusiness("1234567890123", "3201234567890001")
	require.NoError(t, testDB.Create(business).Error)
	require.NoError(t, enrollRepo.Create(&model.Enrollment{
		TrainingActivityID: activity.ID,
		BusinessID:         business.ID,
	}))

	require.NoError(t, repo.SoftDelete(activity.ID))
	require.NoError(t, repo.Purge(activity.ID))

	count, err := enrollRepo.CountByActivity(activity.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestTrainingRepository_PurgeDeletedBefore(t *testing.T) {
	testDB, repo, _ := setupTrainingTest(t)

	expired := sampleActivity("Pelatihan Lama")
	require.NoError(t, repo.Create(expired))
	fresh := sampleActivity("Pelatihan Baru")
	require.NoError(t, repo.Create(fresh))

	require.NoError(t, repo.SoftDelete(expired.ID))
	require.NoError(t, repo.SoftDelete(fresh.ID))

	// Age the first deletion past the retention window.
	old := time.Now().Add(-10 * 24 * time.Hour)
	require.NoError(t, testDB.Unscoped().Model(&model.TrainingActivity{}).
		Where("id = ?", expired.ID).
		Update("deleted_at", old).Error)

	purged, err := repo.PurgeDeletedBefore(time.Now().Add(-7 * 24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	_, err = repo.FindByIDUnscoped(expired.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Still inside the window, still in the bin.
	kept, err := repo.FindByIDUnscoped(fresh.ID)
	require.NoError(t, err)
	assert.True(t, kept.DeletedAt.Valid)
}

func TestEnrollmentRepository_UniquePair(t *testing.T) {
	testDB, repo, enrollRepo := setupTrainingTest(t)

	activity := sampleActivity("Pelatihan Kemasan Produk")
	require.NoError(t, repo.Create(activity))
	business := sampleBusiness("1234567890123", "3201234567890001")
	require.NoError(t, testDB.Create(business).Error)

	require.NoError(t, enrollRepo.Create(&model.Enrollment{
		TrainingActivityID: activity.ID,
		BusinessID:         business.ID,
	}))
	err := enrollRepo.Create(&model.Enrollment{
		TrainingActivityID: activity.ID,
		BusinessID:         business.ID,
	})
	assert.Error(t, err)
}
