package repository

import (
	"testing"

	"github.com/dinperin/simikm-backend/internal/app/model"
	"github.com/dinperin/simikm-backend/internal/db"
	apperrors "github.com/dinperin/simikm-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupBusinessTest(t *testing.T) (*gorm.DB, BusinessRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	return testDB, NewBusinessRepository(testDB)
}

func sampleBusiness(nib, nik string) *model.Business {
	return &model.Business{
		NIB:          nib,
		NIK:          nik,
		OwnerName:    "Budi Santoso",
		BusinessName: "Keripik Tempe Barokah",
		Address:      "Jl. Melati No. 3",
		Phone:        "081234567890",
	}
}

func TestBusinessRepository_Create(t *testing.T) {
	_, repo := setupBusinessTest(t)

	business := sampleBusiness("1234567890123", "3201234567890001")
	err := repo.Create(business)
	assert.NoError(t, err)
	assert.NotZero(t, business.ID)
	assert.False(t, business.IsDeleted())
}

func TestBusinessRepository_Create_DuplicateNIBRejected(t *testing.T) {
	_, repo := setupBusinessTest(t)

	require.NoError(t, repo.Create(sampleBusiness("1234567890123", "3201234567890001")))

	// Same NIB, different NIK: the partial unique index is the backstop.
	err := repo.Create(sampleBusiness("1234567890123", "3201234567890002"))
	require.Error(t, err)
	assert.True(t, apperrors.IsDuplicateKey(err))
}

func TestBusinessRepository_Create_NIBReusableAfterSoftDelete(t *testing.T) {
	_, repo := setupBusinessTest(t)

	first := sampleBusiness("1234567890123", "3201234567890001")
	require.NoError(t, repo.Create(first))
	require.NoError(t, repo.SoftDelete(first.ID))

	// A deleted record no longer occupies its identifiers.
	err := repo.Create(sampleBusiness("1234567890123", "3201234567890002"))
	assert.NoError(t, err)
}

func TestBusinessRepository_FindAll_OrderAndSearch(t *testing.T) {
	_, repo := setupBusinessTest(t)

	older := sampleBusiness("1111111111111", "1111111111111111")
	require.NoError(t, repo.Create(older))
	newer := sampleBusiness("2222222222222", "2222222222222222")
	newer.OwnerName = "Siti Aminah"
	newer.BusinessName = "Batik Sekar"
	require.NoError(t, repo.Create(newer))

	all, err := repo.FindAll(BusinessFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	found, err := repo.FindAll(BusinessFilter{Search: "Batik"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Siti Aminah", found[0].OwnerName)

	byNIB, err := repo.FindAll(BusinessFilter{Search: "1111111111111"})
	require.NoError(t, err)
	require.Len(t, byNIB, 1)
	assert.Equal(t, older.ID, byNIB[0].ID)
}

func TestBusinessRepository_FindAll_ExcludesDeleted(t *testing.T) {
	_, repo := setupBusinessTest(t)

	kept := sampleBusiness("1111111111111", "1111111111111111")
	require.NoError(t, repo.Create(kept))
	removed := sampleBusiness("2222222222222", "2222222222222222")
	require.NoError(t, repo.Create(removed))
	require.NoError(t, repo.SoftDelete(removed.ID))

	active, err := repo.FindAll(BusinessFilter{})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, kept.ID, active[0].ID)

	binned, err := repo.FindDeleted(BusinessFilter{})
	require.NoError(t, err)
	require.Len(t, binned, 1)
	assert.Equal(t, removed.ID, binned[0].ID)
	assert.True(t, binned[0].IsDeleted())
}

func TestBusinessRepository_Restore(t *testing.T) {
	_, repo := setupBusinessTest(t)

	business := sampleBusiness("1234567890123", "3201234567890001")
	require.NoError(t, repo.Create(business))
	require.NoError(t, repo.SoftDelete(business.ID))

	require.NoError(t, repo.Restore(business.ID))

	restored, err := repo.FindByID(business.ID)
	require.NoError(t, err)
	assert.False(t, restored.IsDeleted())
	assert.Equal(t, business.NIB, restored.NIB)
	assert.Equal(t, business.OwnerName, restored.OwnerName)
}

func TestBusinessRepository_Restore_ActiveIsNoop(t *testing.T) {
	_, repo := setupBusinessTest(t)

	business := sampleBusiness("1234567890123", "3201234567890001")
	require.NoError(t, repo.Create(business))

	assert.NoError(t, repo.Restore(business.ID))
}

func TestBusinessRepository_Restore_NotFound(t *testing.T) {
	_, repo := setupBusinessTest(t)

	err := repo.Restore(9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestBusinessRepository_Purge(t *testing.T) {
	_, repo := setupBusinessTest(t)

	business := sampleBusiness("1234567890123", "3201234567890001")
	require.NoError(t, repo.Create(business))
	require.NoError(t, repo.SoftDelete(business.ID))
	require.NoError(t, repo.Purge(business.ID))

	_, err := repo.FindByIDUnscoped(business.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestBusinessRepository_ActiveNIBSet(t *testing.T) {
	_, repo := setupBusinessTest(t)

	require.NoError(t, repo.Create(sampleBusiness("1111111111111", "1111111111111111")))
	deleted := sampleBusiness("2222222222222", "2222222222222222")
	require.NoError(t, repo.Create(deleted))
	require.NoError(t, repo.SoftDelete(deleted.ID))

	set, err := repo.ActiveNIBSet()
	require.NoError(t, err)
	assert.Contains(t, set, "1111111111111")
	assert.NotContains(t, set, "2222222222222")
}

func TestBusinessRepository_CreateInBatches(t *testing.T) {
	_, repo := setupBusinessTest(t)

	batch := []model.Business{
		*sampleBusiness("1111111111111", "1111111111111111"),
		*sampleBusiness("2222222222222", "2222222222222222"),
		*sampleBusiness("3333333333333", "3333333333333333"),
	}
	require.NoError(t, repo.CreateInBatches(batch, 2))

	count, err := repo.CountActive()
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestBusinessRepository_CreateInBatches_AllOrNothing(t *testing.T) {
	_, repo := setupBusinessTest(t)

	require.NoError(t, repo.Create(sampleBusiness("2222222222222", "9999999999999999")))

	batch := []model.Business{
		*sampleBusiness("1111111111111", "1111111111111111"),
		*sampleBusiness("2222222222222", "2222222222222222"), // conflicts with existing row
	}
	err := repo.CreateInBatches(batch, 10)
	require.Error(t, err)

	// The conflicting batch must not be partially applied.
	count, err := repo.CountActive()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
