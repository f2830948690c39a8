package service

import (
	"testing"

	"github.com/dinperin/simikm-backend/internal/app/model"
	"github.com/dinperin/simikm-backend/internal/app/repository"
	"github.com/dinperin/simikm-backend/internal/db"
	"github.com/dinperin/simikm-backend/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupBusinessService(t *testing.T) (*gorm.DB, BusinessService, repository.AuditRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	businessRepo := repository.NewBusinessRepository(testDB)
	auditRepo := repository.NewAuditRepository(testDB)
	svc := NewBusinessService(businessRepo, NewAuditService(auditRepo), notify.NewNoop())
	return testDB, svc, auditRepo
}

func validInput() CreateBusinessInput {
	return CreateBusinessInput{
		NIB:          "1234567890123",
		NIK:          "3201234567890001",
		OwnerName:    "Budi Santoso",
		BusinessName: "Keripik Tempe Barokah",
		Address:      "Jl. Melati No. 3",
		Phone:        "081234567890",
	}
}

func TestBusinessService_Create(t *testing.T) {
	_, svc, auditRepo := setupBusinessService(t)

	business, err := svc.Create(validInput(), PublicActor)
	require.NoError(t, err)
	assert.NotZero(t, business.ID)
	assert.Equal(t, "1234567890123", business.NIB)

	entries, err := auditRepo.FindAll(repository.AuditFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, model.AuditCreate, entries[0].Action)
	assert.Equal(t, "Formulir Publik", entries[0].ActorName)
}

func TestBusinessService_Create_InvalidIdentifiers(t *testing.T) {
	_, svc, _ := setupBusinessService(t)

	short := validInput()
	short.NIB = "123456"
	_, err := svc.Create(short, PublicActor)
	assert.ErrorIs(t, err, ErrInvalidNIB)

	letters := validInput()
	letters.NIB = "12345678901ab"
	_, err = svc.Create(letters, PublicActor)
	assert.ErrorIs(t, err, ErrInvalidNIB)

	badNIK := validInput()
	badNIK.NIK = "32012345678900" // 14 digits
	_, err = svc.Create(badNIK, PublicActor)
	assert.ErrorIs(t, err, ErrInvalidNIK)
}

func TestBusinessService_Create_DuplicateIdentifiers(t *testing.T) {
	_, svc, _ := setupBusinessService(t)

	_, err := svc.Create(validInput(), PublicActor)
	require.NoError(t, err)

	sameNIB := validInput()
	sameNIB.NIK = "3201234567890002"
	_, err = svc.Create(sameNIB, PublicActor)
	assert.ErrorIs(t, err, ErrNIBRegistered)

	sameNIK := validInput()
	sameNIK.NIB = "9876543210987"
	_, err = svc.Create(sameNIK, PublicActor)
	assert.ErrorIs(t, err, ErrNIKRegistered)
}

func TestBusinessService_CheckConflict(t *testing.T) {
	_, svc, _ := setupBusinessService(t)

	_, err := svc.Create(validInput(), PublicActor)
	require.NoError(t, err)

	conflict, err := svc.CheckConflict("nib", "1234567890123")
	require.NoError(t, err)
	require.NotNil(t, conflict)
	assert.Equal(t, "Keripik Tempe Barokah", conflict.BusinessName)

	conflict, err = svc.CheckConflict("nib", "9876543210987")
	require.NoError(t, err)
	assert.Nil(t, conflict)

	_, err = svc.CheckConflict("phone", "081234567890")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestBusinessService_Update_PreservesIdentity(t *testing.T) {
	_, svc, _ := setupBusinessService(t)

	business, err := svc.Create(validInput(), PublicActor)
	require.NoError(t, err)

	staff := Actor{Name: "Dewi Lestari", Role: "petugas"}
	updated, err := svc.Update(business.ID, UpdateBusinessInput{
		OwnerName:    "Budi Santoso",
		BusinessName: "Keripik Tempe Barokah Jaya",
		Address:      "Jl. Melati No. 5",
		Phone:        "081234567899",
	}, staff)
	require.NoError(t, err)

	assert.Equal(t, "1234567890123", updated.NIB)
	assert.Equal(t, "3201234567890001", updated.NIK)
	assert.Equal(t, "Keripik Tempe Barokah Jaya", updated.BusinessName)
}

// Covers the full lifecycle: register, bin, restore with fields intact,
// re-register the freed identifier, and finally purge.
func TestBusinessService_Lifecycle(t *testing.T) {
	_, svc, _ := setupBusinessService(t)
	staff := Actor{Name: "Dewi Lestari", Role: "petugas"}

	business, err := svc.Create(validInput(), PublicActor)
	require.NoError(t, err)

	require.NoError(t, svc.SoftDelete(business.ID, staff))

	_, err = svc.Get(business.ID)
	assert.ErrorIs(t, err, ErrBusinessNotFound)

	deleted, err := svc.ListDeleted(repository.BusinessFilter{})
	require.NoError(t, err)
	require.Len(t, deleted, 1)

	// The binned record no longer blocks its NIB.
	reuse := validInput()
	reuse.NIK = "3201234567890002"
	second, err := svc.Create(reuse, PublicActor)
	require.NoError(t, err)

	// Restoring the original must now collide at the database level, so
	// purge the newcomer first, then restore.
	require.NoError(t, svc.SoftDelete(second.ID, staff))
	require.NoError(t, svc.Purge(second.ID, staff))

	require.NoError(t, svc.Restore(business.ID, staff))

	restored, err := svc.Get(business.ID)
	require.NoError(t, err)
	assert.Equal(t, "Keripik Tempe Barokah", restored.BusinessName)
	assert.Equal(t, "Jl. Melati No. 3", restored.Address)

	// Restore on an active record is a quiet success.
	assert.NoError(t, svc.Restore(business.ID, staff))

	require.NoError(t, svc.SoftDelete(business.ID, staff))
	require.NoError(t, svc.Purge(business.ID, staff))

	err = svc.Restore(business.ID, staff)
	assert.ErrorIs(t, err, ErrBusinessNotFound)
}

func TestBusinessService_SoftDelete_Missing(t *testing.T) {
	_, svc, _ := setupBusinessService(t)

	err := svc.SoftDelete(9999, PublicActor)
	assert.ErrorIs(t, err, ErrBusinessNotFound)
}
