package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo pairs an error code with a user-facing message.
type ErrorInfo struct {
	Code    string
	Message string
}

// IsDuplicateKey reports whether err is a uniqueness violation from the
// store. The duplicate pre-check in the services is only a UX hint; the
// database constraint is the backstop, and this is how its rejection is
// recognized. Covers Postgres (23505) and the sqlite test database.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate key") ||
		strings.Contains(s, "unique constraint") ||
		strings.Contains(s, "constraint failed")
}

// ParseError converts a store error into a code and an Indonesian message
// the frontend can show. context hints at the entity being operated on.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "Terjadi kesalahan pada server"}
	}

	errStr := err.Error()
	errLower := strings.ToLower(errStr)

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Code: notFoundCode(context), Message: notFoundMessage(context)}
	}

	if IsDuplicateKey(err) {
		return parseDuplicateKeyError(errLower)
	}

	// Foreign key violation (23503)
	if strings.Contains(errLower, "foreign key constraint") {
		if strings.Contains(errLower, "still referenced") {
			return ErrorInfo{
				Code:    ResourceConflict,
				Message: "Data masih memiliki keterkaitan sehingga tidak dapat dihapus",
			}
		}
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: "Data yang dirujuk tidak ditemukan",
		}
	}

	// Not-null violation (23502)
	if strings.Contains(errLower, "null value") && strings.Contains(errLower, "not-null constraint") {
		return ErrorInfo{Code: ValidationRequired, Message: "Kolom wajib belum diisi"}
	}

	// Connectivity problems surface generically; the user just retries.
	if strings.Contains(errLower, "connection refused") ||
		strings.Contains(errLower, "no such host") ||
		strings.Contains(errLower, "timeout") {
		return ErrorInfo{
			Code:    InternalDatabaseError,
			Message: "Koneksi ke basis data gagal. Silakan coba lagi",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: "Terjadi kesalahan pada server. Silakan coba lagi",
	}
}

func parseDuplicateKeyError(errLower string) ErrorInfo {
	// Active-row partial unique indexes, see internal/app/model.
	if strings.Contains(errLower, "nib") {
		return ErrorInfo{Code: RegistryNIBExists, Message: "NIB sudah terdaftar"}
	}
	if strings.Contains(errLower, "nik") {
		return ErrorInfo{Code: RegistryNIKExists, Message: "NIK sudah terdaftar"}
	}
	if strings.Contains(errLower, "enrollment") {
		return ErrorInfo{Code: TrainingAlreadyEnrolled, Message: "IKM sudah terdaftar pada pelatihan ini"}
	}
	return ErrorInfo{Code: ResourceAlreadyExists, Message: "Data sudah ada"}
}

func notFoundCode(context string) string {
	contextLower := strings.ToLower(context)
	switch {
	case strings.Contains(contextLower, "business"), strings.Contains(contextLower, "ikm"):
		return RegistryNotFound
	case strings.Contains(contextLower, "training"), strings.Contains(contextLower, "pelatihan"):
		return TrainingNotFound
	case strings.Contains(contextLower, "enrollment"), strings.Contains(contextLower, "peserta"):
		return EnrollmentNotFound
	case strings.Contains(contextLower, "service"), strings.Contains(contextLower, "layanan"):
		return ServiceRecordNotFound
	}
	return ResourceNotFound
}

func notFoundMessage(context string) string {
	contextLower := strings.ToLower(context)
	switch {
	case strings.Contains(contextLower, "business"), strings.Contains(contextLower, "ikm"):
		return "Data IKM tidak ditemukan"
	case strings.Contains(contextLower, "training"), strings.Contains(contextLower, "pelatihan"):
		return "Kegiatan pelatihan tidak ditemukan"
	case strings.Contains(contextLower, "enrollment"), strings.Contains(contextLower, "peserta"):
		return "Data peserta tidak ditemukan"
	case strings.Contains(contextLower, "service"), strings.Contains(contextLower, "layanan"):
		return "Data layanan tidak ditemukan"
	}
	return "Data tidak ditemukan"
}
