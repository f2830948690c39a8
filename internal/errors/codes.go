package errors

// Error code constants.
// Format: CATEGORY_SPECIFIC_DETAIL
// The admin frontend maps these codes to its own messages.

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized = "AUTH_UNAUTHORIZED" // login required
	AuthTokenExpired = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid = "AUTH_TOKEN_INVALID"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND"
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT" // NIB/NIK digit format
	ValidationRequired      = "VALIDATION_REQUIRED"

	// ==================== Resource (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== IKM registry (REGISTRY_) ====================
	RegistryNotFound  = "REGISTRY_NOT_FOUND"
	RegistryNIBExists = "REGISTRY_NIB_EXISTS" // duplicate NIB among active rows
	RegistryNIKExists = "REGISTRY_NIK_EXISTS" // duplicate NIK among active rows

	// ==================== Bulk import (IMPORT_) ====================
	ImportEmptyFile     = "IMPORT_EMPTY_FILE"
	ImportInvalidSheet  = "IMPORT_INVALID_SHEET"
	ImportMissingHeader = "IMPORT_MISSING_HEADER"
	ImportCommitFailed  = "IMPORT_COMMIT_FAILED"

	// ==================== Training (TRAINING_) ====================
	TrainingNotFound        = "TRAINING_NOT_FOUND"
	TrainingQuotaExceeded   = "TRAINING_QUOTA_EXCEEDED"
	TrainingAlreadyEnrolled = "TRAINING_ALREADY_ENROLLED"
	EnrollmentNotFound      = "TRAINING_ENROLLMENT_NOT_FOUND"

	// ==================== Service records (SERVICE_) ====================
	ServiceRecordNotFound = "SERVICE_RECORD_NOT_FOUND"
	ServiceInvalidType    = "SERVICE_INVALID_TYPE"

	// ==================== Upload (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalConfigError   = "INTERNAL_CONFIG_ERROR"
)
