package constants

// Error kinds surfaced to API clients
const (
	ErrCodeNotFound                       = "NOT_FOUND"
	ErrCodeValidation                     = "VALIDATION_ERROR"
	ErrCodeReferenceNotFound              = "REFERENCE_NOT_FOUND"
	ErrCodeReferentialConstraintViolation = "REFERENTIAL_CONSTRAINT_VIOLATION"
	ErrCodeInvalidStateTransition         = "INVALID_STATE_TRANSITION"
	ErrCodeVersionConflict                = "VERSION_CONFLICT"
	ErrCodeStorage                        = "STORAGE_ERROR"
	ErrCodeRateLimited                    = "RATE_LIMITED"
	ErrCodeMalformedRequest               = "MALFORMED_REQUEST"
)

var ErrorMessages = map[string]string{
	ErrCodeNotFound:                       "The requested resource was not found",
	ErrCodeValidation:                     "The request payload failed validation",
	ErrCodeReferenceNotFound:              "A referenced resource does not exist",
	ErrCodeReferentialConstraintViolation: "The resource is still referenced by other records",
	ErrCodeInvalidStateTransition:         "The requested status change is not allowed",
	ErrCodeVersionConflict:                "The resource was modified by another request",
	ErrCodeStorage:                        "A storage error occurred",
	ErrCodeRateLimited:                    "Too many requests",
	ErrCodeMalformedRequest:               "The request could not be parsed",
}

// GetErrorMessage returns the human-readable message for an error code
func GetErrorMessage(code string) string {
	if msg, exists := ErrorMessages[code]; exists {
		return msg
	}
	return "An unknown error occurred"
}
