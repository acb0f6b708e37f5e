package dto

import "net/http"

// Wire error codes, format ERR_<CATEGORY>. These are the codes clients see;
// domain codes are translated through NormalizeErrorCode before leaving the
// API.
const (
	ErrCodeInternal = "ERR_INTERNAL"

	ErrCodeValidation = "ERR_VALIDATION"

	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"

	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"

	ErrCodeInvalidState         = "ERR_INVALID_STATE"
	ErrCodeBusinessRule         = "ERR_BUSINESS_RULE"
	ErrCodeResourceInUse        = "ERR_RESOURCE_IN_USE"
	ErrCodeAccountLocked        = "ERR_ACCOUNT_LOCKED"
	ErrCodePropertyAccessDenied = "ERR_PROPERTY_ACCESS_DENIED"

	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"

	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// GetHTTPStatus maps a wire error code to its HTTP status. Unknown codes are
// treated as internal errors.
func GetHTTPStatus(code string) int {
	switch code {
	case ErrCodeValidation, ErrCodeBadRequest, ErrCodeInvalidInput:
		return http.StatusBadRequest
	case ErrCodeUnauthorized, ErrCodeTokenExpired, ErrCodeTokenInvalid:
		return http.StatusUnauthorized
	case ErrCodeForbidden, ErrCodeAccountLocked, ErrCodePropertyAccessDenied:
		return http.StatusForbidden
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeAlreadyExists, ErrCodeConflict, ErrCodeConcurrencyConflict:
		return http.StatusConflict
	case ErrCodeInvalidState, ErrCodeBusinessRule, ErrCodeResourceInUse:
		return http.StatusUnprocessableEntity
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// domainToWire translates domain error codes to wire codes. Domain codes not
// listed here pass through unchanged, which GetHTTPStatus then reads as a 500.
var domainToWire = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"DUPLICATE_ENTRY":      ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_STATE":        ErrCodeInvalidState,
	"UNAUTHORIZED":         ErrCodeUnauthorized,
	"FORBIDDEN":            ErrCodeForbidden,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
	"VALIDATION_ERROR":     ErrCodeValidation,
	"BAD_REQUEST":          ErrCodeBadRequest,
	"INTERNAL_ERROR":       ErrCodeInternal,

	// Authentication
	"INVALID_CREDENTIALS": ErrCodeUnauthorized,
	"ACCOUNT_LOCKED":      ErrCodeAccountLocked,
	"ACCOUNT_DEACTIVATED": ErrCodeForbidden,
	"ACCOUNT_PENDING":     ErrCodeForbidden,
	"TOKEN_EXPIRED":       ErrCodeTokenExpired,
	"TOKEN_INVALID":       ErrCodeTokenInvalid,
	"TOKEN_MAX_REFRESH":   ErrCodeTokenExpired,
	"TOKEN_ERROR":         ErrCodeTokenInvalid,

	// Lookups that surface as not found
	"PROPERTY_NOT_FOUND": ErrCodeNotFound,
	"OUTLET_NOT_FOUND":   ErrCodeNotFound,
	"CATEGORY_NOT_FOUND": ErrCodeNotFound,
	"ROLE_NOT_FOUND":     ErrCodeNotFound,
	"USER_NOT_FOUND":     ErrCodeNotFound,

	// Business rules
	"CANNOT_DELETE":          ErrCodeResourceInUse,
	"CATEGORY_IN_USE":        ErrCodeResourceInUse,
	"CATEGORY_INACTIVE":      ErrCodeBusinessRule,
	"CATEGORY_TYPE_MISMATCH": ErrCodeBusinessRule,
	"DUPLICATE_CATEGORY":     ErrCodeBusinessRule,
	"OUTLET_MISMATCH":        ErrCodeBusinessRule,
	"OUTLET_INACTIVE":        ErrCodeBusinessRule,
	"INSUFFICIENT_HISTORY":   ErrCodeBusinessRule,
	"PROPERTY_ACCESS_DENIED": ErrCodePropertyAccessDenied,
}

// NormalizeErrorCode converts a domain error code to its wire code. Codes
// already in the wire format, or with no mapping, are returned as-is.
func NormalizeErrorCode(code string) string {
	if wire, ok := domainToWire[code]; ok {
		return wire
	}
	return code
}
