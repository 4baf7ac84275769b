package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	ErrCodeOrganizationNotFound ErrorCode = "ORGANIZATION_NOT_FOUND"
	ErrCodeBusinessUnitNotFound ErrorCode = "BUSINESS_UNIT_NOT_FOUND"
	ErrCodeUserNotFound         ErrorCode = "USER_NOT_FOUND"
	ErrCodeRoleNotFound         ErrorCode = "ROLE_NOT_FOUND"
	ErrCodeMembershipNotFound   ErrorCode = "MEMBERSHIP_NOT_FOUND"
	ErrCodeDuplicateEmail       ErrorCode = "DUPLICATE_EMAIL"

	ErrCodeUnknownRole             ErrorCode = "UNKNOWN_ROLE"
	ErrCodeParentTierNotEnabled    ErrorCode = "PARENT_TIER_NOT_ENABLED"
	ErrCodeRoleNotAvailableForUser ErrorCode = "ROLE_NOT_AVAILABLE_FOR_USER"
	ErrCodeCircularHierarchy       ErrorCode = "CIRCULAR_HIERARCHY"
	ErrCodeCrossOrgParent          ErrorCode = "CROSS_ORGANIZATION_PARENT"
	ErrCodeDuplicateAssignment     ErrorCode = "DUPLICATE_ASSIGNMENT"
	ErrCodeRoleInUse               ErrorCode = "ROLE_IN_USE"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeUserInactive       ErrorCode = "USER_INACTIVE"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
	ErrCodeMFARequired        ErrorCode = "MFA_REQUIRED"
	ErrCodeInvalidOTP         ErrorCode = "INVALID_OTP"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// RoleNamesDetail carries the complete list of offending role names for
// batch-reported failures, so callers see every problem in one round trip.
type RoleNamesDetail struct {
	RoleNames []string `json:"role_names"`
}

func (d RoleNamesDetail) String() string {
	return strings.Join(d.RoleNames, ", ")
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

// NewUnknownRoleError reports every unresolved role name at once.
func NewUnknownRoleError(names []string) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeUnknownRole,
		Message:    fmt.Sprintf("unknown functional role(s): %s", strings.Join(names, ", ")),
		StatusCode: http.StatusBadRequest,
		Details:    RoleNamesDetail{RoleNames: names},
	}
}

// NewParentTierNotEnabledError reports every role blocked by tier gating.
func NewParentTierNotEnabledError(names []string) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       ErrCodeParentTierNotEnabled,
		Message:    fmt.Sprintf("role(s) not enabled at the parent tier: %s", strings.Join(names, ", ")),
		StatusCode: http.StatusConflict,
		Details:    RoleNamesDetail{RoleNames: names},
	}
}

// NewRoleNotAvailableError reports every role outside the user's business unit chain.
func NewRoleNotAvailableError(names []string) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       ErrCodeRoleNotAvailableForUser,
		Message:    fmt.Sprintf("role(s) not available through the user's business units: %s", strings.Join(names, ", ")),
		StatusCode: http.StatusConflict,
		Details:    RoleNamesDetail{RoleNames: names},
	}
}

var (
	ErrOrganizationNotFound = NewNotFoundError("organization not found", ErrCodeOrganizationNotFound)
	ErrBusinessUnitNotFound = NewNotFoundError("business unit not found", ErrCodeBusinessUnitNotFound)
	ErrUserNotFound         = NewNotFoundError("user not found", ErrCodeUserNotFound)
	ErrRoleNotFound         = NewNotFoundError("functional role not found", ErrCodeRoleNotFound)
	ErrMembershipNotFound   = NewNotFoundError("business unit membership not found", ErrCodeMembershipNotFound)

	ErrCircularHierarchy = NewConflictError("business unit parent chain would form a cycle", ErrCodeCircularHierarchy)
	ErrCrossOrgParent    = NewConflictError("parent business unit belongs to a different organization", ErrCodeCrossOrgParent)

	ErrDuplicateAssignment = NewConflictError("assignment already exists", ErrCodeDuplicateAssignment)
	ErrRoleInUse           = NewConflictError("role still has dependent enablements or assignments", ErrCodeRoleInUse)

	ErrInvalidCredentials = NewUnauthorizedError("invalid email or password", ErrCodeInvalidCredentials)
	ErrUserInactive       = NewForbiddenError("user account is inactive", ErrCodeUserInactive)
	ErrInvalidToken       = NewUnauthorizedError("invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("token has expired", ErrCodeTokenExpired)
	ErrInvalidOTP         = NewUnauthorizedError("invalid or expired one-time code", ErrCodeInvalidOTP)
)

func IsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
