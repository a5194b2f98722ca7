package internal

import (
	"encoding/json"
	"errors"
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
	ErrorTypeExternal     ErrorType = "EXTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidAmount    ErrorCode = "INVALID_AMOUNT"
	ErrCodeInvalidDate      ErrorCode = "INVALID_DATE"
	ErrCodeInvalidTime      ErrorCode = "INVALID_TIME"

	ErrCodeEmployeeNotFound         ErrorCode = "EMPLOYEE_NOT_FOUND"
	ErrCodeDuplicateEmail           ErrorCode = "DUPLICATE_EMAIL"
	ErrCodeDuplicateBiometricNumber ErrorCode = "DUPLICATE_BIOMETRIC_NUMBER"
	ErrCodeInvalidSupervisor        ErrorCode = "INVALID_SUPERVISOR"
	ErrCodeSupervisorCycle          ErrorCode = "SUPERVISOR_CYCLE"

	ErrCodeLeaveRequestNotFound     ErrorCode = "LEAVE_REQUEST_NOT_FOUND"
	ErrCodeOvertimeRequestNotFound  ErrorCode = "OVERTIME_REQUEST_NOT_FOUND"
	ErrCodeInvalidTimeRange         ErrorCode = "INVALID_TIME_RANGE"
	ErrCodeInvalidDateRange         ErrorCode = "INVALID_DATE_RANGE"
	ErrCodeInsufficientLeaveBalance ErrorCode = "INSUFFICIENT_LEAVE_BALANCE"
	ErrCodeInvalidTransition        ErrorCode = "INVALID_TRANSITION"
	ErrCodeNotApprover              ErrorCode = "NOT_APPROVER"

	ErrCodeClaimNotFound             ErrorCode = "CLAIM_NOT_FOUND"
	ErrCodeInsufficientHealthBalance ErrorCode = "INSUFFICIENT_HEALTH_BALANCE"
	ErrCodeInvalidClaimStatus        ErrorCode = "INVALID_CLAIM_STATUS"

	ErrCodeScheduleNotFound ErrorCode = "SCHEDULE_NOT_FOUND"
	ErrCodeScheduleOverlap  ErrorCode = "SCHEDULE_OVERLAP"
	ErrCodeMemoNotFound     ErrorCode = "MEMO_NOT_FOUND"
	ErrCodeDeviceNotFound   ErrorCode = "DEVICE_NOT_FOUND"

	ErrCodeUnauthorizedAccess ErrorCode = "UNAUTHORIZED_ACCESS"
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeUserInactive       ErrorCode = "USER_INACTIVE"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
	ErrCodeNotAuthenticated   ErrorCode = "NOT_AUTHENTICATED"

	ErrCodePersistenceFailed ErrorCode = "PERSISTENCE_FAILED"
	ErrCodeDeviceUnreachable ErrorCode = "DEVICE_UNREACHABLE"
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
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok {
			if len(validationErrors.Errors) == 1 {
				return validationErrors.Errors[0].Message
			} else if len(validationErrors.Errors) > 1 {
				messages := make([]string, len(validationErrors.Errors))
				for i, err := range validationErrors.Errors {
					messages[i] = err.Message
				}
				return strings.Join(messages, "; ")
			}
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches on Code so package-level sentinels work with errors.Is even
// after WithCause/WithDetails copies.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithCause returns a copy carrying cause. The receiver is left untouched
// so shared sentinels stay immutable.
func (e *AppError) WithCause(cause error) *AppError {
	cp := *e
	cp.Cause = cause
	return &cp
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

// WithMessage returns a copy with a more specific human message.
func (e *AppError) WithMessage(format string, args ...any) *AppError {
	cp := *e
	cp.Message = fmt.Sprintf(format, args...)
	return &cp
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
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

func NewExternalError(message string, code ErrorCode, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeExternal,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
	}
}

// NewPersistenceError reports a mutation that was applied in memory but
// could not be written to the backend.
func NewPersistenceError(cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       ErrCodePersistenceFailed,
		Message:    "Failed to persist changes.",
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

var (
	ErrEmployeeNotFound         = NewNotFoundError("Employee not found.", ErrCodeEmployeeNotFound)
	ErrDuplicateEmail           = NewConflictError("An employee with this email already exists.", ErrCodeDuplicateEmail)
	ErrDuplicateBiometricNumber = NewConflictError("This biometric number is already assigned to another employee.", ErrCodeDuplicateBiometricNumber)
	ErrInvalidSupervisor        = NewValidationError("Supervisor must be an existing employee other than the employee themself.", ErrCodeInvalidSupervisor)
	ErrSupervisorCycle          = NewValidationError("Supervisor assignment would create a reporting cycle.", ErrCodeSupervisorCycle)

	ErrLeaveRequestNotFound     = NewNotFoundError("Leave request not found.", ErrCodeLeaveRequestNotFound)
	ErrOvertimeRequestNotFound  = NewNotFoundError("Overtime request not found.", ErrCodeOvertimeRequestNotFound)
	ErrInvalidTimeRange         = NewValidationError("End time must be after start time.", ErrCodeInvalidTimeRange)
	ErrInvalidDateRange         = NewValidationError("End date must not be before start date.", ErrCodeInvalidDateRange)
	ErrInsufficientLeaveBalance = NewValidationError("Insufficient leave balance for this request.", ErrCodeInsufficientLeaveBalance)
	ErrInvalidTransition        = NewValidationError("This request can no longer change status.", ErrCodeInvalidTransition)
	ErrNotApprover              = NewForbiddenError("You are not allowed to act on this request.", ErrCodeNotApprover)

	ErrClaimNotFound             = NewNotFoundError("Claim not found.", ErrCodeClaimNotFound)
	ErrInsufficientHealthBalance = NewValidationError("Claim amount exceeds available balance.", ErrCodeInsufficientHealthBalance)
	ErrInvalidClaimStatus        = NewValidationError("Invalid claim status.", ErrCodeInvalidClaimStatus)

	ErrScheduleNotFound = NewNotFoundError("Schedule not found.", ErrCodeScheduleNotFound)
	ErrScheduleOverlap  = NewValidationError("A new schedule must take effect after the current schedule's effective date.", ErrCodeScheduleOverlap)
	ErrMemoNotFound     = NewNotFoundError("Memo not found.", ErrCodeMemoNotFound)
	ErrDeviceNotFound   = NewNotFoundError("Biometric device not found.", ErrCodeDeviceNotFound)

	ErrUnauthorizedAccess = NewForbiddenError("You do not have access to this resource.", ErrCodeUnauthorizedAccess)
	ErrInvalidCredentials = NewUnauthorizedError("Invalid email or password", ErrCodeInvalidCredentials)
	ErrUserInactive       = NewForbiddenError("User account is inactive", ErrCodeUserInactive)
	ErrInvalidToken       = NewUnauthorizedError("Invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("Token has expired", ErrCodeTokenExpired)
	ErrNotAuthenticated   = NewUnauthorizedError("No user is logged in", ErrCodeNotAuthenticated)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
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
