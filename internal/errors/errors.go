package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrTokenMissing is returned when a protected route is called without a bearer token.
	ErrTokenMissing = errors.New("not authorized, token missing")
	// ErrTokenInvalid is returned when a session token fails signature, expiry or revocation checks.
	ErrTokenInvalid = errors.New("token invalid")
	// ErrIdentityNotFound is returned when a valid token names a user that no longer exists.
	ErrIdentityNotFound = errors.New("user not found")
	// ErrInvalidCredentials is returned for every password login failure that concerns credential correctness.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountInactive is returned when the caller's account is not active.
	ErrAccountInactive = errors.New("account is inactive, contact admin")
	// ErrInsufficientRole is returned when the caller's role may not use a route.
	ErrInsufficientRole = errors.New("forbidden: insufficient role")
	// ErrLoginRoleNotAllowed is returned when the user's role may not sign in.
	ErrLoginRoleNotAllowed = errors.New("user role not allowed to login")

	// ErrInvalidOrExpiredToken is returned when a setup/reset token does not match an unexpired record.
	ErrInvalidOrExpiredToken = errors.New("token invalid or expired")

	// ErrUserNotFound is returned when a referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserAlreadyExists is returned when creating a user with a taken email.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrLeadNotFound is returned when a referenced lead does not exist.
	ErrLeadNotFound = errors.New("lead not found")
	// ErrLeadAlreadyExists is returned when a lead with the same email or phone exists.
	ErrLeadAlreadyExists = errors.New("lead already exists")
	// ErrAssignmentNotFound is returned when an assignment does not exist.
	ErrAssignmentNotFound = errors.New("assignment not found")
	// ErrAssignmentInactive is returned when deactivating an assignment twice.
	ErrAssignmentInactive = errors.New("assignment is already deactivated")

	// ErrDeliveryFailure is returned when an outbound email could not be sent.
	ErrDeliveryFailure = errors.New("email could not be sent")
	// ErrSystemAccountMissing is returned when public lead capture has no system account to attribute leads to.
	ErrSystemAccountMissing = errors.New("system account is not provisioned")
)

// Kind classifies domain errors that carry a request-specific message.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindForbidden
	KindNotFound
	KindConflict
)

// DomainError is a domain error whose message is built per request,
// e.g. a validation failure naming the field or a forbidden role pairing.
type DomainError struct {
	Kind    Kind
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Validation builds a validation DomainError.
func Validation(message string) *DomainError {
	return &DomainError{Kind: KindValidation, Message: message}
}

// Forbidden builds a forbidden DomainError.
func Forbidden(message string) *DomainError {
	return &DomainError{Kind: KindForbidden, Message: message}
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Success: false,
		Message: e.Message,
		Code:    e.Code,
	}
}

var sentinels = []struct {
	err    error
	status int
	code   string
}{
	{ErrTokenMissing, http.StatusUnauthorized, "TOKEN_MISSING"},
	{ErrTokenInvalid, http.StatusUnauthorized, "TOKEN_INVALID"},
	{ErrIdentityNotFound, http.StatusUnauthorized, "IDENTITY_NOT_FOUND"},
	{ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{ErrAccountInactive, http.StatusForbidden, "ACCOUNT_INACTIVE"},
	{ErrInsufficientRole, http.StatusForbidden, "INSUFFICIENT_ROLE"},
	{ErrLoginRoleNotAllowed, http.StatusForbidden, "ROLE_NOT_ALLOWED"},
	{ErrInvalidOrExpiredToken, http.StatusBadRequest, "INVALID_OR_EXPIRED_TOKEN"},
	{ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
	{ErrUserAlreadyExists, http.StatusConflict, "USER_ALREADY_EXISTS"},
	{ErrLeadNotFound, http.StatusNotFound, "LEAD_NOT_FOUND"},
	{ErrLeadAlreadyExists, http.StatusConflict, "LEAD_ALREADY_EXISTS"},
	{ErrAssignmentNotFound, http.StatusNotFound, "ASSIGNMENT_NOT_FOUND"},
	{ErrAssignmentInactive, http.StatusBadRequest, "ASSIGNMENT_INACTIVE"},
	{ErrDeliveryFailure, http.StatusInternalServerError, "DELIVERY_FAILURE"},
}

// MapErrorToHTTP maps domain errors to HTTP errors. Anything unknown becomes a
// generic 500 so storage error text never reaches the caller.
func MapErrorToHTTP(err error) *HTTPError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		switch domainErr.Kind {
		case KindValidation:
			return NewHTTPError(http.StatusBadRequest, domainErr.Message, "VALIDATION_ERROR")
		case KindForbidden:
			return NewHTTPError(http.StatusForbidden, domainErr.Message, "FORBIDDEN")
		case KindNotFound:
			return NewHTTPError(http.StatusNotFound, domainErr.Message, "NOT_FOUND")
		case KindConflict:
			return NewHTTPError(http.StatusConflict, domainErr.Message, "CONFLICT")
		}
	}

	for _, s := range sentinels {
		if errors.Is(err, s.err) {
			return NewHTTPError(s.status, s.err.Error(), s.code)
		}
	}

	return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
}

// IsInternal reports whether err maps to a 500 and should be logged server-side.
func IsInternal(err error) bool {
	return MapErrorToHTTP(err).StatusCode >= http.StatusInternalServerError
}
