package checkoutkit

import (
	"net/http"
	"time"
)

// ErrorType mirrors the gateway error.type field.
type ErrorType string

const (
	InvalidRequest     ErrorType = "invalid_request"     // Missing or malformed field.
	ProcessingError    ErrorType = "processing_error"    // Downstream gateway or network failure.
	RateLimitExceeded  ErrorType = "rate_limit_exceeded" // Too many requests.
	ServiceUnavailable ErrorType = "service_unavailable" // Temporary outage or maintenance.
)

// ErrorCode is a machine-readable identifier for the specific failure.
type ErrorCode string

const (
	InvalidConfiguration ErrorCode = "invalid_configuration" // SDK component constructed with unusable options.
	InvalidCard          ErrorCode = "invalid_card"          // Card details failed local validation (length, checksum, expiry).
	LookupFailed         ErrorCode = "lookup_failed"         // BIN lookup request failed.
	TokenizationFailed   ErrorCode = "tokenization_failed"   // Gateway declined to tokenize the card.
	ChargeFailed         ErrorCode = "charge_failed"         // Bank-transfer charge was rejected.
	MissingCredentials   ErrorCode = "missing_credentials"   // Client key absent or merchant key not fetched.
	NotConfigured        ErrorCode = "not_configured"        // Optional collaborator (e.g. Apple Pay) was never wired.
)

// Error represents a structured gateway error payload. Local failures reuse
// the same shape so hosts handle one error type throughout the SDK.
type Error struct {
	Type    ErrorType `json:"type"`
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Param   *string   `json:"param,omitempty"`

	status     int           `json:"-"`
	retryAfter time.Duration `json:"-"`
}

// Error makes *Error satisfy the stdlib error interface.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// RetryAfter returns the duration clients should wait before retrying.
func (e *Error) RetryAfter() time.Duration {
	if e == nil {
		return 0
	}
	return e.retryAfter
}

// StatusCode returns the HTTP status of the gateway response behind the
// error, or zero for local failures.
func (e *Error) StatusCode() int {
	if e == nil {
		return 0
	}
	return e.status
}

type errorOption func(*Error)

// WithOffendingParam sets the JSON path for the field that triggered the error.
func WithOffendingParam(jsonPath string) errorOption {
	return func(er *Error) {
		er.Param = &jsonPath
	}
}

// WithStatusCode records the HTTP status code behind the error.
func WithStatusCode(status int) errorOption {
	return func(er *Error) {
		er.status = status
	}
}

// WithRetryAfter specifies how long clients should wait before retrying.
func WithRetryAfter(d time.Duration) errorOption {
	return func(er *Error) {
		er.retryAfter = d
	}
}

// NewInvalidConfigurationError reports SDK misconfiguration detected at construction.
func NewInvalidConfigurationError(message string, opts ...errorOption) *Error {
	return newError(InvalidRequest, InvalidConfiguration, message, opts...)
}

// NewInvalidCardError reports card details rejected by local validation.
func NewInvalidCardError(message string, opts ...errorOption) *Error {
	return newError(InvalidRequest, InvalidCard, message, opts...)
}

// NewLookupFailedError reports a failed BIN lookup.
func NewLookupFailedError(message string, opts ...errorOption) *Error {
	return newError(ProcessingError, LookupFailed, message, opts...)
}

// NewTokenizationFailedError reports a declined tokenization attempt.
func NewTokenizationFailedError(message string, opts ...errorOption) *Error {
	return newError(ProcessingError, TokenizationFailed, message, opts...)
}

// NewProcessingError builds a generic downstream failure payload. No status
// code is attached; transport-level failures never saw an HTTP response, and
// gateway responses carry their own status via [WithStatusCode].
func NewProcessingError(message string, opts ...errorOption) *Error {
	return newError(ProcessingError, ErrorCode(ProcessingError), message, opts...)
}

// NewRateLimitExceededError builds a Too Many Requests error payload.
func NewRateLimitExceededError(message string, opts ...errorOption) *Error {
	return newError(RateLimitExceeded, ErrorCode(RateLimitExceeded), message, append([]errorOption{WithStatusCode(http.StatusTooManyRequests)}, opts...)...)
}

// NewServiceUnavailableError builds a Service Unavailable error payload.
func NewServiceUnavailableError(message string, opts ...errorOption) *Error {
	return newError(ServiceUnavailable, ErrorCode(ServiceUnavailable), message, append([]errorOption{WithStatusCode(http.StatusServiceUnavailable)}, opts...)...)
}

// NewHTTPError allows callers to control the status code explicitly.
func NewHTTPError(status int, typ ErrorType, code ErrorCode, message string, opts ...errorOption) *Error {
	return newError(typ, code, message, append(opts, WithStatusCode(status))...)
}

// newError builds a typed error payload matching the gateway schema.
func newError(typ ErrorType, code ErrorCode, message string, opts ...errorOption) *Error {
	errPayload := &Error{
		Type:    typ,
		Code:    code,
		Message: message,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(errPayload)
	}
	return errPayload
}
