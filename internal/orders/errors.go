package orders

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorCode string

const (
	NoCredentials        ErrorCode = "NO_CREDENTIALS"
	AccessTokenRequired  ErrorCode = "ACCESS_TOKEN_REQUIRED"
	RestaurantIdRequired ErrorCode = "RESTAURANT_ID_REQUIRED"
	NoOrderId            ErrorCode = "NO_ORDER_ID"
	InvalidStatus        ErrorCode = "INVALID_STATUS"
	InvalidHttpMethod    ErrorCode = "INVALID_HTTP_METHOD"
	LoginFailed          ErrorCode = "LOGIN_FAILED"
	HttpError            ErrorCode = "HTTP_ERROR"
	HttpErrorConnection  ErrorCode = "HTTP_ERROR_CONNECTION"
	ParseError           ErrorCode = "PARSE_ERROR"
)

// precondition reports whether the code describes a missing argument, these are all
// checked before anything is sent over the network.
func (c ErrorCode) precondition() bool {
	switch c {
	case NoCredentials, AccessTokenRequired, RestaurantIdRequired, NoOrderId:
		return true
	}
	return false
}

// Error is the error every operation on the portal fails with.
type Error struct {
	Code    ErrorCode `json:"errorCode"`
	Message string    `json:"errorMessage,omitempty"`
	// HttpStatusCode is the status code of the response that caused the error, if any.
	HttpStatusCode int `json:"httpStatusCode,omitempty"`
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches errors by code, every missing-argument code also matches ErrNoCredentials.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Code == e.Code {
		return true
	}
	return t.Code == NoCredentials && e.Code.precondition()
}

var (
	ErrNoCredentials       = &Error{Code: NoCredentials}
	ErrInvalidStatus       = &Error{Code: InvalidStatus}
	ErrInvalidHttpMethod   = &Error{Code: InvalidHttpMethod}
	ErrLoginFailed         = &Error{Code: LoginFailed}
	ErrHttp                = &Error{Code: HttpError}
	ErrHttpConnection      = &Error{Code: HttpErrorConnection}
	ErrParse               = &Error{Code: ParseError}
	ErrNoOrderId           = &Error{Code: NoOrderId}
	ErrAccessTokenRequired = &Error{Code: AccessTokenRequired}
)

func NewError(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// NewHttpError creates an HTTP_ERROR for a response with the given status code.
func NewHttpError(statusCode int, format string, args ...any) *Error {
	return &Error{
		Code:           HttpError,
		Message:        fmt.Sprintf(format, args...),
		HttpStatusCode: statusCode,
	}
}

// NewTransportError creates the error for a request that did not get a response at all.
func NewTransportError(err error, action string) *Error {
	code := HttpError
	if IsConnectionError(err.Error()) {
		code = HttpErrorConnection
	}
	return &Error{
		Code:    code,
		Message: fmt.Sprintf("%s: request failed: %s", action, err.Error()),
	}
}

// CodeOf returns the code of the first *Error in the chain of err, or "" if there is none.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

var connectionErrors = []string{
	"socket hang up",
	"ECONNRESET",
	"SSLV3_ALERT_HANDSHAKE_FAILURE",
	"connection reset by peer",
	"tls: handshake failure",
}

// IsConnectionError reports whether the error message describes a broken connection.
func IsConnectionError(message string) bool {
	if message == "" {
		return false
	}
	for _, known := range connectionErrors {
		if strings.Contains(message, known) {
			return true
		}
	}
	return false
}
