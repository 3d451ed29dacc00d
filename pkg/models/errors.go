package models

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Error codes used in JSON responses
const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeUpstream           = "UPSTREAM_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// Lookup failure taxonomy
var (
	ErrNetwork         = errors.New("network error")
	ErrHTTP            = errors.New("http error")
	ErrNotFound        = errors.New("user not found")
	ErrParse           = errors.New("malformed response")
	ErrEmptyUsername   = errors.New("username is empty")
	ErrInvalidUsername = errors.New("invalid username")
	ErrInvalidShape    = errors.New("unknown response shape")
)

// User-visible status messages
const (
	MsgNotFound        = "User not found. Please check the username and try again."
	MsgNetwork         = "Network error. Please check your connection and try again."
	MsgHTTP            = "Server error. Please try again later."
	MsgGeneric         = "An error occurred. Please try again."
	MsgEmptyUsername   = "Please enter a username"
	MsgInvalidUsername = "Usernames may only contain letters, digits, '_' and '-' (max 50 characters)"
)

// FetchError carries the taxonomy kind plus the underlying cause
type FetchError struct {
	Kind       error
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("%v (status %d): %v", e.Kind, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%v (status %d)", e.Kind, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	default:
		return e.Kind.Error()
	}
}

// Is matches the taxonomy sentinel
func (e *FetchError) Is(target error) bool {
	return e.Kind == target
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewNetworkError wraps a transport failure
func NewNetworkError(err error) *FetchError {
	return &FetchError{Kind: ErrNetwork, Err: err}
}

// NewHTTPError records a non-success status code
func NewHTTPError(statusCode int) *FetchError {
	return &FetchError{Kind: ErrHTTP, StatusCode: statusCode}
}

// NewNotFoundError records that the upstream has no such user
func NewNotFoundError(statusCode int, err error) *FetchError {
	return &FetchError{Kind: ErrNotFound, StatusCode: statusCode, Err: err}
}

// NewParseError wraps a body decoding failure
func NewParseError(err error) *FetchError {
	return &FetchError{Kind: ErrParse, Err: err}
}

// UserMessage converts any lookup failure into the text shown to the user
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyUsername):
		return MsgEmptyUsername
	case errors.Is(err, ErrInvalidUsername):
		return MsgInvalidUsername
	case errors.Is(err, ErrNotFound):
		return MsgNotFound
	case errors.Is(err, ErrNetwork):
		return MsgNetwork
	case errors.Is(err, ErrHTTP):
		return MsgHTTP
	default:
		return MsgGeneric
	}
}

// AppError maps a lookup failure onto the server protocols
type AppError struct {
	Code       string     `json:"code"`
	Message    string     `json:"message"`
	StatusCode int        `json:"status_code,omitempty"`
	GRPCCode   codes.Code `json:"grpc_code,omitempty"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewAppError classifies err for HTTP and gRPC responses
func NewAppError(err error) *AppError {
	msg := UserMessage(err)
	switch {
	case errors.Is(err, ErrEmptyUsername), errors.Is(err, ErrInvalidUsername):
		return &AppError{Code: ErrCodeValidation, Message: msg, StatusCode: http.StatusBadRequest, GRPCCode: codes.InvalidArgument}
	case errors.Is(err, ErrNotFound):
		return &AppError{Code: ErrCodeNotFound, Message: msg, StatusCode: http.StatusNotFound, GRPCCode: codes.NotFound}
	case errors.Is(err, ErrNetwork):
		return &AppError{Code: ErrCodeServiceUnavailable, Message: msg, StatusCode: http.StatusServiceUnavailable, GRPCCode: codes.Unavailable}
	case errors.Is(err, ErrHTTP), errors.Is(err, ErrParse):
		return &AppError{Code: ErrCodeUpstream, Message: msg, StatusCode: http.StatusBadGateway, GRPCCode: codes.Unavailable}
	default:
		return &AppError{Code: ErrCodeInternal, Message: msg, StatusCode: http.StatusInternalServerError, GRPCCode: codes.Internal}
	}
}

// ToHTTPError converts to the JSON envelope
func (e *AppError) ToHTTPError(data interface{}) *APIResponse {
	return &APIResponse{
		Success:   false,
		Error:     e.Message,
		Code:      e.Code,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// ToGRPCError converts to a gRPC status error
func (e *AppError) ToGRPCError() error {
	return status.Error(e.GRPCCode, e.Message)
}
