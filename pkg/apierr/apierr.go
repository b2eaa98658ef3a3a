// Package apierr is the error taxonomy shared by every service. Handlers render an *Error as
// a Body, clients decode a Body back into the same sentinel, so errors.Is keeps working after
// an error has crossed a service boundary.
package apierr

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

type Code string

const (
	CodeNotFound            Code = "NOT_FOUND"
	CodeValidationConflict  Code = "VALIDATION_CONFLICT"
	CodeCapacityExceeded    Code = "CAPACITY_EXCEEDED"
	CodeBadRequest          Code = "BAD_REQUEST"
	CodeForbidden           Code = "FORBIDDEN"
	CodeUpstreamUnavailable Code = "UPSTREAM_UNAVAILABLE"
	CodeInternal            Code = "INTERNAL"
)

type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

type Body struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

var registry = map[Body]*Error{}

func New(code Code, msg string) *Error {
	e := &Error{Code: code, Message: msg}
	registry[Body{Code: code, Message: msg}] = e
	return e
}

var (
	ErrMaterialNotFound = New(CodeNotFound, "material not found")
	ErrLoanNotFound     = New(CodeNotFound, "loan not found")
	ErrRequestNotFound  = New(CodeNotFound, "loan request not found")
	ErrUserNotFound     = New(CodeNotFound, "user not found")
	ErrHoldNotFound     = New(CodeNotFound, "copy hold not found")

	ErrDuplicateIdentifier = New(CodeValidationConflict, "material identifier already exists")
	ErrDuplicateDocument   = New(CodeValidationConflict, "identity document or email already registered")
	ErrMaterialOnLoan      = New(CodeValidationConflict, "material has copies on loan")
	ErrAlreadyReturned     = New(CodeValidationConflict, "loan already returned")
	ErrAlreadyFinal        = New(CodeValidationConflict, "loan request already decided")
	ErrHoldUnavailable     = New(CodeValidationConflict, "copy hold is released or kept for another material")
	ErrHoldAdopted         = New(CodeValidationConflict, "copy hold is owned by a loan")
	ErrHoldConflict        = New(CodeValidationConflict, "copy hold belongs to another loan")

	ErrNoCopiesAvailable  = New(CodeCapacityExceeded, "no copies available")
	ErrInsufficientCopies = New(CodeCapacityExceeded, "copy count out of range")

	ErrUpstreamUnavailable = New(CodeUpstreamUnavailable, "upstream service unavailable")
	ErrForbidden           = New(CodeForbidden, "insufficient role")
)

func Status(code Code) int {
	switch code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeValidationConflict, CodeCapacityExceeded, CodeBadRequest:
		return http.StatusBadRequest
	case CodeForbidden:
		return http.StatusForbidden
	case CodeUpstreamUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Decode maps a response body back onto a known sentinel, or builds an ad-hoc *Error.
func Decode(status int, b Body) *Error {
	if e, ok := registry[b]; ok {
		return e
	}
	code := b.Code
	if code == "" {
		switch {
		case status == http.StatusNotFound:
			code = CodeNotFound
		case status >= http.StatusInternalServerError:
			code = CodeUpstreamUnavailable
		case status >= http.StatusBadRequest:
			code = CodeBadRequest
		}
	}
	msg := b.Message
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &Error{Code: code, Message: msg}
}

func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

const internalMessage = "internal error"

// HTTPError renders any error for echo: known ones with their own status, the rest as a bare
// 500. The cause stays on Internal for the request logger and never reaches the body.
func HTTPError(err error) *echo.HTTPError {
	var e *Error
	if errors.As(err, &e) {
		return echo.NewHTTPError(Status(e.Code), Body{Code: e.Code, Message: e.Message})
	}
	return echo.NewHTTPError(http.StatusInternalServerError,
		Body{Code: CodeInternal, Message: internalMessage}).SetInternal(err)
}

func BadRequest(msg string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, Body{Code: CodeBadRequest, Message: msg})
}
