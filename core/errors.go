/*
Package core holds types shared by all stages of an EJF build.

Errors

Every failure of a build carries an error code, which identifies the kind of
failure, and a user message. The codes form a closed set:

	ERANGE      malformed character-range descriptor
	ENAME       output path has no usable file name stem
	ERASTER     rasterizer initialization or glyph loading failed
	EMETRICS    font metrics are unavailable
	EIMAGE      PNG encoding of a glyph canvas failed
	ECONTAINER  archive or file-system failure
	EHEADER     serialization of the header document failed

plus the general codes EMISSING, EINVALID and EINTERNAL.
Errors are created with Error or WrapError and inspected with Code and
UserMessage, which both look through wrapped error chains.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package core

import (
	"errors"
	"fmt"
	"os"
)

// General error codes
const (
	NOERROR   int = 0
	EMISSING  int = 122 // resource does not exist
	EINVALID  int = 123 // validation failed
	EINTERNAL int = 125 // internal error
)

// Build error codes
const (
	ERANGE     int = 130 // malformed character range
	ENAME      int = 131 // no usable font name
	ERASTER    int = 132 // rasterizer failure
	EMETRICS   int = 133 // font metrics unavailable
	EIMAGE     int = 134 // image encoding failure
	ECONTAINER int = 135 // archive write failure
	EHEADER    int = 136 // header serialization failure
)

func errorText(ecode int) string {
	switch ecode {
	case NOERROR:
		return "OK"
	case EMISSING:
		return "not found"
	case EINVALID:
		return "invalid"
	case EINTERNAL:
		return "internal error"
	case ERANGE:
		return "invalid character range"
	case ENAME:
		return "invalid font name"
	case ERASTER:
		return "rasterizer error"
	case EMETRICS:
		return "font metrics unavailable"
	case EIMAGE:
		return "image encoding error"
	case ECONTAINER:
		return "container write error"
	case EHEADER:
		return "header write error"
	}
	return "undefined error"
}

// AppError is an error with an associated error code and a user-message.
type AppError interface {
	error
	ErrorCode() int
	UserMessage() string
}

type coreError struct {
	error
	code int
	msg  string
}

func (e coreError) Unwrap() error {
	return e.error
}

func (e coreError) Error() string {
	if e.msg != "" && e.msg != e.error.Error() {
		return fmt.Sprintf("[%d] %s: %v", e.code, e.msg, e.error)
	}
	return fmt.Sprintf("[%d] %v", e.code, e.error)
}

func (e coreError) ErrorCode() int {
	return e.code
}

func (e coreError) UserMessage() string {
	return e.msg
}

var _ AppError = coreError{}

// ErrorWithCode adds an error code to err's error chain.
// Unlike pkg/errors, ErrorWithCode will wrap nil error.
func ErrorWithCode(err error, code int) error {
	if err == nil {
		err = errors.New(errorText(code))
	}
	return coreError{err, code, errorText(code)}
}

// WrapError wraps an error in a core error, featuring an error code and
// a user message.
// If err is nil, an error denoting the code's default text is wrapped.
func WrapError(err error, code int, format string, v ...interface{}) error {
	if err == nil {
		err = errors.New(errorText(code))
	}
	msg := fmt.Sprintf(format, v...)
	return coreError{err, code, msg}
}

// Code returns the status code associated with an error.
// If no status code is found, it returns EINTERNAL.
// If err is nil, NOERROR is returned.
func Code(err error) (code int) {
	if err == nil {
		return NOERROR
	}
	if e := AppError(nil); errors.As(err, &e) {
		return e.ErrorCode()
	}
	return EINTERNAL
}

// Is is a predicate: does err carry error code code?
func Is(err error, code int) bool {
	return Code(err) == code
}

// UserMessage returns the user message associated with an error.
// If no message is found, it checks StatusCode and returns that message.
// If err is nil, it returns "".
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if e := AppError(nil); errors.As(err, &e) {
		return e.UserMessage()
	}
	return errorText(Code(err))
}

// Error creates an error with an error code and a user-message.
func Error(code int, format string, v ...interface{}) error {
	return coreError{
		errors.New(errorText(code)),
		code,
		fmt.Sprintf(format, v...),
	}
}

// UserError prints an error to stderr, preferring the user message if err is
// an application error.
func UserError(err error) {
	if e := AppError(nil); errors.As(err, &e) {
		fmt.Fprintf(os.Stderr, "[%d] %s\n", e.ErrorCode(), e.UserMessage())
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
}
