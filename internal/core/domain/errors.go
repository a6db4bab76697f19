package domain

import "errors"

// Common domain errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInternalServer = errors.New("internal server error")
)

// User errors
var (
	ErrUserNotFound       = wrapNotFound("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserInactive       = errors.New("user account is inactive")
)

// Course errors
var (
	ErrCourseNotFound = wrapNotFound("course not found")
	ErrModuleNotFound = wrapNotFound("module not found")
	ErrInvalidModule  = errors.New("module does not belong to this course")
)

// Progress errors
var (
	ErrProgressNotFound = wrapNotFound("no progress recorded for this course")
)

// Certificate errors
var (
	ErrCertificateNotFound = wrapNotFound("certificate not found")
	ErrAlreadyIssued       = errors.New("a certificate for this user and course has already been issued")
)

// Referral errors
var (
	ErrReferralNotFound = wrapNotFound("referral not found")
	ErrCodeNotFound     = errors.New("referrer with this code not found")
	ErrAlreadyReferred  = errors.New("this user has already been referred")
	ErrSelfReferral     = errors.New("users cannot refer themselves")
	ErrInvalidStatus    = errors.New("invalid referral status")
)

// Infrastructure errors
var (
	ErrGenerationExhausted = errors.New("identifier generation attempts exhausted")
	ErrNotificationFailed  = errors.New("notification delivery failed")
)

// notFoundError keeps the specific message while matching ErrNotFound with errors.Is.
type notFoundError struct {
	msg string
}

func (e *notFoundError) Error() string { return e.msg }

func (e *notFoundError) Is(target error) bool { return target == ErrNotFound }

func wrapNotFound(msg string) error {
	return &notFoundError{msg: msg}
}
