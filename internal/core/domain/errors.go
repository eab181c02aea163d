package domain

import "errors"

var (
	ErrValidation        = errors.New("validation failed")
	ErrUnauthorized      = errors.New("not authorized")
	ErrForbidden         = errors.New("access forbidden")
	ErrInvalidCredential = errors.New("invalid or expired credential")
	ErrInvalidOAuthState = errors.New("invalid oauth state")
	ErrUserNotFound      = errors.New("user not found")
	ErrUserExists        = errors.New("user already exists")
	ErrTodoNotFound      = errors.New("todo not found")
	ErrNoPushRecipients  = errors.New("no users with FCM tokens found")
	ErrNoPushAddress     = errors.New("user does not have FCM token (app not installed or not logged in)")
	ErrPushDisabled      = errors.New("push notifications are not configured")
	ErrDeliveryFailed    = errors.New("notification delivery failed")
	ErrStalePushAddress  = errors.New("push address is no longer registered")
)

// ValidationError is a client-correctable input error. It matches ErrValidation.
type ValidationError struct {
	Msg string
}

// Invalid builds a ValidationError.
func Invalid(msg string) *ValidationError {
	return &ValidationError{Msg: msg}
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
