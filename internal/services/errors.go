package services

import "errors"

// Sentinel errors shared across services. Handlers map these to HTTP
// statuses with errors.Is.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrForbidden          = errors.New("insufficient permissions")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
	ErrNotMember          = errors.New("not a member of this project")
	ErrInvalidTransition  = errors.New("illegal status transition")
	ErrAlreadyMember      = errors.New("user is already a member")
	ErrOwnerProtected     = errors.New("cannot remove the project owner")
	ErrSelfDeactivation   = errors.New("cannot deactivate your own account")
)
