package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotOwner occurs when a vendor touches a record owned by another business.
	ErrNotOwner = errors.New("record belongs to another business")
)
