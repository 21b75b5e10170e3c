package usecase

import "errors"

// Sentinels the HTTP layer maps onto status codes.
var (
	// ErrWorkspaceExists is the 409 path: a second setup attempt for the
	// same owner is an alternate success, not a failure.
	ErrWorkspaceExists = errors.New("workspace already exists for this user")

	ErrNotFound = errors.New("not found")

	ErrInsufficientCredits = errors.New("not enough enrichment credits")
)

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

type TechnicalError struct {
	Code    string
	Message string
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}
