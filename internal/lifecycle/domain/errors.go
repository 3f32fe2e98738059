package domain

import "errors"

var (
	ErrEmptyName              = errors.New("lifecycle name is required")
	ErrAlreadyExists          = errors.New("Already exist")
	ErrNotLoaded              = errors.New("lifecycle is not loaded")
	ErrInvalidStatus          = errors.New("invalid status name")
	ErrDuplicateStatus        = errors.New("duplicate status")
	ErrInvalidActionUpdate    = errors.New("invalid action update")
	ErrMalformedTransitionKey = errors.New("malformed transition key")
	ErrStoreUnavailable       = errors.New("lifecycle store unavailable")
	ErrReservedName           = errors.New("lifecycle name is reserved")
)
