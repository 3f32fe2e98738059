package database

import "errors"

var (
	// ErrUnknownDriver is returned for a driver name no package has registered.
	ErrUnknownDriver = errors.New("unknown database driver")

	// ErrNoTx is returned when a unit of work is finished on a context that
	// never began one.
	ErrNoTx = errors.New("no transaction in context")
)
