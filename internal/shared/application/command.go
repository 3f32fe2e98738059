package application

// CommandResult carries the outcome of a command as a success flag and a
// human readable message, for surfaces that report rather than propagate
// errors.
type CommandResult struct {
	Success bool
	Error   error
	Data    any
}

// NewSuccessResult creates a successful command result.
func NewSuccessResult(data any) CommandResult {
	return CommandResult{Success: true, Data: data}
}

// NewErrorResult creates a failed command result.
func NewErrorResult(err error) CommandResult {
	return CommandResult{Success: false, Error: err}
}

// NewCommandResult builds a result from a handler's return values.
func NewCommandResult(data any, err error) CommandResult {
	if err != nil {
		return NewErrorResult(err)
	}
	return NewSuccessResult(data)
}

// Message returns the error text of a failed result, or "" on success.
func (r CommandResult) Message() string {
	if r.Success || r.Error == nil {
		return ""
	}
	return r.Error.Error()
}
