package evidence

import "errors"

var (
	// ErrInvalidTransition indicates a case status change that does not move forward.
	ErrInvalidTransition = errors.New("invalid case status transition")
	// ErrInvalidStatus indicates an unknown case status name.
	ErrInvalidStatus = errors.New("invalid case status")
	// ErrCaseSealed indicates an attempt to add evidence to a case that is no longer open.
	ErrCaseSealed = errors.New("case is sealed")
	// ErrCaseNotFound indicates a case registry lookup for an unknown case.
	ErrCaseNotFound = errors.New("case not found")
)
