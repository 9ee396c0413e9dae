package feedback

import "errors"

var (
	ErrNotFound = errors.New("feedback not found")
	ErrNoFields = errors.New("no fields to update")
)
