package actionplan

import "errors"

var (
	ErrPlanNotFound    = errors.New("action plan not found")
	ErrItemNotFound    = errors.New("action plan item not found")
	ErrNoFields        = errors.New("no fields to update")
	ErrDeadlineInPast  = errors.New("deadline must not be in the past")
)
