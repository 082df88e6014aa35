package filter

import "errors"

var (
	ErrContentNil       = errors.New("filter script is empty")
	ErrValidationFailed = errors.New("filter script validation error")
	ErrNoEntryPoint     = errors.New("filter script does not define filter(text)")
	ErrFilterFailed     = errors.New("filter script failed")
)
