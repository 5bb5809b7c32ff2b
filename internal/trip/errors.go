package trip

import "errors"

// ErrValidation is returned when a command is rejected before any state is
// touched: an activity without a location name, a date outside the trip, a
// transfer without a label.
var ErrValidation = errors.New("validation error")
