package league

import "errors"

// ErrInvalidInput is returned for rosters fixtures cannot be built from and
// for results that cannot be recorded.
var ErrInvalidInput = errors.New("invalid input")

// MaxGoals is the highest score one side can be credited with in a match.
const MaxGoals = 99
