package leveler

import "errors"

// ErrInvalidRules indicates a rule set that cannot be parsed or compiled.
var ErrInvalidRules = errors.New("invalid rule set")
