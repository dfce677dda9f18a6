package balance

import "errors"

// ErrInvalidArgument is returned for a group count below one, a negative
// weight, or a skill rating outside [MinSkill, MaxSkill]. Retrying with
// the same input fails the same way.
var ErrInvalidArgument = errors.New("invalid argument")
