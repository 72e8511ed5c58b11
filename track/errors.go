package track

import "fmt"

// InvalidArgumentError is returned when a timeline operation is given a negative time, a negative
// resulting length or a malformed range.
type InvalidArgumentError struct {
	Op     string
	Reason string
}

func (err InvalidArgumentError) Error() string {
	return fmt.Sprintf("%s: invalid argument: %s", err.Op, err.Reason)
}
