package midi

import (
	"errors"
	"fmt"
)

// ErrNoChannel is returned when channel access is attempted on an event
// kind that is not addressed to a channel.
var ErrNoChannel = errors.New("midi: event has no channel")

// OutOfRangeError reports an integer outside its valid closed range.
type OutOfRangeError struct {
	Found int
	Min   int
	Max   int
}

func (e OutOfRangeError) Error() string {
	return fmt.Sprintf("expected an integer between %d and %d, but found %d", e.Min, e.Max, e.Found)
}
