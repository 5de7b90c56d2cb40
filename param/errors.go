package param

import "fmt"

// ParseError is returned for text that names no parameter value. The
// parameter keeps its previous value.
type ParseError struct {
	Text string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("unknown input %q", e.Text)
}
