package session

import "fmt"

// Kind distinguishes informational status from errors in the banner.
type Kind int

const (
	// KindStatus is an informational message, shown on green.
	KindStatus Kind = iota
	// KindError is an error message, shown on red.
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindStatus:
		return "status"
	case KindError:
		return "error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Color is the banner background for the kind.
func (k Kind) Color() string {
	if k == KindError {
		return "red"
	}
	return "green"
}

// Status is the banner at the top of the page.
type Status struct {
	Message string `json:"message"`
	Kind    Kind   `json:"kind"`
}

// Visible reports whether the banner is shown. An empty message collapses it.
func (s Status) Visible() bool { return s.Message != "" }
