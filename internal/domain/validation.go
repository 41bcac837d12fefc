package domain

import "fmt"

// ValidationKind identifies which value-type invariant was violated.
type ValidationKind int

const (
	InvalidEmail ValidationKind = iota
	InvalidName
	InvalidToken
)

func (k ValidationKind) String() string {
	switch k {
	case InvalidEmail:
		return "user email"
	case InvalidName:
		return "user name"
	case InvalidToken:
		return "user token"
	default:
		return "value"
	}
}

// ValidationError reports a raw input that failed a value-type invariant.
type ValidationError struct {
	Kind  ValidationKind
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("`%s` is not a valid %s", e.Value, e.Kind)
}
