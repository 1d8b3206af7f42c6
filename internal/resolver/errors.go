package resolver

import "fmt"

// ErrorKind classifies a resolution failure.
type ErrorKind int

const (
	// FailedToResolveReference: a value reference names nothing reachable.
	FailedToResolveReference ErrorKind = iota
	// FailedToResolveType: a type reference names nothing reachable.
	FailedToResolveType
	// FailedToParseLiteral: a value is not of the kind its use requires.
	FailedToParseLiteral
	// CyclicReference: a chain of value, alias or import references loops.
	CyclicReference
)

func (k ErrorKind) String() string {
	switch k {
	case FailedToResolveReference:
		return "failed to resolve reference"
	case FailedToResolveType:
		return "failed to resolve type"
	case FailedToParseLiteral:
		return "failed to parse literal"
	case CyclicReference:
		return "cyclic reference"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is a resolution failure in Module while resolving the definition
// or value named Owner. Name is the offending reference. Err, when set, is
// the underlying scope error.
type Error struct {
	Kind   ErrorKind
	Module string
	Owner  string
	Name   string
	Err    error
}

func (e *Error) Error() string {
	s := fmt.Sprintf("module %s: %s: %s %q", e.Module, e.Owner, e.Kind, e.Name)
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error {
	return e.Err
}
