package lower

import "fmt"

// ErrorKind classifies a lowering failure.
type ErrorKind int

const (
	// MissingTag: a component refers to a type whose tag can be neither
	// read nor derived. The schema must give the component an explicit tag.
	MissingTag ErrorKind = iota
	// NotResolved: the module still holds unresolved references.
	NotResolved
)

func (k ErrorKind) String() string {
	switch k {
	case MissingTag:
		return "missing tag"
	case NotResolved:
		return "module not resolved"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is a lowering failure. Definition and Field locate the component
// being lowered; Name is the type it refers to.
type Error struct {
	Kind       ErrorKind
	Module     string
	Definition string
	Field      string
	Name       string
	Err        error
}

func (e *Error) Error() string {
	s := "module " + e.Module
	if e.Definition != "" {
		s += ": " + e.Definition
		if e.Field != "" {
			s += "." + e.Field
		}
	}
	s += ": " + e.Kind.String()
	if e.Name != "" {
		s += fmt.Sprintf(" for %q", e.Name)
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error {
	return e.Err
}
