package mapper

import (
	"errors"
	"fmt"

	"table-mapper/model"
)

// Error kinds. Every error returned by the builder wraps one of these, so
// callers can test with errors.Is.
var (
	ErrInvalidType                   = errors.New("invalid type")
	ErrInvalidMember                 = errors.New("invalid member reference")
	ErrInvalidConfig                 = errors.New("invalid configuration")
	ErrConflictingKind               = errors.New("conflicting classification")
	ErrCircularReference             = errors.New("circular reference")
	ErrMissingBase                   = errors.New("missing inheritance base")
	ErrForeignKeyNoPrimaryKey        = errors.New("foreign key target has no primary key")
	ErrForeignKeyMultiplePrimaryKeys = errors.New("foreign key target has multiple primary keys")
	ErrForeignKeyNameAmbiguous       = errors.New("ambiguous foreign key column name")
	ErrPrimaryKeyNotFound            = errors.New("primary key not found")
	ErrPrimaryKeyNotColumn           = errors.New("primary key is not a column")
	ErrMultipleForeignKeys           = errors.New("invalid multiple foreign key")
	ErrEmptyForeignKeyProperty       = errors.New("empty property name in multiple foreign key")
	ErrAlreadyInitialized            = errors.New("builder already initialized")
	ErrPropertyNotRegistered         = errors.New("property not registered")
)

// Error is a configuration error tied to a type and, where applicable, a
// dotted member path.
type Error struct {
	Kind    error
	Type    model.TypeID
	Path    string
	Message string
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Message != "" {
		msg += ": " + e.Message
	}

	switch {
	case e.Type.IsZero():
		return msg
	case e.Path == "":
		return fmt.Sprintf("%s: %s", e.Type, msg)
	default:
		return fmt.Sprintf("%s.%s: %s", e.Type, e.Path, msg)
	}
}

// Unwrap returns the error kind.
func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, id model.TypeID, path, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Type:    id,
		Path:    path,
		Message: fmt.Sprintf(format, args...),
	}
}
