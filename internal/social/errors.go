package social

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes a rejected store operation.
type ErrorKind string

const (
	KindInvalidInput   ErrorKind = "invalid_input"
	KindDuplicateUser  ErrorKind = "duplicate_user"
	KindUnknownUser    ErrorKind = "unknown_user"
	KindSelfFriendship ErrorKind = "self_friendship"
)

// Sentinels for errors.Is. Every *Error matches the sentinel of its Kind.
var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrDuplicateUser  = errors.New("user already exists")
	ErrUnknownUser    = errors.New("user does not exist")
	ErrSelfFriendship = errors.New("cannot befriend yourself")
)

var sentinels = map[ErrorKind]error{
	KindInvalidInput:   ErrInvalidInput,
	KindDuplicateUser:  ErrDuplicateUser,
	KindUnknownUser:    ErrUnknownUser,
	KindSelfFriendship: ErrSelfFriendship,
}

// Error is returned by Store operations that reject their input.
// The store is unchanged whenever one is returned.
type Error struct {
	Kind ErrorKind
	// Op is the store operation, e.g. "register_user".
	Op string
	// User is the offending username, if any.
	User string
}

func (e *Error) Error() string {
	base := sentinels[e.Kind]
	if base == nil {
		base = errors.New(string(e.Kind))
	}
	if e.User != "" {
		return fmt.Sprintf("%s: %v: %q", e.Op, base, e.User)
	}
	return fmt.Sprintf("%s: %v", e.Op, base)
}

// Is lets errors.Is match the package sentinels.
func (e *Error) Is(target error) bool {
	return sentinels[e.Kind] == target
}

// KindOf returns the kind of a store error, or "" if err is not one.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func newError(kind ErrorKind, op, user string) *Error {
	return &Error{Kind: kind, Op: op, User: user}
}
