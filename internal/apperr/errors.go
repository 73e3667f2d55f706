// Package apperr defines the error kinds returned across the vault graph engine.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an Error.
type Kind int

const (
	KindUnknown Kind = iota
	KindVault
	KindFileNotFound
	KindIO
	KindParse
	KindInvalidReference
	KindSerialization
	KindIndex
	KindAlreadyExists
	KindConflict
)

var kindNames = map[Kind]string{
	KindUnknown:          "unknown error",
	KindVault:            "vault error",
	KindFileNotFound:     "file not found",
	KindIO:               "io error",
	KindParse:            "parse error",
	KindInvalidReference: "invalid reference",
	KindSerialization:    "serialization error",
	KindIndex:            "index error",
	KindAlreadyExists:    "already exists",
	KindConflict:         "conflict",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return kindNames[KindUnknown]
}

// Sentinels for errors.Is matching against any *Error of the same kind.
var (
	ErrUnknown          = errors.New(KindUnknown.String())
	ErrVault            = errors.New(KindVault.String())
	ErrFileNotFound     = errors.New(KindFileNotFound.String())
	ErrIO               = errors.New(KindIO.String())
	ErrParse            = errors.New(KindParse.String())
	ErrInvalidReference = errors.New(KindInvalidReference.String())
	ErrSerialization    = errors.New(KindSerialization.String())
	ErrIndex            = errors.New(KindIndex.String())
	ErrAlreadyExists    = errors.New(KindAlreadyExists.String())
	ErrConflict         = errors.New(KindConflict.String())
)

var sentinels = map[Kind]error{
	KindUnknown:          ErrUnknown,
	KindVault:            ErrVault,
	KindFileNotFound:     ErrFileNotFound,
	KindIO:               ErrIO,
	KindParse:            ErrParse,
	KindInvalidReference: ErrInvalidReference,
	KindSerialization:    ErrSerialization,
	KindIndex:            ErrIndex,
	KindAlreadyExists:    ErrAlreadyExists,
	KindConflict:         ErrConflict,
}

// Error is a typed failure. Op names the operation, Path the vault-relative
// path involved (if any) and Err the underlying cause (if any).
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Path != "" {
		msg += ": " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	return sentinels[e.Kind] == target
}

// New returns an Error of the given kind.
func New(kind Kind, op, path string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// Vault returns a KindVault error with a formatted message.
func Vault(op, format string, args ...any) *Error {
	return &Error{Kind: KindVault, Op: op, Err: fmt.Errorf(format, args...)}
}

// NotFound returns a KindFileNotFound error for path.
func NotFound(op, path string) *Error {
	return &Error{Kind: KindFileNotFound, Op: op, Path: path}
}

// IO wraps a filesystem failure.
func IO(op, path string, err error) *Error {
	return &Error{Kind: KindIO, Op: op, Path: path, Err: err}
}

// Serialization wraps an encode/decode failure.
func Serialization(op string, err error) *Error {
	return &Error{Kind: KindSerialization, Op: op, Err: err}
}

// Index wraps a failure of the indexing collaborator.
func Index(op string, err error) *Error {
	return &Error{Kind: KindIndex, Op: op, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
