package dvi

import (
	"fmt"
	"strings"

	"github.com/npillmayer/htfgen/core"
)

// ErrorKind classifies the failures of decoding and interpreting a VF file.
type ErrorKind int

// Kinds of decode errors.
const (
	MalformedStream         ErrorKind = iota + 1 // byte grammar violated
	UnknownFont                                  // font selected but never defined
	NoCurrentFont                                // glyph placed without any font
	DuplicateFontDefinition                      // font number defined twice
)

func (k ErrorKind) String() string {
	switch k {
	case MalformedStream:
		return "malformed stream"
	case UnknownFont:
		return "unknown font"
	case NoCurrentFont:
		return "no current font"
	case DuplicateFontDefinition:
		return "duplicate font definition"
	}
	return "undefined error kind"
}

// Error is the error type for all failures of decoding or interpreting a
// VF file. It carries the byte offset of the offending opcode, the opcode
// value, and the virtual character in progress. Fields not applicable are -1.
//
// Error implements core.AppError.
type Error struct {
	Kind   ErrorKind
	Offset int
	Opcode int
	Char   int
	Msg    string
}

// Sentinel errors for use with errors.Is. Any *Error matches the sentinel
// of its kind.
var (
	ErrMalformedStream         = &Error{Kind: MalformedStream, Offset: -1, Opcode: -1, Char: -1}
	ErrUnknownFont             = &Error{Kind: UnknownFont, Offset: -1, Opcode: -1, Char: -1}
	ErrNoCurrentFont           = &Error{Kind: NoCurrentFont, Offset: -1, Opcode: -1, Char: -1}
	ErrDuplicateFontDefinition = &Error{Kind: DuplicateFontDefinition, Offset: -1, Opcode: -1, Char: -1}
)

// NewError creates an error of a given kind. op may be nil; if given, its
// offset and opcode are recorded. char is the virtual character in progress,
// or -1.
func NewError(kind ErrorKind, op Op, char int, format string, v ...interface{}) *Error {
	e := &Error{Kind: kind, Offset: -1, Opcode: -1, Char: char, Msg: fmt.Sprintf(format, v...)}
	if op != nil {
		e.Offset = op.Offset()
		e.Opcode = int(op.Opcode())
	}
	return e
}

func malformed(offset int, code Opcode, char int, format string, v ...interface{}) *Error {
	return &Error{
		Kind:   MalformedStream,
		Offset: offset,
		Opcode: int(code),
		Char:   char,
		Msg:    fmt.Sprintf(format, v...),
	}
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("VF ")
	b.WriteString(e.Kind.String())
	var ctx []string
	if e.Offset >= 0 {
		ctx = append(ctx, fmt.Sprintf("offset %d", e.Offset))
	}
	if e.Opcode >= 0 {
		ctx = append(ctx, fmt.Sprintf("opcode %d", e.Opcode))
	}
	if e.Char >= 0 {
		ctx = append(ctx, fmt.Sprintf("char %d", e.Char))
	}
	if len(ctx) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(ctx, ", "))
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	return b.String()
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// ErrorCode maps error kinds to core error codes.
func (e *Error) ErrorCode() int {
	switch e.Kind {
	case UnknownFont, NoCurrentFont:
		return core.EMISSING
	case DuplicateFontDefinition:
		return core.EINVALID
	}
	return core.EFORMAT
}

// UserMessage is part of core.AppError.
func (e *Error) UserMessage() string {
	return e.Error()
}

var _ core.AppError = &Error{}
