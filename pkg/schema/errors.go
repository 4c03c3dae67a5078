package schema

import (
	"errors"
	"fmt"
)

// Sentinels matched by errors.Is against ShapeError and ValidationError.
var (
	ErrShape      = errors.New("schema: invalid shape")
	ErrValidation = errors.New("schema: validation failed")
)

const (
	fieldBaseType = "baseType"
	fieldProps    = "props"

	msgShape    = "schema must be a string, a number, or a plain object"
	msgBaseType = "baseType must be a non-empty string"
	msgProps    = "props must be a plain object"
)

// ShapeError reports an input of the wrong kind: a schema position holding
// something other than a string, number or mapping, or a top-level input that
// is neither a node nor a sequence of nodes.
type ShapeError struct {
	// Path is the dotted location of the offending value ("" for the root).
	Path string
	// Got names the Go type that was received.
	Got     string
	Message string
}

func (e *ShapeError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = msgShape
	}
	if e.Got != "" {
		msg = fmt.Sprintf("%s (got %s)", msg, e.Got)
	}
	if e.Path != "" {
		return fmt.Sprintf("schema: %s: %s", e.Path, msg)
	}
	return "schema: " + msg
}

// Is reports ErrShape so callers can match without a type assertion.
func (e *ShapeError) Is(target error) bool {
	return target == ErrShape
}

// ValidationError reports a mapping whose fields break the node contract.
type ValidationError struct {
	Path    string
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("schema: %s: %s", e.Path, e.Message)
	}
	return "schema: " + e.Message
}

// Is reports ErrValidation so callers can match without a type assertion.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewShapeError builds a ShapeError for value at path using message, falling
// back to the default schema shape message when message is empty.
func NewShapeError(path string, value any, message string) *ShapeError {
	return &ShapeError{Path: path, Got: typeName(value), Message: message}
}

func typeName(value any) string {
	if value == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", value)
}

func joinPath(prefix, segment string) string {
	if prefix == "" {
		return segment
	}
	return prefix + "." + segment
}

func indexPath(prefix string, idx int) string {
	return fmt.Sprintf("%s[%d]", prefix, idx)
}
