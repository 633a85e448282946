// Package domain holds shared domain types and the error taxonomy.
package domain

import (
	"errors"
	"fmt"
)

// Error types for domain-specific errors
type ErrorType string

const (
	ErrorTypeEncoding    ErrorType = "encoding"
	ErrorTypeDecoding    ErrorType = "decoding"
	ErrorTypeValidation  ErrorType = "validation"
	ErrorTypePersistence ErrorType = "persistence"
	ErrorTypeExport      ErrorType = "export"
	ErrorTypeAuth        ErrorType = "auth"
	ErrorTypeConfig      ErrorType = "config"
	ErrorTypeIO          ErrorType = "io"
)

// DomainError represents a domain-specific error with context
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewError creates a new domain error
func NewError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func EncodingError(message string, err error) *DomainError {
	return NewError(ErrorTypeEncoding, message, err)
}

func DecodingError(message string, err error) *DomainError {
	return NewError(ErrorTypeDecoding, message, err)
}

func ValidationError(message string, err error) *DomainError {
	return NewError(ErrorTypeValidation, message, err)
}

func PersistenceError(message string, err error) *DomainError {
	return NewError(ErrorTypePersistence, message, err)
}

func ExportError(message string, err error) *DomainError {
	return NewError(ErrorTypeExport, message, err)
}

func AuthError(message string, err error) *DomainError {
	return NewError(ErrorTypeAuth, message, err)
}

func ConfigError(message string, err error) *DomainError {
	return NewError(ErrorTypeConfig, message, err)
}

func IOError(message string, err error) *DomainError {
	return NewError(ErrorTypeIO, message, err)
}

// IsType reports whether err is a DomainError of the given type.
func IsType(err error, errType ErrorType) bool {
	var de *DomainError
	if !errors.As(err, &de) {
		return false
	}
	return de.Type == errType
}
