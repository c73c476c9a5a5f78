package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeValidation represents invalid request input
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeAuth represents a missing or incorrect credential
	ErrorTypeAuth ErrorType = "auth"
	// ErrorTypeNetwork represents transient fetch errors
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeParsing represents per-product extraction anomalies
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeStorage represents unreadable or malformed persisted data
	ErrorTypeStorage ErrorType = "storage"
	// ErrorTypeCache represents cache backend failures
	ErrorTypeCache ErrorType = "cache"
	// ErrorTypeNotifier represents notification delivery failures
	ErrorTypeNotifier ErrorType = "notifier"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// ScraperError is the error type shared by all components
type ScraperError struct {
	Type      ErrorType
	Component string
	Message   string
	Err       error
	Time      time.Time
}

// Error implements the error interface
func (e *ScraperError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Component, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Component, e.Message)
}

// Unwrap returns the underlying error
func (e *ScraperError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is retryable
func (e *ScraperError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeNetwork:
		return true
	default:
		return false
	}
}

// New creates a new ScraperError
func New(errType ErrorType, component, message string, err error) *ScraperError {
	return &ScraperError{
		Type:      errType,
		Component: component,
		Message:   message,
		Err:       err,
		Time:      time.Now(),
	}
}

// NewValidation creates a new validation error
func NewValidation(component, message string) *ScraperError {
	return New(ErrorTypeValidation, component, message, nil)
}

// NewAuth creates a new authentication error
func NewAuth(component, message string) *ScraperError {
	return New(ErrorTypeAuth, component, message, nil)
}

// NewNetwork creates a new network error
func NewNetwork(component, message string, err error) *ScraperError {
	return New(ErrorTypeNetwork, component, message, err)
}

// NewParsing creates a new parsing error
func NewParsing(component, message string, err error) *ScraperError {
	return New(ErrorTypeParsing, component, message, err)
}

// NewDataCorruption creates a new storage error for malformed persisted data
func NewDataCorruption(component, message string, err error) *ScraperError {
	return New(ErrorTypeStorage, component, message, err)
}

// NewCache creates a new cache error
func NewCache(component, message string, err error) *ScraperError {
	return New(ErrorTypeCache, component, message, err)
}

// NewNotifier creates a new notifier error
func NewNotifier(component, message string, err error) *ScraperError {
	return New(ErrorTypeNotifier, component, message, err)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *ScraperError {
	return New(ErrorTypeConfiguration, "", message, err)
}

// IsType reports whether any error in err's chain is a ScraperError of the given type
func IsType(err error, errType ErrorType) bool {
	var se *ScraperError
	if stderrors.As(err, &se) {
		return se.Type == errType
	}
	return false
}

// IsRetryable reports whether err carries a retryable ScraperError
func IsRetryable(err error) bool {
	var se *ScraperError
	if stderrors.As(err, &se) {
		return se.IsRetryable()
	}
	return false
}
