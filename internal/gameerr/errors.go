// Package gameerr defines the error taxonomy shared by the card engine packages.
package gameerr

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig matches every ConfigError. Configuration errors are fatal at setup.
	ErrConfig = errors.New("invalid configuration")

	// ErrDeckExhausted is returned when no card can be drawn even after a soft reshuffle.
	ErrDeckExhausted = errors.New("deck exhausted")

	// ErrUnregistered matches every UnregisteredError.
	ErrUnregistered = errors.New("unregistered reference")
)

// ConfigError describes an invalid construction parameter.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s=%v: %s", e.Field, e.Value, e.Reason)
}

// Is lets errors.Is(err, ErrConfig) match any ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// NewConfigError builds a ConfigError.
func NewConfigError(field string, value any, reason string) error {
	return &ConfigError{Field: field, Value: value, Reason: reason}
}

// UnregisteredError reports a player or card id with no live object behind it.
type UnregisteredError struct {
	Kind string // "player" or "card"
	ID   int
}

func (e *UnregisteredError) Error() string {
	return fmt.Sprintf("unregistered %s id %d", e.Kind, e.ID)
}

func (e *UnregisteredError) Is(target error) bool {
	return target == ErrUnregistered
}

// Unregistered builds an UnregisteredError.
func Unregistered(kind string, id int) error {
	return &UnregisteredError{Kind: kind, ID: id}
}
