package lair

import (
	"fmt"
	"strings"
)

// ConfigError reports malformed or inconsistent configuration.
type ConfigError struct {
	Key     string // offending file, land or config key
	Message string
}

func (e *ConfigError) Error() string {
	if e.Key == "" {
		return "configuration error: " + e.Message
	}
	return fmt.Sprintf("configuration error: %s: %s", e.Key, e.Message)
}

// ResourceExhaustionError is returned when a reservation exceeds what a tier grants.
type ResourceExhaustionError struct {
	Actor     Actor
	Tier      string
	Requested int
	Available int
}

func (e *ResourceExhaustionError) Error() string {
	return fmt.Sprintf("lair %s %s: reserving %d gathers but only %d available", e.Actor, e.Tier, e.Requested, e.Available)
}

// Violation is a ravage that left damage unused while a leave-behind land
// still held protected pieces that damage could have destroyed.
type Violation struct {
	Land         string
	Piece        PieceType
	Protected    int
	UnusedDamage int
}

func (v Violation) String() string {
	return fmt.Sprintf("illegal ravage: %d unused damage could destroy %d protected %s in %s",
		v.UnusedDamage, v.Protected, v.Piece, v.Land)
}

// InvariantViolationError wraps the violations recorded on a plan.
type InvariantViolationError struct {
	Sequence   string
	Violations []Violation
}

func (e *InvariantViolationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.String()
	}
	return fmt.Sprintf("plan %s: %s", e.Sequence, strings.Join(msgs, "; "))
}
