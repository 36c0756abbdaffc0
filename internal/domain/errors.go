// Package domain provides shared domain-level sentinel errors.
package domain

import "errors"

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrValidation indicates user-supplied input failed validation.
var ErrValidation = errors.New("validation failed")

// ErrInvalidPhase indicates a phase name outside the five known phases.
// Phase values are internally controlled, so hitting this error is a
// programming-contract violation rather than a user input error.
var ErrInvalidPhase = errors.New("invalid phase")
