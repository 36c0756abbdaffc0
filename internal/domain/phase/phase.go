// Package phase defines the closed set of development phases a security
// checklist is partitioned into.
package phase

import (
	"fmt"

	"github.com/Strob0t/SecTrack/internal/domain"
)

// Phase is one of the five fixed development phases. The zero value is
// Planning; values outside the enum cannot be produced through Parse or
// UnmarshalText.
type Phase int

const (
	Planning Phase = iota
	Design
	Implementation
	Testing
	Deployment
)

// Count is the number of phases.
const Count = 5

var names = [Count]string{"planning", "design", "implementation", "testing", "deployment"}

// All returns the phases in their fixed order.
func All() [Count]Phase {
	return [Count]Phase{Planning, Design, Implementation, Testing, Deployment}
}

// Valid reports whether p is within the enum range.
func (p Phase) Valid() bool {
	return p >= Planning && p <= Deployment
}

func (p Phase) String() string {
	if !p.Valid() {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return names[p]
}

// Parse converts a phase name to a Phase. Unknown names fail with
// domain.ErrInvalidPhase.
func Parse(s string) (Phase, error) {
	for i, name := range names {
		if name == s {
			return Phase(i), nil
		}
	}
	return 0, fmt.Errorf("phase %q: %w", s, domain.ErrInvalidPhase)
}

// MarshalText implements encoding.TextMarshaler so Phase serializes as its
// name, including when used as a JSON map key.
func (p Phase) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("phase %d: %w", int(p), domain.ErrInvalidPhase)
	}
	return []byte(names[p]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Phase) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
