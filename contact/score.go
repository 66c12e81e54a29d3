// Package contact has contact criteria. A criterion looks at a pair of
// mers and says if they are in contact with a three valued score.
// Simple criteria measure a distance between points on the mers, and
// they can be combined with Not, And, Or and Xor.
package contact

import "strconv"

// Score is the three valued answer.
type Score uint8

const (
	NoContact Score = iota
	Uncertain
	Certain
)

func (s Score) String() string { return strconv.Itoa(int(s)) }

// Negate is the three valued not. Uncertain stays uncertain.
func (s Score) Negate() Score { return Certain - s }

// Error lets us have constant errors.
type Error string

func (e Error) Error() string { return string(e) }

const (
	// ErrNotApplicable means a criterion has nothing to say about a pair
	// of mers, like asking for the CA distance to an ion. Callers treat
	// it as NoContact.
	ErrNotApplicable = Error("criterion does not apply to mer type")
	ErrConfiguration = Error("bad criterion")
	ErrUnimplemented = Error("criterion cannot be evaluated this way")
)
