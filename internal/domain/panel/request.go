// Package panel defines the request/response envelope and the eight typed
// panel results produced by one radar analysis. Every panel is a tagged,
// strongly typed structure with an explicit empty value rather than the
// dynamically shaped rows the source returns — a failed panel engine
// substitutes the matching NewXxxPanel() zero value so the response stays
// uniformly serializable regardless of which panels succeeded.
package panel

import (
	"strings"
	"unicode/utf8"

	"github.com/KingdaKilla/ti-radar/pkg/errors"
)

const (
	MinTechnologyLength = 1
	MaxTechnologyLength = 200
	MinYears            = 3
	MaxYears            = 30
	DefaultYears        = 10
)

// Request is the validated input to one radar analysis.
type Request struct {
	Technology string `json:"technology"`
	Years      int    `json:"years"`
}

// Validate enforces the request contract: a non-empty technology term no
// longer than 200 characters, and a year window of [3, 30].
func (r Request) Validate() error {
	trimmed := strings.TrimSpace(r.Technology)
	if len(trimmed) < MinTechnologyLength {
		return errors.InvalidParam("technology must not be empty")
	}
	if utf8.RuneCountInString(r.Technology) > MaxTechnologyLength {
		return errors.InvalidParam("technology must be at most 200 characters")
	}
	if r.Years < MinYears || r.Years > MaxYears {
		return errors.InvalidParam("years must be between 3 and 30")
	}
	return nil
}

// WithDefaults returns a copy of r with Years set to DefaultYears when the
// caller left it at its zero value.
func (r Request) WithDefaults() Request {
	if r.Years == 0 {
		r.Years = DefaultYears
	}
	return r
}
