// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ttlsim

import "strconv"

// State is the resolved logic level of a net.
//
type State uint8

// Logic levels. A net with no active driver floats; two drivers that
// disagree resolve to Error.
//
const (
	Low State = iota
	High
	Float
	Error
)

func (s State) String() string {
	switch s {
	case Low:
		return "LOW"
	case High:
		return "HIGH"
	case Float:
		return "FLOAT"
	case Error:
		return "ERROR"
	}
	return "State(" + strconv.Itoa(int(s)) + ")"
}

// Combine merges the contribution of one more driver into s.
//
//	Error   vs anything = Error
//	Float   vs x        = x
//	High    vs Low      = Error
//	x       vs x        = x
//
func (s State) Combine(o State) State {
	switch {
	case s == Error || o == Error:
		return Error
	case s == Float:
		return o
	case o == Float:
		return s
	case s == o:
		return s
	}
	return Error
}

// Resolve folds a set of driver levels into the net state they produce
// together. Resolution is commutative and associative; an empty set floats.
//
func Resolve(levels ...State) State {
	r := Float
	for _, l := range levels {
		r = r.Combine(l)
		if r == Error {
			return Error
		}
	}
	return r
}

// FromBool maps a boolean signal onto High/Low.
//
func FromBool(b bool) State {
	if b {
		return High
	}
	return Low
}

// Invert returns the logical complement of a driven level. Float and Error
// pass through unchanged; inverting an undriven or contended input cannot
// produce a defined level.
//
func (s State) Invert() State {
	switch s {
	case Low:
		return High
	case High:
		return Low
	}
	return s
}
