// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package ttllib is the catalogue of 74LS-series parts for the ttlsim
// kernel. Each part is a factory building a ttlsim.Chip with the exact DIP
// pinout and an evaluator implementing the part's datasheet contract on the
// four-valued net model: unpowered parts float all outputs, and an ERROR on
// an input propagates to the outputs it affects.
//
package ttllib

import (
	"github.com/db47h/ttlsim"
)

// Quad gate sections as {inA, inB, out} pin triples.
var (
	// LS00/08/32/86 share the same section layout.
	cornerGates = [4][3]int{{1, 2, 3}, {4, 5, 6}, {9, 10, 8}, {12, 13, 11}}
	// LS02 puts each section's output pin before its inputs instead.
	norGates = [4][3]int{{2, 3, 1}, {5, 6, 4}, {8, 9, 10}, {11, 12, 13}}
)

func high(s ttlsim.State) bool { return s == ttlsim.High }

func level(b bool) ttlsim.State { return ttlsim.FromBool(b) }

// gate2 applies a boolean function to two coerced input levels, propagating
// Error from either.
func gate2(a, b ttlsim.State, fn func(a, b bool) bool) ttlsim.State {
	if a == ttlsim.Error || b == ttlsim.Error {
		return ttlsim.Error
	}
	return level(fn(high(a), high(b)))
}

// newQuadGate builds a 14-pin quad 2-input gate from a section layout and a
// boolean function.
func newQuadGate(id, name string, sections [4][3]int, fn func(a, b bool) bool) *ttlsim.Chip {
	ch := ttlsim.NewChip(id, name, 14)
	for _, s := range sections {
		ch.Declare(ttlsim.PinInput, s[0], s[1])
		ch.Declare(ttlsim.PinOutput, s[2])
	}
	ch.SetEval(func(ch *ttlsim.Chip) []ttlsim.PinState {
		if !ch.IsPowered() {
			return ch.AllOutputs(ttlsim.Float)
		}
		var out []ttlsim.PinState
		for _, s := range sections {
			y := gate2(ch.InputState(s[0]), ch.InputState(s[1]), fn)
			out = append(out, ttlsim.PinState{Pin: s[2], State: y})
		}
		return out
	}, nil)
	return ch
}

// NewLS00 returns a 74LS00 quad 2-input NAND gate.
//
func NewLS00(id string) *ttlsim.Chip {
	return newQuadGate(id, "74LS00", cornerGates, func(a, b bool) bool { return !(a && b) })
}

// NewLS02 returns a 74LS02 quad 2-input NOR gate.
//
func NewLS02(id string) *ttlsim.Chip {
	return newQuadGate(id, "74LS02", norGates, func(a, b bool) bool { return !(a || b) })
}

// NewLS08 returns a 74LS08 quad 2-input AND gate.
//
func NewLS08(id string) *ttlsim.Chip {
	return newQuadGate(id, "74LS08", cornerGates, func(a, b bool) bool { return a && b })
}

// NewLS32 returns a 74LS32 quad 2-input OR gate.
//
func NewLS32(id string) *ttlsim.Chip {
	return newQuadGate(id, "74LS32", cornerGates, func(a, b bool) bool { return a || b })
}

// NewLS86 returns a 74LS86 quad 2-input XOR gate.
//
func NewLS86(id string) *ttlsim.Chip {
	return newQuadGate(id, "74LS86", cornerGates, func(a, b bool) bool { return a != b })
}

// Inverter sections as {in, out} pin pairs.
var invGates = [6][2]int{{1, 2}, {3, 4}, {5, 6}, {9, 8}, {11, 10}, {13, 12}}

// NewLS04 returns a 74LS04 hex inverter.
//
func NewLS04(id string) *ttlsim.Chip {
	ch := ttlsim.NewChip(id, "74LS04", 14)
	for _, s := range invGates {
		ch.Declare(ttlsim.PinInput, s[0])
		ch.Declare(ttlsim.PinOutput, s[1])
	}
	ch.SetEval(func(ch *ttlsim.Chip) []ttlsim.PinState {
		if !ch.IsPowered() {
			return ch.AllOutputs(ttlsim.Float)
		}
		var out []ttlsim.PinState
		for _, s := range invGates {
			out = append(out, ttlsim.PinState{Pin: s[1], State: ch.InputState(s[0]).Invert()})
		}
		return out
	}, nil)
	return ch
}
