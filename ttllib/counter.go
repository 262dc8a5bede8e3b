// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ttllib

import (
	"github.com/db47h/ttlsim"
)

// Shared 14-pin ripple counter layout (74LS90/74LS93): CKB on 1, reset
// inputs R0(1),R0(2) on 2,3, CKA on 14, outputs QA,QB,QC,QD on 12,9,8,11.
// VCC on 5, GND on 10.
const (
	cntCKB = 1
	cntR01 = 2
	cntR02 = 3
	cntCKA = 14
	cntQA  = 12
	cntQB  = 9
	cntQC  = 8
	cntQD  = 11
)

// newRippleCounter builds a two-section ripple counter. Section A divides by
// two on CKA falling edges; section B counts 0..modB-1 on CKB falling edges
// and feeds QB,QC,QD with its bits. set9, when non-nil, names the R9 pins of
// a decade counter's async set-to-9 inputs.
//
// Both R0 inputs HIGH clear the counter asynchronously; reset wins over
// set-9 when both are asserted. Async overrides bypass the clocks but the
// clock levels are still sampled, so releasing an override does not
// manufacture an edge.
func newRippleCounter(id, name string, modB int, set9 []int) *ttlsim.Chip {
	var a, b int
	ch := ttlsim.NewChip(id, name, 14).SetPowerPins(5, 10)
	ch.Declare(ttlsim.PinClock, cntCKA, cntCKB)
	ch.Declare(ttlsim.PinInput, cntR01, cntR02)
	ch.Declare(ttlsim.PinInput, set9...)
	ch.Declare(ttlsim.PinOutput, cntQA, cntQB, cntQC, cntQD)
	ch.SetEval(func(ch *ttlsim.Chip) []ttlsim.PinState {
		fallA := ch.ClockEdge(cntCKA, false)
		fallB := ch.ClockEdge(cntCKB, false)
		if !ch.IsPowered() {
			return ch.AllOutputs(ttlsim.Float)
		}
		r1, r2 := ch.InputState(cntR01), ch.InputState(cntR02)
		if r1 == ttlsim.Error || r2 == ttlsim.Error {
			return ch.AllOutputs(ttlsim.Error)
		}
		var s1, s2 ttlsim.State
		if set9 != nil {
			s1, s2 = ch.InputState(set9[0]), ch.InputState(set9[1])
			if s1 == ttlsim.Error || s2 == ttlsim.Error {
				return ch.AllOutputs(ttlsim.Error)
			}
		}
		switch {
		case high(r1) && high(r2):
			a, b = 0, 0
		case set9 != nil && high(s1) && high(s2):
			a, b = 1, 4
		default:
			if fallA {
				a ^= 1
			}
			if fallB {
				b = (b + 1) % modB
			}
		}
		return []ttlsim.PinState{
			{Pin: cntQA, State: level(a == 1)},
			{Pin: cntQB, State: level(b&1 != 0)},
			{Pin: cntQC, State: level(b&2 != 0)},
			{Pin: cntQD, State: level(b&4 != 0)},
		}
	}, func() { a, b = 0, 0 })
	return ch
}

// NewLS90 returns a 74LS90 decade counter: a divide-by-two section and a
// divide-by-five section. Cascading QA (pin 12) into CKB (pin 1) counts BCD
// 0-9 on QD..QA. Async set-to-9 inputs R9(1),R9(2) on pins 6,7.
//
func NewLS90(id string) *ttlsim.Chip {
	return newRippleCounter(id, "74LS90", 5, []int{6, 7})
}

// NewLS93 returns a 74LS93 4-bit binary counter: a divide-by-two section
// and a divide-by-eight section. Cascading QA into CKB counts 0-15.
//
func NewLS93(id string) *ttlsim.Chip {
	return newRippleCounter(id, "74LS93", 8, nil)
}
