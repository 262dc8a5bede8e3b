// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ttllib

import (
	"github.com/db47h/ttlsim"
)

// NewLS138 returns a 74LS138 3-line to 8-line decoder.
//
// Select A,B,C on pins 1,2,3; enables G2A̅ on 4, G2B̅ on 5, G1 on 6. Outputs
// Y0..Y7 on pins 15,14,13,12,11,10,9,7, active low. Disabled, every output
// is HIGH; enabled, only the output addressed by CBA is LOW.
//
func NewLS138(id string) *ttlsim.Chip {
	outs := [8]int{15, 14, 13, 12, 11, 10, 9, 7}
	const (
		pinA, pinB, pinC     = 1, 2, 3
		pinG2A, pinG2B, pinG1 = 4, 5, 6
	)
	ch := ttlsim.NewChip(id, "74LS138", 16)
	ch.Declare(ttlsim.PinInput, pinA, pinB, pinC, pinG2A, pinG2B, pinG1)
	ch.Declare(ttlsim.PinOutput, outs[:]...)
	ch.SetEval(func(ch *ttlsim.Chip) []ttlsim.PinState {
		if !ch.IsPowered() {
			return ch.AllOutputs(ttlsim.Float)
		}
		g1, g2a, g2b := ch.InputState(pinG1), ch.InputState(pinG2A), ch.InputState(pinG2B)
		if g1 == ttlsim.Error || g2a == ttlsim.Error || g2b == ttlsim.Error {
			return ch.AllOutputs(ttlsim.Error)
		}
		if !high(g1) || high(g2a) || high(g2b) {
			return ch.AllOutputs(ttlsim.High)
		}
		idx, ok := selIndex(ch.InputState(pinA), ch.InputState(pinB), ch.InputState(pinC))
		if !ok {
			return ch.AllOutputs(ttlsim.Error)
		}
		var out []ttlsim.PinState
		for i, p := range outs {
			out = append(out, ttlsim.PinState{Pin: p, State: level(i != idx)})
		}
		return out
	}, nil)
	return ch
}

// Segment patterns for digits 0-9 as a..g bit masks (bit 0 = segment a).
// Codes 10-15 blank the display. The 6 and 9 glyphs match the 7447 family:
// 6 without the top segment, 9 without the bottom one.
var segPatterns = [10]uint8{
	0b0111111, // 0
	0b0000110, // 1
	0b1011011, // 2
	0b1001111, // 3
	0b1100110, // 4
	0b1101101, // 5
	0b1111100, // 6
	0b0000111, // 7
	0b1111111, // 8
	0b1100111, // 9
}

// NewLS47 returns a 74LS47 BCD to seven-segment decoder/driver.
//
// BCD inputs A,B,C,D on pins 7,1,2,6; lamp test LT̅ on 3, blanking BI̅ on 4,
// ripple blanking RBI̅ on 5. Segment outputs a..g on pins 13,12,11,10,9,15,14,
// active low (LOW lights the segment).
//
// LT̅ LOW lights every segment. BI̅ LOW (with LT̅ HIGH) blanks the display.
// RBI̅ LOW blanks a zero. Codes above 9 are blank.
//
func NewLS47(id string) *ttlsim.Chip {
	segs := [7]int{13, 12, 11, 10, 9, 15, 14}
	const (
		pinB, pinC, pinLT, pinBI, pinRBI, pinD, pinA = 1, 2, 3, 4, 5, 6, 7
	)
	ch := ttlsim.NewChip(id, "74LS47", 16)
	ch.Declare(ttlsim.PinInput, pinA, pinB, pinC, pinD, pinLT, pinBI, pinRBI)
	ch.Declare(ttlsim.PinOutput, segs[:]...)
	drive := func(mask uint8) []ttlsim.PinState {
		var out []ttlsim.PinState
		for i, p := range segs {
			// active low: a set bit lights the segment
			out = append(out, ttlsim.PinState{Pin: p, State: level(mask&(1<<i) == 0)})
		}
		return out
	}
	ch.SetEval(func(ch *ttlsim.Chip) []ttlsim.PinState {
		if !ch.IsPowered() {
			return ch.AllOutputs(ttlsim.Float)
		}
		lt, bi, rbi := ch.InputState(pinLT), ch.InputState(pinBI), ch.InputState(pinRBI)
		if lt == ttlsim.Error || bi == ttlsim.Error {
			return ch.AllOutputs(ttlsim.Error)
		}
		if !high(lt) {
			return drive(0b1111111)
		}
		if !high(bi) {
			return drive(0)
		}
		idx, ok := selIndex(ch.InputState(pinA), ch.InputState(pinB), ch.InputState(pinC), ch.InputState(pinD))
		if !ok || rbi == ttlsim.Error {
			return ch.AllOutputs(ttlsim.Error)
		}
		if idx == 0 && !high(rbi) {
			return drive(0)
		}
		if idx > 9 {
			return drive(0)
		}
		return drive(segPatterns[idx])
	}, nil)
	return ch
}
