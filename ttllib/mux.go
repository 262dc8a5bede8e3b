// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ttllib

import (
	"github.com/db47h/ttlsim"
)

// selIndex folds select lines (LSB first) into an index, or reports an
// Error on any of them.
func selIndex(lines ...ttlsim.State) (int, bool) {
	idx := 0
	for i, s := range lines {
		if s == ttlsim.Error {
			return 0, false
		}
		if high(s) {
			idx |= 1 << i
		}
	}
	return idx, true
}

// NewLS151 returns a 74LS151 8-line to 1-line data selector.
//
// Data inputs D0..D7 on pins 4,3,2,1,15,14,13,12; select A,B,C on 11,10,9;
// active-low strobe on 7; Y on 5 and its complement W on 6.
//
func NewLS151(id string) *ttlsim.Chip {
	data := [8]int{4, 3, 2, 1, 15, 14, 13, 12}
	const (
		pinY, pinW, pinStrobe = 5, 6, 7
		pinA, pinB, pinC      = 11, 10, 9
	)
	ch := ttlsim.NewChip(id, "74LS151", 16)
	ch.Declare(ttlsim.PinInput, data[:]...)
	ch.Declare(ttlsim.PinInput, pinA, pinB, pinC, pinStrobe)
	ch.Declare(ttlsim.PinOutput, pinY, pinW)
	ch.SetEval(func(ch *ttlsim.Chip) []ttlsim.PinState {
		if !ch.IsPowered() {
			return ch.AllOutputs(ttlsim.Float)
		}
		strobe := ch.InputState(pinStrobe)
		if strobe == ttlsim.Error {
			return ch.AllOutputs(ttlsim.Error)
		}
		if high(strobe) {
			return []ttlsim.PinState{{Pin: pinY, State: ttlsim.Low}, {Pin: pinW, State: ttlsim.High}}
		}
		idx, ok := selIndex(ch.InputState(pinA), ch.InputState(pinB), ch.InputState(pinC))
		if !ok {
			return ch.AllOutputs(ttlsim.Error)
		}
		y := ch.InputState(data[idx])
		return []ttlsim.PinState{{Pin: pinY, State: y}, {Pin: pinW, State: y.Invert()}}
	}, nil)
	return ch
}

// NewLS153 returns a 74LS153 dual 4-line to 1-line data selector.
//
// Halves share select lines A (pin 14) and B (pin 2). Half 1: enable 1Ḡ on
// 1, inputs 1C0..1C3 on 6,5,4,3, output 1Y on 7. Half 2: enable 2Ḡ on 15,
// inputs 2C0..2C3 on 10,11,12,13, output 2Y on 9. A disabled half outputs
// LOW.
//
func NewLS153(id string) *ttlsim.Chip {
	type half struct {
		enable int
		data   [4]int
		y      int
	}
	halves := [2]half{
		{enable: 1, data: [4]int{6, 5, 4, 3}, y: 7},
		{enable: 15, data: [4]int{10, 11, 12, 13}, y: 9},
	}
	const pinA, pinB = 14, 2
	ch := ttlsim.NewChip(id, "74LS153", 16)
	ch.Declare(ttlsim.PinInput, pinA, pinB)
	for _, h := range halves {
		ch.Declare(ttlsim.PinInput, h.enable)
		ch.Declare(ttlsim.PinInput, h.data[:]...)
		ch.Declare(ttlsim.PinOutput, h.y)
	}
	ch.SetEval(func(ch *ttlsim.Chip) []ttlsim.PinState {
		if !ch.IsPowered() {
			return ch.AllOutputs(ttlsim.Float)
		}
		var out []ttlsim.PinState
		for _, h := range halves {
			en := ch.InputState(h.enable)
			var y ttlsim.State
			switch {
			case en == ttlsim.Error:
				y = ttlsim.Error
			case high(en): // enable is active low
				y = ttlsim.Low
			default:
				idx, ok := selIndex(ch.InputState(pinA), ch.InputState(pinB))
				if !ok {
					y = ttlsim.Error
				} else {
					y = ch.InputState(h.data[idx])
				}
			}
			out = append(out, ttlsim.PinState{Pin: h.y, State: y})
		}
		return out
	}, nil)
	return ch
}

// NewLS157 returns a 74LS157 quad 2-line to 1-line data selector.
//
// Common select on pin 1, active-low strobe on 15. Sections (A,B,Y):
// (2,3,4), (5,6,7), (11,10,9), (14,13,12). Strobe HIGH forces all Y LOW;
// otherwise Y follows B when select is HIGH, A when LOW.
//
func NewLS157(id string) *ttlsim.Chip {
	sections := [4][3]int{{2, 3, 4}, {5, 6, 7}, {11, 10, 9}, {14, 13, 12}}
	const pinSelect, pinStrobe = 1, 15
	ch := ttlsim.NewChip(id, "74LS157", 16)
	ch.Declare(ttlsim.PinInput, pinSelect, pinStrobe)
	for _, s := range sections {
		ch.Declare(ttlsim.PinInput, s[0], s[1])
		ch.Declare(ttlsim.PinOutput, s[2])
	}
	ch.SetEval(func(ch *ttlsim.Chip) []ttlsim.PinState {
		if !ch.IsPowered() {
			return ch.AllOutputs(ttlsim.Float)
		}
		strobe, sel := ch.InputState(pinStrobe), ch.InputState(pinSelect)
		if strobe == ttlsim.Error {
			return ch.AllOutputs(ttlsim.Error)
		}
		if high(strobe) {
			return ch.AllOutputs(ttlsim.Low)
		}
		if sel == ttlsim.Error {
			return ch.AllOutputs(ttlsim.Error)
		}
		var out []ttlsim.PinState
		for _, s := range sections {
			y := ch.InputState(s[0])
			if high(sel) {
				y = ch.InputState(s[1])
			}
			out = append(out, ttlsim.PinState{Pin: s[2], State: y})
		}
		return out
	}, nil)
	return ch
}
