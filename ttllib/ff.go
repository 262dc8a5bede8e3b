// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ttllib

import (
	"github.com/db47h/ttlsim"
)

// ffPins names the per-flip-flop pins of a dual flip-flop package.
type ffPins struct {
	clk, pr, clr, q, qn int
}

// dffStep applies the async-override priority common to the LS74/LS76
// family and returns the updated stored state. clocked is invoked only when
// no override is active and the clock edge fired.
//
// Both overrides asserted force the state HIGH; the datasheet calls that
// configuration invalid, this kernel resolves it deterministically.
func dffStep(ch *ttlsim.Chip, p ffPins, q ttlsim.State, edge bool, clocked func() ttlsim.State) ttlsim.State {
	pr, clr := ch.InputState(p.pr), ch.InputState(p.clr)
	switch {
	case pr == ttlsim.Error || clr == ttlsim.Error:
		return ttlsim.Error
	case !high(pr):
		return ttlsim.High
	case !high(clr):
		return ttlsim.Low
	case edge:
		return clocked()
	}
	return q
}

// NewLS74 returns a 74LS74 dual D-type positive-edge-triggered flip-flop
// with preset and clear.
//
// FF1: CLR̄=1, D=2, CLK=3, PR̄=4, Q=5, Q̄=6. FF2: CLR̄=13, D=12, CLK=11,
// PR̄=10, Q=9, Q̄=8. Q̄ always drives the complement of Q.
//
func NewLS74(id string) *ttlsim.Chip {
	ffs := [2]ffPins{
		{clk: 3, pr: 4, clr: 1, q: 5, qn: 6},
		{clk: 11, pr: 10, clr: 13, q: 9, qn: 8},
	}
	d := [2]int{2, 12}
	var q [2]ttlsim.State
	ch := ttlsim.NewChip(id, "74LS74", 14)
	for i, p := range ffs {
		ch.Declare(ttlsim.PinInput, d[i], p.pr, p.clr)
		ch.Declare(ttlsim.PinClock, p.clk)
		ch.Declare(ttlsim.PinOutput, p.q, p.qn)
	}
	ch.SetEval(func(ch *ttlsim.Chip) []ttlsim.PinState {
		var edge [2]bool
		for i, p := range ffs {
			edge[i] = ch.ClockEdge(p.clk, true)
		}
		if !ch.IsPowered() {
			return ch.AllOutputs(ttlsim.Float)
		}
		var out []ttlsim.PinState
		for i, p := range ffs {
			i := i
			q[i] = dffStep(ch, p, q[i], edge[i], func() ttlsim.State {
				return ch.InputState(d[i])
			})
			out = append(out,
				ttlsim.PinState{Pin: p.q, State: q[i]},
				ttlsim.PinState{Pin: p.qn, State: q[i].Invert()})
		}
		return out
	}, func() { q[0], q[1] = ttlsim.Low, ttlsim.Low })
	return ch
}

// NewLS76 returns a 74LS76 dual JK negative-edge-triggered flip-flop with
// preset and clear.
//
// This part uses the trainer's non-standard 16-pin layout with VCC on 5 and
// GND on 7. FF1: CLK=1, PR̄=2, CLR̄=3, J=4, K=16, Q=15, Q̄=13. FF2: CLK=6,
// PR̄=8, CLR̄=9, J=14, K=12, Q=11, Q̄=10.
//
// On a falling clock edge: J=K=LOW holds, J HIGH sets, K HIGH resets, both
// HIGH toggles.
//
func NewLS76(id string) *ttlsim.Chip {
	ffs := [2]ffPins{
		{clk: 1, pr: 2, clr: 3, q: 15, qn: 13},
		{clk: 6, pr: 8, clr: 9, q: 11, qn: 10},
	}
	j := [2]int{4, 14}
	k := [2]int{16, 12}
	var q [2]ttlsim.State
	ch := ttlsim.NewChip(id, "74LS76", 16).SetPowerPins(5, 7)
	for i, p := range ffs {
		ch.Declare(ttlsim.PinInput, j[i], k[i], p.pr, p.clr)
		ch.Declare(ttlsim.PinClock, p.clk)
		ch.Declare(ttlsim.PinOutput, p.q, p.qn)
	}
	ch.SetEval(func(ch *ttlsim.Chip) []ttlsim.PinState {
		var edge [2]bool
		for i, p := range ffs {
			edge[i] = ch.ClockEdge(p.clk, false)
		}
		if !ch.IsPowered() {
			return ch.AllOutputs(ttlsim.Float)
		}
		var out []ttlsim.PinState
		for i, p := range ffs {
			i := i
			q[i] = dffStep(ch, p, q[i], edge[i], func() ttlsim.State {
				vj, vk := ch.InputState(j[i]), ch.InputState(k[i])
				if vj == ttlsim.Error || vk == ttlsim.Error {
					return ttlsim.Error
				}
				switch {
				case high(vj) && high(vk):
					return q[i].Invert()
				case high(vj):
					return ttlsim.High
				case high(vk):
					return ttlsim.Low
				}
				return q[i]
			})
			out = append(out,
				ttlsim.PinState{Pin: p.q, State: q[i]},
				ttlsim.PinState{Pin: p.qn, State: q[i].Invert()})
		}
		return out
	}, func() { q[0], q[1] = ttlsim.Low, ttlsim.Low })
	return ch
}
