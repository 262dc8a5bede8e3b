// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ttllib

import (
	"github.com/db47h/ttlsim"
)

// NewLS283 returns a 74LS283 4-bit binary full adder with fast carry.
//
// Operand pins, least significant bit first: A1..A4 on 5,3,14,12 and B1..B4
// on 6,2,15,11. Carry in C0 on 7. Sums Σ1..Σ4 on 4,1,13,10 and carry out C4
// on 9.
//
// The evaluator ripples the carry: an ERROR on a low-order input poisons
// that bit's sum and everything above it, but leaves the sums below intact.
//
func NewLS283(id string) *ttlsim.Chip {
	a := [4]int{5, 3, 14, 12}
	b := [4]int{6, 2, 15, 11}
	sum := [4]int{4, 1, 13, 10}
	const pinC0, pinC4 = 7, 9
	ch := ttlsim.NewChip(id, "74LS283", 16)
	ch.Declare(ttlsim.PinInput, a[:]...)
	ch.Declare(ttlsim.PinInput, b[:]...)
	ch.Declare(ttlsim.PinInput, pinC0)
	ch.Declare(ttlsim.PinOutput, sum[:]...)
	ch.Declare(ttlsim.PinOutput, pinC4)
	ch.SetEval(func(ch *ttlsim.Chip) []ttlsim.PinState {
		if !ch.IsPowered() {
			return ch.AllOutputs(ttlsim.Float)
		}
		carry := ch.InputState(pinC0)
		var out []ttlsim.PinState
		for i := 0; i < 4; i++ {
			va, vb := ch.InputState(a[i]), ch.InputState(b[i])
			if va == ttlsim.Error || vb == ttlsim.Error || carry == ttlsim.Error {
				out = append(out, ttlsim.PinState{Pin: sum[i], State: ttlsim.Error})
				carry = ttlsim.Error
				continue
			}
			n := 0
			if high(va) {
				n++
			}
			if high(vb) {
				n++
			}
			if high(carry) {
				n++
			}
			out = append(out, ttlsim.PinState{Pin: sum[i], State: level(n&1 == 1)})
			carry = level(n >= 2)
		}
		out = append(out, ttlsim.PinState{Pin: pinC4, State: carry})
		return out
	}, nil)
	return ch
}
