// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ttllib_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/db47h/ttlsim"
)

// LS74 FF1: CLR=1 D=2 CLK=3 PR=4 Q=5 Qn=6.

func TestLS74_risingEdgeLatch(t *testing.T) {
	r := newRig(t, "74LS74")
	r.set(1, ttlsim.High) // CLR inactive
	r.set(4, ttlsim.High) // PR inactive
	r.set(3, ttlsim.Low)
	r.set(2, ttlsim.High)
	require.Equal(t, ttlsim.Low, r.out(5), "reset state before any edge")

	r.set(3, ttlsim.High) // rising edge latches D
	assert.Equal(t, ttlsim.High, r.out(5))
	assert.Equal(t, ttlsim.Low, r.out(6))

	r.set(2, ttlsim.Low) // D changes without an edge: no effect
	assert.Equal(t, ttlsim.High, r.out(5))
	r.set(3, ttlsim.Low) // falling edge: no effect
	assert.Equal(t, ttlsim.High, r.out(5))
	r.set(3, ttlsim.High) // next rising edge latches the LOW
	assert.Equal(t, ttlsim.Low, r.out(5))
	assert.Equal(t, ttlsim.High, r.out(6))
}

func TestLS74_asyncOverrides(t *testing.T) {
	r := newRig(t, "74LS74")
	r.set(2, ttlsim.High)
	r.set(3, ttlsim.Low)
	r.set(4, ttlsim.High)
	r.set(1, ttlsim.Low) // clear
	assert.Equal(t, ttlsim.Low, r.out(5))
	// clock edges are ignored while clear is asserted
	r.pulse(3)
	assert.Equal(t, ttlsim.Low, r.out(5))

	r.set(1, ttlsim.High)
	r.set(4, ttlsim.Low) // preset
	assert.Equal(t, ttlsim.High, r.out(5))
	assert.Equal(t, ttlsim.Low, r.out(6))

	// both asserted resolves deterministically to Q HIGH
	r.set(1, ttlsim.Low)
	assert.Equal(t, ttlsim.High, r.out(5))
}

// Releasing an async override must not manufacture a clock edge.
func TestLS74_noEdgeOnOverrideRelease(t *testing.T) {
	r := newRig(t, "74LS74")
	r.set(4, ttlsim.High)
	r.set(2, ttlsim.High) // D high
	r.set(3, ttlsim.High) // clock sits high
	r.set(1, ttlsim.Low)  // clear asserted after the clock went high
	require.Equal(t, ttlsim.Low, r.out(5))
	r.set(1, ttlsim.High) // release: clock level unchanged, no edge
	assert.Equal(t, ttlsim.Low, r.out(5))
}

func TestLS74_secondFlipFlop(t *testing.T) {
	// FF2: CLR=13 D=12 CLK=11 PR=10 Q=9 Qn=8
	r := newRig(t, "74LS74")
	r.set(13, ttlsim.High)
	r.set(10, ttlsim.High)
	r.set(12, ttlsim.High)
	r.set(11, ttlsim.Low)
	r.set(11, ttlsim.High)
	assert.Equal(t, ttlsim.High, r.out(9))
	assert.Equal(t, ttlsim.Low, r.out(8))
}

// LS76 FF1: CLK=1 PR=2 CLR=3 J=4 K=16 Q=15 Qn=13, falling edge.

func TestLS76_toggle(t *testing.T) {
	r := newRig(t, "74LS76")
	r.set(2, ttlsim.High)
	r.set(3, ttlsim.High)
	r.set(4, ttlsim.High)  // J
	r.set(16, ttlsim.High) // K
	// the clock floated HIGH until now, so driving it LOW is itself a
	// falling edge and toggles once
	r.set(1, ttlsim.Low)
	require.Equal(t, ttlsim.High, r.out(15))
	want := []ttlsim.State{ttlsim.Low, ttlsim.High, ttlsim.Low, ttlsim.High}
	for i, w := range want {
		r.set(1, ttlsim.High)
		assert.Equal(t, w.Invert(), r.out(15), "rising edge %d must not toggle", i)
		r.set(1, ttlsim.Low) // falling edge toggles
		assert.Equal(t, w, r.out(15), "after falling edge %d", i)
		assert.Equal(t, w.Invert(), r.out(13))
	}
}

func TestLS76_jkModes(t *testing.T) {
	r := newRig(t, "74LS76")
	r.set(2, ttlsim.High)
	r.set(3, ttlsim.High)
	r.set(1, ttlsim.Low)

	r.set(4, ttlsim.High) // J=1 K=0 sets
	r.set(16, ttlsim.Low)
	r.pulse(1)
	require.Equal(t, ttlsim.High, r.out(15))

	r.set(4, ttlsim.Low) // J=0 K=0 holds
	r.set(16, ttlsim.Low)
	r.pulse(1)
	assert.Equal(t, ttlsim.High, r.out(15))

	r.set(16, ttlsim.High) // J=0 K=1 resets
	r.pulse(1)
	assert.Equal(t, ttlsim.Low, r.out(15))
}

func TestLS76_asyncClear(t *testing.T) {
	r := newRig(t, "74LS76")
	r.set(2, ttlsim.High)
	r.set(3, ttlsim.High)
	r.set(4, ttlsim.High)
	r.set(16, ttlsim.Low)
	r.set(1, ttlsim.Low)
	r.pulse(1)
	require.Equal(t, ttlsim.High, r.out(15))
	r.set(3, ttlsim.Low) // clear
	assert.Equal(t, ttlsim.Low, r.out(15))
	assert.Equal(t, ttlsim.High, r.out(13))
}

// Reset clears the stored bits and the clock history.
func TestFF_reset(t *testing.T) {
	r := newRig(t, "74LS76")
	r.set(2, ttlsim.High)
	r.set(3, ttlsim.High)
	r.set(4, ttlsim.High)
	r.set(16, ttlsim.Low)
	r.set(1, ttlsim.Low)
	r.pulse(1)
	require.Equal(t, ttlsim.High, r.out(15))
	r.ch.Reset()
	r.settle()
	assert.Equal(t, ttlsim.Low, r.out(15))
	assert.Equal(t, ttlsim.High, r.out(13))
}

func TestFF_unpoweredFloatsAndIgnoresEdges(t *testing.T) {
	r := newRig(t, "74LS74")
	r.set(1, ttlsim.High)
	r.set(4, ttlsim.High)
	r.set(2, ttlsim.High)
	r.set(3, ttlsim.Low)
	r.setPower(false)
	r.pulse(3)
	assert.Equal(t, ttlsim.Float, r.out(5))
	assert.Equal(t, ttlsim.Float, r.out(6))
	// power back: the state machine did not advance on the dark edge
	r.setPower(true)
	assert.Equal(t, ttlsim.Low, r.out(5))
}
