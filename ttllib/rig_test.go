// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ttllib_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/db47h/ttlsim"
	"github.com/db47h/ttlsim/ttllib"
)

// rig puts a single catalogue part on a minimal bench: one net per pin,
// rails driven from a power flag, and one settable driver per input pin.
type rig struct {
	t       *testing.T
	c       *ttlsim.Circuit
	ch      *ttlsim.Chip
	powered bool
	in      map[int]ttlsim.State
}

func newRig(t *testing.T, part string) *rig {
	t.Helper()
	r := &rig{t: t, c: ttlsim.New(), powered: true, in: make(map[int]ttlsim.State)}
	ch, err := ttllib.New(part, "ic-1")
	require.NoError(t, err)
	r.ch = ch
	for p := 1; p <= ch.Pins; p++ {
		ch.SetPinNode(p, r.c.NewNet())
	}
	r.c.AddDriver(ch.PinNode(ch.VCCPin()), func() ttlsim.State {
		if r.powered {
			return ttlsim.High
		}
		return ttlsim.Float
	})
	r.c.AddDriver(ch.PinNode(ch.GNDPin()), func() ttlsim.State {
		if r.powered {
			return ttlsim.Low
		}
		return ttlsim.Float
	})
	ch.Setup(r.c)
	r.settle()
	return r
}

// set drives an input pin and lets the board settle.
func (r *rig) set(pin int, s ttlsim.State) {
	r.t.Helper()
	if _, ok := r.in[pin]; !ok {
		r.in[pin] = s
		pin := pin
		r.c.AddDriver(r.ch.PinNode(pin), func() ttlsim.State { return r.in[pin] })
	} else {
		r.in[pin] = s
		r.c.ScheduleNetUpdate(r.ch.PinNode(pin), 0)
	}
	r.settle()
}

// setPower flips the rails and settles.
func (r *rig) setPower(on bool) {
	r.t.Helper()
	r.powered = on
	r.c.ScheduleNetUpdate(r.ch.PinNode(r.ch.VCCPin()), 0)
	r.c.ScheduleNetUpdate(r.ch.PinNode(r.ch.GNDPin()), 0)
	r.settle()
}

// out reads the net state of an output pin.
func (r *rig) out(pin int) ttlsim.State {
	return r.c.State(r.ch.PinNode(pin))
}

// pulse takes a clock pin through one full LOW-HIGH-LOW swing.
func (r *rig) pulse(pin int) {
	r.set(pin, ttlsim.Low)
	r.set(pin, ttlsim.High)
	r.set(pin, ttlsim.Low)
}

func (r *rig) settle() {
	r.c.Run(100 * ttlsim.DefaultDelay)
}
