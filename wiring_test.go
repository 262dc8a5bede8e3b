// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ttlsim_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/db47h/ttlsim"
)

func newTestGraph(t *testing.T) (*ttlsim.Circuit, *ttlsim.Graph) {
	t.Helper()
	c := ttlsim.New()
	return c, ttlsim.NewGraph(c)
}

func registerPins(c *ttlsim.Circuit, g *ttlsim.Graph, typ ttlsim.PinType, pins ...string) {
	for _, p := range pins {
		g.RegisterPin(p, c.NewNet(), typ, "")
	}
}

func TestGraph_validation(t *testing.T) {
	c, g := newTestGraph(t)
	registerPins(c, g, ttlsim.PinInput, "in-1", "in-2")
	registerPins(c, g, ttlsim.PinOutput, "out-1", "out-2")
	vcc, gnd := c.NewNet(), c.NewNet()
	c.MarkVCC(vcc)
	c.MarkGND(gnd)
	g.RegisterPin("vcc", vcc, ttlsim.PinPower, "")
	g.RegisterPin("gnd", gnd, ttlsim.PinPower, "")

	_, err := g.AddWire("out-1", "in-1", "blue")
	require.NoError(t, err)

	td := []struct {
		name     string
		src, tgt string
		kind     ttlsim.WireErrorKind
	}{
		{"self connect", "in-1", "in-1", ttlsim.SelfConnect},
		{"duplicate", "out-1", "in-1", ttlsim.Duplicate},
		{"duplicate reversed", "in-1", "out-1", ttlsim.Duplicate},
		{"output to output", "out-1", "out-2", ttlsim.OutputOutput},
		{"rail short", "vcc", "gnd", ttlsim.RailShort},
		{"rail short reversed", "gnd", "vcc", ttlsim.RailShort},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			var hookSrc, hookTgt string
			var hookKind ttlsim.WireErrorKind
			g.OnWireError = func(s, tg string, k ttlsim.WireErrorKind) {
				hookSrc, hookTgt, hookKind = s, tg, k
			}
			before := len(g.Wires())
			id, err := g.AddWire(d.src, d.tgt, "blue")
			assert.Zero(t, id)
			require.Error(t, err)
			var werr *ttlsim.WireError
			require.True(t, errors.As(err, &werr))
			assert.Equal(t, d.kind, werr.Kind)
			assert.Equal(t, d.src, hookSrc)
			assert.Equal(t, d.tgt, hookTgt)
			assert.Equal(t, d.kind, hookKind)
			assert.Equal(t, before, len(g.Wires()))
		})
	}
}

// Wiring a pin already connected to the VCC rail to one on the GND rail is
// still a rail short.
func TestGraph_railShortTransitive(t *testing.T) {
	c, g := newTestGraph(t)
	registerPins(c, g, ttlsim.PinInput, "a", "b")
	vcc, gnd := c.NewNet(), c.NewNet()
	c.MarkVCC(vcc)
	c.MarkGND(gnd)
	g.RegisterPin("vcc", vcc, ttlsim.PinPower, "")
	g.RegisterPin("gnd", gnd, ttlsim.PinPower, "")
	_, err := g.AddWire("vcc", "a", "red")
	require.NoError(t, err)
	_, err = g.AddWire("gnd", "b", "black")
	require.NoError(t, err)
	_, err = g.AddWire("a", "b", "blue")
	var werr *ttlsim.WireError
	require.True(t, errors.As(err, &werr))
	assert.Equal(t, ttlsim.RailShort, werr.Kind)
}

func TestGraph_transitivity(t *testing.T) {
	c, g := newTestGraph(t)
	registerPins(c, g, ttlsim.PinInput, "a", "b", "c")
	_, err := g.AddWire("a", "b", "blue")
	require.NoError(t, err)
	_, err = g.AddWire("b", "c", "blue")
	require.NoError(t, err)
	na, _ := g.PinNet("a")
	nc, _ := g.PinNet("c")
	assert.Equal(t, na, nc)
}

func TestGraph_mergeNotifies(t *testing.T) {
	c, g := newTestGraph(t)
	registerPins(c, g, ttlsim.PinInput, "a", "b")
	var gotPins []string
	var gotNet ttlsim.NetID
	g.OnNetUpdate = func(pins []string, n ttlsim.NetID) { gotPins, gotNet = pins, n }
	_, err := g.AddWire("a", "b", "blue")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, gotPins)
	na, _ := g.PinNet("a")
	assert.Equal(t, na, gotNet)
}

func TestGraph_removeSplitsNet(t *testing.T) {
	c, g := newTestGraph(t)
	registerPins(c, g, ttlsim.PinInput, "a", "b", "c")
	w1, err := g.AddWire("a", "b", "blue")
	require.NoError(t, err)
	_, err = g.AddWire("b", "c", "blue")
	require.NoError(t, err)

	var removed []ttlsim.Wire
	g.OnWireRemoved = func(w ttlsim.Wire) { removed = append(removed, w) }
	updates := make(map[string]ttlsim.NetID)
	g.OnNetUpdate = func(pins []string, n ttlsim.NetID) {
		for _, p := range pins {
			updates[p] = n
		}
	}

	require.True(t, g.RemoveWire(w1))
	require.Len(t, removed, 1)
	assert.Equal(t, w1, removed[0].ID)

	na, _ := g.PinNet("a")
	nb, _ := g.PinNet("b")
	nc, _ := g.PinNet("c")
	assert.NotEqual(t, na, nb, "removal must split a from b")
	assert.Equal(t, nb, nc, "b and c stay connected")
	// every pin was announced on its rebuilt net
	assert.Equal(t, na, updates["a"])
	assert.Equal(t, nb, updates["b"])
	assert.Equal(t, nc, updates["c"])
}

func TestGraph_removeUnknownWire(t *testing.T) {
	_, g := newTestGraph(t)
	assert.False(t, g.RemoveWire(42))
}

// Adding then removing a wire leaves the endpoints with the same driver and
// listener behavior as before, even though the net identities changed.
func TestGraph_addRemoveRestoresBehavior(t *testing.T) {
	c, g := newTestGraph(t)
	registerPins(c, g, ttlsim.PinOutput, "src")
	registerPins(c, g, ttlsim.PinInput, "dst")

	level := ttlsim.Low
	srcNet, _ := g.PinNet("src")
	drv := c.AddDriver(srcNet, func() ttlsim.State { return level })
	c.Step(0)

	// a controller re-registering on net updates, as the chip framework does
	g.OnNetUpdate = func(pins []string, n ttlsim.NetID) {
		for _, p := range pins {
			if p == "src" && drv.Net != n {
				drv = c.AddDriver(n, drv.Fn)
			}
		}
	}

	id, err := g.AddWire("src", "dst", "blue")
	require.NoError(t, err)
	c.Step(0)
	dstNet, _ := g.PinNet("dst")
	assert.Equal(t, ttlsim.Low, c.State(dstNet))

	require.True(t, g.RemoveWire(id))
	c.Step(0)

	// the destination floats again, independent of the source level
	level = ttlsim.High
	srcNet, _ = g.PinNet("src")
	c.ScheduleNetUpdate(srcNet, 0)
	c.Step(0)
	dstNet, _ = g.PinNet("dst")
	assert.Equal(t, ttlsim.Float, c.State(dstNet))
	assert.Equal(t, ttlsim.High, c.State(srcNet))
}

func TestGraph_wireAddedHook(t *testing.T) {
	c, g := newTestGraph(t)
	registerPins(c, g, ttlsim.PinInput, "a", "b")
	var added ttlsim.Wire
	g.OnWireAdded = func(w ttlsim.Wire) { added = w }
	id, err := g.AddWire("a", "b", "green")
	require.NoError(t, err)
	assert.Equal(t, id, added.ID)
	assert.Equal(t, "green", added.Color)
}

// Pins never registered get a fresh net on first wiring.
func TestGraph_lazyPinRegistration(t *testing.T) {
	_, g := newTestGraph(t)
	_, err := g.AddWire("x", "y", "blue")
	require.NoError(t, err)
	nx, ok := g.PinNet("x")
	require.True(t, ok)
	ny, _ := g.PinNet("y")
	assert.Equal(t, nx, ny)
}
