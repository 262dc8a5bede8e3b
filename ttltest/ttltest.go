// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package ttltest provides a board harness for exercising the ttlsim kernel
// in tests and demos: a powered breadboard with rail pins, chip sockets,
// switches, clocks and LEDs, wired together by pin identifier.
//
package ttltest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/db47h/ttlsim"
	"github.com/db47h/ttlsim/ttllib"
)

// Rail pin identifiers.
const (
	VCC = "vcc"
	GND = "gnd"
)

// A Board assembles a circuit, its wiring graph, the master power switch
// and the components socketed so far. It owns the controller-side half of
// the net-update protocol: when the graph merges or rebuilds nets, the board
// rebinds the affected chips and I/O devices.
//
type Board struct {
	Circuit *ttlsim.Circuit
	Graph   *ttlsim.Graph
	Power   *ttlsim.Power

	chips    map[string]*ttlsim.Chip
	switches map[string]*ttlsim.Switch
	clocks   map[string]*ttlsim.ClockSource
	buttons  map[string]*ttlsim.PushButton
	leds     map[string]*ttlsim.LED
}

// New builds an empty board with its VCC and GND rails registered and power
// off.
//
func New() *Board {
	c := ttlsim.New()
	g := ttlsim.NewGraph(c)
	b := &Board{
		Circuit:  c,
		Graph:    g,
		chips:    make(map[string]*ttlsim.Chip),
		switches: make(map[string]*ttlsim.Switch),
		clocks:   make(map[string]*ttlsim.ClockSource),
		buttons:  make(map[string]*ttlsim.PushButton),
		leds:     make(map[string]*ttlsim.LED),
	}
	vcc, gnd := c.NewNet(), c.NewNet()
	g.RegisterPin(VCC, vcc, ttlsim.PinPower, "")
	g.RegisterPin(GND, gnd, ttlsim.PinPower, "")
	b.Power = ttlsim.NewPower(c, vcc, gnd)
	g.OnNetUpdate = b.rebind
	return b
}

// rebind is the board's OnNetUpdate hook: every pin named in a merge or
// rebuild has its owner's cached NetID refreshed.
func (b *Board) rebind(pins []string, net ttlsim.NetID) {
	for _, pin := range pins {
		switch {
		case pin == VCC:
			b.Power.Rebind(true, net)
		case pin == GND:
			b.Power.Rebind(false, net)
		default:
			if id, ok := b.Graph.PinChip(pin); ok {
				if ch := b.chips[id]; ch != nil {
					if n, ok := chipPinNum(pin); ok {
						ch.Rebind(n, net)
					}
				}
				continue
			}
			if s := b.switches[pin]; s != nil {
				s.Rebind(net)
			}
			if k := b.clocks[pin]; k != nil {
				k.Rebind(net)
			}
			if p := b.buttons[pin]; p != nil {
				p.Rebind(net)
			}
			if l := b.leds[pin]; l != nil {
				l.Rebind(net)
			}
		}
	}
}

// chipPinNum extracts N from a "<socket>-pin-<N>" identifier.
func chipPinNum(pin string) (int, bool) {
	i := strings.LastIndex(pin, "-pin-")
	if i < 0 {
		return 0, false
	}
	n, err := strconv.Atoi(pin[i+len("-pin-"):])
	if err != nil {
		return 0, false
	}
	return n, true
}

// PinID returns the wiring identifier of a chip pin.
//
func PinID(chip string, pin int) string {
	return fmt.Sprintf("%s-pin-%d", chip, pin)
}

// Socket instantiates a catalogue part, creates one net per pin, registers
// the pins with the graph and runs the chip's setup protocol.
//
func (b *Board) Socket(part, id string) (*ttlsim.Chip, error) {
	ch, err := ttllib.New(part, id)
	if err != nil {
		return nil, errors.Wrapf(err, "socket %s", id)
	}
	for p := 1; p <= ch.Pins; p++ {
		n := b.Circuit.NewNet()
		ch.SetPinNode(p, n)
		b.Graph.RegisterPin(PinID(id, p), n, ch.PinType(p), id)
	}
	ch.Setup(b.Circuit)
	b.chips[id] = ch
	return ch, nil
}

// WirePower runs rail wires to a socketed chip's power pins.
//
func (b *Board) WirePower(id string) error {
	ch := b.chips[id]
	if ch == nil {
		return errors.Errorf("no chip socketed as %q", id)
	}
	if _, err := b.Graph.AddWire(VCC, PinID(id, ch.VCCPin()), "red"); err != nil {
		return err
	}
	_, err := b.Graph.AddWire(GND, PinID(id, ch.GNDPin()), "black")
	return err
}

// Wire adds a wire between two pins.
//
func (b *Board) Wire(source, target string) (ttlsim.WireID, error) {
	return b.Graph.AddWire(source, target, "blue")
}

// AddSwitch registers a toggle switch as a pin of its own.
//
func (b *Board) AddSwitch(pin string) *ttlsim.Switch {
	n := b.Circuit.NewNet()
	b.Graph.RegisterPin(pin, n, ttlsim.PinOutput, "")
	s := ttlsim.NewSwitch(b.Circuit, n, b.Power.On)
	b.switches[pin] = s
	return s
}

// AddClock registers a clock generator as a pin of its own.
//
func (b *Board) AddClock(pin string, freqHz float64) *ttlsim.ClockSource {
	n := b.Circuit.NewNet()
	b.Graph.RegisterPin(pin, n, ttlsim.PinOutput, "")
	k := ttlsim.NewClock(b.Circuit, n, freqHz, b.Power.On)
	b.clocks[pin] = k
	return k
}

// AddButton registers a mono-pulse push button as a pin of its own.
//
func (b *Board) AddButton(pin string) *ttlsim.PushButton {
	n := b.Circuit.NewNet()
	b.Graph.RegisterPin(pin, n, ttlsim.PinOutput, "")
	p := ttlsim.NewPushButton(b.Circuit, n, b.Power.On)
	b.buttons[pin] = p
	return p
}

// AddLED registers an LED as a pin of its own.
//
func (b *Board) AddLED(pin string) *ttlsim.LED {
	n := b.Circuit.NewNet()
	b.Graph.RegisterPin(pin, n, ttlsim.PinNC, "")
	l := ttlsim.NewLED(b.Circuit, n)
	b.leds[pin] = l
	return l
}

// Chip returns a socketed chip by identifier.
//
func (b *Board) Chip(id string) *ttlsim.Chip { return b.chips[id] }

// PinState reads the current state of the net a pin belongs to.
//
func (b *Board) PinState(pin string) ttlsim.State {
	n, ok := b.Graph.PinNet(pin)
	if !ok {
		return ttlsim.Float
	}
	return b.Circuit.State(n)
}

// Run advances simulated time by d nanoseconds.
//
func (b *Board) Run(d int64) { b.Circuit.Run(d) }

// Settle runs the board long enough for a handful of propagation delays to
// play out.
//
func (b *Board) Settle() { b.Run(20 * ttlsim.DefaultDelay) }
