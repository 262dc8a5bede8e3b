// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ttlsim

import (
	log "github.com/sirupsen/logrus"
)

// DefaultDelay is the propagation delay of chip outputs, in nanoseconds.
//
const DefaultDelay int64 = 10

// A PinState pairs an output pin with the level an evaluator wants driven
// on it.
//
type PinState struct {
	Pin   int
	State State
}

// An EvalFn computes a chip's output levels from its current input states
// and whatever internal state it closes over. It runs inside
// TriggerEvaluation and must return a proposal for every output pin it wants
// changed; proposals equal to the current output register are ignored.
//
type EvalFn func(ch *Chip) []PinState

// A Chip is a fixed-pinout DIP part socketed on the board. The concrete
// 74LS parts in package ttllib are built by declaring pin types and
// installing an evaluator; the framework here owns the glue between the part
// and the net model:
//
//   - every OUTPUT pin drives its net from the chip's output register, but
//     only while the part has valid power;
//   - INPUT and CLOCK pins trigger an evaluation when their net transitions,
//     as do the power pins;
//   - output changes reach the net after Delay nanoseconds;
//   - inputs read floating nets as HIGH, the way real TTL inputs do.
//
type Chip struct {
	ID    string
	Name  string
	Pins  int   // 14 or 16
	Delay int64 // output propagation delay in ns

	c    *Circuit
	eval EvalFn
	zero func() // resets evaluator-held state

	typ       []PinType // indexed 1..Pins
	node      []NetID
	out       map[int]State
	lastClock map[int]State
	vccPin    int
	gndPin    int

	drv map[int]*DriverBinding
	lst map[int]*ListenerBinding

	evaluating bool
}

// NewChip returns a bare chip with every pin NC and the default power pins
// for its package size (14/7 for 14-pin, 16/8 for 16-pin). Parts with a
// non-standard power pinout override it with SetPowerPins.
//
func NewChip(id, name string, pins int) *Chip {
	ch := &Chip{
		ID:        id,
		Name:      name,
		Pins:      pins,
		Delay:     DefaultDelay,
		typ:       make([]PinType, pins+1),
		node:      make([]NetID, pins+1),
		out:       make(map[int]State),
		lastClock: make(map[int]State),
		drv:       make(map[int]*DriverBinding),
		lst:       make(map[int]*ListenerBinding),
		vccPin:    pins,
		gndPin:    pins / 2,
	}
	ch.typ[ch.vccPin] = PinPower
	ch.typ[ch.gndPin] = PinPower
	return ch
}

// Declare sets the type of the given pins.
//
func (ch *Chip) Declare(t PinType, pins ...int) *Chip {
	for _, p := range pins {
		ch.typ[p] = t
	}
	return ch
}

// SetPowerPins overrides the default VCC and GND pin indices.
//
func (ch *Chip) SetPowerPins(vcc, gnd int) *Chip {
	ch.typ[ch.vccPin] = PinNC
	ch.typ[ch.gndPin] = PinNC
	ch.vccPin, ch.gndPin = vcc, gnd
	ch.typ[vcc] = PinPower
	ch.typ[gnd] = PinPower
	return ch
}

// SetEval installs the part evaluator and the reset hook clearing the state
// it closes over.
//
func (ch *Chip) SetEval(eval EvalFn, zero func()) *Chip {
	ch.eval = eval
	ch.zero = zero
	return ch
}

// PinType returns the declared type of a pin.
//
func (ch *Chip) PinType(pin int) PinType { return ch.typ[pin] }

// VCCPin returns the VCC pin index.
//
func (ch *Chip) VCCPin() int { return ch.vccPin }

// GNDPin returns the ground pin index.
//
func (ch *Chip) GNDPin() int { return ch.gndPin }

// SetPinNode binds a pin to a net. Called by the controller at socket time,
// before Setup.
//
func (ch *Chip) SetPinNode(pin int, n NetID) { ch.node[pin] = n }

// PinNode returns the net a pin is bound to.
//
func (ch *Chip) PinNode(pin int) NetID { return ch.node[pin] }

// InputState reads a pin's net with TTL input coercion: a floating input
// reads HIGH. Error and driven levels pass through.
//
func (ch *Chip) InputState(pin int) State {
	s := ch.c.State(ch.node[pin])
	if s == Float {
		return High
	}
	return s
}

// IsPowered reports whether the chip has valid power: VCC net HIGH and GND
// net LOW. Floating or swapped rails read as unpowered.
//
func (ch *Chip) IsPowered() bool {
	if ch.c == nil {
		return false
	}
	return ch.c.State(ch.node[ch.vccPin]) == High && ch.c.State(ch.node[ch.gndPin]) == Low
}

// ClockEdge samples a CLOCK pin against its per-pin level history and
// reports whether the transition matches the wanted polarity. The current
// level is always stored, so callers sampling under an async override do not
// see a spurious edge when the override is released. An Error level never
// forms an edge.
//
func (ch *Chip) ClockEdge(pin int, rising bool) bool {
	cur := ch.InputState(pin)
	prev, ok := ch.lastClock[pin]
	ch.lastClock[pin] = cur
	if !ok {
		return false
	}
	if rising {
		return prev == Low && cur == High
	}
	return prev == High && cur == Low
}

// Outputs returns the chip's OUTPUT pin indices in ascending order.
//
func (ch *Chip) Outputs() []int {
	var pins []int
	for p := 1; p <= ch.Pins; p++ {
		if ch.typ[p] == PinOutput {
			pins = append(pins, p)
		}
	}
	return pins
}

// AllOutputs builds a proposal driving every OUTPUT pin to the same level.
// The unpowered branch of an evaluator returns AllOutputs(Float) so
// listeners get notified on power-down.
//
func (ch *Chip) AllOutputs(s State) []PinState {
	var ps []PinState
	for _, p := range ch.Outputs() {
		ps = append(ps, PinState{Pin: p, State: s})
	}
	return ps
}

// Setup wires the chip into the circuit, once, after all pin nets are
// bound: output drivers gated on power, evaluation-triggering listeners on
// inputs, clocks and the power pins, and an initial evaluation.
//
func (ch *Chip) Setup(c *Circuit) {
	ch.c = c
	trigger := func(State) { ch.TriggerEvaluation() }
	for p := 1; p <= ch.Pins; p++ {
		switch ch.typ[p] {
		case PinOutput:
			ch.out[p] = Float
			ch.drv[p] = c.AddDriver(ch.node[p], ch.outputDriver(p))
		case PinInput, PinClock:
			ch.lst[p] = c.AddListener(ch.node[p], trigger)
		case PinPower:
			ch.lst[p] = c.AddListener(ch.node[p], trigger)
		}
	}
	ch.TriggerEvaluation()
}

// outputDriver returns the driver closure for one OUTPUT pin. Without valid
// power the pin floats no matter what the output register holds.
func (ch *Chip) outputDriver(pin int) Driver {
	return func() State {
		if !ch.IsPowered() {
			return Float
		}
		return ch.out[pin]
	}
}

// TriggerEvaluation runs the part evaluator and schedules net updates, at
// the chip's propagation delay, for every output whose proposed level
// differs from the output register. Re-entrant triggers (from listeners the
// chip itself installed, firing during its own evaluation) are dropped; the
// outer evaluation's proposals are authoritative. A panicking evaluator is
// logged and leaves the outputs unchanged for this cycle.
//
func (ch *Chip) TriggerEvaluation() {
	if ch.evaluating || ch.eval == nil || ch.c == nil {
		return
	}
	ch.evaluating = true
	defer func() {
		ch.evaluating = false
		if r := recover(); r != nil {
			log.Errorf("chip %s (%s): evaluator panicked: %v", ch.ID, ch.Name, r)
		}
	}()
	for _, ps := range ch.eval(ch) {
		if ch.typ[ps.Pin] != PinOutput || ch.out[ps.Pin] == ps.State {
			continue
		}
		ch.out[ps.Pin] = ps.State
		ch.c.ScheduleNetUpdate(ch.node[ps.Pin], ch.Delay)
	}
}

// Rebind updates the chip's net reference for one pin after the wiring
// graph merged or rebuilt nets. A driver or listener stranded on a dead net
// (its binding still names the old net) is re-registered on the new one;
// bindings the merge already moved are left alone. Ends with a fresh
// evaluation.
//
func (ch *Chip) Rebind(pin int, n NetID) {
	ch.node[pin] = n
	if b := ch.drv[pin]; b != nil && b.Net != n {
		ch.drv[pin] = ch.c.AddDriver(n, b.Fn)
	}
	if b := ch.lst[pin]; b != nil && b.Net != n {
		ch.lst[pin] = ch.c.AddListener(n, b.Fn)
	}
	ch.TriggerEvaluation()
}

// Reset clears the part's internal state (flip-flop bits, counters, clock
// history) and re-evaluates. It does not touch the scheduler queue.
//
func (ch *Chip) Reset() {
	if ch.zero != nil {
		ch.zero()
	}
	for k := range ch.lastClock {
		delete(ch.lastClock, k)
	}
	ch.TriggerEvaluation()
}
