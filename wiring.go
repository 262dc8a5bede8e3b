// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ttlsim

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// PinType classifies a registered pin for wiring validation.
//
type PinType uint8

// Pin types.
const (
	PinNC PinType = iota
	PinInput
	PinOutput
	PinClock
	PinPower
)

func (t PinType) String() string {
	switch t {
	case PinNC:
		return "NC"
	case PinInput:
		return "INPUT"
	case PinOutput:
		return "OUTPUT"
	case PinClock:
		return "CLOCK"
	case PinPower:
		return "POWER"
	}
	return "PinType(?)"
}

// WireID identifies a wire within a Graph.
//
type WireID int

// A Wire is a physical jumper between two named pins.
//
type Wire struct {
	ID     WireID
	Source string
	Target string
	Color  string
}

// WireErrorKind enumerates the reasons AddWire can reject a wire.
//
type WireErrorKind uint8

// Wire validation failures.
const (
	SelfConnect WireErrorKind = iota
	Duplicate
	OutputOutput
	RailShort
)

func (k WireErrorKind) String() string {
	switch k {
	case SelfConnect:
		return "SELF_CONNECT"
	case Duplicate:
		return "DUPLICATE"
	case OutputOutput:
		return "OUTPUT_OUTPUT"
	case RailShort:
		return "RAIL_SHORT"
	}
	return "WireErrorKind(?)"
}

// A WireError reports a rejected wire. The wire was not added and no state
// changed.
//
type WireError struct {
	Source string
	Target string
	Kind   WireErrorKind
}

func (e *WireError) Error() string {
	return "wire " + e.Source + " -> " + e.Target + " rejected: " + e.Kind.String()
}

// A Graph tracks the physical pin-to-pin wires of a board and maintains the
// mapping from pin identifiers to nets: pins in the same connected component
// of the wire graph always share one net. Adding a wire may merge two nets;
// removing one may split a net, in which case the affected components are
// rebuilt onto fresh nets and announced through OnNetUpdate so collaborators
// caching NetIDs can rebind.
//
// Pin identifiers are free-form strings owned by the caller; the graph does
// not interpret them.
//
type Graph struct {
	c      *Circuit
	wires  []Wire
	nextID WireID

	adj     map[string]map[string]bool
	pinNet  map[string]NetID
	pinType map[string]PinType
	pinChip map[string]string

	// Notification hooks. Nil hooks are skipped.
	OnWireAdded   func(Wire)
	OnWireRemoved func(Wire)
	OnNetUpdate   func(pins []string, net NetID)
	OnWireError   func(source, target string, kind WireErrorKind)
}

// NewGraph returns an empty wiring graph over the given circuit.
//
func NewGraph(c *Circuit) *Graph {
	return &Graph{
		c:       c,
		adj:     make(map[string]map[string]bool),
		pinNet:  make(map[string]NetID),
		pinType: make(map[string]PinType),
		pinChip: make(map[string]string),
	}
}

// RegisterPin declares a pin, the net it starts on, its type, and optionally
// the identifier of the chip owning it (empty for rails, switches, LEDs).
//
func (g *Graph) RegisterPin(pin string, net NetID, typ PinType, chip string) {
	g.pinNet[pin] = net
	g.pinType[pin] = typ
	if chip != "" {
		g.pinChip[pin] = chip
	}
}

// PinNet returns the net a pin currently belongs to.
//
func (g *Graph) PinNet(pin string) (NetID, bool) {
	n, ok := g.pinNet[pin]
	return n, ok
}

// PinChip returns the identifier of the chip owning a pin, if any.
//
func (g *Graph) PinChip(pin string) (string, bool) {
	c, ok := g.pinChip[pin]
	return c, ok
}

// Wires returns the wires in insertion order. The returned slice is shared;
// callers must not mutate it.
//
func (g *Graph) Wires() []Wire { return g.wires }

// pinOrNew returns the net a pin maps to, allocating a fresh net for pins
// never registered.
func (g *Graph) pinOrNew(pin string) NetID {
	n, ok := g.pinNet[pin]
	if !ok {
		n = g.c.NewNet()
		g.pinNet[pin] = n
	}
	return n
}

func (g *Graph) validate(source, target string) *WireError {
	if source == target {
		return &WireError{source, target, SelfConnect}
	}
	for _, w := range g.wires {
		if (w.Source == source && w.Target == target) || (w.Source == target && w.Target == source) {
			return &WireError{source, target, Duplicate}
		}
	}
	if g.pinType[source] == PinOutput && g.pinType[target] == PinOutput {
		return &WireError{source, target, OutputOutput}
	}
	ns, nt := g.pinNet[source], g.pinNet[target]
	if (g.c.isVCC(ns) && g.c.isGND(nt)) || (g.c.isGND(ns) && g.c.isVCC(nt)) {
		return &WireError{source, target, RailShort}
	}
	return nil
}

// AddWire validates and adds a wire between two pins, merging their nets.
// On a validation failure it fires OnWireError, returns the typed error and
// leaves all state untouched.
//
func (g *Graph) AddWire(source, target, color string) (WireID, error) {
	if werr := g.validate(source, target); werr != nil {
		log.Debugf("wiring: %v", werr)
		if g.OnWireError != nil {
			g.OnWireError(source, target, werr.Kind)
		}
		return 0, errors.WithStack(werr)
	}
	g.nextID++
	w := Wire{ID: g.nextID, Source: source, Target: target, Color: color}
	g.wires = append(g.wires, w)
	g.link(source, target)
	g.mergeNetsForPins(source, target)
	if g.OnWireAdded != nil {
		g.OnWireAdded(w)
	}
	return w.ID, nil
}

func (g *Graph) link(a, b string) {
	if g.adj[a] == nil {
		g.adj[a] = make(map[string]bool)
	}
	if g.adj[b] == nil {
		g.adj[b] = make(map[string]bool)
	}
	g.adj[a][b] = true
	g.adj[b][a] = true
}

func (g *Graph) unlink(a, b string) {
	delete(g.adj[a], b)
	delete(g.adj[b], a)
}

// mergeNetsForPins merges the two endpoints' nets (if distinct) and remaps
// every pin reachable from source onto the survivor.
func (g *Graph) mergeNetsForPins(source, target string) {
	ns, nt := g.pinOrNew(source), g.pinOrNew(target)
	survivor := ns
	if ns != nt {
		survivor = g.c.MergeNets(ns, nt)
	}
	component := g.component(source)
	for _, p := range component {
		g.pinNet[p] = survivor
	}
	if g.OnNetUpdate != nil {
		g.OnNetUpdate(component, survivor)
	}
}

// component flood-fills the wire graph from a pin, returning the pin and
// everything reachable from it in visit order.
func (g *Graph) component(from string) []string {
	seen := map[string]bool{from: true}
	order := []string{from}
	for i := 0; i < len(order); i++ {
		for n := range g.adj[order[i]] {
			if !seen[n] {
				seen[n] = true
				order = append(order, n)
			}
		}
	}
	return order
}

// RemoveWire removes a wire by id and rebuilds the nets of both endpoints,
// since the removal may have split a connected component. It reports whether
// the wire existed.
//
func (g *Graph) RemoveWire(id WireID) bool {
	idx := -1
	for i, w := range g.wires {
		if w.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	w := g.wires[idx]
	g.wires = append(g.wires[:idx], g.wires[idx+1:]...)
	g.unlink(w.Source, w.Target)
	if g.OnWireRemoved != nil {
		g.OnWireRemoved(w)
	}
	deserted := make(map[NetID]bool)
	g.rebuildNet(w.Source, deserted)
	g.rebuildNet(w.Target, deserted)
	for old := range deserted {
		if !g.netInUse(old) {
			g.c.discardNet(old)
		}
	}
	return true
}

// rebuildNet moves the whole still-connected component of a pin onto a fresh
// net and announces the remap. Rebuilding is destroy-and-recreate rather
// than a topological diff: O(component) per removed wire, and the chip
// framework re-registers drivers and listeners in response to OnNetUpdate.
func (g *Graph) rebuildNet(from string, deserted map[NetID]bool) {
	component := g.component(from)
	fresh := g.c.NewNet()
	for _, p := range component {
		if old, ok := g.pinNet[p]; ok {
			deserted[old] = true
		}
		g.pinNet[p] = fresh
	}
	log.Debugf("wiring: rebuilt %d pin(s) from %q onto net %d", len(component), from, fresh)
	if g.OnNetUpdate != nil {
		g.OnNetUpdate(component, fresh)
	}
	g.c.ScheduleNetUpdate(fresh, 0)
}

func (g *Graph) netInUse(id NetID) bool {
	for _, n := range g.pinNet {
		if n == id {
			return true
		}
	}
	return false
}
