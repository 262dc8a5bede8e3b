// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ttlsim

import (
	log "github.com/sirupsen/logrus"
)

// A Circuit owns the nets of a board and the event queue that serializes
// every mutation. It is the engine the wiring graph, the chip framework and
// the external signal sources all hang off.
//
// A Circuit is not safe for concurrent use; the whole kernel runs on one
// logical thread and orders work through the scheduler.
//
type Circuit struct {
	sched  Scheduler
	nets   map[NetID]*net
	nextID NetID
}

// New returns an empty circuit at t=0 with no nets.
//
func New() *Circuit {
	return &Circuit{nets: make(map[NetID]*net)}
}

// NewNet creates a fresh floating net and returns its handle.
//
func (c *Circuit) NewNet() NetID {
	c.nextID++
	id := c.nextID
	c.nets[id] = &net{id: id, state: Float}
	return id
}

// State returns the cached resolved state of a net. Unknown handles (stale
// after a merge or rebuild) read as Float.
//
func (c *Circuit) State(id NetID) State {
	if n := c.nets[id]; n != nil {
		return n.state
	}
	return Float
}

// MarkVCC flags a net as the VCC rail. The flag is informational except for
// the wiring graph's rail-short validation.
//
func (c *Circuit) MarkVCC(id NetID) {
	if n := c.nets[id]; n != nil {
		n.vcc = true
	}
}

// MarkGND flags a net as the GND rail.
//
func (c *Circuit) MarkGND(id NetID) {
	if n := c.nets[id]; n != nil {
		n.gnd = true
	}
}

func (c *Circuit) isVCC(id NetID) bool { n := c.nets[id]; return n != nil && n.vcc }
func (c *Circuit) isGND(id NetID) bool { n := c.nets[id]; return n != nil && n.gnd }

// AddDriver attaches a driver to a net and schedules a resolution at delay 0
// so dependents observe the change in the same time slot. The returned
// binding tracks the driver across merges: after a merge moves the driver to
// the surviving net, the binding's Net field names the survivor.
//
func (c *Circuit) AddDriver(id NetID, d Driver) *DriverBinding {
	n := c.nets[id]
	if n == nil {
		return nil
	}
	b := &DriverBinding{Fn: d, Net: id}
	n.drivers = append(n.drivers, b)
	c.ScheduleNetUpdate(id, 0)
	return b
}

// AddListener attaches a listener to a net and invokes it once, immediately,
// with the net's current state.
//
func (c *Circuit) AddListener(id NetID, l Listener) *ListenerBinding {
	n := c.nets[id]
	if n == nil {
		return nil
	}
	b := &ListenerBinding{Fn: l, Net: id}
	n.listeners = append(n.listeners, b)
	l(n.state)
	return b
}

// ScheduleNetUpdate enqueues a re-resolution of the net at now+delay. Stale
// handles are ignored when the update runs: the net may have been merged
// away in the meantime.
//
func (c *Circuit) ScheduleNetUpdate(id NetID, delay int64) {
	c.sched.Schedule(delay, func() {
		if n := c.nets[id]; n != nil {
			n.update()
		}
	})
}

// Schedule enqueues a bare task at now+delay.
//
func (c *Circuit) Schedule(delay int64, fn func()) {
	c.sched.Schedule(delay, fn)
}

// ScheduleAllNetUpdates enqueues a re-resolution of every net at now+delay.
// Power cycling needs this: drivers gated on the power flag change value
// without their nets seeing any event.
//
func (c *Circuit) ScheduleAllNetUpdates(delay int64) {
	for id := range c.nets {
		c.ScheduleNetUpdate(id, delay)
	}
}

// MergeNets moves b's drivers and listeners into a, deletes b, and schedules
// a re-resolution of a. It returns the survivor. Bindings held by the moved
// drivers' owners are retargeted in place. If the two halves disagree the
// survivor resolves to Error on the scheduled update.
//
func (c *Circuit) MergeNets(a, b NetID) NetID {
	if a == b {
		return a
	}
	na, nb := c.nets[a], c.nets[b]
	if na == nil || nb == nil {
		return a
	}
	for _, d := range nb.drivers {
		d.Net = a
	}
	for _, l := range nb.listeners {
		l.Net = a
	}
	na.drivers = append(na.drivers, nb.drivers...)
	na.listeners = append(na.listeners, nb.listeners...)
	na.vcc = na.vcc || nb.vcc
	na.gnd = na.gnd || nb.gnd
	delete(c.nets, b)
	log.Debugf("circuit: merged net %d into net %d", b, a)
	c.ScheduleNetUpdate(a, 0)
	return a
}

// discardNet drops a net deserted by a wiring rebuild. Bindings still
// pointing at it keep their stale NetID, which is how their owners detect
// that a re-registration is due.
func (c *Circuit) discardNet(id NetID) {
	delete(c.nets, id)
}

// Step advances logical time by dt nanoseconds, draining due events.
//
func (c *Circuit) Step(dt int64) { c.sched.Step(dt) }

// Run advances logical time by duration nanoseconds in event-sized jumps.
//
func (c *Circuit) Run(duration int64) { c.sched.Run(duration) }

// Now returns the current logical time in nanoseconds.
//
func (c *Circuit) Now() int64 { return c.sched.Now() }
