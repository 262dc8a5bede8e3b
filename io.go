// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ttlsim

// Power is the board's master power switch. It owns the drivers of the VCC
// and GND rail nets: VCC drives HIGH and GND drives LOW while the power is
// on, both float while it is off. Sources built with On as their powered
// callback (switch, clock, button) float with the rails.
//
type Power struct {
	c        *Circuit
	vcc, gnd NetID
	on       bool
	vccDrv   *DriverBinding
	gndDrv   *DriverBinding
}

// NewPower installs the rail drivers on the given nets and returns the
// switch, initially off.
//
func NewPower(c *Circuit, vcc, gnd NetID) *Power {
	p := &Power{c: c, vcc: vcc, gnd: gnd}
	c.MarkVCC(vcc)
	c.MarkGND(gnd)
	p.vccDrv = c.AddDriver(vcc, func() State {
		if p.on {
			return High
		}
		return Float
	})
	p.gndDrv = c.AddDriver(gnd, func() State {
		if p.on {
			return Low
		}
		return Float
	})
	return p
}

// On reports whether system power is on.
//
func (p *Power) On() bool { return p.on }

// Set turns system power on or off. Every net re-resolves at delay 0: the
// rails change state, and so does any net driven by a power-gated source
// (switch, clock, button).
//
func (p *Power) Set(on bool) {
	if p.on == on {
		return
	}
	p.on = on
	p.c.ScheduleAllNetUpdates(0)
}

// Rebind re-attaches a rail driver after a wiring rebuild replaced the rail
// net. The rail flag moves to the fresh net.
//
func (p *Power) Rebind(vcc bool, n NetID) {
	if vcc {
		p.vcc = n
		p.c.MarkVCC(n)
		if p.vccDrv != nil && p.vccDrv.Net != n {
			p.vccDrv = p.c.AddDriver(n, p.vccDrv.Fn)
		}
		return
	}
	p.gnd = n
	p.c.MarkGND(n)
	if p.gndDrv != nil && p.gndDrv.Net != n {
		p.gndDrv = p.c.AddDriver(n, p.gndDrv.Fn)
	}
}

// A Switch is a toggle switch driving one net HIGH or LOW from its position
// while the board has power, floating otherwise.
//
type Switch struct {
	c       *Circuit
	net     NetID
	on      bool
	powered func() bool
	drv     *DriverBinding
}

// NewSwitch attaches a toggle switch to a net. powered gates the driver on
// system power.
//
func NewSwitch(c *Circuit, net NetID, powered func() bool) *Switch {
	s := &Switch{c: c, net: net, powered: powered}
	s.drv = c.AddDriver(net, func() State {
		if !s.powered() {
			return Float
		}
		return FromBool(s.on)
	})
	return s
}

// On reports the switch position.
//
func (s *Switch) On() bool { return s.on }

// Set moves the switch and schedules a net update at delay 0.
//
func (s *Switch) Set(on bool) {
	if s.on == on {
		return
	}
	s.on = on
	s.c.ScheduleNetUpdate(s.net, 0)
}

// Toggle flips the switch.
//
func (s *Switch) Toggle() { s.Set(!s.on) }

// Rebind re-attaches the switch driver after a net merge or rebuild.
//
func (s *Switch) Rebind(n NetID) {
	s.net = n
	if s.drv != nil && s.drv.Net != n {
		s.drv = s.c.AddDriver(n, s.drv.Fn)
	}
}

// A ClockSource toggles a net at a fixed frequency by rescheduling itself on
// the circuit's logical clock every half period.
//
type ClockSource struct {
	c          *Circuit
	net        NetID
	halfPeriod int64 // ns
	level      bool
	running    bool
	powered    func() bool
	drv        *DriverBinding
}

// NewClock attaches a clock generator to a net. freqHz is the full-cycle
// frequency in simulated hertz; the half period is 500ms/freqHz.
//
func NewClock(c *Circuit, net NetID, freqHz float64, powered func() bool) *ClockSource {
	k := &ClockSource{
		c:          c,
		net:        net,
		halfPeriod: int64(500e6 / freqHz),
		powered:    powered,
	}
	k.drv = c.AddDriver(net, func() State {
		if !k.powered() {
			return Float
		}
		return FromBool(k.level)
	})
	return k
}

// Start begins toggling. A second Start on a running clock is a no-op.
//
func (k *ClockSource) Start() {
	if k.running {
		return
	}
	k.running = true
	k.c.Schedule(k.halfPeriod, k.tick)
}

// Stop halts the clock at its current level: the already scheduled tick
// runs without toggling and is not rescheduled.
//
func (k *ClockSource) Stop() { k.running = false }

// Running reports whether the clock is ticking.
//
func (k *ClockSource) Running() bool { return k.running }

func (k *ClockSource) tick() {
	if !k.running {
		return
	}
	k.level = !k.level
	k.c.ScheduleNetUpdate(k.net, 0)
	k.c.Schedule(k.halfPeriod, k.tick)
}

// Rebind re-attaches the clock driver after a net merge or rebuild.
//
func (k *ClockSource) Rebind(n NetID) {
	k.net = n
	if k.drv != nil && k.drv.Net != n {
		k.drv = k.c.AddDriver(n, k.drv.Fn)
	}
}

// DefaultPulseWidth is how long a PushButton stays HIGH after a press, in
// nanoseconds (100 ms).
//
const DefaultPulseWidth int64 = 100e6

// A PushButton drives its net HIGH for a fixed window after a press and LOW
// otherwise. Presses during the active window do not retrigger.
//
type PushButton struct {
	c       *Circuit
	net     NetID
	width   int64
	active  bool
	powered func() bool
	drv     *DriverBinding
}

// NewPushButton attaches a mono-pulse button to a net.
//
func NewPushButton(c *Circuit, net NetID, powered func() bool) *PushButton {
	b := &PushButton{c: c, net: net, width: DefaultPulseWidth, powered: powered}
	b.drv = c.AddDriver(net, func() State {
		if !b.powered() {
			return Float
		}
		return FromBool(b.active)
	})
	return b
}

// Press raises the output for the pulse window. Ignored while the window is
// still open.
//
func (b *PushButton) Press() {
	if b.active {
		return
	}
	b.active = true
	b.c.ScheduleNetUpdate(b.net, 0)
	b.c.Schedule(b.width, func() {
		b.active = false
		b.c.ScheduleNetUpdate(b.net, 0)
	})
}

// Rebind re-attaches the button driver after a net merge or rebuild.
//
func (b *PushButton) Rebind(n NetID) {
	b.net = n
	if b.drv != nil && b.drv.Net != n {
		b.drv = b.c.AddDriver(n, b.drv.Fn)
	}
}

// An LED reflects the state of the net it listens on: lit on HIGH, dark on
// LOW or FLOAT, fault indicator on ERROR.
//
type LED struct {
	c     *Circuit
	net   NetID
	state State
	lst   *ListenerBinding
}

// NewLED attaches an LED to a net.
//
func NewLED(c *Circuit, net NetID) *LED {
	l := &LED{c: c, net: net}
	l.lst = c.AddListener(net, func(s State) { l.state = s })
	return l
}

// Lit reports whether the LED is lit.
//
func (l *LED) Lit() bool { return l.state == High }

// Fault reports whether the LED shows the contention fault indicator.
//
func (l *LED) Fault() bool { return l.state == Error }

// State returns the last state the LED observed.
//
func (l *LED) State() State { return l.state }

// Rebind re-attaches the LED listener after a net merge or rebuild.
//
func (l *LED) Rebind(n NetID) {
	l.net = n
	if l.lst != nil && l.lst.Net != n {
		l.lst = l.c.AddListener(n, l.lst.Fn)
	}
}
