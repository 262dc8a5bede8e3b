// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ttlsim

import (
	"container/heap"

	log "github.com/sirupsen/logrus"
)

type event struct {
	at  int64 // logical time in ns
	seq uint64
	fn  func()
}

// eventQueue orders events by time, then by insertion sequence, so that
// events scheduled for the same instant run first-in first-out. Inputs
// scheduled at the same instant as a clock edge must be visible to the edge.
type eventQueue []*event

func (q eventQueue) Len() int { return len(q) }

func (q eventQueue) Less(i, j int) bool {
	if q[i].at != q[j].at {
		return q[i].at < q[j].at
	}
	return q[i].seq < q[j].seq
}

func (q eventQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *eventQueue) Push(x interface{}) { *q = append(*q, x.(*event)) }

func (q *eventQueue) Pop() interface{} {
	o := *q
	e := o[len(o)-1]
	o[len(o)-1] = nil
	*q = o[:len(o)-1]
	return e
}

// A Scheduler is a time-ordered queue of deferred tasks. Logical time is a
// monotonic nanosecond counter; it only advances through Step and Run.
//
type Scheduler struct {
	now int64
	seq uint64
	q   eventQueue
}

// Now returns the current logical time in nanoseconds.
//
func (s *Scheduler) Now() int64 { return s.now }

// Pending returns the number of queued tasks.
//
func (s *Scheduler) Pending() int { return len(s.q) }

// Schedule enqueues fn to run delay nanoseconds from now. A negative delay
// is treated as zero.
//
func (s *Scheduler) Schedule(delay int64, fn func()) {
	if delay < 0 {
		delay = 0
	}
	s.seq++
	heap.Push(&s.q, &event{at: s.now + delay, seq: s.seq, fn: fn})
}

// Step advances logical time by dt nanoseconds and drains every task that
// has come due, in time order.
//
func (s *Scheduler) Step(dt int64) {
	if dt < 0 {
		dt = 0
	}
	s.now += dt
	s.drain()
}

// Run advances logical time up to duration nanoseconds from now, jumping
// from event to event so tasks observe the time they were scheduled for.
//
func (s *Scheduler) Run(duration int64) {
	if duration < 0 {
		duration = 0
	}
	end := s.now + duration
	for len(s.q) > 0 && s.q[0].at <= end {
		s.now = s.q[0].at
		s.drain()
	}
	s.now = end
}

func (s *Scheduler) drain() {
	for len(s.q) > 0 && s.q[0].at <= s.now {
		e := heap.Pop(&s.q).(*event)
		s.exec(e)
	}
}

// exec runs one task. Tasks must not panic; if one does (a malfunctioning
// chip evaluator, say) the panic is logged and the queue keeps going.
func (s *Scheduler) exec(e *event) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("scheduler: task scheduled for t=%dns panicked: %v", e.at, r)
		}
	}()
	e.fn()
}
