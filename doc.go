// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

/*
Package ttlsim implements the simulation kernel of an interactive TTL
(74LS-series) IC trainer.

The kernel models a breadboard as a set of electrical nets carrying
four-valued logic states (LOW, HIGH, FLOAT, ERROR). A net's state is the
resolution of all drivers currently attached to it; two drivers that disagree
resolve to ERROR, which downstream chips propagate. State changes ripple
through the board via a discrete-event scheduler keyed by logical
nanoseconds, with chip outputs appearing on their nets after a propagation
delay.

Wires are added and removed between named pins through a Graph, which merges
the underlying nets when a wire bridges two of them and rebuilds them when a
removal splits a connected component. Collaborators hold nets as NetID
handles and rebind through the Graph's net-update hook when a merge or split
invalidates a handle.

Chips from the ttllib catalogue are fixed-pinout DIP parts built on the Chip
framework in this package: inputs read floating nets as HIGH the way real
TTL inputs do, outputs drive their registered level only while the part has
valid power, and sequential parts detect clock edges against per-pin level
history.

The kernel is strictly single threaded. The external driver (UI, test
harness) advances time by calling Step or Run; everything else happens
inside scheduled tasks.
*/
package ttlsim
