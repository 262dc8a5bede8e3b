// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ttllib

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/db47h/ttlsim"
)

// A Factory builds a fresh chip instance bound to the given identifier.
//
type Factory func(id string) *ttlsim.Chip

var registry = map[string]Factory{
	"74LS00":  NewLS00,
	"74LS02":  NewLS02,
	"74LS04":  NewLS04,
	"74LS08":  NewLS08,
	"74LS32":  NewLS32,
	"74LS47":  NewLS47,
	"74LS74":  NewLS74,
	"74LS76":  NewLS76,
	"74LS86":  NewLS86,
	"74LS90":  NewLS90,
	"74LS93":  NewLS93,
	"74LS138": NewLS138,
	"74LS151": NewLS151,
	"74LS153": NewLS153,
	"74LS157": NewLS157,
	"74LS283": NewLS283,
}

// Lookup returns the factory for a part number.
//
func Lookup(part string) (Factory, bool) {
	f, ok := registry[part]
	return f, ok
}

// New instantiates a part by number. Unknown part numbers are an error.
//
func New(part, id string) (*ttlsim.Chip, error) {
	f, ok := registry[part]
	if !ok {
		return nil, errors.Errorf("unknown part number %q", part)
	}
	return f(id), nil
}

// Parts returns all known part numbers, sorted.
//
func Parts() []string {
	ps := make([]string, 0, len(registry))
	for p := range registry {
		ps = append(ps, p)
	}
	sort.Strings(ps)
	return ps
}
