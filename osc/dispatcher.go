package osc

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// Method is an interface for OSC Methods.
type Method interface {
	HandleMessage(msg *Message)
}

// MethodFunc implements the Method interface. Type definition for an OSC Method function.
type MethodFunc func(msg *Message)

// HandleMessage calls itself with the given OSC Message. Implements the Method interface.
func (f MethodFunc) HandleMessage(msg *Message) {
	f(msg)
}

// Dispatcher handles the dispatching of received OSC Packets to Methods for
// their given Address. The zero value is ready to use and it is safe for
// concurrent use.
type Dispatcher struct {
	// Logger receives reports of Methods that panicked. If nil,
	// slog.Default() is used.
	Logger *slog.Logger

	mu      sync.RWMutex
	methods map[string]Method
	addrs   []string // sorted keys of methods
}

// AddMethod adds a new OSC Method for the given OSC Address. The address
// must be concrete: wildcards belong in the messages being dispatched.
func (d *Dispatcher) AddMethod(addr string, method Method) error {
	if err := ValidateAddress(addr); err != nil {
		return errors.Wrap(err, "AddMethod")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.methods == nil {
		d.methods = make(map[string]Method)
	}
	if _, ok := d.methods[addr]; ok {
		return newError(KindBadAddress, "AddMethod: OSC Method for %q exists already", addr)
	}

	d.methods[addr] = method
	i := sort.SearchStrings(d.addrs, addr)
	d.addrs = append(d.addrs, "")
	copy(d.addrs[i+1:], d.addrs[i:])
	d.addrs[i] = addr
	return nil
}

// AddMethodFunc allows you to just pass a MethodFunc.
func (d *Dispatcher) AddMethodFunc(addr string, method MethodFunc) error {
	return d.AddMethod(addr, method)
}

// Dispatch delivers packet to every Method whose address matches. A
// Message's address is treated as a pattern and its Methods run in address
// order. A Bundle's elements are dispatched in order, immediately: time tags
// are not honored here, callers that need scheduling can use
// Timetag.ExpiresIn before dispatching.
//
// Dispatch fails on nil packets and on addresses that don't compile as
// patterns; the first failure stops the dispatch.
func (d *Dispatcher) Dispatch(packet Packet) error {
	switch p := packet.(type) {
	default:
		return newError(KindBadPacket, "dispatch: invalid Packet %T", packet)

	case *Message:
		if p == nil {
			return newError(KindBadPacket, "dispatch: nil message")
		}
		matcher, err := Compile(p.Address)
		if err != nil {
			return err
		}
		for _, method := range d.match(matcher) {
			d.call(method, p)
		}

	case *Bundle:
		if p == nil {
			return newError(KindBadPacket, "dispatch: nil bundle")
		}
		for i, elem := range p.Elements {
			if err := d.Dispatch(elem); err != nil {
				return errors.Wrapf(err, "bundle element %d", i)
			}
		}
	}
	return nil
}

// match collects the Methods matching m under the read lock, so Methods can
// add further Methods without deadlocking.
func (d *Dispatcher) match(m *Matcher) []Method {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var methods []Method
	for _, addr := range d.addrs {
		if m.Match(addr) {
			methods = append(methods, d.methods[addr])
		}
	}
	return methods
}

func (d *Dispatcher) call(method Method, msg *Message) {
	defer func() {
		if r := recover(); r != nil {
			logger := d.Logger
			if logger == nil {
				logger = slog.Default()
			}
			logger.Error("osc: method panicked", "address", msg.Address, "panic", r)
		}
	}()
	method.HandleMessage(msg)
}
