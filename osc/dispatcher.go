package osc

import (
	"fmt"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
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

// Dispatcher handles the dispatching of received OSC Packets to Methods for their given Address.
type Dispatcher struct {
	methods map[string]Method
}

// AddMethod adds a new OSC Method for the given OSC Address.
func (d *Dispatcher) AddMethod(addr string, method Method) error {
	if d.methods == nil {
		d.methods = make(map[string]Method)
	}

	if strings.ContainsAny(addr, "*?,[]{}# ") {
		return fmt.Errorf("AddMethod: %w: address may not contain any characters in \"*?,[]{}# \"", ErrInvalidAddress)
	}

	if _, ok := d.methods[addr]; ok {
		return fmt.Errorf("AddMethod: OSC address %q exists already", addr)
	}

	d.methods[addr] = method
	return nil
}

// AddMethodFunc allows you to just pass a MethodFunc.
func (d *Dispatcher) AddMethodFunc(addr string, method MethodFunc) error {
	return d.AddMethod(addr, method)
}

// Attach subscribes the dispatcher to every packet a port delivers. The
// returned function detaches it again.
func (d *Dispatcher) Attach(p Port) func() {
	return p.OnPacket(func(pkt Packet, _ Info) {
		d.Dispatch(pkt)
	})
}

// Dispatch routes OSC Packets to the Methods registered for their address.
// Messages dispatch at once; bundle elements wait for the bundle time tag.
func (d *Dispatcher) Dispatch(packet Packet) {
	switch p := packet.(type) {
	case *Message:
		d.dispatchMessage(p)

	case *Bundle:
		time.AfterFunc(p.Timetag.ExpiresIn(), func() {
			defer recoverDispatch()
			for _, elem := range p.Elements {
				d.Dispatch(elem)
			}
		})
	}
}

func (d *Dispatcher) dispatchMessage(p *Message) {
	r, err := getRegEx(p.Address)
	if err != nil {
		return
	}

	// The OSC Spec mentions that each address is divided into parts, so we could use a radix tree here.
	// For now, I'm gonna hope that being clever is enough
	r.Longest()
	aParts := len(strings.Split(p.Address, "/"))
	for addr, method := range d.methods {
		if aParts == len(strings.Split(addr, "/")) && r.FindString(addr) == addr {
			method.HandleMessage(p)
		}
	}
}

// recoverDispatch keeps a panicking method from killing the timer goroutine
// that runs timed bundles.
func recoverDispatch() {
	if err := recover(); err != nil {
		buf := make([]byte, 64<<10)
		buf = buf[:runtime.Stack(buf, false)]
		log.Error().Str("stack", string(buf)).Msgf("osc: panic in dispatch: %v", err)
	}
}

// getRegEx returns a regexp.Regexp for the given address.
func getRegEx(pattern string) (*regexp.Regexp, error) {
	r := strings.NewReplacer(
		".", `\.`,
		"(", `\(`,
		")", `\)`,
		"*", "[^/]*",
		"{", "(",
		",", "|",
		"}", ")",
		"?", "[^/]",
		"!", "^",
	)
	pattern = r.Replace(pattern)

	return regexp.Compile(pattern)
}
