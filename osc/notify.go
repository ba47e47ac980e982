package osc

import (
	"net"
	"sync"
)

// Info describes where a packet came from. Addr is nil for ports without a
// network transport.
type Info struct {
	Addr net.Addr
}

type (
	// ReadyHandler runs once a port is ready to exchange packets.
	ReadyHandler func()

	// MessageHandler receives every leaf message, paired with the time tag
	// of its nearest enclosing bundle. Bare messages report Immediately.
	MessageHandler func(msg *Message, tt Timetag, info Info)

	// BundleHandler receives every received top-level bundle.
	BundleHandler func(b *Bundle, info Info)

	// PacketHandler receives every decoded packet, message or bundle.
	PacketHandler func(p Packet, info Info)

	// RawHandler receives the undecoded bytes of every packet.
	RawHandler func(data []byte, info Info)

	// ErrorHandler receives decode and transport failures.
	ErrorHandler func(err error)
)

// handlerList is an ordered handler registry. Handlers fire in subscription
// order and are removed by the id handed out at registration.
type handlerList[T any] struct {
	entries []handlerEntry[T]
	nextID  int
}

type handlerEntry[T any] struct {
	id int
	fn T
}

func (l *handlerList[T]) add(fn T) int {
	l.nextID++
	l.entries = append(l.entries, handlerEntry[T]{id: l.nextID, fn: fn})
	return l.nextID
}

func (l *handlerList[T]) remove(id int) {
	for i, e := range l.entries {
		if e.id == id {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return
		}
	}
}

func (l *handlerList[T]) snapshot() []T {
	if len(l.entries) == 0 {
		return nil
	}
	fns := make([]T, len(l.entries))
	for i, e := range l.entries {
		fns[i] = e.fn
	}
	return fns
}

// subscribe registers fn and returns the function that removes it again.
func subscribe[T any](n *Notifier, l *handlerList[T], fn T) func() {
	n.mu.Lock()
	id := l.add(fn)
	n.mu.Unlock()

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		l.remove(id)
	}
}

func snapshot[T any](n *Notifier, l *handlerList[T]) []T {
	n.mu.Lock()
	defer n.mu.Unlock()
	return l.snapshot()
}

// Notifier fans received packets out to subscribed handlers. Every On*
// method returns a function that removes the subscription again. The zero
// value is ready to use.
//
// Delivery is synchronous and ordered: the leaf messages of a packet fire
// first in wire order, then the bundle handlers for a received bundle, then
// the packet handlers, then the raw handlers. Handlers must not block.
type Notifier struct {
	mu      sync.Mutex
	ready   handlerList[ReadyHandler]
	message handlerList[MessageHandler]
	bundle  handlerList[BundleHandler]
	packet  handlerList[PacketHandler]
	raw     handlerList[RawHandler]
	errs    handlerList[ErrorHandler]
	closed  bool
}

// OnReady subscribes to the ready event.
func (n *Notifier) OnReady(h ReadyHandler) func() {
	return subscribe(n, &n.ready, h)
}

// OnMessage subscribes to leaf messages.
func (n *Notifier) OnMessage(h MessageHandler) func() {
	return subscribe(n, &n.message, h)
}

// OnBundle subscribes to received bundles.
func (n *Notifier) OnBundle(h BundleHandler) func() {
	return subscribe(n, &n.bundle, h)
}

// OnPacket subscribes to every decoded packet.
func (n *Notifier) OnPacket(h PacketHandler) func() {
	return subscribe(n, &n.packet, h)
}

// OnRaw subscribes to the undecoded bytes of every packet.
func (n *Notifier) OnRaw(h RawHandler) func() {
	return subscribe(n, &n.raw, h)
}

// OnError subscribes to decode and transport failures.
func (n *Notifier) OnError(h ErrorHandler) func() {
	return subscribe(n, &n.errs, h)
}

// Ready fires the ready handlers.
func (n *Notifier) Ready() {
	if n.isClosed() {
		return
	}
	for _, h := range snapshot(n, &n.ready) {
		h()
	}
}

// Deliver fans out one received packet together with its raw bytes.
func (n *Notifier) Deliver(p Packet, raw []byte, info Info) {
	if n.isClosed() {
		return
	}

	n.deliverLeaves(p, Immediately, info)

	if b, ok := p.(*Bundle); ok {
		for _, h := range snapshot(n, &n.bundle) {
			h(b, info)
		}
	}
	for _, h := range snapshot(n, &n.packet) {
		h(p, info)
	}
	for _, h := range snapshot(n, &n.raw) {
		h(raw, info)
	}
}

// deliverLeaves walks p in wire order, firing the message handlers with the
// time tag of the nearest enclosing bundle.
func (n *Notifier) deliverLeaves(p Packet, tt Timetag, info Info) {
	switch t := p.(type) {
	case *Message:
		for _, h := range snapshot(n, &n.message) {
			h(t, tt, info)
		}
	case *Bundle:
		for _, elem := range t.Elements {
			n.deliverLeaves(elem, t.Timetag, info)
		}
	}
}

// DeliverError fans out a failure to the error handlers.
func (n *Notifier) DeliverError(err error) {
	if err == nil || n.isClosed() {
		return
	}
	for _, h := range snapshot(n, &n.errs) {
		h(err)
	}
}

// Close drops every subscription. Delivery is synchronous, so nothing is in
// flight once Close returns.
func (n *Notifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.closed = true
	n.ready = handlerList[ReadyHandler]{}
	n.message = handlerList[MessageHandler]{}
	n.bundle = handlerList[BundleHandler]{}
	n.packet = handlerList[PacketHandler]{}
	n.raw = handlerList[RawHandler]{}
	n.errs = handlerList[ErrorHandler]{}
	return nil
}

func (n *Notifier) isClosed() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.closed
}

// Port is the shared surface of DatagramPort and StreamPort: a packet
// transmitter plus the packet slice of the notification surface.
type Port interface {
	Send(p Packet) error
	OnPacket(h PacketHandler) func()
	OnError(h ErrorHandler) func()
	DeliverError(err error)
	Close() error
}
