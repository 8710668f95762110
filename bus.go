package ranger

import (
	"fmt"
)

var defaultMaxSockets = 20

// Bus is a logical packet broadcast bus.  Packets arrive on sockets connected
// to the bus and are dispatched to the handler registered for the packet's
// path.  A handler can broadcast the packet to the other sockets, or reply
// back to sender.
type Bus struct {
	name       string
	socketsMu  rwMutex
	sockets    map[Socketer]bool
	socketQ    chan bool
	handlersMu rwMutex
	handlers   map[string]func(*Packet)
	connect    func(Socketer)
	disconnect func(Socketer)
}

// NewBus returns a new bus with connect and disconnect callbacks
func NewBus(name string, connect, disconnect func(Socketer)) *Bus {
	if connect == nil {
		connect = func(Socketer) { /* don't notify */ }
	}
	if disconnect == nil {
		disconnect = func(Socketer) { /* don't notify */ }
	}
	return &Bus{
		name:       name,
		sockets:    make(map[Socketer]bool),
		socketQ:    make(chan bool, defaultMaxSockets),
		handlers:   make(map[string]func(*Packet)),
		connect:    connect,
		disconnect: disconnect,
	}
}

// Handle sets the packet handler for a packet path.  It returns false if a
// handler is already registered for path.
func (b *Bus) Handle(path string, handler func(*Packet)) bool {
	if handler == nil {
		panic("handler is nil")
	}
	b.handlersMu.Lock()
	defer b.handlersMu.Unlock()
	if _, ok := b.handlers[path]; !ok {
		b.handlers[path] = handler
		return true
	}
	return false
}

// Subscribe registers every handler in subs
func (b *Bus) Subscribe(subs Subscribers) {
	for path, handler := range subs {
		if !b.Handle(path, handler) {
			fmt.Printf("Bus %s: path %q already handled\r\n", b.name, path)
		}
	}
}

// Unhandle removes the packet handler for the packet path
func (b *Bus) Unhandle(path string) {
	b.handlersMu.Lock()
	defer b.handlersMu.Unlock()
	delete(b.handlers, path)
}

func (b *Bus) Name() string {
	return b.name
}

// MaxSockets sets the maximum number of socket connections that can be made to
// the bus.  Any socket connection attempts past the maximum will block until
// other sockets drop.
func (b *Bus) MaxSockets(maxSockets int) {
	b.socketQ = make(chan bool, maxSockets)
}

// plugin the socket to the bus
func (b *Bus) plugin(s Socketer) {
	// block here when socketQ is full
	b.socketQ <- true

	b.socketsMu.Lock()
	b.sockets[s] = true
	b.socketsMu.Unlock()

	b.connect(s)
}

// unplug the socket from the bus
func (b *Bus) unplug(s Socketer) {
	b.socketsMu.Lock()
	delete(b.sockets, s)
	b.socketsMu.Unlock()

	b.disconnect(s)

	// release one from the socketQ
	<-b.socketQ
}

// broadcast packet to all broadcast-ready sockets, skipping the source
// socket src
func (b *Bus) broadcast(pkt *Packet) {
	b.socketsMu.RLock()
	defer b.socketsMu.RUnlock()
	for sock := range b.sockets {
		if pkt.src != sock && sock.TestFlag(SocketFlagBcast) {
			if err := sock.Send(pkt); err != nil {
				fmt.Printf("Bcast to %s failed: %s\r\n", sock, err)
			}
		}
	}
}

// receive will call the packet handler for the packet path
func (b *Bus) receive(pkt *Packet) {
	path := pkt.Path()
	b.handlersMu.RLock()
	handler, ok := b.handlers[path]
	b.handlersMu.RUnlock()
	if ok {
		handler(pkt)
	}
}
