package ranger

import (
	"encoding/json"
	"fmt"
)

// Packet is sent and received on a bus via a socket.  The message is a JSON
// object; its "Path" member selects the bus handler.
type Packet struct {
	bus     *Bus
	src     Socketer
	message []byte
}

// Bytes returns the packet message
func (p *Packet) Bytes() []byte {
	return p.message
}

func (p *Packet) String() string {
	return string(p.message)
}

// Path returns the routing path of the packet message, or "" if the message
// has no path.
func (p *Packet) Path() string {
	var msg ThingMsg
	if err := json.Unmarshal(p.message, &msg); err != nil {
		return ""
	}
	return msg.Path
}

// Injected reports whether the packet was put on the bus by an Injector,
// that is, by the thing itself rather than a remote socket
func (p *Packet) Injected() bool {
	_, ok := p.src.(*Injector)
	return ok
}

// Reply sends the packet back to sender
func (p *Packet) Reply() *Packet {
	if p.src == nil {
		fmt.Printf("Can't reply to sender: source is nil\r\n")
		return p
	}
	if err := p.src.Send(p); err != nil {
		fmt.Printf("Reply to %s failed: %s\r\n", p.src, err)
	}
	return p
}

// Broadcast the packet to all other broadcast-ready sockets on the bus.  The
// source socket is excluded.
func (p *Packet) Broadcast() *Packet {
	if p.bus == nil {
		fmt.Printf("Can't broadcast packet: bus is nil\r\n")
		return p
	}
	p.bus.broadcast(p)
	return p
}

// Unmarshal the packet message as JSON into v
func (p *Packet) Unmarshal(v any) *Packet {
	if err := json.Unmarshal(p.message, v); err != nil {
		fmt.Printf("JSON unmarshal error %s\r\n", err)
	}
	return p
}

// Marshal the packet message as JSON from v
func (p *Packet) Marshal(v any) *Packet {
	var err error
	p.message, err = json.Marshal(v)
	if err != nil {
		fmt.Printf("JSON marshal error %s\r\n", err)
	}
	return p
}
