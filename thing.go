package ranger

import (
	"context"
	"fmt"
)

// Subscribers maps a packet path to its handler
type Subscribers map[string]func(*Packet)

// Thinger is a device on the bus
type Thinger interface {
	Subscribers() Subscribers
	Announce() *Packet
	Run(context.Context, *Injector)
	Id() string
	Model() string
	Name() string
	String() string
	SetFlag(uint32)
	TestFlag(uint32) bool
}

type ThingMsg struct {
	Path string
}

type ThingMsgAnnounce struct {
	Path  string
	Id    string
	Model string
	Name  string
}

// Thing carries the identity every device shares.  Embed it in the device
// struct; the embedded mutex guards the device's exported state.
type Thing struct {
	id    string
	model string
	name  string
	flags uint32
	mu    mutex
}

// NewThing panics if id, model or name is not a valid ID
func NewThing(id, model, name string) Thing {
	if !ValidId(id) || !ValidId(model) || !ValidId(name) {
		panic(fmt.Sprintf("something invalid: id = %q, model = %q, name = %q",
			id, model, name))
	}
	return Thing{id: id, model: model, name: name}
}

const (
	// Thing is running on real hardware, not as a model in a hub
	ThingFlagMetal uint32 = 1 << iota
)

func (t *Thing) Subscribers() Subscribers  { return nil }
func (t *Thing) Id() string                { return t.id }
func (t *Thing) Model() string             { return t.model }
func (t *Thing) Name() string              { return t.name }
func (t *Thing) Lock()                     { t.mu.Lock() }
func (t *Thing) Unlock()                   { t.mu.Unlock() }
func (t *Thing) SetFlag(flag uint32)       { t.flags |= flag }
func (t *Thing) TestFlag(flag uint32) bool { return (t.flags & flag) != 0 }
func (t *Thing) IsMetal() bool             { return t.TestFlag(ThingFlagMetal) }

func (t *Thing) String() string {
	return "[Id: " + t.id + ", Model: " + t.model + ", Name: " + t.name + "]"
}

// Announce returns the packet a thing sends first on a new hub connection
func (t *Thing) Announce() *Packet {
	var pkt Packet
	var ann = ThingMsgAnnounce{"announce", t.id, t.model, t.name}
	return pkt.Marshal(&ann)
}

// A valid ID is a non-empty string with only [a-z], [A-Z], [0-9], or
// underscore characters.
func ValidId(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') &&
			(r < 'A' || r > 'Z') &&
			(r < '0' || r > '9') &&
			(r != '_') {
			return false
		}
	}
	return len(s) > 0
}
