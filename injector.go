package ranger

// Injector is a socket a Thing uses to put its own packets onto the bus.
// Injected packets are dispatched like packets arriving from the network,
// with the injector as their source.
type Injector struct {
	socket
}

func NewInjector(name string, bus *Bus) *Injector {
	i := &Injector{socket{name: name, bus: bus}}
	bus.plugin(i)
	return i
}

func (i *Injector) Inject(pkt *Packet) {
	pkt.bus, pkt.src = i.bus, i
	i.bus.receive(pkt)
}
