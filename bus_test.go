package ranger

import (
	"testing"
	"time"
)

func TestNilConnect(t *testing.T) {
	bus := NewBus("test bus", nil, nil)
	sock := &socket{"test socket", 0, bus}
	bus.plugin(sock)
	bus.unplug(sock)
}

func TestConnect(t *testing.T) {
	i := 0
	connect := func(s Socketer) { i++ }
	disconnect := func(s Socketer) { i++ }
	bus := NewBus("test bus", connect, disconnect)
	sock := &socket{"test socket", 0, bus}
	bus.plugin(sock)
	i++
	bus.unplug(sock)
	if i != 3 {
		t.Error("Expected i == 3; i:", i)
	}
}

func TestNilHandler(t *testing.T) {
	defer func() { _ = recover() }()
	bus := NewBus("test bus", nil, nil)
	// should panic with nil handler
	bus.Handle("foo", nil)
	t.Errorf("did not panic")
}

func TestInvalidUnhandle(t *testing.T) {
	bus := NewBus("test bus", nil, nil)
	bus.Unhandle("foo")
}

func TestDuplicateHandle(t *testing.T) {
	bus := NewBus("test bus", nil, nil)
	if !bus.Handle("foo", func(*Packet) {}) {
		t.Error("first handler not registered")
	}
	if bus.Handle("foo", func(*Packet) {}) {
		t.Error("second handler for same path registered")
	}
}

func TestReceiveByPath(t *testing.T) {
	var got []string
	bus := NewBus("test bus", nil, nil)
	bus.Subscribe(Subscribers{
		"update":    func(*Packet) { got = append(got, "update") },
		"get/state": func(*Packet) { got = append(got, "get/state") },
	})
	sock := &socket{"test socket", 0, bus}
	var pkt = &Packet{bus: bus, src: sock}
	bus.receive(pkt.Marshal(&ThingMsg{"get/state"}))
	bus.receive(pkt.Marshal(&ThingMsg{"update"}))
	bus.receive(pkt.Marshal(&ThingMsg{"unknown"}))
	bus.Unhandle("update")
	bus.receive(pkt.Marshal(&ThingMsg{"update"}))
	if len(got) != 2 || got[0] != "get/state" || got[1] != "update" {
		t.Error("Unexpected dispatch:", got)
	}
}

func TestMaxSocket(t *testing.T) {
	bus := NewBus("test bus", nil, nil)
	bus.MaxSockets(1)
	sock1 := &socket{"test socket 1", 0, bus}
	sock2 := &socket{"test socket 2", 0, bus}
	go func() { time.Sleep(100 * time.Millisecond); bus.unplug(sock1) }()
	bus.plugin(sock1)
	bus.plugin(sock2)
}

type testSocket struct {
	socket
	sent bool
}

func (s *testSocket) Send(pkt *Packet) error {
	s.sent = true
	return nil
}

func TestBroadcast(t *testing.T) {
	bus := NewBus("test bus", nil, nil)
	sock1 := &testSocket{socket: socket{"test socket 1", SocketFlagBcast, bus}}
	sock2 := &testSocket{socket: socket{"test socket 2", SocketFlagBcast, bus}}
	sock3 := &testSocket{socket: socket{"test socket 3", 0, bus}}
	sock4 := &testSocket{socket: socket{"test socket 4", SocketFlagBcast, bus}}
	bus.plugin(sock1)
	bus.plugin(sock2)
	bus.plugin(sock3)
	bus.plugin(sock4)
	pkt := &Packet{bus, sock1, nil}
	bus.broadcast(pkt)
	if !(!sock1.sent && sock2.sent && !sock3.sent && sock4.sent) {
		t.Error("Broadcast failed")
	}
}

func TestInjectBroadcast(t *testing.T) {
	bus := NewBus("test bus", nil, nil)
	bus.Handle("update", func(pkt *Packet) { pkt.Broadcast() })
	viewer := &testSocket{socket: socket{"viewer", SocketFlagBcast, bus}}
	bus.plugin(viewer)
	injector := NewInjector("test injector", bus)
	var pkt Packet
	injector.Inject(pkt.Marshal(&ThingMsg{"update"}))
	if !viewer.sent {
		t.Error("injected update not broadcast")
	}
}
