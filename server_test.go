package ranger

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

type stateThing struct {
	Thing
	ThingMsg
	Count int
}

func (s *stateThing) getState(pkt *Packet) {
	s.Path = "state"
	pkt.Marshal(s).Reply()
}

func (s *stateThing) Subscribers() Subscribers {
	return Subscribers{"get/state": s.getState}
}

func (s *stateThing) Run(ctx context.Context, i *Injector) {
	<-ctx.Done()
}

func newStateThing() *stateThing {
	return &stateThing{Thing: NewThing("id", "model", "name"), Count: 7}
}

func TestServerState(t *testing.T) {
	c := qt.New(t)
	server := NewServer(newStateThing())
	ts := httptest.NewServer(server.Handler)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/state")
	c.Assert(err, qt.IsNil)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	c.Assert(err, qt.IsNil)
	c.Assert(resp.StatusCode, qt.Equals, http.StatusOK)
	c.Assert(resp.Header.Get("Content-Type"), qt.Equals, "application/json")
	c.Assert(string(body), qt.Equals, `{"Path":"state","Count":7}`)
}

func TestServerBasicAuth(t *testing.T) {
	c := qt.New(t)
	server := NewServer(newStateThing())
	server.BasicAuth("user", "passwd")
	ts := httptest.NewServer(server.Handler)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/state")
	c.Assert(err, qt.IsNil)
	resp.Body.Close()
	c.Assert(resp.StatusCode, qt.Equals, http.StatusUnauthorized)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/state", nil)
	c.Assert(err, qt.IsNil)
	req.SetBasicAuth("user", "wrong")
	resp, err = http.DefaultClient.Do(req)
	c.Assert(err, qt.IsNil)
	resp.Body.Close()
	c.Assert(resp.StatusCode, qt.Equals, http.StatusUnauthorized)

	req.SetBasicAuth("user", "passwd")
	resp, err = http.DefaultClient.Do(req)
	c.Assert(err, qt.IsNil)
	resp.Body.Close()
	c.Assert(resp.StatusCode, qt.Equals, http.StatusOK)
}

func TestServerExtraRoute(t *testing.T) {
	c := qt.New(t)
	server := NewServer(newStateThing())
	server.Handle("/metrics", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "ok")
	}))
	ts := httptest.NewServer(server.Handler)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	c.Assert(err, qt.IsNil)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	c.Assert(string(body), qt.Equals, "ok")
}

func TestServerListenInUse(t *testing.T) {
	c := qt.New(t)
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	c.Assert(err, qt.IsNil)
	defer busy.Close()

	server := NewServer(newStateThing())
	server.Addr = busy.Addr().String()
	_, err = server.Listen()
	c.Assert(err, qt.ErrorMatches, `listen 127\.0\.0\.1:\d+: .*`)
}

func TestServerServeListener(t *testing.T) {
	c := qt.New(t)
	server := NewServer(newStateThing())
	server.Addr = "127.0.0.1:0"
	ln, err := server.Listen()
	c.Assert(err, qt.IsNil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.ServeListener(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/state")
	c.Assert(err, qt.IsNil)
	resp.Body.Close()
	c.Assert(resp.StatusCode, qt.Equals, http.StatusOK)

	cancel()
	select {
	case err := <-done:
		c.Assert(err, qt.IsNil)
	case <-time.After(5 * time.Second):
		c.Fatal("server did not shut down")
	}
}
