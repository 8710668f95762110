package ranger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/net/websocket"
)

// webSocket wraps a websocket.Conn and implements the Socketer interface
type webSocket struct {
	socket
	mu           mutex
	url          *url.URL
	conn         *websocket.Conn
	closing      bool
	pingPeriod   time.Duration
	pingSent     time.Time
	pongReceived bool
}

const pingPeriodMin = time.Second

var errNilConn = errors.New("send on nil connection")

func newWebSocket(u *url.URL, remoteAddr string, bus *Bus) *webSocket {
	w := &webSocket{}

	var name string
	if remoteAddr == "" {
		name = "ws:localhost::" + u.String()
	} else {
		name = "ws:" + u.String() + "::" + remoteAddr
	}

	w.socket = socket{name: name, bus: bus}
	w.url = u

	/* param ping-period */
	period, _ := strconv.Atoi(u.Query().Get("ping-period"))
	w.pingPeriod = time.Duration(period) * time.Second
	if w.pingPeriod < pingPeriodMin {
		w.pingPeriod = pingPeriodMin
	}

	return w
}

func (w *webSocket) Close() {
	w.mu.Lock()
	w.closing = true
	w.mu.Unlock()
}

func (w *webSocket) isClosing() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closing
}

func (w *webSocket) Send(pkt *Packet) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conn == nil {
		return errNilConn
	}
	return websocket.Message.Send(w.conn, string(pkt.message))
}

func (w *webSocket) newConfig(user, passwd string) (*websocket.Config, error) {
	rawURL := w.url.String()
	origin := "http://localhost/"

	config, err := websocket.NewConfig(rawURL, origin)
	if err != nil {
		return nil, err
	}

	if user != "" {
		// Set the basic auth header for the request
		req, err := http.NewRequest("GET", rawURL, nil)
		if err != nil {
			return nil, err
		}
		req.SetBasicAuth(user, passwd)
		config.Header = req.Header
	}

	return config, nil
}

// dialHub starts a goroutine keeping a client websocket to rawURL connected
// until ctx is done.  Only configuration errors are returned; dial errors
// are logged and retried every second.
func dialHub(ctx context.Context, bus *Bus, user, passwd, rawURL string, announce *Packet) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("hub url %q: %w", rawURL, err)
	}
	w := newWebSocket(u, "", bus)
	cfg, err := w.newConfig(user, passwd)
	if err != nil {
		return fmt.Errorf("configuring websocket %s: %w", w, err)
	}
	go w.dial(ctx, cfg, announce)
	return nil
}

func (w *webSocket) announced(announce *Packet) bool {

	var pkt = &Packet{bus: w.bus, src: w}

	if err := w.Send(announce); err != nil {
		fmt.Printf("Error sending announcement: %s\r\n", err)
		return false
	}

	// Any packet received is an ack of the announcement
	w.conn.SetReadDeadline(time.Now().Add(time.Second))
	err := websocket.Message.Receive(w.conn, &pkt.message)
	if err == nil {
		w.bus.receive(pkt)
		return true
	}

	return false
}

func (w *webSocket) dial(ctx context.Context, cfg *websocket.Config, announce *Packet) {
	for {
		conn, err := websocket.DialConfig(cfg)
		if err == nil {
			w.connect(conn)
			if w.announced(announce) {
				w.SetFlag(SocketFlagBcast)
				// Serve websocket until EOF or error
				w.serveClient(ctx)
			}
			w.disconnect()
			conn.Close()
		} else {
			fmt.Printf("Dial error %s: %s\r\n", w, err)
		}

		// try again in a second
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Second):
		}
	}
}

func (w *webSocket) connect(conn *websocket.Conn) {
	fmt.Printf("Connecting %s\r\n", w)
	w.mu.Lock()
	w.conn = conn
	w.mu.Unlock()
	w.bus.plugin(w)
}

func (w *webSocket) disconnect() {
	fmt.Printf("Disconnecting %s\r\n", w)
	w.bus.unplug(w)
	w.mu.Lock()
	w.conn = nil
	w.mu.Unlock()
}

var pingMsg = []byte("ping")
var pongMsg = []byte("pong")

func (w *webSocket) serve(conn *websocket.Conn) {
	w.connect(conn)
	w.SetFlag(SocketFlagBcast)
	w.serveServer()
	w.disconnect()
}

func (w *webSocket) ping() {
	w.pongReceived = false
	w.pingSent = time.Now()
	w.mu.Lock()
	websocket.Message.Send(w.conn, string(pingMsg))
	w.mu.Unlock()
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func (w *webSocket) serveClient(ctx context.Context) {

	w.ping()

	for {
		var pkt = &Packet{bus: w.bus, src: w}

		if ctx.Err() != nil || w.isClosing() {
			fmt.Printf("Closing %s\r\n", w)
			break
		}

		w.conn.SetReadDeadline(time.Now().Add(time.Second))
		err := websocket.Message.Receive(w.conn, &pkt.message)
		if err == nil {
			if bytes.Equal(pkt.message, pongMsg) {
				w.pongReceived = true
			} else {
				w.bus.receive(pkt)
			}
		} else if !isTimeout(err) {
			fmt.Printf("Disconnecting %s: %s\r\n", w, err)
			break
		}

		if time.Now().After(w.pingSent.Add(w.pingPeriod)) {
			if !w.pongReceived {
				fmt.Printf("No pong; disconnecting %s\r\n", w)
				break
			}
			w.ping()
		}
	}
}

func (w *webSocket) serveServer() {

	pingCheck := w.pingPeriod + (4 * time.Second)
	lastRecv := time.Now()

	for {
		var pkt = &Packet{bus: w.bus, src: w}

		if w.isClosing() {
			fmt.Printf("Closing %s\r\n", w)
			break
		}

		w.conn.SetReadDeadline(time.Now().Add(time.Second))
		err := websocket.Message.Receive(w.conn, &pkt.message)
		if err == nil {
			lastRecv = time.Now()
			if bytes.Equal(pkt.message, pingMsg) {
				w.mu.Lock()
				err := websocket.Message.Send(w.conn, string(pongMsg))
				w.mu.Unlock()
				if err != nil {
					fmt.Printf("Error sending pong, disconnecting %s: %s\r\n", w, err)
					break
				}
			} else {
				w.bus.receive(pkt)
			}
			continue
		}

		if isTimeout(err) {
			if time.Since(lastRecv) > pingCheck {
				fmt.Printf("Timeout, disconnecting %s %s\r\n", w, time.Since(lastRecv))
				break
			}
			continue
		}

		fmt.Printf("Disconnecting %s: %s\r\n", w, err)
		break
	}
}
