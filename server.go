package ranger

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"net"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"golang.org/x/net/websocket"
)

// Server runs a thing and serves it over HTTP.  GET /state returns the
// thing's state packet; /ws/ accepts websocket viewers which receive every
// packet the thing broadcasts.  If the thing is an http.Handler it serves
// the remaining paths.
type Server struct {
	http.Server
	thinger  Thinger
	bus      *Bus
	injector *Injector
	router   *mux.Router
	user     string
	passwd   string
}

func NewServer(thinger Thinger) *Server {
	var s Server

	s.thinger = thinger
	s.bus = NewBus("server bus", nil, nil)
	s.bus.Subscribe(thinger.Subscribers())
	s.injector = NewInjector("server injector", s.bus)

	s.router = mux.NewRouter()
	s.router.HandleFunc("/state", s.basicAuth(s.state)).Methods(http.MethodGet)
	s.router.HandleFunc("/ws/", s.basicAuth(s.serveWebSocket))
	// things with their own pages get every other route
	if h, ok := thinger.(http.Handler); ok {
		s.router.NotFoundHandler = s.basicAuth(h.ServeHTTP)
	}
	s.Handler = handlers.LoggingHandler(os.Stdout, s.router)

	return &s
}

// BasicAuth protects every route with user and passwd.  An empty user
// disables authentication.
func (s *Server) BasicAuth(user, passwd string) {
	s.user, s.passwd = user, passwd
}

// Handle adds an extra route behind basic authentication
func (s *Server) Handle(path string, handler http.Handler) {
	s.router.HandleFunc(path, s.basicAuth(handler.ServeHTTP))
}

// DialWebSocket keeps a websocket connection to a hub at url open in the
// background, announcing the thing on each new connection.
func (s *Server) DialWebSocket(ctx context.Context, user, passwd, url string) error {
	return dialHub(ctx, s.bus, user, passwd, url, s.thinger.Announce())
}

// Run the thing until ctx is done
func (s *Server) Run(ctx context.Context) {
	s.thinger.SetFlag(ThingFlagMetal)
	s.thinger.Run(ctx, s.injector)
}

// replySocket captures the reply to a packet received over plain HTTP
type replySocket struct {
	socket
	reply *Packet
}

func (r *replySocket) Send(pkt *Packet) error {
	r.reply = pkt
	return nil
}

func (s *Server) state(w http.ResponseWriter, r *http.Request) {
	src := &replySocket{socket: socket{name: "http:" + r.RemoteAddr, bus: s.bus}}
	pkt := &Packet{bus: s.bus, src: src}
	s.bus.receive(pkt.Marshal(&ThingMsg{"get/state"}))
	if src.reply == nil {
		http.Error(w, "no state", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(src.reply.Bytes())
}

func (s *Server) serveWebSocket(w http.ResponseWriter, r *http.Request) {
	ws := newWebSocket(r.URL, r.RemoteAddr, s.bus)
	serv := websocket.Server{Handler: websocket.Handler(ws.serve)}
	serv.ServeHTTP(w, r)
}

func (s *Server) basicAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(writer http.ResponseWriter, r *http.Request) {

		// skip basic authentication if no user
		if s.user == "" {
			next.ServeHTTP(writer, r)
			return
		}

		ruser, rpasswd, ok := r.BasicAuth()

		if ok {
			userHash := sha256.Sum256([]byte(s.user))
			passHash := sha256.Sum256([]byte(s.passwd))
			ruserHash := sha256.Sum256([]byte(ruser))
			rpassHash := sha256.Sum256([]byte(rpasswd))

			// https://www.alexedwards.net/blog/basic-authentication-in-go
			userMatch := (subtle.ConstantTimeCompare(userHash[:], ruserHash[:]) == 1)
			passMatch := (subtle.ConstantTimeCompare(passHash[:], rpassHash[:]) == 1)

			if userMatch && passMatch {
				next.ServeHTTP(writer, r)
				return
			}
		}

		writer.Header().Set("WWW-Authenticate", `Basic realm="restricted", charset="UTF-8"`)
		http.Error(writer, "Unauthorized", http.StatusUnauthorized)
	}
}

// Listen opens the server's TCP listener on Addr
func (s *Server) Listen() (net.Listener, error) {
	addr := s.Addr
	if addr == "" {
		addr = ":http"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	return ln, nil
}

// ServeListener serves on ln until ctx is done, then shuts the server down
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	errc := make(chan error, 1)
	go func() { errc <- s.Serve(ln) }()
	select {
	case err := <-errc:
		return fmt.Errorf("serve %s: %w", ln.Addr(), err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}
