//go:build !tinygo

package ranger

import (
	"errors"
	"net/http"

	"golang.org/x/crypto/acme/autocert"
)

// ServeTLS serves on :443 with a Let's Encrypt certificate for host.  It
// returns nil once the server is shut down.
func (s *Server) ServeTLS(host string) error {
	err := s.Serve(autocert.NewListener(host))
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
