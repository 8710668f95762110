//go:build !tinygo

package sonar

import (
	"embed"
	"net/http"
)

//go:embed index.html
var fs embed.FS

// ServeHTTP serves the live status page
func (s *Sonar) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	http.FileServer(http.FS(fs)).ServeHTTP(w, r)
}
