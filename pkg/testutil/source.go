package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
)

// Paths served by a SourceServer
const (
	ListPath  = "/list"
	MovedPath = "/moved"
	LoopPath  = "/loop"
)

// SourceServer serves a rule list over HTTP. MovedPath redirects to
// ListPath and LoopPath redirects to itself.
type SourceServer struct {
	*httptest.Server

	mu     sync.Mutex
	body   string
	status int
	hits   atomic.Int32
}

// NewSourceServer starts a server for body. It is closed when the test ends.
func NewSourceServer(t *testing.T, body string) *SourceServer {
	t.Helper()

	s := &SourceServer{body: body, status: http.StatusOK}

	mux := http.NewServeMux()
	mux.HandleFunc(ListPath, func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		s.mu.Lock()
		body, status := s.body, s.status
		s.mu.Unlock()

		if status != http.StatusOK {
			http.Error(w, http.StatusText(status), status)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = fmt.Fprint(w, body)
	})
	mux.HandleFunc(MovedPath, func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		http.Redirect(w, r, ListPath, http.StatusMovedPermanently)
	})
	mux.HandleFunc(LoopPath, func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		http.Redirect(w, r, LoopPath, http.StatusFound)
	})

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// URLFor returns the absolute URL of a served path
func (s *SourceServer) URLFor(path string) string {
	return s.URL + path
}

// SetBody replaces the served list
func (s *SourceServer) SetBody(body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.body = body
}

// FailWith makes ListPath answer with status instead of the list
func (s *SourceServer) FailWith(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

// Hits returns the number of requests served on any path
func (s *SourceServer) Hits() int {
	return int(s.hits.Load())
}
