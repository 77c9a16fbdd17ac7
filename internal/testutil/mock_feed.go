// Package testutil provides testing utilities for the WHMCS price feed
// service: a configurable mock feed server and in-memory doubles of the
// cache store and lock manager collaborators.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// MockFeedResponse defines the behavior for a mock feed endpoint response.
type MockFeedResponse struct {
	StatusCode int
	Body       string
	Delay      time.Duration
}

// MockFeed is a configurable mock WHMCS feed server for testing.
type MockFeed struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	// Tracking
	RequestCount      int
	LastRequestQuery  string
	LastRequestHeader http.Header
}

// NewMockFeed creates a new mock feed server.
func NewMockFeed() *MockFeed {
	mock := &MockFeed{
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.LastRequestQuery = r.URL.RawQuery
		mock.LastRequestHeader = r.Header.Clone()
		mock.mu.Unlock()

		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		mock.defaultHandler(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockFeed) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockFeed) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockFeed) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.LastRequestQuery = ""
	m.LastRequestHeader = nil
}

// Requests returns the request count under the mock's lock.
func (m *MockFeed) Requests() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// SetHandler sets a custom handler for a specific path.
func (m *MockFeed) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a simple response for a path.
func (m *MockFeed) SetResponse(path string, resp MockFeedResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}
		w.WriteHeader(resp.StatusCode)
		fmt.Fprint(w, resp.Body)
	})
}

// SetWrappedResponse configures a 200 response wrapped the way the WHMCS
// JS feeds wrap payloads.
func (m *MockFeed) SetWrappedResponse(path, payload string) {
	m.SetResponse(path, MockFeedResponse{
		StatusCode: http.StatusOK,
		Body:       fmt.Sprintf("document.write('%s');", payload),
	})
}

// defaultHandler answers paths without a configured handler.
func (m *MockFeed) defaultHandler(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/feeds/productsinfo.php":
		fmt.Fprint(w, "document.write('9.99');")
	case "/feeds/domainprice.php":
		fmt.Fprint(w, "document.write('12.00');")
	case "/feeds/domainpricing.php":
		fmt.Fprint(w, "document.write('<table><tr><td>.com</td><td>12.00</td></tr></table>');")
	default:
		http.NotFound(w, r)
	}
}
