package server

import (
	"fmt"
	"net/http"
	"net/url"
	"sync"
)

// CallbackResult is what one authorization round-trip produced: the raw
// redirect query, or an error when the redirect itself was not trustworthy.
type CallbackResult struct {
	Query url.Values
	err   error
}

func (r *CallbackResult) Error() error {
	return r.err
}

// CallbackHandler receives the single redirect the SongHop service issues
// after the Spotify authorization flow. It validates the state parameter and
// hands the query off through a channel; it does not look inside the session
// payload. Implements [Handler].
type CallbackHandler struct {
	state      string
	resultChan chan CallbackResult
	once       sync.Once

	mu   sync.Mutex
	seen bool
}

// NewCallbackHandler creates a handler expecting the given state token. The
// state must be cryptographically random; it ties the redirect to the login
// attempt that opened the browser.
func NewCallbackHandler(state string) *CallbackHandler {
	return &CallbackHandler{
		state:      state,
		resultChan: make(chan CallbackResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *CallbackHandler) Routes() []string {
	return []string{"/callback"}
}

// ServeHTTP handles the redirect. Only the first request counts; replays get
// a 400 and nothing reaches the channel.
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.seen {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.seen = true
	h.mu.Unlock()

	query := r.URL.Query()

	if query.Get("state") != h.state {
		h.send(CallbackResult{err: fmt.Errorf("invalid state parameter")})
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	// Both the success payload and a provider error flow through as-is; the
	// session manager owns the interpretation.
	h.send(CallbackResult{Query: query})

	if query.Get("error") != "" || query.Get("data") == "" {
		h.render(w, "Authorization Failed", "Return to the terminal for details.")
		return
	}
	h.render(w, "Authorization Complete", "You can close this window and return to the terminal.")
}

// send delivers the result exactly once and closes the channel.
func (h *CallbackHandler) send(result CallbackResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the channel the single callback result arrives on.
func (h *CallbackHandler) Result() <-chan CallbackResult {
	return h.resultChan
}

func (h *CallbackHandler) render(w http.ResponseWriter, title, detail string) {
	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `
<!DOCTYPE html>
<html>
<head>
    <title>%s</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #1DB954; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>%s</h1>
        <p>%s</p>
    </div>
</body>
</html>
`, title, title, detail)
}
