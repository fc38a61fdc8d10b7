package services

import (
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
)

// AuthFailureInterceptor watches every response on the shared client and
// reports rejected delegated sessions through a single hook.
//
// Only bearer-authorized requests are considered: a 401 on a Basic or
// anonymous request (a failed passphrase login, for example) is the calling
// code's business, not a session invalidation.
//
// The original response always flows back to the call site unchanged, so
// its own error handling still runs. The hook augments, never swallows.
type AuthFailureInterceptor struct {
	base   http.RoundTripper
	hook   func()
	logger *log.Logger
}

// RoundTrip implements [http.RoundTripper].
func (i *AuthFailureInterceptor) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := i.base.RoundTrip(req)
	if err != nil || resp == nil {
		return resp, err
	}

	if resp.StatusCode == http.StatusUnauthorized && isBearer(req) {
		i.logger.Warn("delegated session rejected", "path", req.URL.Path)
		i.hook()
	}

	return resp, err
}

func isBearer(req *http.Request) bool {
	return strings.HasPrefix(req.Header.Get("Authorization"), "Bearer ")
}

// AttachAuthFailure installs the interceptor on the shared client's
// transport. It stays attached for the lifetime of the session provider;
// attaching twice without detaching would run the hook twice per failure,
// so the previous transport is remembered for [Client.DetachAuthFailure].
func (c *Client) AttachAuthFailure(hook func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	base := c.httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	c.prev = c.httpClient.Transport
	c.httpClient.Transport = &AuthFailureInterceptor{base: base, hook: hook, logger: c.logger}
}

// DetachAuthFailure restores the transport that was in place before
// [Client.AttachAuthFailure]. Call it when the session provider shuts down.
func (c *Client) DetachAuthFailure() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.httpClient.Transport.(*AuthFailureInterceptor); ok {
		c.httpClient.Transport = c.prev
		c.prev = nil
	}
}
