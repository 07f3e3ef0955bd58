package http

import "net/http"

// headerTransport sets static headers on every outgoing request.
// Headers already present on the request win.
type headerTransport struct {
	headers http.Header
	next    http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	for key, values := range t.headers {
		if out.Header.Get(key) != "" {
			continue
		}
		for _, v := range values {
			out.Header.Add(key, v)
		}
	}
	return t.next.RoundTrip(out)
}

// WithAuthToken sends token as a bearer credential. An empty token is a no-op.
func WithAuthToken(token string) HttpOpts {
	return func(c *httpConfig) {
		if token != "" {
			c.headers.Set("Authorization", "Bearer "+token)
		}
	}
}

// WithUserAgent identifies the calling service to the remote side.
func WithUserAgent(ua string) HttpOpts {
	return func(c *httpConfig) {
		if ua != "" {
			c.headers.Set("User-Agent", ua)
		}
	}
}
