package host

import (
	"net/http"
	"sync"
)

// RequestContext carries a request and its parsed body through event
// listeners. A listener that rejects the request records the response with
// Fail; the host writes it once the event returns prevented.
type RequestContext struct {
	Request *http.Request
	Body    map[string]any

	mu      sync.Mutex
	failed  bool
	status  int
	message string
}

// NewRequestContext wraps r with its decoded body. A nil body is replaced
// with an empty map.
func NewRequestContext(r *http.Request, body map[string]any) *RequestContext {
	if body == nil {
		body = map[string]any{}
	}
	return &RequestContext{Request: r, Body: body}
}

// Fail records the response for a rejected request. The first call wins.
func (c *RequestContext) Fail(status int, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failed {
		return
	}
	c.failed = true
	c.status = status
	c.message = message
}

// Failure returns the recorded response, if any.
func (c *RequestContext) Failure() (status int, message string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status, c.message, c.failed
}

// BodyString returns body[key] when it holds a string.
func (c *RequestContext) BodyString(key string) (string, bool) {
	v, ok := c.Body[key].(string)
	return v, ok
}
