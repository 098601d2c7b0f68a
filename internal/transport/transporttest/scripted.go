// Package transporttest provides a scripted transport.Adapter for tests.
package transporttest

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/shinyyama/kidtokid/internal/transport"
)

// Call is one recorded request. Body holds the JSON encoding of the request
// body, or nil.
type Call struct {
	Method string
	Path   string
	Body   []byte
}

// Decode unmarshals the recorded body into v.
func (c Call) Decode(v any) error {
	return json.Unmarshal(c.Body, v)
}

// Responder produces the scripted response for one request.
type Responder func(req transport.Request) (*transport.Result, error)

// JSON responds with v encoded as a JSON result.
func JSON(v any) Responder {
	return func(transport.Request) (*transport.Result, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return &transport.Result{Kind: transport.KindJSON, Body: b}, nil
	}
}

// Empty responds with an empty result, as for a 204.
func Empty() Responder {
	return func(transport.Request) (*transport.Result, error) {
		return nil, nil
	}
}

// Fail responds with an HTTPError for code.
func Fail(code int) Responder {
	return func(transport.Request) (*transport.Result, error) {
		return nil, &transport.HTTPError{StatusCode: code, StatusText: http.StatusText(code)}
	}
}

// Sequence answers successive calls with successive responders and repeats
// the last one.
func Sequence(rs ...Responder) Responder {
	var mu sync.Mutex
	i := 0
	return func(req transport.Request) (*transport.Result, error) {
		mu.Lock()
		r := rs[i]
		if i < len(rs)-1 {
			i++
		}
		mu.Unlock()
		return r(req)
	}
}

// Scripted routes requests by "METHOD path" (path includes the query) and
// records every call. Unrouted requests fail with 404.
type Scripted struct {
	mu     sync.Mutex
	routes map[string]Responder
	calls  []Call
}

var _ transport.Adapter = (*Scripted)(nil)

func New() *Scripted {
	return &Scripted{routes: map[string]Responder{}}
}

func (s *Scripted) On(method, path string, r Responder) *Scripted {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[method+" "+path] = r
	return s
}

func (s *Scripted) Do(_ context.Context, req transport.Request) (*transport.Result, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	var body []byte
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, err
		}
		body = b
	}
	s.mu.Lock()
	s.calls = append(s.calls, Call{Method: method, Path: req.Path, Body: body})
	r, ok := s.routes[method+" "+req.Path]
	s.mu.Unlock()
	if !ok {
		return Fail(http.StatusNotFound)(req)
	}
	return r(req)
}

// Calls returns a copy of the recorded calls in order.
func (s *Scripted) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// Count returns how many times method path was called.
func (s *Scripted) Count(method, path string) int {
	n := 0
	for _, c := range s.Calls() {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

// Last returns the most recent call to method path.
func (s *Scripted) Last(method, path string) (Call, bool) {
	calls := s.Calls()
	for i := len(calls) - 1; i >= 0; i-- {
		if calls[i].Method == method && calls[i].Path == path {
			return calls[i], true
		}
	}
	return Call{}, false
}
