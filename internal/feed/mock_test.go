package feed

import (
	"context"
	"sync"

	"github.com/slackerhq/slacker/internal/api"
)

// recordedCall captures one gateway invocation for call-count assertions.
type recordedCall struct {
	endpoint string
	opts     api.CallOptions
}

// fakeGateway routes calls to a handler and records every invocation; safe
// for the concurrent fan-out the resolver performs.
type fakeGateway struct {
	mu      sync.Mutex
	calls   []recordedCall
	handler func(endpoint string, opts api.CallOptions) (api.Envelope, error)
}

func (f *fakeGateway) Call(_ context.Context, endpoint string, opts api.CallOptions) (api.Envelope, error) {
	f.mu.Lock()
	f.calls = append(f.calls, recordedCall{endpoint: endpoint, opts: opts})
	f.mu.Unlock()
	return f.handler(endpoint, opts)
}

func (f *fakeGateway) count(endpoint string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.endpoint == endpoint {
			n++
		}
	}
	return n
}

func (f *fakeGateway) countParam(endpoint, param, value string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.endpoint == endpoint && c.opts.Params.Get(param) == value {
			n++
		}
	}
	return n
}

func okEnvelope(body string) api.Envelope {
	return api.Envelope{OK: true, Raw: []byte(body)}
}
