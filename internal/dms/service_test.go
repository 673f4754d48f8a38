package dms

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/slackerhq/slacker/internal/api"
	"github.com/slackerhq/slacker/internal/feed"
)

type fakeGateway struct {
	mu        sync.Mutex
	userCalls int
	fn        func(endpoint string, opts api.CallOptions) (api.Envelope, error)
}

func (f *fakeGateway) Call(_ context.Context, endpoint string, opts api.CallOptions) (api.Envelope, error) {
	f.mu.Lock()
	if endpoint == "users.info" {
		f.userCalls++
	}
	f.mu.Unlock()
	return f.fn(endpoint, opts)
}

const dmsBody = `{"ok":true,
"ims":[
  {"id":"D1","message":{"user":"U1","ts":"1700000100.000100","text":"hi there"}},
  {"id":"D2","message":{"user":"UME","ts":"1700000200.000100","text":"note to self","files":[{"id":"F1"}]}},
  {"id":"D3","message":{"user":"U1","ts":"100.000100","text":"ancient"}}
],
"mpims":[
  {"id":"G1","message":{"user":"U1","ts":"1700000300.000100","text":"group ping"}}
]}`

func newFake() *fakeGateway {
	return &fakeGateway{fn: func(endpoint string, opts api.CallOptions) (api.Envelope, error) {
		switch endpoint {
		case "client.dms":
			return api.Envelope{OK: true, Raw: []byte(dmsBody)}, nil
		case "users.info":
			id := opts.Params.Get("user")
			name := map[string]string{"U1": "alice", "UME": "me"}[id]
			return api.Envelope{OK: true, Raw: []byte(`{"ok":true,"user":{"name":"` + name + `"}}`)}, nil
		}
		return api.Envelope{}, &api.APIError{Endpoint: endpoint, Code: "unknown_method"}
	}}
}

func TestListFiltersAndResolves(t *testing.T) {
	gw := newFake()
	svc := NewService(slog.Default(), gw, feed.NewResolver(slog.Default(), gw, ""))

	since := time.Unix(1700000000, 0)
	result, err := svc.List(context.Background(), since, "UME")
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	if len(result.DMs) != 2 {
		t.Fatalf("dm count got %d want 2 (old message filtered)", len(result.DMs))
	}
	if len(result.GroupDMs) != 1 {
		t.Fatalf("group dm count got %d want 1", len(result.GroupDMs))
	}
	if result.Counts["dms"] != 2 || result.Counts["group_dms"] != 1 {
		t.Fatalf("counts got %v", result.Counts)
	}

	if result.DMs[0].Username != "alice" || result.DMs[0].FromYou {
		t.Fatalf("unexpected first dm %+v", result.DMs[0])
	}
	if !result.DMs[1].FromYou {
		t.Fatal("own message must be marked from_you")
	}
	if !result.DMs[1].HasFiles {
		t.Fatal("file attachment must be flagged")
	}

	// U1 appears in three surviving messages but is looked up once.
	if gw.userCalls != 2 {
		t.Fatalf("users.info calls got %d want 2", gw.userCalls)
	}
}

func TestParseSince(t *testing.T) {
	now := time.Date(2026, 8, 24, 15, 30, 0, 0, time.UTC)
	cases := []struct {
		expr    string
		want    time.Time
		wantErr bool
	}{
		{expr: "today", want: time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)},
		{expr: "", want: time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)},
		{expr: "yesterday", want: time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)},
		{expr: "6h", want: now.Add(-6 * time.Hour)},
		{expr: "2026-08-20", want: time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)},
		{expr: "last monday", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.expr, func(t *testing.T) {
			got, err := ParseSince(tc.expr, now)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.expr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSince(%q): %v", tc.expr, err)
			}
			if !got.Equal(tc.want) {
				t.Fatalf("ParseSince(%q) got %v want %v", tc.expr, got, tc.want)
			}
		})
	}
}
