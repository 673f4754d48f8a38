package reminders

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/slackerhq/slacker/internal/api"
	"github.com/slackerhq/slacker/internal/feed"
)

type fakeGateway struct {
	mu    sync.Mutex
	calls map[string]int
	fn    func(endpoint string, opts api.CallOptions) (api.Envelope, error)
}

func (f *fakeGateway) Call(_ context.Context, endpoint string, opts api.CallOptions) (api.Envelope, error) {
	f.mu.Lock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[endpoint]++
	f.mu.Unlock()
	return f.fn(endpoint, opts)
}

const savedListBody = `{"ok":true,"saved_items":[
	{"item_type":"reminder","state":"uncompleted","date_due":1700000000,
	 "description":[{"type":"rich_text","elements":[{"type":"rich_text_section",
	 "elements":[{"type":"text","text":"call mom"}]}]}]},
	{"item_type":"message","state":"completed","item_id":"C42","ts":"1699999999.000100"}
],"counts":{"total_count":2,"uncompleted_count":1,"completed_count":1}}`

func newFake() *fakeGateway {
	return &fakeGateway{fn: func(endpoint string, opts api.CallOptions) (api.Envelope, error) {
		switch endpoint {
		case "saved.list":
			return api.Envelope{OK: true, Raw: []byte(savedListBody)}, nil
		case "conversations.info":
			return api.Envelope{OK: true, Raw: []byte(`{"ok":true,"channel":{"id":"C42","name":"general"}}`)}, nil
		case "conversations.history":
			return api.Envelope{OK: true, Raw: []byte(`{"ok":true,"messages":[{"text":"saved message body"}]}`)}, nil
		}
		return api.Envelope{}, &api.APIError{Endpoint: endpoint, Code: "unknown_method"}
	}}
}

func newService(gw *fakeGateway) *Service {
	return NewService(slog.Default(), gw, feed.NewResolver(slog.Default(), gw, ""))
}

func TestListMixedItems(t *testing.T) {
	gw := newFake()
	items, counts, err := newService(gw).List(context.Background(), 50, false, "https://acme.slack.com/")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("item count got %d want 2", len(items))
	}

	reminder := items[0]
	if reminder.Type != "reminder" || reminder.Text != "call mom" {
		t.Fatalf("unexpected reminder %+v", reminder)
	}
	if reminder.DueTimestamp != 1700000000 {
		t.Fatalf("due timestamp got %d", reminder.DueTimestamp)
	}

	message := items[1]
	if message.Type != "message" || message.ChannelName != "general" {
		t.Fatalf("unexpected message %+v", message)
	}
	if message.Message != "saved message body" {
		t.Fatalf("message text got %q", message.Message)
	}
	if want := "https://acme.slack.com/archives/C42/p1699999999000100"; message.Link != want {
		t.Fatalf("link got %q want %q", message.Link, want)
	}

	if counts["total_count"] != 2 {
		t.Fatalf("counts passthrough got %v", counts)
	}
}

func TestListRemindersOnly(t *testing.T) {
	gw := newFake()
	items, _, err := newService(gw).List(context.Background(), 50, true, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 || items[0].Type != "reminder" {
		t.Fatalf("expected only the reminder, got %+v", items)
	}
	if gw.calls["conversations.info"] != 0 {
		t.Fatal("no channel lookups expected for reminders only")
	}
}

func TestListDegradesOnLookupFailure(t *testing.T) {
	gw := &fakeGateway{fn: func(endpoint string, opts api.CallOptions) (api.Envelope, error) {
		if endpoint == "saved.list" {
			return api.Envelope{OK: true, Raw: []byte(savedListBody)}, nil
		}
		return api.Envelope{}, &api.TransportError{Endpoint: endpoint, Err: context.DeadlineExceeded}
	}}
	items, _, err := newService(gw).List(context.Background(), 50, false, "")
	if err != nil {
		t.Fatalf("List must not fail on per-item lookups: %v", err)
	}
	message := items[1]
	if message.ChannelName != "C42" {
		t.Fatalf("channel fallback got %q want raw id", message.ChannelName)
	}
	if message.Message != "" {
		t.Fatalf("message text should be empty on fetch failure, got %q", message.Message)
	}
	if !strings.HasPrefix(message.Link, "https://slack.com/archives/") {
		t.Fatalf("link fallback got %q", message.Link)
	}
}
