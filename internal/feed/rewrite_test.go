package feed

import "testing"

func TestRewriteMentionsRoundTrip(t *testing.T) {
	users := map[string]string{"U123": "alice"}
	groups := map[string]string{"S456": "eng"}

	got := RewriteMentions("<@U123> please see <!subteam^S456|@eng>", users, groups)
	want := "@alice please see @eng"
	if got != want {
		t.Fatalf("rewrite got %q want %q", got, want)
	}
}

func TestRewriteMentionsFallbacks(t *testing.T) {
	got := RewriteMentions("<@U123> ping <!subteam^S456>", nil, nil)
	want := "@U123 ping @team"
	if got != want {
		t.Fatalf("rewrite got %q want %q", got, want)
	}
}

func TestRewriteMentionsIdempotent(t *testing.T) {
	users := map[string]string{"U123": "alice"}
	groups := map[string]string{"S456": "eng"}
	text := "<@U123> please see <!subteam^S456|@eng> and <@U999>"

	once := RewriteMentions(text, users, groups)
	twice := RewriteMentions(once, users, groups)
	if once != twice {
		t.Fatalf("second rewrite changed text: %q -> %q", once, twice)
	}
}

func TestNormalizeMarkup(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "broadcast tokens",
			in:   "<!channel> and <!here> and <!everyone>",
			want: "@channel and @here and @everyone",
		},
		{
			name: "broadcast with label",
			in:   "<!channel|@channel> heads up",
			want: "@channel heads up",
		},
		{
			name: "link with label",
			in:   "see <https://example.com/doc|the doc>",
			want: "see the doc",
		},
		{
			name: "bare link",
			in:   "see <https://example.com/doc>",
			want: "see https://example.com/doc",
		},
		{
			name: "mentions untouched",
			in:   "<@U123> and <!subteam^S456|@eng>",
			want: "<@U123> and <!subteam^S456|@eng>",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeMarkup(tc.in); got != tc.want {
				t.Fatalf("normalize got %q want %q", got, tc.want)
			}
			// Idempotent.
			if got := NormalizeMarkup(NormalizeMarkup(tc.in)); got != tc.want {
				t.Fatalf("double normalize got %q want %q", got, tc.want)
			}
		})
	}
}

func TestNormalizeAndRewriteOrderIndependent(t *testing.T) {
	users := map[string]string{"U123": "alice"}
	groups := map[string]string{"S456": "eng"}
	text := "<!channel> <@U123> see <https://x.test|notes> <!subteam^S456|@eng>"

	a := NormalizeMarkup(RewriteMentions(text, users, groups))
	b := RewriteMentions(NormalizeMarkup(text), users, groups)
	if a != b {
		t.Fatalf("order dependent: %q vs %q", a, b)
	}
	want := "@channel @alice see notes @eng"
	if a != want {
		t.Fatalf("got %q want %q", a, want)
	}
}
