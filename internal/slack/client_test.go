package slack

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docdigest/internal/apperrors"
)

// fakeWorkspace serves the conversations endpoints used by Client.
type fakeWorkspace struct {
	mu      sync.Mutex
	joined  []string
	oldest  []string
	failFor string
}

func (f *fakeWorkspace) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.Header.Get("Authorization") != "Bearer xoxb-test" {
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": "not_authed"})
		return
	}
	_ = r.ParseForm()

	switch r.URL.Path {
	case "/conversations.list":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if r.Form.Get("types") != "public_channel" {
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": "invalid_types"})
			return
		}
		if r.Form.Get("cursor") == "" {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"ok":                true,
				"channels":          []Channel{{ID: "C1", Name: "general", IsMember: true}, {ID: "C2", Name: "random"}},
				"response_metadata": map[string]string{"next_cursor": "page2"},
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":       true,
			"channels": []Channel{{ID: "C3", Name: "locked"}, {ID: "C4", Name: "broken", IsMember: true}},
		})
	case "/conversations.join":
		if r.Form.Get("channel") == "C3" {
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": "is_archived"})
			return
		}
		f.joined = append(f.joined, r.Form.Get("channel"))
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	case "/conversations.history":
		ch := r.Form.Get("channel")
		f.oldest = append(f.oldest, r.Form.Get("oldest"))
		if ch == f.failFor {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":       true,
			"messages": []Message{{User: "U1", Text: "hello from " + ch, TS: "1760580000.000100"}},
		})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c := NewClient("xoxb-test")
	c.BaseURL = srv.URL
	c.limiter = nil
	return c
}

func TestClient_ListMemberChannels(t *testing.T) {
	fake := &fakeWorkspace{}
	c := newTestClient(t, fake)

	channels, err := c.ListMemberChannels(context.Background())
	require.NoError(t, err)

	var names []string
	for _, ch := range channels {
		names = append(names, ch.Name)
		assert.True(t, ch.IsMember)
	}
	assert.Equal(t, []string{"general", "random", "broken"}, names)
	assert.Equal(t, []string{"C2"}, fake.joined)
}

func TestClient_FetchRecentMessages(t *testing.T) {
	fake := &fakeWorkspace{failFor: "C4"}
	c := newTestClient(t, fake)

	since := time.Unix(1760500000, 0)
	msgs, err := c.FetchRecentMessages(context.Background(), since)
	require.NoError(t, err)

	require.Len(t, msgs, 2)
	assert.Equal(t, "general", msgs[0].Channel)
	assert.Equal(t, "hello from C1", msgs[0].Text)
	assert.Equal(t, "random", msgs[1].Channel)
	assert.Equal(t, "1760500000.000000", fake.oldest[0])
}

func TestClient_FetchRecentMessages_MissingToken(t *testing.T) {
	c := NewClient("")
	_, err := c.FetchRecentMessages(context.Background(), time.Now())
	assert.True(t, errors.Is(err, apperrors.ErrConfig))
}

func TestClient_APIError(t *testing.T) {
	c := newTestClient(t, &fakeWorkspace{})
	c.Token = "wrong"

	_, err := c.ListMemberChannels(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "conversations.list", apiErr.Method)
	assert.Equal(t, "not_authed", apiErr.Code)
}

func TestMessage_Time(t *testing.T) {
	tests := []struct {
		ts   string
		want time.Time
	}{
		{ts: "1760580000.500000", want: time.Unix(1760580000, 500000000)},
		{ts: "1760580000", want: time.Unix(1760580000, 0)},
		{ts: "garbage", want: time.Time{}},
	}
	for _, tt := range tests {
		got := Message{TS: tt.ts}.Time()
		if got.Sub(tt.want).Abs() > time.Millisecond {
			t.Errorf("Time(%q) = %v, want %v", tt.ts, got, tt.want)
		}
	}
}
