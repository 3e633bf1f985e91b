package slack

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/linkbot/internal/bot"
)

func callback(data any) slackevents.EventsAPIEvent {
	return slackevents.EventsAPIEvent{
		Type:       slackevents.CallbackEvent,
		InnerEvent: slackevents.EventsAPIInnerEvent{Type: "message", Data: data},
	}
}

func TestTranslate(t *testing.T) {
	ev, ok := Translate(callback(&slackevents.MessageEvent{
		Type: "message", User: "U1", Text: ".food", Channel: "C1",
	}))
	require.True(t, ok)
	require.Equal(t, bot.Event{Type: bot.EventMessage, Text: ".food", Channel: "C1", User: "U1"}, ev)
}

func TestTranslate_Skips(t *testing.T) {
	tests := []struct {
		name string
		ev   slackevents.EventsAPIEvent
	}{
		{"url verification", slackevents.EventsAPIEvent{Type: slackevents.URLVerification}},
		{"non-message", callback(&slackevents.AppMentionEvent{Text: "hi"})},
		{"edit", callback(&slackevents.MessageEvent{Type: "message", SubType: "message_changed", Channel: "C1"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Translate(tt.ev)
			require.False(t, ok)
		})
	}
}

// newAPIServer serves canned Slack Web API responses keyed by method path.
func newAPIServer(t *testing.T, responses map[string]any) *Adapter {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp, ok := responses[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return New("xoxb-test", "xapp-test", nil, slack.OptionAPIURL(srv.URL+"/"))
}

func TestDefaultChannel(t *testing.T) {
	a := newAPIServer(t, map[string]any{
		"/users.conversations": map[string]any{
			"ok": true,
			"channels": []map[string]any{
				{"id": "CRANDOM", "is_general": false},
				{"id": "CGENERAL", "is_general": true},
			},
			"response_metadata": map[string]any{"next_cursor": ""},
		},
	})

	ch, err := a.DefaultChannel(t.Context())
	require.NoError(t, err)
	require.Equal(t, "CGENERAL", ch)
}

func TestDefaultChannel_FirstWhenNoGeneral(t *testing.T) {
	a := newAPIServer(t, map[string]any{
		"/users.conversations": map[string]any{
			"ok":       true,
			"channels": []map[string]any{{"id": "CONE"}, {"id": "CTWO"}},
		},
	})

	ch, err := a.DefaultChannel(t.Context())
	require.NoError(t, err)
	require.Equal(t, "CONE", ch)
}

func TestDefaultChannel_None(t *testing.T) {
	a := newAPIServer(t, map[string]any{
		"/users.conversations": map[string]any{"ok": true, "channels": []any{}},
	})

	ch, err := a.DefaultChannel(t.Context())
	require.NoError(t, err)
	require.Empty(t, ch)
}

func TestPostMessageAndSelfID(t *testing.T) {
	a := newAPIServer(t, map[string]any{
		"/chat.postMessage": map[string]any{"ok": true, "channel": "C1", "ts": "1700000000.000100"},
		"/auth.test":        map[string]any{"ok": true, "user_id": "UBOT"},
	})

	require.NoError(t, a.PostMessage(t.Context(), "C1", "Bookmark added."))

	id, err := a.SelfID(t.Context())
	require.NoError(t, err)
	require.Equal(t, "UBOT", id)
}

func TestPostMessage_APIError(t *testing.T) {
	a := newAPIServer(t, map[string]any{
		"/chat.postMessage": map[string]any{"ok": false, "error": "not_in_channel"},
	})

	err := a.PostMessage(t.Context(), "C1", "hi")
	require.Error(t, err)
}
