package bot

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/hpungsan/linkbot/internal/db"
	"github.com/hpungsan/linkbot/internal/ops"
	"github.com/hpungsan/linkbot/internal/weather"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type post struct {
	Channel string
	Text    string
}

// fakeSession records posted messages.
type fakeSession struct {
	mu         sync.Mutex
	posts      []post
	channel    string
	channelErr error
	postErr    error
}

func (s *fakeSession) PostMessage(ctx context.Context, channel, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.postErr != nil {
		return s.postErr
	}
	s.posts = append(s.posts, post{Channel: channel, Text: text})
	return nil
}

func (s *fakeSession) DefaultChannel(ctx context.Context) (string, error) {
	return s.channel, s.channelErr
}

func (s *fakeSession) Posts() []post {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]post(nil), s.posts...)
}

// mockStore fails the test on any call that was not set up.
type mockStore struct{ mock.Mock }

func (m *mockStore) Resolve(ctx context.Context, handle string) (string, error) {
	args := m.Called(ctx, handle)
	return args.String(0), args.Error(1)
}

func (m *mockStore) Create(ctx context.Context, handle, link string) error {
	return m.Called(ctx, handle, link).Error(0)
}

func (m *mockStore) Deactivate(ctx context.Context, handle string) (int64, error) {
	args := m.Called(ctx, handle)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStore) Search(ctx context.Context, pattern string) (*ops.SearchOutput, error) {
	args := m.Called(ctx, pattern)
	out, _ := args.Get(0).(*ops.SearchOutput)
	return out, args.Error(1)
}

func (m *mockStore) LastRun(ctx context.Context) (string, bool, error) {
	args := m.Called(ctx)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *mockStore) TouchLastRun(ctx context.Context, now time.Time) error {
	return m.Called(ctx, now).Error(0)
}

type mockWeather struct{ mock.Mock }

func (m *mockWeather) Lookup(ctx context.Context, query string) (*weather.Report, error) {
	args := m.Called(ctx, query)
	r, _ := args.Get(0).(*weather.Report)
	return r, args.Error(1)
}

// newStore returns a Store backed by a fresh database.
func newStore(t *testing.T) *ops.Store {
	t.Helper()
	database, err := db.Init(filepath.Join(t.TempDir(), "linkbot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return ops.NewStore(database)
}

func TestRun_RepliesToEligibleMessages(t *testing.T) {
	session := &fakeSession{}
	b := New(session, newStore(t), nil, Options{SelfID: "UBOT"})

	events := make(chan Event, 8)
	events <- Event{Type: EventMessage, Channel: "C1", User: "U1", Text: ".bookmark food Pizza Place"}
	events <- Event{Type: "channel_joined", Channel: "C1", User: "U1", Text: ".g ignored"}
	events <- Event{Type: EventMessage, Channel: "C1", User: "U1", Text: ""}
	events <- Event{Type: EventMessage, Channel: "C1", User: "UBOT", Text: ".g from myself"}
	events <- Event{Type: EventMessage, Channel: "C2", User: "U2", Text: "just chatting"}
	close(events)

	require.NoError(t, b.Run(t.Context(), events))
	require.Equal(t, []post{{Channel: "C1", Text: "Bookmark added."}}, session.Posts())
}

func TestRun_StopsOnCancel(t *testing.T) {
	b := New(&fakeSession{}, &mockStore{}, nil, Options{})
	events := make(chan Event)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx, events) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_ConcurrentBookmarksOneWinner(t *testing.T) {
	session := &fakeSession{}
	store := newStore(t)
	b := New(session, store, nil, Options{MaxConcurrentCommands: 4})

	const n = 10
	events := make(chan Event, n)
	for range n {
		events <- Event{Type: EventMessage, Channel: "C1", User: "U1", Text: ".bookmark race https://example.com"}
	}
	close(events)

	require.NoError(t, b.Run(t.Context(), events))

	var added, exists int
	for _, p := range session.Posts() {
		switch p.Text {
		case "Bookmark added.":
			added++
		case "Bookmark already exists.":
			exists++
		default:
			t.Errorf("unexpected reply %q", p.Text)
		}
	}
	require.Equal(t, 1, added)
	require.Equal(t, n-1, exists)

	link, err := store.Resolve(t.Context(), "race")
	require.NoError(t, err)
	require.Equal(t, "https://example.com", link)
}

func TestHandle_PostFailureIsLogged(t *testing.T) {
	session := &fakeSession{postErr: context.DeadlineExceeded}
	b := New(session, &mockStore{}, nil, Options{})

	// Must not panic or block.
	b.Handle(t.Context(), Event{Type: EventMessage, Channel: "C1", Text: ".g go"})
	require.Empty(t, session.Posts())
}
