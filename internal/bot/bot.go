// Package bot reacts to chat messages: it parses commands, runs them against
// the bookmark store or an external collaborator, and posts one reply per
// command back to the originating channel.
package bot

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/hpungsan/linkbot/internal/command"
	"github.com/hpungsan/linkbot/internal/ops"
	"github.com/hpungsan/linkbot/internal/weather"
)

// EventMessage is the event type of an ordinary chat message.
const EventMessage = "message"

// Defaults applied by New when Options leave a field unset.
const (
	DefaultCollaboratorTimeout   = 10 * time.Second
	DefaultMaxConcurrentCommands = 16
)

// Event is one inbound utterance from the chat transport.
type Event struct {
	Type    string
	Text    string
	Channel string
	User    string
}

// Session is the chat transport the bot talks through.
type Session interface {
	PostMessage(ctx context.Context, channel, text string) error
	// DefaultChannel returns the channel used for the first-run welcome,
	// or "" when the bot is not a member of any channel.
	DefaultChannel(ctx context.Context) (string, error)
}

// Store is the bookmark storage the bot owns. *ops.Store implements it.
type Store interface {
	Resolve(ctx context.Context, handle string) (string, error)
	Create(ctx context.Context, handle, link string) error
	Deactivate(ctx context.Context, handle string) (int64, error)
	Search(ctx context.Context, pattern string) (*ops.SearchOutput, error)
	LastRun(ctx context.Context) (string, bool, error)
	TouchLastRun(ctx context.Context, now time.Time) error
}

// Weather looks up forecasts. *weather.Client implements it.
type Weather interface {
	Lookup(ctx context.Context, query string) (*weather.Report, error)
}

// Options tune a Bot.
type Options struct {
	Prefix                string
	SelfID                string // messages from this user are ignored
	CollaboratorTimeout   time.Duration
	MaxConcurrentCommands int
	Logger                *zap.Logger
	Now                   func() time.Time
}

// Bot dispatches chat commands.
type Bot struct {
	session Session
	store   Store
	weather Weather
	opts    Options
	logger  *zap.Logger
	lookups singleflight.Group
}

// New creates a Bot. weather may be nil, in which case weather commands
// reply with the failure text.
func New(session Session, store Store, wx Weather, opts Options) *Bot {
	if opts.Prefix == "" {
		opts.Prefix = command.DefaultPrefix
	}
	if opts.CollaboratorTimeout <= 0 {
		opts.CollaboratorTimeout = DefaultCollaboratorTimeout
	}
	if opts.MaxConcurrentCommands <= 0 {
		opts.MaxConcurrentCommands = DefaultMaxConcurrentCommands
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bot{
		session: session,
		store:   store,
		weather: wx,
		opts:    opts,
		logger:  logger,
	}
}

// Run handles events until the channel is closed or ctx is done, then waits
// for in-flight commands to finish. At most MaxConcurrentCommands commands
// run at once; intake blocks while the limit is reached.
func (b *Bot) Run(ctx context.Context, events <-chan Event) error {
	var g errgroup.Group
	g.SetLimit(b.opts.MaxConcurrentCommands)

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case ev, ok := <-events:
			if !ok {
				break loop
			}
			if !b.eligible(ev) {
				continue
			}
			g.Go(func() error {
				b.Handle(ctx, ev)
				return nil
			})
		}
	}

	return g.Wait()
}

// eligible reports whether ev is a non-empty chat message from someone
// other than the bot.
func (b *Bot) eligible(ev Event) bool {
	if ev.Type != EventMessage || ev.Text == "" {
		return false
	}
	return b.opts.SelfID == "" || ev.User != b.opts.SelfID
}

// Handle parses one message and posts the reply, if any, to its channel.
func (b *Bot) Handle(ctx context.Context, ev Event) {
	if !b.eligible(ev) {
		return
	}

	reply := b.Respond(ctx, ev.Text)
	if reply.Silent {
		return
	}

	if err := b.session.PostMessage(ctx, ev.Channel, reply.Text); err != nil {
		b.logger.Warn("failed to post reply",
			zap.String("channel", ev.Channel),
			zap.Error(err))
	}
}
