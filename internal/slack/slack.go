// Package slack connects the bot to Slack over Socket Mode.
package slack

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hpungsan/linkbot/internal/bot"
)

// Adapter implements bot.Session and feeds inbound messages to the bot.
type Adapter struct {
	api    *slack.Client
	sm     *socketmode.Client
	logger *zap.Logger
}

// New creates an adapter from a bot token (xoxb-) and an app-level token
// (xapp-). Extra options are passed to the Web API client.
func New(token, appToken string, logger *zap.Logger, opts ...slack.Option) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts = append([]slack.Option{slack.OptionAppLevelToken(appToken)}, opts...)
	api := slack.New(token, opts...)
	return &Adapter{
		api:    api,
		sm:     socketmode.New(api),
		logger: logger,
	}
}

// SelfID returns the bot's own user id so its messages can be ignored.
func (a *Adapter) SelfID(ctx context.Context) (string, error) {
	resp, err := a.api.AuthTestContext(ctx)
	if err != nil {
		return "", fmt.Errorf("auth test: %w", err)
	}
	return resp.UserID, nil
}

// PostMessage sends text to channel as the bot user.
func (a *Adapter) PostMessage(ctx context.Context, channel, text string) error {
	_, _, err := a.api.PostMessageContext(ctx, channel,
		slack.MsgOptionText(text, false),
		slack.MsgOptionAsUser(true),
	)
	return err
}

// DefaultChannel returns the workspace's general channel when the bot is a
// member of it, otherwise the first channel it belongs to, or "" if none.
func (a *Adapter) DefaultChannel(ctx context.Context) (string, error) {
	params := &slack.GetConversationsForUserParameters{
		Types:           []string{"public_channel", "private_channel"},
		Limit:           200,
		ExcludeArchived: true,
	}

	first := ""
	for {
		channels, cursor, err := a.api.GetConversationsForUserContext(ctx, params)
		if err != nil {
			return "", fmt.Errorf("list channels: %w", err)
		}
		for _, ch := range channels {
			if ch.IsGeneral {
				return ch.ID, nil
			}
			if first == "" {
				first = ch.ID
			}
		}
		if cursor == "" {
			return first, nil
		}
		params.Cursor = cursor
	}
}

// Run connects over Socket Mode and forwards message events to out until
// ctx is done. out is closed when Run returns.
func (a *Adapter) Run(ctx context.Context, out chan<- bot.Event) error {
	defer close(out)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.sm.RunContext(gctx)
	})
	g.Go(func() error {
		return a.pump(gctx, out)
	})
	return g.Wait()
}

func (a *Adapter) pump(ctx context.Context, out chan<- bot.Event) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-a.sm.Events:
			if !ok {
				return nil
			}
			switch evt.Type {
			case socketmode.EventTypeConnecting:
				a.logger.Info("connecting to slack")
			case socketmode.EventTypeConnected:
				a.logger.Info("connected to slack")
			case socketmode.EventTypeConnectionError:
				a.logger.Warn("slack connection error")
			case socketmode.EventTypeEventsAPI:
				apiEvent, ok := evt.Data.(slackevents.EventsAPIEvent)
				if !ok {
					continue
				}
				if evt.Request != nil {
					a.sm.Ack(*evt.Request)
				}
				ev, ok := Translate(apiEvent)
				if !ok {
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return nil
				}
			}
		}
	}
}

// Translate converts a Slack Events API callback into a bot event. Only
// message events are translated.
func Translate(apiEvent slackevents.EventsAPIEvent) (bot.Event, bool) {
	if apiEvent.Type != slackevents.CallbackEvent {
		return bot.Event{}, false
	}
	msg, ok := apiEvent.InnerEvent.Data.(*slackevents.MessageEvent)
	if !ok {
		return bot.Event{}, false
	}
	// Edits and deletions carry the text elsewhere.
	if msg.SubType == "message_changed" || msg.SubType == "message_deleted" {
		return bot.Event{}, false
	}
	return bot.Event{
		Type:    bot.EventMessage,
		Text:    msg.Text,
		Channel: msg.Channel,
		User:    msg.User,
	}, true
}
