package bot

import (
	"context"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/hpungsan/linkbot/internal/command"
	"github.com/hpungsan/linkbot/internal/errors"
)

// Respond computes the reply for one message text. Non-commands are silent
// and never touch the store.
func (b *Bot) Respond(ctx context.Context, text string) Reply {
	cmd, err := command.Parse(b.opts.Prefix, text)
	if err != nil {
		if le, ok := errors.As(err); ok && le.Code == errors.ErrIncompleteCommand {
			b.logger.Debug("incomplete command", zap.Any("verb", le.Details["verb"]))
			return say(le.Message)
		}
		b.logger.Error("parse failed", zap.Error(err))
		return say(replyInternalError)
	}
	if cmd == nil {
		return silent()
	}
	return b.Execute(ctx, cmd)
}

// Execute runs a parsed command and returns exactly one reply for it.
func (b *Bot) Execute(ctx context.Context, cmd *command.Command) Reply {
	log := b.logger.With(
		zap.String("cmd_id", ulid.Make().String()),
		zap.String("verb", string(cmd.Kind)),
	)
	log.Debug("executing command", zap.String("handle", cmd.Handle))

	switch cmd.Kind {
	case command.KindBookmark:
		return b.bookmark(ctx, log, cmd)
	case command.KindUnmark:
		return b.unmark(ctx, log, cmd)
	case command.KindSearch:
		return b.search(ctx, log, cmd)
	case command.KindGoogle:
		return say(command.GoogleURL(cmd.Query))
	case command.KindWeather:
		return b.forecast(ctx, log, cmd)
	default:
		return b.lookup(ctx, log, cmd)
	}
}

func (b *Bot) bookmark(ctx context.Context, log *zap.Logger, cmd *command.Command) Reply {
	err := b.store.Create(ctx, cmd.Handle, cmd.Link)
	switch {
	case err == nil:
		log.Info("bookmark added", zap.String("handle", cmd.Handle))
		return say(replyBookmarkAdded)
	case errors.Is(err, errors.ErrAlreadyExists):
		return say(replyBookmarkExists)
	case errors.Is(err, errors.ErrInvalidRequest):
		le, _ := errors.As(err)
		return say(invalidText(le.Message))
	default:
		log.Error("create failed", zap.String("handle", cmd.Handle), zap.Error(err))
		return say(replyInternalError)
	}
}

func (b *Bot) unmark(ctx context.Context, log *zap.Logger, cmd *command.Command) Reply {
	n, err := b.store.Deactivate(ctx, cmd.Handle)
	switch {
	case err == nil:
		if n > 1 {
			log.Warn("deactivated duplicate active bookmarks",
				zap.String("handle", cmd.Handle),
				zap.Int64("rows", n))
		}
		log.Info("bookmark removed", zap.String("handle", cmd.Handle))
		return say(replyUnmarked)
	case errors.Is(err, errors.ErrNotFound):
		return say(replyNothingDeleted)
	case errors.Is(err, errors.ErrInvalidRequest):
		return say(command.Usage(b.opts.Prefix, command.KindUnmark))
	default:
		log.Error("deactivate failed", zap.String("handle", cmd.Handle), zap.Error(err))
		return say(replyInternalError)
	}
}

func (b *Bot) search(ctx context.Context, log *zap.Logger, cmd *command.Command) Reply {
	out, err := b.store.Search(ctx, cmd.Handle)
	switch {
	case err == nil:
		return say(searchText(cmd.Handle, out.Handles, out.HasMore))
	case errors.Is(err, errors.ErrInvalidRequest):
		return say(command.Usage(b.opts.Prefix, command.KindSearch))
	default:
		log.Error("search failed", zap.String("pattern", cmd.Handle), zap.Error(err))
		return say(replyInternalError)
	}
}

func (b *Bot) forecast(ctx context.Context, log *zap.Logger, cmd *command.Command) Reply {
	failed := say(command.Usage(b.opts.Prefix, command.KindWeather))
	if b.weather == nil {
		log.Warn("weather lookup not configured")
		return failed
	}

	ctx, cancel := context.WithTimeout(ctx, b.opts.CollaboratorTimeout)
	defer cancel()

	report, err := b.weather.Lookup(ctx, cmd.Query)
	if err != nil {
		log.Warn("weather lookup failed", zap.String("location", cmd.Query), zap.Error(err))
		return failed
	}
	return say(report.String())
}

// lookup resolves the verb as a handle. Not-found stays silent; concurrent
// lookups of one handle share a single store read.
func (b *Bot) lookup(ctx context.Context, log *zap.Logger, cmd *command.Command) Reply {
	v, err, _ := b.lookups.Do(cmd.Handle, func() (any, error) {
		return b.store.Resolve(ctx, cmd.Handle)
	})
	switch {
	case err == nil:
		return say(v.(string))
	case errors.Is(err, errors.ErrNotFound), errors.Is(err, errors.ErrInvalidRequest):
		log.Debug("no bookmark", zap.String("handle", cmd.Handle))
		return silent()
	default:
		log.Error("resolve failed", zap.String("handle", cmd.Handle), zap.Error(err))
		return say(replyInternalError)
	}
}
