package bot

import (
	"context"

	"go.uber.org/zap"
)

// Bootstrap runs the start-up bookkeeping. On the first run against a store
// it posts a welcome to the default channel, then records the start time.
// When no default channel is available the welcome and the record are both
// skipped, so the welcome is retried on the next start. Failures are logged
// and never stop the bot.
func (b *Bot) Bootstrap(ctx context.Context) {
	last, found, err := b.store.LastRun(ctx)
	if err != nil {
		b.logger.Warn("failed to read last run", zap.Error(err))
		return
	}

	if found {
		b.logger.Debug("previous run found", zap.String("lastrun", last))
		b.touch(ctx)
		return
	}

	channel, err := b.session.DefaultChannel(ctx)
	if err != nil {
		b.logger.Warn("failed to find default channel", zap.Error(err))
		return
	}
	if channel == "" {
		b.logger.Warn("not a member of any channel; welcome deferred")
		return
	}

	if err := b.session.PostMessage(ctx, channel, welcomeText(b.opts.Prefix)); err != nil {
		b.logger.Warn("failed to post welcome", zap.String("channel", channel), zap.Error(err))
		return
	}
	b.touch(ctx)
}

func (b *Bot) touch(ctx context.Context) {
	if err := b.store.TouchLastRun(ctx, b.opts.Now()); err != nil {
		b.logger.Warn("failed to record last run", zap.Error(err))
	}
}
