package main

import (
	"context"
	stderrors "errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hpungsan/linkbot/internal/bot"
	"github.com/hpungsan/linkbot/internal/errors"
	"github.com/hpungsan/linkbot/internal/mcp"
	"github.com/hpungsan/linkbot/internal/ops"
	"github.com/hpungsan/linkbot/internal/slack"
	"github.com/hpungsan/linkbot/internal/weather"
	"github.com/hpungsan/linkbot/internal/web"
)

// runCmd creates the run command, which connects the bot to Slack.
func runCmd(s *appState) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Connect to Slack and answer chat commands",
		Action: func(c *cli.Context) error {
			cfg := s.cfg
			database, err := s.openDB()
			if err != nil {
				return outputError(err)
			}
			if cfg.Token == "" || cfg.AppToken == "" {
				return outputError(errors.NewInvalidRequest("bot token (BOT_API_KEY) and app token (BOT_APP_TOKEN) are required"))
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			adapter := slack.New(cfg.Token, cfg.AppToken, s.logger)
			selfID, err := adapter.SelfID(ctx)
			if err != nil {
				return outputError(err)
			}

			b := bot.New(
				channelOverride{Session: adapter, channel: cfg.DefaultChannel},
				ops.NewStore(database),
				weather.NewClient(cfg.WeatherURL, weather.WithUnits(cfg.WeatherUnits)),
				bot.Options{
					Prefix:                cfg.Prefix,
					SelfID:                selfID,
					CollaboratorTimeout:   cfg.CollaboratorTimeout(),
					MaxConcurrentCommands: cfg.MaxConcurrentCommands,
					Logger:                s.logger,
				},
			)

			s.logger.Info("starting bot",
				zap.String("name", cfg.Name),
				zap.String("user_id", selfID),
				zap.String("db_path", cfg.DBPath))
			b.Bootstrap(ctx)

			events := make(chan bot.Event, 64)
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error { return adapter.Run(gctx, events) })
			g.Go(func() error { return b.Run(gctx, events) })

			if err := g.Wait(); err != nil && !stderrors.Is(err, context.Canceled) {
				return outputError(err)
			}
			s.logger.Info("bot stopped")
			return nil
		},
	}
}

// channelOverride pins the welcome channel when one is configured.
type channelOverride struct {
	bot.Session
	channel string
}

func (o channelOverride) DefaultChannel(ctx context.Context) (string, error) {
	if o.channel != "" {
		return o.channel, nil
	}
	return o.Session.DefaultChannel(ctx)
}

// mcpCmd creates the mcp command.
func mcpCmd(s *appState) *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve bookmark tools over MCP (stdio)",
		Action: func(c *cli.Context) error {
			database, err := s.openDB()
			if err != nil {
				return outputError(err)
			}
			if unknown := mcp.ValidateDisabledTools(s.cfg.DisabledTools); len(unknown) > 0 {
				s.logger.Warn("unknown tools in disabled_tools", zap.Strings("tools", unknown))
			}
			if err := mcp.Run(database, s.cfg, Version); err != nil {
				return outputError(err)
			}
			return nil
		},
	}
}

// webCmd creates the web command.
func webCmd(s *appState) *cli.Command {
	return &cli.Command{
		Name:  "web",
		Usage: "Serve a read-only bookmarks UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Address to bind"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 8080, Usage: "Port to listen on"},
		},
		Action: func(c *cli.Context) error {
			database, err := s.openDB()
			if err != nil {
				return outputError(err)
			}

			srv, err := web.NewServer(database, s.logger, Version, c.String("bind"), c.Int("port"))
			if err != nil {
				return outputError(errors.NewInternal(err))
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := web.Run(ctx, srv, s.logger); err != nil {
				return outputError(err)
			}
			return nil
		},
	}
}
