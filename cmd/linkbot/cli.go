package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/hpungsan/linkbot/internal/db"
	"github.com/hpungsan/linkbot/internal/errors"
	"github.com/hpungsan/linkbot/internal/ops"
)

// newCLIApp creates the CLI application with all commands. A state with cfg
// already set skips config loading (tests inject config and database).
func newCLIApp(s *appState) *cli.App {
	app := &cli.App{
		Name:    "linkbot",
		Usage:   "Chat bot that keeps keyword bookmarks",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "Config file (default ~/.linkbot/config.json)"},
			&cli.StringFlag{Name: "db", Usage: "Database path (overrides config file and environment)"},
			&cli.BoolFlag{Name: "verbose", Usage: "Enable debug logging"},
		},
		Before: func(c *cli.Context) error {
			if s.logger == nil {
				logger, err := newLogger(c.Bool("verbose"))
				if err != nil {
					return fmt.Errorf("failed to create logger: %w", err)
				}
				s.logger = logger
			}
			if s.cfg != nil {
				return nil
			}
			if err := s.load(c.String("config"), c.String("db")); err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return nil
		},
		After: func(_ *cli.Context) error {
			s.close()
			return nil
		},
		Commands: []*cli.Command{
			runCmd(s),
			initCmd(s),
			addCmd(s),
			getCmd(s),
			rmCmd(s),
			searchCmd(s),
			listCmd(s),
			mcpCmd(s),
			webCmd(s),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// initCmd creates the init command.
func initCmd(s *appState) *cli.Command {
	return &cli.Command{
		Name:      "init",
		Usage:     "Create the bookmark database (safe to re-run)",
		ArgsUsage: "[path]",
		Action: func(c *cli.Context) error {
			path := s.cfg.DBPath
			if c.NArg() > 0 {
				path = c.Args().First()
			}

			database, err := db.Init(path)
			if err != nil {
				return outputError(err)
			}
			defer database.Close()

			version, err := db.GetUserVersion(database)
			if err != nil {
				return outputError(errors.NewInternal(err))
			}

			s.logger.Info("database ready", zap.String("path", path), zap.Int("schema_version", version))
			return outputJSON(map[string]any{
				"path":           path,
				"schema_version": version,
			})
		},
	}
}

// addCmd creates the add command.
func addCmd(s *appState) *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Bookmark a link under a new handle",
		ArgsUsage: "<handle> <link...>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				return outputError(errors.NewInvalidRequest("usage: linkbot add <handle> <link...>"))
			}
			database, err := s.openDB()
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Create(c.Context, database, ops.CreateInput{
				Handle: c.Args().First(),
				Link:   strings.Join(c.Args().Tail(), " "),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// getCmd creates the get command.
func getCmd(s *appState) *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Show the link stored under a handle",
		ArgsUsage: "<handle>",
		Action: func(c *cli.Context) error {
			database, err := s.openDB()
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Resolve(c.Context, database, ops.ResolveInput{Handle: c.Args().First()})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// rmCmd creates the rm command.
func rmCmd(s *appState) *cli.Command {
	return &cli.Command{
		Name:      "rm",
		Usage:     "Remove the bookmark for a handle (history is kept)",
		ArgsUsage: "<handle>",
		Action: func(c *cli.Context) error {
			database, err := s.openDB()
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Deactivate(c.Context, database, ops.DeactivateInput{Handle: c.Args().First()})
			if err != nil {
				return outputError(err)
			}
			if output.Deactivated > 1 {
				s.logger.Warn("deactivated duplicate active bookmarks",
					zap.String("handle", output.Handle),
					zap.Int64("rows", output.Deactivated))
			}

			return outputJSON(output)
		},
	}
}

// searchCmd creates the search command.
func searchCmd(s *appState) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Find handles containing a pattern (case-insensitive)",
		ArgsUsage: "<pattern>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.MaxSearchResults, Usage: "Maximum results"},
		},
		Action: func(c *cli.Context) error {
			database, err := s.openDB()
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Search(c.Context, database, ops.SearchInput{
				Pattern: c.Args().First(),
				Limit:   c.Int("limit"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// listCmd creates the list command.
func listCmd(s *appState) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List active bookmarks, newest first",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultListLimit, Usage: "Maximum results"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Skip first N results"},
		},
		Action: func(c *cli.Context) error {
			database, err := s.openDB()
			if err != nil {
				return outputError(err)
			}

			output, err := ops.List(c.Context, database, ops.ListInput{
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if lErr, ok := errors.As(err); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", lErr.Code, lErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
