package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/uFincs/uFincs-sub004/loader"
	"github.com/uFincs/uFincs-sub004/web"
)

type WebCmd struct {
	Port     int  `help:"Port to listen on." default:"8080"`
	Watch    bool `help:"Reload the book when it changes on disk." default:"true" negatable:""`
	Create   bool `help:"Automatically create the book if it doesn't exist (no confirmation prompt)." short:"c"`
	ReadOnly bool `help:"Enable read-only mode (no write operations allowed)." short:"r"`
}

func (cmd *WebCmd) Run(ctx *kong.Context, globals *Globals) error {
	s := newSession(ctx, globals, fmt.Sprintf("web %s", globals.File))
	defer s.report()

	bookFile, err := filepath.Abs(globals.File)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if _, err := os.Stat(bookFile); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access file: %w", err)
		}

		shouldCreate := cmd.Create
		if !shouldCreate {
			confirmed, err := promptYesNo(fmt.Sprintf("File %q does not exist. Create it?", bookFile))
			if err != nil {
				return fmt.Errorf("failed to read confirmation: %w", err)
			}
			shouldCreate = confirmed
		}
		if !shouldCreate {
			return fmt.Errorf("file does not exist: %s", bookFile)
		}

		if err := os.MkdirAll(filepath.Dir(bookFile), 0755); err != nil {
			return fmt.Errorf("failed to create parent directory: %w", err)
		}
		if err := loader.Save(s.ctx, bookFile, &loader.Book{}); err != nil {
			return fmt.Errorf("failed to create file: %w", err)
		}

		printInfof(ctx.Stdout, "Created empty book: %s", pathStyle.Render(bookFile))
	}

	version := Version
	if version == "" {
		version = "dev"
	}
	commitSHA := CommitSHA
	if commitSHA == "" {
		commitSHA = "local"
	}

	server := web.NewWithVersion(cmd.Port, bookFile, version, commitSHA)
	server.ReadOnly = cmd.ReadOnly
	server.WatchEnabled = cmd.Watch

	printInfof(ctx.Stdout, "Starting server on %s:%d", server.Host, cmd.Port)
	printInfof(ctx.Stdout, "Serving book: %s", pathStyle.Render(bookFile))

	if cmd.ReadOnly {
		printInfof(ctx.Stdout, "Server running in READ-ONLY mode")
	}

	runCtx, stop := signal.NotifyContext(s.ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Start(runCtx)
}
