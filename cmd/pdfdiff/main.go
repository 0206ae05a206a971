// Command pdfdiff reports the text boxes that changed between two versions
// of a document, as a JSON change list or a side-by-side PNG change map.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/tsawler/pdfdiff"
	"github.com/tsawler/pdfdiff/config"
	"github.com/tsawler/pdfdiff/model"
	"github.com/tsawler/pdfdiff/render"
	"github.com/tsawler/pdfdiff/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes one command line and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := opts.loadConfig()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if errors.Is(err, errUsage) {
			return 2
		}
		return 1
	}

	switch {
	case opts.Serve != "":
		err = server.New(cfg, logger).ListenAndServe(ctx)
	case opts.Changes:
		err = renderChanges(ctx, stdin, stdout, opts.PNG, cfg, logger)
	default:
		err = compare(ctx, opts, cfg, logger, stdout)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func compare(ctx context.Context, opts *options, cfg *config.Config, logger *slog.Logger, stdout io.Writer) error {
	list, err := pdfdiff.Open(opts.Files[0], opts.Files[1]).
		WithConfig(*cfg).
		Logger(logger).
		Changes(ctx)
	if err != nil {
		return err
	}

	if opts.PNG != "" {
		return writePNG(ctx, stdout, opts.PNG, list, cfg, logger)
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "    ")
	return enc.Encode(list)
}

// renderChanges draws a change list read from r.
func renderChanges(ctx context.Context, r io.Reader, stdout io.Writer, path string, cfg *config.Config, logger *slog.Logger) error {
	var list []model.Change
	if err := json.NewDecoder(r).Decode(&list); err != nil {
		return fmt.Errorf("reading change list: %w", err)
	}
	return writePNG(ctx, stdout, path, list, cfg, logger)
}

// writePNG renders list to path, or to stdout when path is "-". Pages of PDF
// inputs are rasterized with pdftoppm.
func writePNG(ctx context.Context, stdout io.Writer, path string, list []model.Change, cfg *config.Config, logger *slog.Logger) error {
	opts, err := cfg.RenderOptions()
	if err != nil {
		return err
	}
	opts.Pages = &render.PDFToPPM{Path: cfg.Output.PDFToPPM}
	opts.Logger = logger

	if path == "-" {
		return render.Render(ctx, stdout, list, opts)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render.Render(ctx, f, list, opts); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
