// Package main provides the CLI entry point for reelsort.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ideamans/go-l10n"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"

	"github.com/user/reelsort/pkg/adapters/ffmpegsession"
	"github.com/user/reelsort/pkg/adapters/filesink"
	"github.com/user/reelsort/pkg/adapters/ggrenderer"
	"github.com/user/reelsort/pkg/adapters/linesurface"
	"github.com/user/reelsort/pkg/adapters/logger"
	"github.com/user/reelsort/pkg/adapters/mediaprobe"
	"github.com/user/reelsort/pkg/adapters/nullsink"
	"github.com/user/reelsort/pkg/adapters/osfilesystem"
	"github.com/user/reelsort/pkg/adapters/sqlitejournal"
	"github.com/user/reelsort/pkg/adapters/termsurface"
	"github.com/user/reelsort/pkg/config"
	"github.com/user/reelsort/pkg/ports"
	"github.com/user/reelsort/pkg/present"
	"github.com/user/reelsort/pkg/review"
	"github.com/user/reelsort/pkg/summarizer"
)

var version = "dev"

// surfaceWaitTimeout bounds how long shutdown waits for a surface whose
// input is still blocked.
const surfaceWaitTimeout = time.Second

// localConfigName is picked up from the reviewed directory when --config is
// not given.
const localConfigName = ".reelsort.yaml"

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, l10n.F("Error: %s", err))
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "reelsort",
		Usage:     l10n.T("Sort a directory of videos into keep and trash"),
		UsageText: "reelsort [options] <dir>",
		Version:   version,
		Flags:     reviewFlags(),
		Action:    runReview,
		Commands: []*cli.Command{
			{
				Name:      "review",
				Aliases:   []string{"r"},
				Usage:     l10n.T("Review the unreviewed videos in a directory"),
				ArgsUsage: "<dir>",
				Flags:     reviewFlags(),
				Action:    runReview,
			},
			{
				Name:      "list",
				Aliases:   []string{"ls"},
				Usage:     l10n.T("List the videos that still need review"),
				ArgsUsage: "<dir>",
				Flags:     commonFlags(),
				Action:    runList,
			},
			{
				Name:      "history",
				Usage:     l10n.T("Show the decision journal of a directory"),
				ArgsUsage: "<dir>",
				Flags: append(commonFlags(), &cli.StringFlag{
					Name:     "journal",
					Usage:    l10n.T("SQLite journal path"),
					Category: l10n.T("Output"),
				}),
				Action: runHistory,
			},
			{
				Name:  "version",
				Usage: l10n.T("Show version information"),
				Action: func(c *cli.Context) error {
					fmt.Fprintln(c.App.Writer, l10n.F("reelsort version %s", version))
					return nil
				},
			},
		},
	}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "config",
			Aliases:  []string{"c"},
			Usage:    l10n.F("YAML config file (default: <dir>/%s)", localConfigName),
			Category: l10n.T("Configuration"),
		},
		&cli.StringFlag{
			Name:     "log-level",
			Aliases:  []string{"l"},
			Value:    "info",
			Usage:    l10n.T("Log level (debug, info, warn, error)"),
			Category: l10n.T("Logging"),
		},
		&cli.BoolFlag{
			Name:     "quiet",
			Aliases:  []string{"Q"},
			Usage:    l10n.T("Suppress all log output"),
			Category: l10n.T("Logging"),
		},
	}
}

func reviewFlags() []cli.Flag {
	return append(commonFlags(),
		&cli.StringFlag{
			Name:     "log-file",
			Usage:    l10n.T("Write logs to this file (the terminal player discards them otherwise)"),
			Category: l10n.T("Logging"),
		},
		&cli.StringFlag{
			Name:     "trash-dir",
			Usage:    l10n.T("Directory receiving trashed videos (relative to <dir>)"),
			Category: l10n.T("Review"),
		},
		&cli.BoolFlag{
			Name:     "plain",
			Usage:    l10n.T("Read line commands from stdin instead of the terminal player"),
			Category: l10n.T("Review"),
		},
		&cli.IntFlag{
			Name:     "width",
			Aliases:  []string{"W"},
			Usage:    l10n.T("Display width in pixels"),
			Category: l10n.T("Playback"),
		},
		&cli.IntFlag{
			Name:     "height",
			Aliases:  []string{"H"},
			Usage:    l10n.T("Display height in pixels"),
			Category: l10n.T("Playback"),
		},
		&cli.StringFlag{
			Name:     "ffmpeg",
			Usage:    l10n.T("Path to ffmpeg (falls back to FFMPEG_PATH env, then PATH)"),
			Category: l10n.T("Playback"),
		},
		&cli.StringFlag{
			Name:     "ffprobe",
			Usage:    l10n.T("Path to ffprobe (falls back to FFPROBE_PATH env, then PATH)"),
			Category: l10n.T("Playback"),
		},
		&cli.StringFlag{
			Name:     "journal",
			Usage:    l10n.T("SQLite journal path (empty disables the journal)"),
			Category: l10n.T("Output"),
		},
		&cli.StringFlag{
			Name:     "summary",
			Aliases:  []string{"s"},
			Usage:    l10n.T("Write a Markdown summary of the run to this path"),
			Category: l10n.T("Output"),
		},
		&cli.BoolFlag{
			Name:     "debug",
			Aliases:  []string{"d"},
			Usage:    l10n.T("Save annotated frames and a session snapshot"),
			Category: l10n.T("Debug"),
		},
		&cli.StringFlag{
			Name:     "debug-dir",
			Usage:    l10n.T("Directory for debug output"),
			Category: l10n.T("Debug"),
		},
	)
}

// reviewDir returns the absolute directory argument.
func reviewDir(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", errors.New(l10n.T("exactly one directory argument is required"))
	}
	dir, err := filepath.Abs(c.Args().First())
	if err != nil {
		return "", err
	}
	info, err := os.Stat(dir)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", errors.New(l10n.F("%s is not a directory", dir))
	}
	return dir, nil
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(c *cli.Context, dir string) (config.Config, error) {
	cfg := config.Defaults()

	path := c.String("config")
	if path == "" {
		local := filepath.Join(dir, localConfigName)
		if _, err := os.Stat(local); err == nil {
			path = local
		}
	}
	if path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if c.IsSet("trash-dir") {
		cfg.TrashDir = c.String("trash-dir")
	}
	if c.IsSet("width") {
		cfg.DisplayWidth = c.Int("width")
	}
	if c.IsSet("height") {
		cfg.DisplayHeight = c.Int("height")
	}
	if c.IsSet("ffmpeg") {
		cfg.FFmpegPath = c.String("ffmpeg")
	}
	if c.IsSet("ffprobe") {
		cfg.FFprobePath = c.String("ffprobe")
	}
	if c.IsSet("journal") {
		cfg.Journal = c.String("journal")
	}
	if c.IsSet("debug") {
		cfg.Debug = c.Bool("debug")
	}
	if c.IsSet("debug-dir") {
		cfg.DebugDir = c.String("debug-dir")
	}

	return cfg, cfg.Validate()
}

// newLogger creates the logger. When w is non-nil every level goes there.
func newLogger(c *cli.Context, w io.Writer) ports.Logger {
	if c.Bool("quiet") {
		return logger.NewNoop()
	}
	level := ports.ParseLogLevel(c.String("log-level"))
	if w != nil {
		return logger.NewWriter(level, w)
	}
	return logger.NewConsole(level)
}

// reviewSurface is a surface that owns its input loop.
type reviewSurface interface {
	ports.Surface
	Run(ctx context.Context) error
}

func runReview(c *cli.Context) error {
	dir, err := reviewDir(c)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(c, dir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	interactive := !c.Bool("plain") && isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())

	// The terminal player owns the screen, so its logs go to --log-file or
	// nowhere.
	var log ports.Logger
	switch {
	case c.IsSet("log-file"):
		f, err := os.OpenFile(c.String("log-file"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		log = newLogger(c, f)
	case interactive:
		log = logger.NewNoop()
	default:
		log = newLogger(c, nil)
	}

	// Setup context with cancellation on signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fs := osfilesystem.New()

	trashDir := cfg.TrashPath(dir)
	if err := fs.MkdirAll(trashDir); err != nil {
		return fmt.Errorf("create trash directory: %w", err)
	}

	store, err := review.OpenStore(fs, cfg.ReviewedPath(dir), log)
	if err != nil {
		return err
	}

	queue, err := review.BuildQueue(fs, dir, cfg.Extensions, store)
	if err != nil {
		return err
	}
	if len(queue) == 0 {
		fmt.Fprintln(c.App.Writer, l10n.F("Nothing to review in %s", dir))
		return nil
	}
	log.Info("%d videos to review in %s", len(queue), dir)

	// Create adapters
	renderer := ggrenderer.New()
	prober := mediaprobe.New(mediaprobe.Options{FFprobePath: cfg.FFprobePath})
	opener := ffmpegsession.NewOpener(prober, log, ffmpegsession.Options{
		FFmpegPath:   cfg.FFmpegPath,
		MaxWidth:     cfg.DisplayWidth,
		MaxHeight:    cfg.DisplayHeight,
		FrameTimeout: cfg.FrameTimeout(),
	})
	converter := present.NewConverter(renderer, cfg.DisplayWidth, cfg.DisplayHeight)

	// Create debug sink
	var sink ports.DebugSink
	if cfg.Debug {
		if err := fs.MkdirAll(cfg.DebugDir); err != nil {
			return fmt.Errorf("create debug directory: %w", err)
		}
		sink = filesink.New(cfg.DebugDir, fs, renderer)
	} else {
		sink = nullsink.New()
	}

	// Open the journal
	var journal ports.Journal
	if cfg.Journal != "" {
		j, err := sqlitejournal.Open(cfg.Journal, dir, log)
		if err != nil {
			return err
		}
		defer j.Close()
		journal = j
	}

	var surface reviewSurface
	var term *termsurface.Surface
	if interactive {
		term = termsurface.New(log, termsurface.Options{Input: os.Stdin, Output: os.Stdout, AltScreen: true})
		surface = term
	} else {
		surface = linesurface.New(os.Stdin, c.App.Writer)
	}

	session := review.NewSession(review.Config{
		Dir:          dir,
		TrashDir:     trashDir,
		Queue:        queue,
		SeekAttempts: cfg.SeekAttempts,
		Theme:        cfg.OverlayTheme(),
	}, opener, converter, surface, store, fs, journal, sink, renderer, log)
	runner := review.NewRunner(session, surface, log, cfg.TickInterval())

	startedAt := time.Now()

	surfaceCtx, cancelSurface := context.WithCancel(ctx)
	defer cancelSurface()
	surfaceDone := make(chan error, 1)
	go func() {
		surfaceDone <- surface.Run(surfaceCtx)
	}()

	runErr := runner.Run(ctx)

	cancelSurface()
	select {
	case err := <-surfaceDone:
		if err != nil {
			log.Warn("Surface stopped: %s", err)
		}
	case <-time.After(surfaceWaitTimeout):
	}

	if term != nil {
		if msg := term.FinishMessage(); msg != "" {
			fmt.Fprintln(c.App.Writer, l10n.T(msg))
		}
	}
	printStats(c.App.Writer, session.Stats())

	if path := c.String("summary"); path != "" {
		s := summarizer.NewBuilder().FromSession(session, dir, trashDir, startedAt).Build()
		w := summarizer.NewWriter(summarizer.NewMarkdownFormatter(summarizer.WithVersion(version)), fs)
		if err := w.Write(path, s); err != nil {
			log.Error("Failed to write summary: %s", err)
		} else {
			log.Info("Summary saved to %s", path)
		}
	}

	if errors.Is(runErr, context.Canceled) {
		log.Warn("Interrupted, shutting down...")
		return nil
	}
	if runErr != nil {
		return fmt.Errorf("review: %w", runErr)
	}
	return nil
}

func printStats(w io.Writer, st review.Stats) {
	fmt.Fprintln(w, l10n.F("Kept %d, trashed %d, skipped %d, failed to open %d", st.Kept, st.Trashed, st.Skipped, st.FailedOpen))
}

func runList(c *cli.Context) error {
	dir, err := reviewDir(c)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(c, dir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := newLogger(c, nil)

	fs := osfilesystem.New()
	store, err := review.OpenStore(fs, cfg.ReviewedPath(dir), log)
	if err != nil {
		return err
	}
	queue, err := review.BuildQueue(fs, dir, cfg.Extensions, store)
	if err != nil {
		return err
	}

	for _, name := range queue {
		fmt.Fprintln(c.App.Writer, name)
	}
	log.Info("%d videos to review in %s", len(queue), dir)
	return nil
}

func runHistory(c *cli.Context) error {
	dir, err := reviewDir(c)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(c, dir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Journal == "" {
		return errors.New(l10n.T("no journal configured (use --journal or the journal config key)"))
	}

	j, err := sqlitejournal.Open(cfg.Journal, dir, newLogger(c, nil))
	if err != nil {
		return err
	}
	defer j.Close()

	entries, err := j.Entries(c.Context)
	if err != nil {
		return err
	}
	for _, e := range entries {
		line := fmt.Sprintf("%s  %-5s  %s", e.At.Local().Format(time.DateTime), e.Decision, e.File)
		if e.TrashedPath != "" {
			line += "  -> " + e.TrashedPath
		}
		fmt.Fprintln(c.App.Writer, line)
	}
	return nil
}
