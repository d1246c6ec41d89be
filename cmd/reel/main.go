package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gosuri/uitable"
	"github.com/mmcdole/reel/internal/chapters"
	"github.com/mmcdole/reel/internal/config"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/log"
	"github.com/mmcdole/reel/internal/player"
	"github.com/mmcdole/reel/internal/search"
	"github.com/mmcdole/reel/internal/service"
	"github.com/mmcdole/reel/internal/source"
	"github.com/mmcdole/reel/internal/store"
	"github.com/mmcdole/reel/internal/tui"
	"golang.org/x/term"
)

// Version is set at build time via -ldflags
var Version = "dev"

// dialTimeout bounds how long we wait for the player's IPC socket
const dialTimeout = 10 * time.Second

type flags struct {
	showVersion bool
	list        bool
	at          string
	find        string
	simulate    bool
	fresh       bool
	export      bool
	reload      bool
	clearCache  bool
	initConfig  bool
}

func main() {
	var f flags
	flag.BoolVar(&f.showVersion, "v", false, "print version")
	flag.BoolVar(&f.showVersion, "version", false, "print version")
	flag.BoolVar(&f.list, "list", false, "print the chapter menu and exit")
	flag.StringVar(&f.at, "at", "", "print the chapter playing at `second` and exit")
	flag.StringVar(&f.find, "find", "", "print chapters matching `query` and exit")
	flag.BoolVar(&f.simulate, "simulate", false, "follow a simulated clock instead of launching a player")
	flag.BoolVar(&f.fresh, "fresh", false, "start from the beginning instead of the saved position")
	flag.BoolVar(&f.export, "export", false, "print the loaded chapters as JSON and exit")
	flag.BoolVar(&f.reload, "reload", false, "decode the chapter source again instead of using the cache")
	flag.BoolVar(&f.clearCache, "clear-cache", false, "forget cached chapters and resume positions")
	flag.BoolVar(&f.initConfig, "init-config", false, "write the effective configuration to "+config.ConfigFile())
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: reel [flags] <media|chapters> [chapters]\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if f.showVersion {
		fmt.Printf("reel %s\n", Version)
		return
	}

	// Maintenance flags may run without a media argument
	standalone := f.clearCache || f.initConfig
	if flag.NArg() > 2 || (flag.NArg() < 1 && !standalone) {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(f, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// splitArgs decides which argument is the media file and which the chapter source
func splitArgs(args []string) (mediaPath, chaptersPath string) {
	if len(args) == 2 {
		return args[0], args[1]
	}
	kind, err := source.DetectKind(args[0])
	if err == nil && kind != source.KindMedia {
		return "", args[0]
	}
	return args[0], ""
}

func run(f flags, args []string) error {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger, closer, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	} else {
		defer closer.Close()
	}
	slog.SetDefault(logger)

	logger.Info("starting reel", "version", Version)

	if f.initConfig {
		if err := config.SaveConfig(cfg); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", config.ConfigFile())
	}

	st, err := store.NewChapterStore(cfg.CacheDir())
	if err != nil {
		logger.Warn("cache unavailable, continuing without persistence", "error", err)
		st, _ = store.NewChapterStore("")
	}
	defer st.Close()

	chapterSvc := service.NewChapterService(st, source.Options{
		TitleFrom:   source.TitleField(cfg.Chapters.TitleFrom),
		ContainerID: cfg.Chapters.Selector,
	}, logger)

	if f.clearCache {
		chapterSvc.ClearCache()
		fmt.Println("Cache cleared")
	}
	if len(args) == 0 {
		return nil
	}

	mediaPath, chaptersPath := splitArgs(args)

	sourcePath, err := chapterSvc.Resolve(mediaPath, chaptersPath)
	if err != nil {
		return err
	}
	if f.reload {
		chapterSvc.Invalidate(sourcePath)
	}

	ctx := context.Background()
	set, loadErr := chapterSvc.Load(ctx, sourcePath)
	notice := loadNotice(loadErr)

	// Headless modes
	out := os.Stdout
	switch {
	case f.at != "":
		return printAt(out, set, f.at)
	case f.find != "":
		return printFind(out, set, f.find)
	case f.export:
		return exportJSON(out, set)
	case f.list || !term.IsTerminal(int(out.Fd())):
		if loadErr != nil {
			fmt.Fprintln(os.Stderr, loadErr)
		}
		return printList(out, set)
	}

	launcher := player.NewLauncher(cfg.Player.Command, cfg.Player.Args, cfg.Player.StartFlag, logger)
	playbackSvc := service.NewPlaybackService(launcher, st, logger)

	p, proc, playerNotice, err := startPlayer(ctx, f, cfg, playbackSvc, set, mediaPath, logger)
	if err != nil {
		return err
	}
	if closer, ok := p.(io.Closer); ok {
		defer closer.Close()
	}
	if playerNotice != "" {
		notice = playerNotice
	}

	title := filepath.Base(sourcePath)
	if mediaPath != "" {
		title = filepath.Base(mediaPath)
	}

	model := tui.NewModel(set, p, playbackSvc, proc, tui.Options{
		Title:        title,
		MediaPath:    mediaPath,
		PollInterval: cfg.Player.PollInterval,
		ShowContent:  cfg.UI.ShowContent,
		MenuWidth:    cfg.UI.MenuWidth,
		Notice:       notice,
	}, logger)

	logger.Info("starting TUI")

	if err := tui.Run(model); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	if err := proc.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		logger.Debug("failed to stop player", "error", err)
	}

	logger.Info("shutting down")
	return nil
}

// startPlayer launches the media in an external player and connects to its
// IPC socket, or starts a simulated clock when there is nothing to launch.
func startPlayer(
	ctx context.Context,
	f flags,
	cfg *config.Config,
	playbackSvc *service.PlaybackService,
	set *chapters.Set,
	mediaPath string,
	logger *slog.Logger,
) (domain.Player, *player.Process, string, error) {
	if f.simulate || mediaPath == "" {
		return startClock(set, playbackSvc, mediaPath, f.fresh), nil, "Simulated playback", nil
	}

	// A stale socket from an earlier run would accept no connections
	os.Remove(cfg.Player.Socket)

	launch := playbackSvc.Resume
	if f.fresh {
		launch = playbackSvc.Play
	}
	proc, err := launch(mediaPath, cfg.Player.Socket)
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to launch player: %w", err)
	}

	if !proc.IPC {
		logger.Warn("player cannot report its position, following a simulated clock", "player", proc.Name)
		return startClock(set, playbackSvc, mediaPath, f.fresh), proc, proc.Name + " has no IPC: chapters follow a simulated clock", nil
	}

	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	mpv, err := player.DialMPV(dialCtx, cfg.Player.Socket, logger)
	if err != nil {
		proc.Kill()
		return nil, nil, "", err
	}
	return mpv, proc, "", nil
}

// startClock returns a running clock positioned at the saved offset
func startClock(set *chapters.Set, playbackSvc *service.PlaybackService, mediaPath string, fresh bool) *player.Clock {
	var duration float64
	if last, ok := set.Last(); ok {
		duration = last.End
	}
	clock := player.NewClock(duration)
	if !fresh {
		clock.Seek(playbackSvc.ResumeOffset(mediaPath).Seconds())
	}
	clock.Resume()
	return clock
}

// loadNotice summarizes a load error for the status bar
func loadNotice(err error) string {
	if err == nil {
		return ""
	}
	var re *chapters.RecordError
	if errors.As(err, &re) {
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			return fmt.Sprintf("%d chapter records rejected (see log)", len(joined.Unwrap()))
		}
		return "1 chapter record rejected (see log)"
	}
	return "Failed to load chapters: " + err.Error()
}

// newTable returns a plain two-space separated table for headless output
func newTable() *uitable.Table {
	tbl := uitable.New()
	tbl.Separator = "  "
	return tbl
}

func printList(w io.Writer, set *chapters.Set) error {
	tbl := newTable()
	for _, c := range set.All() {
		tbl.AddRow(c.Order, c.FormattedRange(), c.ID, c.Title)
	}
	_, err := fmt.Fprintln(w, tbl)
	return err
}

// exportJSON writes the accepted chapters in the JSON records format
func exportJSON(w io.Writer, set *chapters.Set) error {
	all := set.All()
	records := make([]domain.Record, len(all))
	for i, c := range all {
		records[i] = domain.Record{
			ID:      c.ID,
			Order:   domain.IntPtr(c.Order),
			Start:   domain.FloatPtr(c.Start),
			End:     domain.FloatPtr(c.End),
			Title:   c.Title,
			Content: c.Content,
		}
	}
	return source.EncodeJSON(w, records)
}

func printAt(w io.Writer, set *chapters.Set, at string) error {
	second, err := strconv.ParseFloat(at, 64)
	if err != nil {
		return fmt.Errorf("invalid -at value %q: %w", at, err)
	}
	c, ok := set.AtTime(int(second))
	if !ok {
		return fmt.Errorf("%w at %s", domain.ErrChapterNotFound, domain.FormatSeconds(second))
	}
	tbl := newTable()
	tbl.AddRow(c.MenuLabel(), c.FormattedRange())
	_, err = fmt.Fprintln(w, tbl)
	return err
}

func printFind(w io.Writer, set *chapters.Set, query string) error {
	results := search.Find(set, query)
	if len(results) == 0 {
		return fmt.Errorf("%w matching %q", domain.ErrChapterNotFound, query)
	}
	tbl := newTable()
	for _, r := range results {
		tbl.AddRow(r.Chapter.MenuLabel(), r.Chapter.FormattedRange())
	}
	_, err := fmt.Fprintln(w, tbl)
	return err
}
