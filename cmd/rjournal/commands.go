package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	apppkg "github.com/kk-code-lab/rjournal/internal/app"
	"github.com/kk-code-lab/rjournal/internal/config"
	fsutil "github.com/kk-code-lab/rjournal/internal/fs"
	"github.com/kk-code-lab/rjournal/internal/grid"
	"github.com/kk-code-lab/rjournal/internal/journal"
	"github.com/kk-code-lab/rjournal/internal/loop"
	"github.com/kk-code-lab/rjournal/internal/preview"
	statepkg "github.com/kk-code-lab/rjournal/internal/state"
)

// globalOptions are the flags shared by every command.
type globalOptions struct {
	configPath string
	datastore  string
	list       bool
	horizontal bool
	debug      bool
	logFile    string
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "rjournal [DIR]",
		Short: "Browse a journal of files and datastore entries in the terminal",
		Long: `rjournal shows journal entries as a grid of thumbnails or as a list.

Without DIR it opens the datastore. With DIR it lists the files of that
directory, newest first, and reloads when the directory changes.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			return runBrowser(cmd.Context(), opts, dir)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to config file (default ~/.config/rjournal/config.toml)")
	flags.StringVar(&opts.datastore, "datastore", "", "path to the journal database")
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	flags.StringVar(&opts.logFile, "log-file", "", "write logs to this file")
	root.Flags().BoolVar(&opts.list, "list", false, "start in list view")
	root.Flags().BoolVar(&opts.horizontal, "horizontal", false, "scroll thumbnails sideways")

	root.AddCommand(newAddCommand(opts), newVersionCommand())
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rjournal version %s\n", effectiveVersion(Version))
		},
	}
}

type addOptions struct {
	activity    string
	description string
	keep        bool
}

func newAddCommand(global *globalOptions) *cobra.Command {
	opts := &addOptions{}
	cmd := &cobra.Command{
		Use:   "add FILE...",
		Short: "Import files into the datastore",
		Long:  "Import files into the datastore. Images get a thumbnail preview.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(global)
			if err != nil {
				return err
			}
			logger, closeLog, err := newLogger(cfg.Log)
			if err != nil {
				return err
			}
			defer closeLog()

			store, err := openStore(cfg.Datastore.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			importer := &importer{
				fs:    afero.NewOsFs(),
				store: store,
				box:   image.Pt(cfg.Preview.Width, cfg.Preview.Height),
				opts:  *opts,
				log:   logger,
			}
			for _, path := range args {
				uid, err := importer.add(cmd.Context(), path)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), uid)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.activity, "activity", "", "activity that produced the entries")
	cmd.Flags().StringVar(&opts.description, "description", "", "entry description")
	cmd.Flags().BoolVar(&opts.keep, "keep", false, "mark the entries as kept")
	return cmd
}

// importer copies files into the datastore.
type importer struct {
	fs    afero.Fs
	store *journal.Store
	box   image.Point
	opts  addOptions
	log   *slog.Logger
}

func (im *importer) add(ctx context.Context, path string) (string, error) {
	info, err := im.fs.Stat(path)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s: is a directory", path)
	}
	data, err := afero.ReadFile(im.fs, path)
	if err != nil {
		return "", err
	}

	name := filepath.Base(path)
	entry := journal.Entry{
		Title:       strings.TrimSuffix(name, filepath.Ext(name)),
		Kind:        fsutil.DetectKind(im.fs, path),
		Size:        info.Size(),
		Modified:    info.ModTime(),
		Keep:        im.opts.keep,
		Activity:    im.opts.activity,
		Description: im.opts.description,
		Progress:    -1,
	}

	var encoded []byte
	if thumb, err := preview.Thumbnail(data, im.box); err == nil {
		var buf bytes.Buffer
		if err := png.Encode(&buf, thumb); err != nil {
			return "", fmt.Errorf("%s: encode preview: %w", path, err)
		}
		encoded = buf.Bytes()
		entry.Kind = fsutil.KindImage
	} else {
		im.log.Debug("no preview for import", "path", path, "error", err)
	}

	uid, err := im.store.Create(ctx, entry, encoded)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	im.log.Info("imported entry", "path", path, "uid", uid, "kind", entry.Kind)
	return uid, nil
}

// loadConfig reads the config file and applies command line overrides.
func loadConfig(opts *globalOptions) (*config.Config, error) {
	cfg, err := config.LoadFrom(config.ExpandPath(opts.configPath))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.datastore != "" {
		cfg.Datastore.Path = config.ExpandPath(opts.datastore)
	}
	if opts.list {
		cfg.View.Mode = config.ModeList
	}
	if opts.horizontal {
		cfg.View.Orientation = config.OrientationHorizontal
	}
	if opts.debug {
		cfg.Log.Level = "debug"
	}
	if opts.logFile != "" {
		cfg.Log.File = config.ExpandPath(opts.logFile)
	}
	return cfg, cfg.Validate()
}

// newLogger writes text logs to the configured file. Without one, logs are
// discarded since the terminal belongs to the UI.
func newLogger(cfg config.LogConfig) (*slog.Logger, func(), error) {
	level, err := config.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	var w io.Writer = io.Discard
	closeFn := func() {}
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closeFn = func() { _ = f.Close() }
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	return logger, closeFn, nil
}

func openStore(path string) (*journal.Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create datastore directory: %w", err)
		}
	}
	store, err := journal.OpenStore(path)
	if err != nil {
		return nil, fmt.Errorf("datastore %s: %w", path, err)
	}
	return store, nil
}

// newSource picks the directory listing when dir is set, the datastore
// otherwise.
func newSource(cfg *config.Config, store *journal.Store, dir string) (journal.Source, string, error) {
	if dir == "" {
		return store, "", nil
	}
	abs, err := filepath.Abs(config.ExpandPath(dir))
	if err != nil {
		return nil, "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, "", err
	}
	if !info.IsDir() {
		return nil, "", fmt.Errorf("%s: not a directory", dir)
	}
	src := journal.NewDirectorySource(abs)
	src.ShowHidden = cfg.View.ShowHidden
	src.Marks = store
	return src, abs, nil
}

func viewOptions(cfg *config.Config, logger *slog.Logger) (statepkg.ViewOptions, error) {
	mode, err := statepkg.ParseMode(cfg.View.Mode)
	if err != nil {
		return statepkg.ViewOptions{}, err
	}
	orientation := grid.Vertical
	if cfg.View.Orientation == config.OrientationHorizontal {
		orientation = grid.Horizontal
	}
	return statepkg.ViewOptions{
		Mode:           mode,
		Orientation:    orientation,
		Rows:           cfg.View.Rows,
		Columns:        cfg.View.Columns,
		ListCellHeight: cfg.View.ListCellHeight,
		Logger:         logger,
	}, nil
}

func runBrowser(ctx context.Context, opts *globalOptions, dir string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("the journal browser needs a terminal")
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	store, err := openStore(cfg.Datastore.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	source, watchDir, err := newSource(cfg, store, dir)
	if err != nil {
		return err
	}

	l := loop.New(logger)
	prefetcher, err := preview.New(l, preview.Options{
		Fs:          afero.NewOsFs(),
		Metadata:    store,
		Logger:      logger,
		MaxFileSize: cfg.Preview.MaxFileSize,
		ChunkSize:   cfg.Preview.ChunkSize,
		Box:         image.Pt(cfg.Preview.Width, cfg.Preview.Height),
		CacheSize:   cfg.Preview.CacheSize,
	})
	if err != nil {
		return err
	}
	defer prefetcher.Close()

	vopts, err := viewOptions(cfg, logger)
	if err != nil {
		return err
	}
	view := statepkg.NewJournalView(l, source, prefetcher, vopts)

	app, err := apppkg.NewApplication(l, view, apppkg.Options{
		Logger:        logger,
		EditorCommand: cfg.Editor.Command,
	})
	if err != nil {
		view.Close()
		return fmt.Errorf("initialize terminal: %w", err)
	}
	defer func() {
		_ = app.Close()
	}()

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if watchDir != "" && cfg.Watch.Enabled {
		if err := journal.Watch(ctx, watchDir, cfg.Watch.Debounce, logger, app.RequestReload); err != nil {
			logger.Warn("directory watch disabled", "path", watchDir, "error", err)
		}
	}

	logger.Info("journal opened", "source", source.Describe(), "mode", vopts.Mode)
	app.Run(ctx)
	return nil
}
