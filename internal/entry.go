// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/notelist/internal/api"
	"github.com/starford/notelist/internal/events"
	"github.com/starford/notelist/internal/i18n"
	"github.com/starford/notelist/internal/mcpserver"
	"github.com/starford/notelist/internal/models"
	"github.com/starford/notelist/internal/noteservice"
	"github.com/starford/notelist/internal/renderer"
	"github.com/starford/notelist/internal/settings"
	"github.com/starford/notelist/internal/sse"
	"github.com/starford/notelist/internal/storage"
	"github.com/starford/notelist/internal/store"
	"github.com/starford/notelist/internal/thumbnail"
)

// appName is shown in user facing messages.
const appName = "Note list (Preview)"

func newApplication(opts []Option) (*application, *slog.Logger, error) {
	app := &application{logOutput: os.Stdout, msgOutput: os.Stderr, version: "dev"}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, nil, fmt.Errorf("config is required")
	}

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(app.logOutput, &slog.HandlerOptions{
		Level: app.config.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return app, logger, nil
}

// components are the parts shared by every command.
type components struct {
	db       *store.DB
	data     *storage.FS
	holder   *settings.Holder
	catalog  *i18n.Catalog
	thumbs   *thumbnail.Service
	renderer *renderer.Renderer
	svc      *noteservice.Service
}

func (c *components) Close() error {
	return c.db.Close()
}

// loadSettings reads the render settings file. A missing file means defaults.
func loadSettings(path string, logger *slog.Logger) (*settings.RenderSettings, error) {
	if path == "" {
		return settings.Default(), nil
	}
	s, err := settings.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("settings: file not found, using defaults", slog.String("path", path))
		return settings.Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	return s, nil
}

// build wires store, settings, thumbnails, renderer and service. notifier and
// listener may be nil.
func (a *application) build(logger *slog.Logger, notifier renderer.Notifier, listener events.Listener) (*components, error) {
	cfg := a.config

	rs, err := loadSettings(cfg.Settings.Path, logger)
	if err != nil {
		return nil, err
	}

	db, err := store.Open(cfg.Store.Path, cfg.Store.ResourcesDir)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	data, err := storage.NewFS(cfg.Data.Dir)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init data dir: %w", err)
	}

	thumbs := thumbnail.NewService(db, thumbnail.NewImaging(db.ResourcePath), data, thumbnail.Options{
		Timeout:  cfg.Thumbnail.Timeout,
		Quality:  cfg.Thumbnail.Quality,
		Capacity: cfg.Thumbnail.Capacity,
		TTL:      rs.FileCacheTTL(),
	}, logger)

	holder := settings.NewHolder(rs)
	catalog := i18n.NewCatalog()

	ropts := []renderer.Option{}
	if notifier != nil {
		ropts = append(ropts, renderer.WithNotifier(notifier))
	}
	r := renderer.New(holder, thumbs, catalog, logger, ropts...)
	ev := events.NewHandler(db, logger, listener)

	return &components{
		db:       db,
		data:     data,
		holder:   holder,
		catalog:  catalog,
		thumbs:   thumbs,
		renderer: r,
		svc:      noteservice.NewService(db, r, ev, logger),
	}, nil
}

// purgeThumbnails removes thumbnails left over from a previous run. No client
// is connected this early, so a failure is reported on out (stderr) in the
// settings locale before startup aborts.
func (c *components) purgeThumbnails(logger *slog.Logger, out io.Writer) error {
	if err := c.thumbs.Purge(); err != nil {
		msg := c.catalog.For(c.holder.Current().Locale).T(i18n.MsgThumbnailPurgeFailed, err.Error())
		logger.Error("thumbnail purge failed", slog.String("error", err.Error()))
		fmt.Fprintln(out, msg)
		return fmt.Errorf("purge thumbnails: %w", err)
	}
	return nil
}

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, logger, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("store_path", cfg.Store.Path),
		slog.String("data_dir", cfg.Data.Dir),
		slog.String("settings_path", cfg.Settings.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// SSE broker.
	broker := sse.NewBroker(cfg.App.HTTP.RefreshThrottle)
	defer broker.Close()

	c, err := app.build(logger, broker, func(n *models.Note) {
		broker.PublishNoteUpdated(n.ID)
	})
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.purgeThumbnails(logger, app.msgOutput); err != nil {
		return err
	}

	if cfg.Import.Dir != "" {
		stats, err := store.Import(ctx, c.db, cfg.Import.Dir, logger)
		if err != nil {
			logger.Warn("initial import failed", slog.String("error", err.Error()))
		} else {
			logger.Info("initial import done",
				slog.Int("notes", stats.Notes),
				slog.Int("resources", stats.Resources),
				slog.Int("skipped", stats.Skipped),
				slog.Int("removed", stats.Removed))
		}
	}

	apiRouter := api.NewRouter(c.svc, c.data, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Reload render settings on change and tell clients to re-render.
	if cfg.Settings.Path != "" && cfg.Settings.Watch {
		g.Go(func() error {
			err := settings.Watch(gCtx, cfg.Settings.Path, c.holder, logger, func(s *settings.RenderSettings) {
				broker.PublishSettingsChanged()
				broker.Message(c.catalog.For(s.Locale).T(i18n.MsgSettingsChanged, appName))
			})
			if err != nil {
				logger.Error("settings watcher stopped", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Keep the store in sync with the import directory.
	if cfg.Import.Dir != "" && cfg.Import.Watch {
		g.Go(func() error {
			err := store.WatchImport(gCtx, c.db, cfg.Import.Dir, logger, func(store.ImportStats) {
				broker.RequestRefresh()
			})
			if err != nil {
				logger.Error("import watcher stopped", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// Import loads a directory of Markdown notes into the store.
func Import(ctx context.Context, dir string, opts ...Option) (store.ImportStats, error) {
	app, logger, err := newApplication(opts)
	if err != nil {
		return store.ImportStats{}, err
	}

	db, err := store.Open(app.config.Store.Path, app.config.Store.ResourcesDir)
	if err != nil {
		return store.ImportStats{}, fmt.Errorf("init store: %w", err)
	}
	defer db.Close()

	return store.Import(ctx, db, dir, logger)
}

// RenderNote writes the list item HTML of one note to w.
func RenderNote(ctx context.Context, id string, w io.Writer, opts ...Option) error {
	app, logger, err := newApplication(opts)
	if err != nil {
		return err
	}

	c, err := app.build(logger, nil, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	html, err := c.svc.RenderHTML(ctx, id)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, html)
	return err
}

// ServeMCP serves the note list tools over stdio until the client disconnects.
func ServeMCP(_ context.Context, opts ...Option) error {
	app, logger, err := newApplication(opts)
	if err != nil {
		return err
	}

	c, err := app.build(logger, nil, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.purgeThumbnails(logger, app.msgOutput); err != nil {
		return err
	}

	logger.Info("MCP server starting on stdio")
	return mcpserver.New(c.svc, app.version).ServeStdio()
}
