package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"blogauto/internal/config"
	"blogauto/internal/handler"
	"blogauto/internal/hub"
	"blogauto/internal/repository/sqlite"
	"blogauto/internal/service"
	"blogauto/internal/watcher"
)

//go:embed web/*
var webFS embed.FS

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the editor server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, cfgPath, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				cfg.Server.Addr = addr
			}
			if db, _ := cmd.Flags().GetString("db"); db != "" {
				cfg.Database.Path = db
			}

			logger := newLogger(cmd, cfg, cmd.ErrOrStderr())
			if cfgPath != "" {
				logger.Info("config loaded", "path", cfgPath)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, cfgPath, logger)
		},
	}

	cmd.Flags().String("addr", "", "HTTP listen address (overrides config)")
	cmd.Flags().String("db", "", "SQLite database path (overrides config)")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, cfgPath string, logger *slog.Logger) error {
	logger.Info("starting blogauto server", "version", version)

	repo, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer repo.Close()
	logger.Info("database opened", "path", cfg.Database.Path)

	eventBus := service.NewEventBus()

	sseHub := hub.New(logger)
	go sseHub.Run(ctx)

	// Connect event bus to SSE hub
	eventChan := make(chan service.Event, 256)
	eventBus.Subscribe(eventChan)
	go func() {
		for {
			select {
			case event := <-eventChan:
				sseHub.Broadcast(event)
			case <-ctx.Done():
				return
			}
		}
	}()

	presenceCfg, err := cfg.Presence.Simulator()
	if err != nil {
		return err
	}
	surfaceSvc := service.NewSurfaceService(repo, eventBus, presenceCfg, service.WithServiceLogger(logger))
	defer surfaceSvc.CloseAll()

	if cfgPath != "" {
		w := watcher.New(cfgPath, func() { reloadPresence(cfgPath, surfaceSvc, logger) }, logger)
		go func() {
			if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("config watcher stopped", "error", err)
			}
		}()
	}

	mux := http.NewServeMux()
	handler.NewSurfaceHandler(surfaceSvc, logger).Register(mux)
	mux.Handle("GET /ws/surfaces/{id}", handler.NewWSHandler(surfaceSvc, eventBus, cfg.Server.AllowedOrigins, logger))
	mux.Handle("GET /events", sseHub)

	webContent, err := fs.Sub(webFS, "web")
	if err != nil {
		return fmt.Errorf("failed to get embedded web content: %w", err)
	}
	mux.Handle("/", http.FileServer(http.FS(webContent)))

	finalHandler := handler.Chain(mux,
		handler.Recover(logger),
		handler.CORS(cfg.Server.AllowedOrigins),
		handler.Logger(logger),
	)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      finalHandler,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration(),
		WriteTimeout: cfg.Server.WriteTimeout.Duration(),
		IdleTimeout:  cfg.Server.IdleTimeout.Duration(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	surfaceSvc.CloseAll()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown error", "error", err)
	}

	logger.Info("server stopped")
	return nil
}

// reloadPresence applies the presence section of a changed config file to
// sessions opened from now on. An invalid file keeps the previous settings.
func reloadPresence(path string, svc *service.SurfaceService, logger *slog.Logger) {
	cfg, _, err := config.LoadFromPath(path)
	if err != nil {
		logger.Warn("ignoring config change", "path", path, "error", err)
		return
	}
	presenceCfg, err := cfg.Presence.Simulator()
	if err != nil {
		logger.Warn("ignoring config change", "path", path, "error", err)
		return
	}
	svc.SetPresenceConfig(presenceCfg)
}
