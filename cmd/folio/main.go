package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/pflag"

	"folio/internal/api"
	"folio/internal/config"
	"folio/internal/logging"
	"folio/internal/session"
	"folio/internal/trace"
	"folio/internal/ui"
)

func main() {
	fs := pflag.NewFlagSet("folio", pflag.ExitOnError)
	config.Flags(fs)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: folio [flags]\n\n")
		fmt.Fprintf(os.Stderr, "folio browses a photographer's portfolio and, once logged in,\n")
		fmt.Fprintf(os.Stderr, "adds and removes works.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(fs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	logger, closer, err := logging.OpenFile(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx := context.Background()
	endpoint, insecure := trace.ParseEndpoint(cfg.Telemetry.Endpoint)
	tp, err := trace.NewProvider(ctx, trace.Options{
		Endpoint:    endpoint,
		ServiceName: cfg.Telemetry.ServiceName,
		Insecure:    insecure,
	})
	if err != nil {
		return fmt.Errorf("starting tracing: %w", err)
	}
	tp.InstallGlobal()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Warn("trace shutdown", "error", err)
		}
	}()

	client, err := api.NewClient(cfg.API.URL,
		api.WithLogger(logger.With("component", "api")),
		api.WithTimeout(cfg.API.Timeout),
		api.WithTracer(tp.Tracer("folio/api")),
	)
	if err != nil {
		return err
	}

	store, err := openSession(cfg.Session)
	if err != nil {
		return err
	}

	logger.Info("starting", "api", client.BaseURL(), "persist_session", cfg.Session.Persist, "tracing", tp.Enabled())

	zone.NewGlobal()

	model := ui.NewAppModel(ui.Deps{
		API:            client,
		Session:        store,
		Logger:         logger,
		MaxUploadBytes: cfg.Upload.MaxBytes,
	}).AsTeaModel()
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// openSession returns an in-memory store unless persistence is enabled.
func openSession(cfg config.SessionConfig) (session.Store, error) {
	if !cfg.Persist {
		return session.NewMemoryStore(), nil
	}
	path := cfg.Path
	if path == "" {
		var err error
		if path, err = session.DefaultPath(); err != nil {
			return nil, err
		}
	}
	return session.NewFileStore(path)
}
