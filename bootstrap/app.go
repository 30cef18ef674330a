package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shhhinnovations/cryptokit/component"
	"github.com/shhhinnovations/cryptokit/config"
	"github.com/shhhinnovations/cryptokit/encryption"
	"github.com/shhhinnovations/cryptokit/hmactoken"
	"github.com/shhhinnovations/cryptokit/logger"
	"github.com/shhhinnovations/cryptokit/observability"
	"github.com/shhhinnovations/cryptokit/server"
)

// App is an assembled cryptokit process: the active cryptographer, the
// token service when an HMAC key is configured, the HTTP server when
// enabled, and the components that own their lifecycles.
type App struct {
	Name       string
	Version    string
	Cfg        *config.Config
	Components *component.Registry
	Logger     *logger.Logger

	// Crypto is the registry every caller encrypts through.
	Crypto *encryption.Registry
	// Tokens is nil when no HMAC key is configured.
	Tokens *hmactoken.Service
	// Server is nil unless cfg.Server.Enabled.
	Server *server.Server

	metrics           *observability.CryptoMetrics
	shutdownTelemetry observability.ShutdownFunc
	gracefulTimeout   time.Duration

	onStart []Hook
	onReady []Hook
	onStop  []Hook
}

// NewApp applies defaults to cfg, validates it and builds every part the
// config asks for. Components are registered but not started.
func NewApp(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	o := resolveOptions(opts)

	app := &App{
		Name:            cfg.Name,
		Version:         cfg.Version,
		Cfg:             cfg,
		gracefulTimeout: 15 * time.Second,
	}
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}

	if o.logger != nil {
		app.Logger = o.logger
	} else {
		logger.Init(cfg.Logging)
		app.Logger = logger.GetGlobalLogger()
	}
	app.Components = component.NewRegistry(app.Logger.WithComponent("component"))

	shutdown, err := observability.Setup(ctx, cfg.Observability, cfg.Name, cfg.Version)
	if err != nil {
		return nil, fmt.Errorf("observability setup: %w", err)
	}
	app.shutdownTelemetry = shutdown

	app.metrics, err = observability.NewCryptoMetrics(observability.Meter(cfg.Name))
	if err != nil {
		return nil, fmt.Errorf("crypto metrics: %w", err)
	}

	if err := app.buildCrypto(o.registry); err != nil {
		return nil, err
	}
	if err := app.buildTokens(); err != nil {
		return nil, err
	}
	if cfg.Server.Enabled {
		app.buildServer()
	}
	return app, nil
}

func (a *App) buildCrypto(registry *encryption.Registry) error {
	c, err := encryption.New(a.Cfg.Encryption)
	if err != nil {
		return fmt.Errorf("cryptographer: %w", err)
	}
	if registry == nil {
		registry = encryption.Default()
	}
	if err := registry.Set(encryption.Instrument(c, a.metrics)); err != nil {
		return err
	}
	a.Crypto = registry
	return a.Components.Register(encryption.NewComponent(registry))
}

func (a *App) buildTokens() error {
	if a.Cfg.HMAC.Key == "" {
		return nil
	}
	loc, err := a.Cfg.HMAC.Loc()
	if err != nil {
		return fmt.Errorf("hmac location: %w", err)
	}
	a.Tokens = hmactoken.New([]byte(a.Cfg.HMAC.Key),
		hmactoken.WithLocation(loc),
		hmactoken.WithMetrics(a.metrics),
		hmactoken.WithLogger(a.Logger.WithComponent("hmactoken")),
	)
	return nil
}

func (a *App) buildServer() {
	srv := server.New(a.Cfg.Server, a.Logger)
	srv.ApplyMiddleware()
	srv.RegisterDefaultEndpoints(a.Name, a.Components.HealthAll)
	server.NewAPI(a.Crypto, a.Tokens, a.Cfg.Server).Register(srv.GinEngine())
	a.Server = srv
	// Registered last so it stops first.
	_ = a.Components.Register(server.NewComponent(srv))
}

// RegisterComponent adds a component to the application's registry.
func (a *App) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// ReadyCheck verifies that all registered components are healthy.
func (a *App) ReadyCheck(ctx context.Context) error {
	var unhealthy []string
	for _, h := range a.Components.HealthAll(ctx) {
		if h.Status != component.StatusHealthy {
			detail := h.Name + "=" + string(h.Status)
			if h.Message != "" {
				detail += "(" + h.Message + ")"
			}
			unhealthy = append(unhealthy, detail)
		}
	}
	if len(unhealthy) > 0 {
		return fmt.Errorf("unhealthy components: %v", unhealthy)
	}
	return nil
}

// Run starts every component, blocks until SIGINT, SIGTERM or ctx is done,
// then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	if err := a.startup(ctx); err != nil {
		_ = a.stop()
		return err
	}
	a.Logger.Info("Application ready, waiting for shutdown signal")
	a.WaitForSignal(ctx)
	return a.stop()
}

// RunTask runs a finite task with the same startup and shutdown as Run.
// The task context is canceled on SIGINT or SIGTERM.
func (a *App) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := a.startup(ctx); err != nil {
		_ = a.stop()
		return err
	}

	taskCtx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	taskErr := task(taskCtx)
	cancel()

	if stopErr := a.stop(); stopErr != nil && taskErr == nil {
		return stopErr
	}
	return taskErr
}

func (a *App) startup(ctx context.Context) error {
	start := time.Now()
	a.Logger.Info("Starting application", logger.Fields("name", a.Name, "version", a.Version))

	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("failed to start components: %w", err)
	}
	if err := runHooks(ctx, a.onStart); err != nil {
		return fmt.Errorf("onStart hook failed: %w", err)
	}
	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("Ready check reported issues", logger.Fields(logger.FieldError, err.Error()))
	}
	if err := runHooks(ctx, a.onReady); err != nil {
		return fmt.Errorf("onReady hook failed: %w", err)
	}

	a.logSummary(time.Since(start))
	return nil
}

func (a *App) logSummary(took time.Duration) {
	fields := logger.Fields(
		logger.FieldAlgorithm, encryption.Name(a.Crypto),
		"tokens", a.Tokens != nil,
		"startup_ms", took.Milliseconds(),
	)
	if a.Server != nil {
		fields["addr"] = a.Server.Addr()
	}
	a.Logger.Info("Startup complete", fields)
}

// WaitForSignal blocks until SIGINT, SIGTERM or ctx cancellation.
func (a *App) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("Received shutdown signal", logger.Fields("signal", sig.String()))
		return sig
	case <-ctx.Done():
		a.Logger.Info("Context canceled, shutting down")
		return nil
	}
}

// Shutdown stops the application. Use when managing your own lifecycle.
func (a *App) Shutdown(context.Context) error {
	return a.stop()
}

// stop runs OnStop hooks, stops components in reverse order and flushes
// telemetry, all within the graceful timeout.
func (a *App) stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var shutdownErr error
	if err := runHooks(ctx, a.onStop); err != nil {
		a.Logger.Error("OnStop hook error", logger.Fields(logger.FieldError, err.Error()))
		shutdownErr = err
	}
	if err := a.Components.StopAll(ctx); err != nil {
		a.Logger.Error("Shutdown completed with errors", logger.Fields(logger.FieldError, err.Error()))
		shutdownErr = err
	}
	if a.shutdownTelemetry != nil {
		if err := a.shutdownTelemetry(ctx); err != nil {
			a.Logger.Warn("Telemetry shutdown error", logger.Fields(logger.FieldError, err.Error()))
		}
	}

	a.Logger.Info("Application shutdown complete")
	return shutdownErr
}
