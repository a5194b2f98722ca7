package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/hr-core/internal"
	"github.com/frahmantamala/hr-core/internal/attendance"
	"github.com/frahmantamala/hr-core/internal/auth"
	"github.com/frahmantamala/hr-core/internal/benefit"
	"github.com/frahmantamala/hr-core/internal/core/events"
	"github.com/frahmantamala/hr-core/internal/employee"
	"github.com/frahmantamala/hr-core/internal/leave"
	"github.com/frahmantamala/hr-core/internal/memo"
	"github.com/frahmantamala/hr-core/internal/overtime"
	"github.com/frahmantamala/hr-core/internal/schedule"
	"github.com/frahmantamala/hr-core/internal/settings"
	"github.com/frahmantamala/hr-core/internal/state"
	"github.com/frahmantamala/hr-core/internal/talent"
	"github.com/frahmantamala/hr-core/internal/textgen"
	"github.com/frahmantamala/hr-core/internal/transport/rest"
	"github.com/frahmantamala/hr-core/pkg/logger"
	"github.com/frahmantamala/hr-core/pkg/password"
	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	Store  *state.Store
	Bus    *events.EventBus
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if err := setupRoutes(deps); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to register routes: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "storage", deps.Config.Storage.Driver)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			_ = deps.Store.Close()
			os.Exit(1)
		}
	}

	if err := deps.Store.Close(); err != nil {
		deps.Logger.Error("Store close error", "error", err)
	}
	deps.Logger.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) error {
	cfg := deps.Config
	store := deps.Store

	tokens := auth.NewJWTTokenGenerator(cfg.Security.JWTSecret, cfg.Security.AccessTokenDuration)
	authService := auth.NewService(store, tokens, password.NewHasher(cfg.Security.BCryptCost), deps.Logger)

	assistant := textgen.NewClient(textgen.Config{
		APIKey:     cfg.AI.APIKey,
		BaseURL:    cfg.AI.BaseURL,
		APIVersion: cfg.AI.APIVersion,
		Model:      cfg.AI.Model,
		Timeout:    cfg.AI.Timeout,
	}, deps.Logger)

	health := rest.NewHealthHandler().Register("storage", store, map[string]any{"driver": cfg.Storage.Driver})

	return rest.RegisterAllRoutes(deps.Router, rest.Handlers{
		Health:     health,
		Auth:       auth.NewHandler(authService),
		Employee:   employee.NewHandler(store),
		Leave:      leave.NewHandler(store),
		Overtime:   overtime.NewHandler(store),
		Schedule:   schedule.NewHandler(store),
		Attendance: attendance.NewHandler(store),
		Benefit:    benefit.NewHandler(store),
		Memo:       memo.NewHandler(store),
		Settings:   settings.NewHandler(store),
		Talent:     talent.NewHandler(store),
		Assistant:  textgen.NewHandler(assistant),
	}, rest.RouterOptions{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		LoginRate:      cfg.RateLimit.Login,
	}, deps.Logger)
}

func initializeDependencies() (*Dependencies, error) {
	config := mustLoadConfig()
	log := logger.LoggerWrapper()

	bus := events.NewEventBus(log)
	registerEventLoggers(bus, log)

	store, err := openStore(context.Background(), config, log, bus)
	if err != nil {
		return nil, err
	}

	return &Dependencies{
		Config: config,
		Store:  store,
		Bus:    bus,
		Router: chi.NewRouter(),
		Logger: log,
	}, nil
}
