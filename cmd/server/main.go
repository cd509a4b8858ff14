package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"gopkg.in/yaml.v3"

	"workflow-builder/backend/internal/api"
	"workflow-builder/backend/internal/catalog"
	"workflow-builder/backend/internal/config"
	"workflow-builder/backend/internal/logging"
	"workflow-builder/backend/internal/mcp"
	"workflow-builder/backend/internal/repository"
	"workflow-builder/backend/internal/services"
	"workflow-builder/backend/internal/tls"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "workflow-builder",
		Short:         "Workflow builder backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("config", "", "Path to config file")

	serve := serveCmd()
	rootCmd.AddCommand(serve, catalogCmd())
	// Running the binary without a subcommand starts the server.
	rootCmd.RunE = serve.RunE
	rootCmd.Flags().AddFlagSet(serve.Flags())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the REST, websocket and MCP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("configuration loading failed: %w", err)
			}
			if cmd.Flags().Changed("seed") {
				cfg.Seed.Enable, _ = cmd.Flags().GetBool("seed")
			}
			return run(cmd.Context(), cfg)
		},
	}
	cmd.Flags().Bool("seed", false, "Create the sample workflows on startup")
	return cmd
}

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the node type catalog as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			category, _ := cmd.Flags().GetString("category")
			nodeTypes := catalog.Default().List()
			if category != "" {
				nodeTypes = catalog.Default().ByCategory(catalog.Category(category))
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(nodeTypes)
		},
	}
	cmd.Flags().String("category", "", "Only print node types of this category")
	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.NewLogger(cfg.LogLevel, cfg.Environment)
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting Workflow Builder",
		"version", api.Version,
		"environment", cfg.Environment,
		"step_delay", cfg.Execution.StepDelay,
	)

	// Repository and service layer
	store := repository.NewMemoryStore()
	hub := api.NewHub(logger.With("component", "websocket"))
	defer hub.Close()

	executor := services.NewExecutor(cfg.Execution.StepDelay,
		services.WithPublisher(hub),
		services.WithMeter(otel.Meter("workflow-builder")),
		services.WithExecutorLogger(logger.With("component", "executor")),
	)
	defer executor.Close()

	workflowService := services.NewWorkflowService(store, executor, catalog.Default(), logger)
	userService := services.NewUserService(store)

	if cfg.Seed.Enable {
		created, err := workflowService.Seed(ctx)
		if err != nil {
			return fmt.Errorf("seeding failed: %w", err)
		}
		logger.Info("Seeded sample workflows", "created", created)
	}

	logger.Info("Service layer initialized")

	// REST API, websocket stream and docs
	e := api.NewRouter(api.NewServer(workflowService, userService, logger), hub, logger)

	// MCP protocol handlers
	mcpServer := mcp.NewServer(workflowService, api.Version)
	mcpHandlers := http.NewServeMux()
	mcp.MountHTTPHandlers(mcpHandlers, mcpServer.GetMCPServer())
	e.Any("/mcp", echo.WrapHandler(mcpHandlers))
	e.Any("/mcp/*", echo.WrapHandler(mcpHandlers))

	logger.Info("MCP protocol handlers mounted")

	if cfg.TLS.Enable {
		created, err := tls.EnsureCertificate(cfg.TLS.CertFile, cfg.TLS.KeyFile, cfg.TLS.Hostnames)
		if err != nil {
			return fmt.Errorf("tls setup failed: %w", err)
		}
		if created {
			logger.Warn("Generated self-signed certificate", "cert_file", cfg.TLS.CertFile, "hostnames", cfg.TLS.Hostnames)
		}
	}

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      e,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown handling
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "address", server.Addr, "tls", cfg.TLS.Enable)
		if cfg.TLS.Enable {
			serverErrors <- server.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		} else {
			serverErrors <- server.ListenAndServe()
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-shutdown:
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
			if err := server.Close(); err != nil {
				logger.Error("Server close error", "error", err)
			}
		}
		logger.Info("Server stopped gracefully")
	}
	return nil
}
