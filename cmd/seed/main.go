package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"workflow-builder/backend/internal/client"
	"workflow-builder/backend/internal/config"
	"workflow-builder/backend/internal/logging"
	"workflow-builder/backend/internal/services"
)

func main() {
	cmd := &cobra.Command{
		Use:          "seed",
		Short:        "Create the sample workflows on a running server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if server, _ := cmd.Flags().GetString("server"); server != "" {
				cfg.Client.BaseURL = server
			}
			execute, _ := cmd.Flags().GetBool("execute")

			logger := logging.NewLogger(cfg.LogLevel, cfg.Environment)
			defer func() { _ = logger.Sync() }()

			ctx := cmd.Context()
			c := client.NewWorkflowClient(cfg.Client.BaseURL, cfg.Client.Timeout)

			existing, err := c.ListWorkflows(ctx)
			if err != nil {
				return fmt.Errorf("failed to list existing workflows: %w", err)
			}
			existingNames := make(map[string]bool, len(existing))
			for _, w := range existing {
				existingNames[w.Name] = true
			}

			for _, sample := range services.SampleWorkflows() {
				if existingNames[sample.Name] {
					logger.Info("Skipping existing workflow", "name", sample.Name)
					continue
				}
				wf, err := c.CreateWorkflow(ctx, sample)
				if err != nil {
					logger.Error("Failed to create workflow", "name", sample.Name, "error", err)
					continue
				}
				logger.Info("Seeded workflow", "name", wf.Name, "id", wf.ID)

				if execute {
					resp, err := c.ExecuteWorkflow(ctx, wf.ID)
					if err != nil {
						logger.Error("Failed to execute workflow", "id", wf.ID, "error", err)
						continue
					}
					logger.Info(resp.Message, "id", wf.ID, "run_id", resp.Execution.ID)
				}
			}
			logger.Info("Seeding complete!", "server", cfg.Client.BaseURL)
			return nil
		},
	}
	cmd.Flags().String("config", "", "Path to config file")
	cmd.Flags().String("server", "", "Server base URL (overrides client.base_url)")
	cmd.Flags().Bool("execute", false, "Start a run of each created workflow")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
