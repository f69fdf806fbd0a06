package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-search-agent/internal/config"
	"github.com/jonathan/job-search-agent/internal/server"
)

var (
	servePort       int
	serveConfigPath string
	serveUseBrowser bool
	serveLogJSON    bool
	serveDebug      bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes job search, resume parsing, and search history endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default 8080)")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to a JSON config file")
	serveCmd.Flags().BoolVar(&serveUseBrowser, "browser", false, "Enable headless browser fallback for SPA job boards")
	serveCmd.Flags().BoolVar(&serveLogJSON, "log-json", false, "Emit JSON logs")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug logging")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(serveConfigPath, config.Config{
		Port:       servePort,
		UseBrowser: serveUseBrowser,
		LogJSON:    serveLogJSON,
		Debug:      serveDebug,
	})
	if err != nil {
		return err
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	deps := server.Deps{
		Retriever:   a.retriever,
		Coordinator: a.coordinator,
		Greeter:     &greeter{client: a.llmClient, systemPrompt: cfg.SystemPrompt, log: a.log},
	}
	if a.database != nil {
		deps.History = a.database
	}

	srv := server.New(server.Config{
		Port:        cfg.Port,
		SearchLimit: cfg.SearchLimit,
	}, deps, a.log)

	if err := srv.Start(); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
