package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/job-search-agent/internal/config"
	"github.com/jonathan/job-search-agent/internal/pipeline"
	"github.com/jonathan/job-search-agent/internal/resume"
)

var (
	searchRoles      string
	searchCountry    string
	searchResumePath string
	searchConfigPath string
	searchLimit      int
	searchUseBrowser bool
	searchDebug      bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run a one-shot job search from the command line",
	Long:  `Retrieve listings for the given roles and country, score each against the resume, and print matches as JSON.`,
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchRoles, "roles", "", "Desired roles, e.g. \"golang developer\" (required)")
	searchCmd.Flags().StringVar(&searchCountry, "country", "", "Country or location to search in (required)")
	searchCmd.Flags().StringVar(&searchResumePath, "resume", "", "Path to a resume (.pdf or plain text)")
	searchCmd.Flags().StringVar(&searchConfigPath, "config", "", "Path to a JSON config file")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "Maximum listings to retrieve")
	searchCmd.Flags().BoolVar(&searchUseBrowser, "browser", false, "Enable headless browser fallback for SPA job boards")
	searchCmd.Flags().BoolVar(&searchDebug, "debug", false, "Enable debug logging")
	_ = searchCmd.MarkFlagRequired("roles")
	_ = searchCmd.MarkFlagRequired("country")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(searchConfigPath, config.Config{
		SearchLimit: searchLimit,
		UseBrowser:  searchUseBrowser,
		Debug:       searchDebug,
	})
	if err != nil {
		return err
	}

	resumeText := ""
	if searchResumePath != "" {
		resumeText, err = readResume(searchResumePath)
		if err != nil {
			return err
		}
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

	listings := a.retriever.SearchJobs(ctx, searchRoles, searchCountry, cfg.SearchLimit)
	a.log.Info("retrieved listings", zap.Int("count", len(listings)))

	matches, err := a.coordinator.Run(ctx, pipeline.SearchRequest{
		Roles:      searchRoles,
		Country:    searchCountry,
		ResumeText: resumeText,
	}, listings)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	out, err := json.MarshalIndent(map[string]any{"jobs": matches}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// readResume loads resume text from disk, extracting text when given a PDF.
func readResume(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read resume: %w", err)
	}

	if strings.HasSuffix(strings.ToLower(path), ".pdf") {
		text, err := resume.Parse(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return "", fmt.Errorf("failed to parse resume PDF: %w", err)
		}
		return text, nil
	}
	return resume.NormalizeWhitespace(string(data)), nil
}
