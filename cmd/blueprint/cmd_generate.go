package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/BerylCAtieno/rankrent-factory/internal/artifact"
	"github.com/BerylCAtieno/rankrent-factory/internal/config"
	"github.com/BerylCAtieno/rankrent-factory/internal/models"
	"github.com/BerylCAtieno/rankrent-factory/internal/planner"
	"github.com/BerylCAtieno/rankrent-factory/internal/provider"
	"github.com/spf13/cobra"
)

var generateFlags struct {
	location string
	niche    string
	lang     string
	out      string
	offline  bool
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run recon and synthesis for one location and niche",
	Args:  cobra.NoArgs,
	RunE:  runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.StringVar(&generateFlags.location, "location", "", "Target location, e.g. \"Milano, IT\" (required)")
	f.StringVar(&generateFlags.niche, "niche", "", "Service niche, e.g. \"Emergency Plumber\" (required)")
	f.StringVar(&generateFlags.lang, "lang", string(models.LanguageEnglish), "Output language: en, it, es, fr or de")
	f.StringVar(&generateFlags.out, "out", "", "Directory for plan.json and the site assets (default: print the plan)")
	f.BoolVar(&generateFlags.offline, "offline", false, "Use the built-in sample provider instead of the model API")

	_ = generateCmd.MarkFlagRequired("location")
	_ = generateCmd.MarkFlagRequired("niche")
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	in, err := planner.NewInput(generateFlags.location, generateFlags.niche, generateFlags.lang)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if generateFlags.offline {
		cfg.Provider = provider.BackendOffline
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	llm, err := provider.New(ctx, cfg.Provider, cfg.APIKey)
	if err != nil {
		return &planner.ConfigurationError{Err: err}
	}
	defer llm.Close()

	logs := newLogPrinter(cmd.ErrOrStderr())
	plan, err := planner.New(llm, cfg.Planner()).GeneratePlan(ctx, in.Location, in.Niche, in.Language, logs.Print)
	if err != nil {
		return err
	}

	if generateFlags.out == "" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	}
	return writeBundle(cmd, generateFlags.out, plan)
}

func writeBundle(cmd *cobra.Command, dir string, plan *models.BusinessPlan) error {
	if err := artifact.WriteDir(dir, plan.SiteAssets); err != nil {
		return err
	}
	body, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	planPath := filepath.Join(dir, "plan.json")
	if err := os.WriteFile(planPath, append(body, '\n'), 0o644); err != nil {
		return fmt.Errorf("write plan: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Plan:    %s\n", planPath)
	fmt.Fprintf(out, "Domain:  %s\n", plan.DomainStrategy.SelectedDomain)
	fmt.Fprintf(out, "Assets:  %d\n", len(plan.SiteAssets))
	for _, f := range plan.SiteAssets {
		fmt.Fprintf(out, "  %s\n", filepath.Join(dir, filepath.FromSlash(f.Path)))
	}
	return nil
}
