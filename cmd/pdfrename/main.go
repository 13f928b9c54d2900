package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/divyekant/pdfrename/internal/config"
	"github.com/divyekant/pdfrename/internal/extract"
	"github.com/divyekant/pdfrename/internal/llm"
	"github.com/divyekant/pdfrename/internal/logging"
	"github.com/divyekant/pdfrename/internal/pipeline"
	"github.com/divyekant/pdfrename/internal/report"
	"github.com/divyekant/pdfrename/internal/title"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pdfrename <source_directory> <renamed_directory>",
		Short: "Rename PDFs after their first-page title and move them to a new directory",
		Long: `pdfrename reads the first page of every PDF in <source_directory>, derives a
title from it and moves the file to <renamed_directory>/<title>.pdf.

Titles come from one of two strategies:
  first-line  the first line of text on the first page (default)
  model       a name suggested by a local language model (Ollama or an
              OpenAI-compatible server)

Existing files are never overwritten: a numeric suffix (_1, _2, ...) is added
on collision. Files without a usable title, with a target path longer than
--max-path-len, or that fail to move are left in the source directory.`,
		Version: version,
		Args:    cobra.ExactArgs(2),
		RunE:    runRename,
	}

	f := cmd.Flags()
	f.String("config", "", "YAML config file (default: $PDFRENAME_CONFIG)")
	f.String("strategy", "first-line", "title strategy: first-line or model")
	f.String("provider", "ollama", "model provider: ollama or openai")
	f.String("llm-url", "", "model server base URL (default: http://localhost:11434 for ollama)")
	f.String("model", llm.DefaultModel, "model name")
	f.String("api-key", "", "API key for OpenAI-compatible servers")
	f.Duration("llm-timeout", 0, "timeout per model request (0 = none)")
	f.Int("max-tokens", 0, "cap on tokens generated per title (0 = server default)")
	f.Int("max-title-len", 50, "maximum filename length in characters, extension excluded")
	f.Int("max-path-len", 260, "skip files whose full target path would be longer")
	f.Bool("dry-run", false, "show what would be renamed without moving anything")
	f.String("report", "", "write a run report to this .yaml or .json file")
	f.String("log-level", "info", "log level: debug, info, warn, error")
	f.String("log-format", "text", "log format: text or json")
	f.Bool("json", false, "Output machine-readable JSON")
	f.BoolP("quiet", "q", false, "Suppress the per-file table, only print totals")

	return cmd
}

func runRename(cmd *cobra.Command, args []string) error {
	// Arguments are valid from here on; errors are not usage problems.
	cmd.SilenceUsage = true
	errOut := cmd.ErrOrStderr()

	cfgFile, _ := cmd.Flags().GetString("config")
	if cfgFile == "" {
		cfgFile = config.ConfigFileFromEnv()
	}
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: errOut,
	})
	if err != nil {
		return err
	}

	strategy, err := buildStrategy(cfg, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt)
	defer stop()

	startTime := time.Now()
	result, runErr := pipeline.Run(ctx, pipeline.Config{
		SourceDir:   args[0],
		DestDir:     args[1],
		Extractor:   extract.NewPDFExtractor(),
		Strategy:    strategy,
		MaxTitleLen: cfg.MaxTitleLen,
		MaxPathLen:  cfg.MaxPathLen,
		DryRun:      cfg.DryRun,
		Logger:      log,
	})
	if result == nil {
		return runErr
	}

	rep := report.FromResult(result)
	if cfg.Report != "" {
		if err := rep.Save(cfg.Report); err != nil {
			log.WithError(err).Error("could not write report")
		} else {
			log.WithField("path", cfg.Report).Info("report written")
		}
	}

	quiet, _ := cmd.Flags().GetBool("quiet")
	elapsed := time.Since(startTime)
	if err := writeOutput(cmd, rep, func(w io.Writer) {
		printSummary(w, result, quiet, elapsed)
	}); err != nil {
		return err
	}

	return runErr
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// buildStrategy wires the configured title strategy, creating the model
// provider only when it is needed.
func buildStrategy(cfg config.Config, log logrus.FieldLogger) (title.Strategy, error) {
	var provider llm.Provider
	if cfg.Strategy == title.StrategyModel {
		p, err := llm.NewProvider(cfg.LLM.Provider, llm.Options{
			BaseURL: cfg.LLM.URL,
			Model:   cfg.LLM.Model,
			APIKey:  cfg.LLM.APIKey,
			Timeout: cfg.LLM.Timeout,
		})
		if err != nil {
			return nil, err
		}
		provider = p
		log.WithFields(logrus.Fields{
			"provider": p.Name(),
			"model":    cfg.LLM.Model,
		}).Debug("model strategy enabled")
	}
	return title.New(cfg.Strategy, provider,
		title.WithMaxTokens(cfg.LLM.MaxTokens),
		title.WithLogger(log),
	)
}

func printSummary(w io.Writer, result *pipeline.Result, quiet bool, elapsed time.Duration) {
	pal := paletteFor(w)

	if !quiet && len(result.Outcomes) > 0 {
		rows := make([][]string, 0, len(result.Outcomes))
		for _, o := range result.Outcomes {
			target := ""
			if o.Target != "" {
				target = filepath.Base(o.Target)
			}
			status := string(o.Status)
			if reason := o.Status.Reason(); reason != "" {
				status = "skipped (" + reason + ")"
			}
			rows = append(rows, []string{
				filepath.Base(o.Source),
				truncateText(target, 60),
				status,
			})
		}
		fmt.Fprintln(w, renderTable([]string{"File", "New name", "Status"}, rows))
		fmt.Fprintln(w)
	}

	heading := "=== Summary ==="
	if result.DryRun {
		heading = "=== Summary (dry run) ==="
	}
	fmt.Fprintf(w, "%s%s%s%s\n", pal.c(bold), pal.c(green), heading, pal.c(reset))
	fmt.Fprintf(w, "  source:   %s\n", result.SourceDir)
	fmt.Fprintf(w, "  dest:     %s\n", result.DestDir)
	fmt.Fprintf(w, "  pdfs:     %d\n", len(result.Outcomes))
	if result.DryRun {
		fmt.Fprintf(w, "  planned:  %d\n", result.Planned)
	} else {
		fmt.Fprintf(w, "  moved:    %d\n", result.Moved)
	}
	if result.Skipped > 0 {
		fmt.Fprintf(w, "  %sskipped:  %d%s\n", pal.c(yellow), result.Skipped, pal.c(reset))
	} else {
		fmt.Fprintf(w, "  skipped:  0\n")
	}
	fmt.Fprintf(w, "  elapsed:  %s\n", elapsed.Round(time.Millisecond))

	if errs := result.Errors(); len(errs) > 0 {
		fmt.Fprintf(w, "\n%s%sWarnings:%s\n", pal.c(bold), pal.c(yellow), pal.c(reset))
		for i, e := range errs {
			if i >= 10 {
				fmt.Fprintf(w, "  ... and %d more\n", len(errs)-10)
				break
			}
			fmt.Fprintf(w, "  - %v\n", e)
		}
	}
}
