package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sevigo/reviewgate/internal/core"
	"github.com/sevigo/reviewgate/internal/report"
	"github.com/sevigo/reviewgate/internal/target"
	"github.com/sevigo/reviewgate/internal/wire"
)

var (
	flagStaged  bool
	flagCommit  string
	flagRange   string
	flagFiles   []string
	flagFormat  string
	flagPretty  bool
	flagForceAI bool
	verbose     bool
)

// Color definitions
var (
	titleColor = color.New(color.FgCyan, color.Bold)
	dimColor   = color.New(color.FgHiBlack)
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Audit a git change-set and gate on the result",
	Long: `Audit a git change-set and gate on the result.

Exactly one target selector may be given. With none, the configured compare
branch is reviewed against HEAD.

Examples:
  reviewgate review --staged
  reviewgate review --commit abc1234
  reviewgate review --range main..feature
  reviewgate review --files internal/app/app.go --files cmd/cli/main.go
  reviewgate review --format json > report.json`,
	Args: cobra.NoArgs,
	RunE: runReview,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	reviewCmd.Flags().BoolVar(&flagStaged, "staged", false, "Review the currently staged changes")
	reviewCmd.Flags().StringVar(&flagCommit, "commit", "", "Review a single commit by SHA")
	reviewCmd.Flags().StringVar(&flagRange, "range", "", "Review a commit range (base..head)")
	reviewCmd.Flags().StringSliceVar(&flagFiles, "files", nil, "Review an explicit list of files against the working tree")
	reviewCmd.Flags().StringVar(&flagFormat, "format", "console", "Output format: console, json, or markdown")
	reviewCmd.Flags().BoolVar(&flagPretty, "pretty", false, "Render the markdown report with terminal styling")
	reviewCmd.Flags().BoolVar(&flagForceAI, "force-ai", false, "Run the AI audit even for staged targets")
	reviewCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output with timing information")
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	overallStart := time.Now()

	if verbose {
		titleColor.Println("🚀 reviewgate")
	}

	appInstance, cleanup, err := wire.InitializeApp(ctx)
	if err != nil {
		exitCode = 2
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer cleanup()

	if flagForceAI {
		appInstance.Cfg.ForceAI = true
	}

	rep, err := appInstance.RunReview(ctx, target.Request{
		Staged:        flagStaged,
		Commit:        flagCommit,
		Range:         flagRange,
		Files:         flagFiles,
		CompareBranch: appInstance.Cfg.CompareBranch,
	})
	if err != nil {
		exitCode = 2
		return err
	}

	if verbose {
		dimColor.Printf("Total time: %s\n", time.Since(overallStart).Round(time.Millisecond))
	}

	if err := renderReport(rep); err != nil {
		exitCode = 2
		return err
	}

	exitCode = report.ExitCode(rep)
	return nil
}

func renderReport(rep core.ReviewReport) error {
	switch flagFormat {
	case "json":
		return report.RenderJSON(os.Stdout, rep)
	case "markdown":
		if flagPretty {
			out, err := report.RenderPretty(rep, 100)
			if err != nil {
				return err
			}
			fmt.Print(out)
			return nil
		}
		fmt.Print(report.RenderMarkdown(rep))
		return nil
	case "console":
		if flagPretty {
			out, err := report.RenderPretty(rep, 100)
			if err != nil {
				return err
			}
			fmt.Print(out)
			return nil
		}
		report.RenderConsole(os.Stdout, rep)
		return nil
	default:
		return fmt.Errorf("unknown format %q: use console, json, or markdown", flagFormat)
	}
}
