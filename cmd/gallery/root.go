// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for the gallery builder.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gallery-cli/internal/config"
	"gallery-cli/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables debug-level output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "gallery",
		Short: "Builds the expectation gallery metadata artifact",
		Long: TitleStyle.Render("gallery") + SubtitleStyle.Render(" - expectation gallery builder") + `

gallery scans a contrib directory for expectation modules, statically
extracts the third-party requirements each module declares, installs
them, activates the modules through the registration loader, runs every
expectation's self-diagnostics, and writes the aggregated results to a
single JSON artifact.

` + SubtitleStyle.Render("Examples:") + `
  gallery build                     Build expectation_library.json
  gallery build --contrib=false     Core expectations only
  gallery extract mod.go            Inspect one module's requirements
  gallery config show               Show current configuration`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/gallery/config.cue)")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(configCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// initRootConfig reads in config file and ENV variables if set.
func initRootConfig() {
	if cfgFile != "" {
		config.SetConfigFilePathOverride(cfgFile)
	}

	cfg, err := config.Load()
	if err != nil {
		// Config loading problems are surfaced but never fatal here:
		// the defaults still produce a usable run.
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
	}

	// Apply verbose from config if not set via flag
	if cfg != nil && !verbose {
		verbose = cfg.UI.Verbose
	}
}

// newLogger creates the run logger. Records go to stdout, matching the
// build-pipeline consumers that capture the gallery log.
func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stdout, log.Options{
		ReportTimestamp: true,
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// printFatal writes the formatted error and, when the error links a
// catalog entry, the rendered entry below it.
func printFatal(w io.Writer, err error) {
	fmt.Fprintln(w, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))

	var ae *issue.ActionableError
	if !errors.As(err, &ae) || ae.IssueId == 0 {
		return
	}
	renderIssue(w, ae.IssueId)
}

// renderIssue writes a catalog entry, if it exists and renders cleanly.
func renderIssue(w io.Writer, id issue.Id) {
	entry := issue.Get(id)
	if entry == nil {
		return
	}
	if rendered, err := entry.Render("dark"); err == nil {
		fmt.Fprint(w, rendered)
	}
}

// fatalError prints the error and converts it into a non-zero exit.
func fatalError(err error) error {
	printFatal(os.Stderr, err)
	return &ExitError{Code: 1, Err: err}
}
