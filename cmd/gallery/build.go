// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"gallery-cli/internal/config"
	"gallery-cli/internal/core"
	"gallery-cli/internal/gallery"
	"gallery-cli/internal/installer"
	"gallery-cli/internal/issue"
	"gallery-cli/pkg/expectation"

	"github.com/spf13/cobra"
)

var (
	buildIncludeCore bool
	buildContrib     bool
	buildContribDir  string
	buildOutput      string
	buildShell       string
	buildTimeout     string

	buildCmd = &cobra.Command{
		Use:   "build",
		Short: "Build the expectation gallery JSON artifact",
		Long: `Build the expectation gallery JSON artifact.

Scans the contrib directory for expectation modules, installs each
module's declared requirements, activates the modules through the
registration loader, runs diagnostics for every expectation, and writes
the aggregated metadata as a single JSON document.

Installation failures are logged and skipped; extraction, manifest,
load and diagnostics failures abort the build.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd)
		},
	}
)

func init() {
	defaults := config.DefaultConfig()

	buildCmd.Flags().BoolVar(&buildIncludeCore, "include-core", defaults.IncludeCore,
		"include core expectations in the artifact")
	buildCmd.Flags().BoolVar(&buildContrib, "contrib", defaults.IncludeContribExperimental,
		"scan, install and load contrib modules")
	buildCmd.Flags().StringVar(&buildContribDir, "contrib-dir", defaults.ContribDir,
		"contrib module directory")
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", defaults.OutputPath,
		"output path for the JSON artifact")
	buildCmd.Flags().StringVar(&buildShell, "shell", defaults.Installer.Shell,
		"installer shell backend (native|virtual)")
	buildCmd.Flags().StringVar(&buildTimeout, "timeout", defaults.Installer.Timeout,
		"per-requirement install timeout (e.g. 90s, 5m)")
}

func runBuild(cmd *cobra.Command) error {
	cfg := loadConfigOrDefaults()
	applyBuildFlags(cmd, cfg)

	logger := newLogger()

	timeout, err := cfg.Installer.TimeoutDuration()
	if err != nil {
		return fatalError(err)
	}

	runner, err := installer.NewRunner(installer.ShellKind(cfg.Installer.Shell))
	if err != nil {
		return fatalError(err)
	}
	if !runner.Available() {
		logger.Warn("installer shell not available, falling back to built-in shell",
			"shell", runner.Name())
		renderIssue(os.Stderr, issue.InstallerShellNotFoundId)
		runner = &installer.VirtualRunner{}
	}

	pip := installer.New(runner,
		installer.WithCommand(cfg.Installer.Command),
		installer.WithTimeout(timeout),
		installer.WithLogger(logger),
	)

	registry := expectation.NewRegistry()
	if err := core.Register(registry); err != nil {
		return fatalError(err)
	}

	builder := gallery.NewBuilder(registry, expectation.CompiledLoader(registry), pip, logger)
	info, err := builder.Build(cmd.Context(), gallery.Options{
		IncludeCore:                cfg.IncludeCore,
		IncludeContribExperimental: cfg.IncludeContribExperimental,
		ContribDir:                 cfg.ContribDir,
	})
	if err != nil {
		return fatalError(err)
	}

	if err := writeGallery(info, cfg.OutputPath); err != nil {
		return fatalError(err)
	}

	fmt.Println(SuccessStyle.Render("✓") +
		fmt.Sprintf(" gallery built: %d expectations -> %s",
			len(info), CmdStyle.Render(cfg.OutputPath)))
	return nil
}

// loadConfigOrDefaults resolves the configuration, falling back to the
// compiled-in defaults when loading fails. The failure itself was already
// surfaced by initRootConfig.
func loadConfigOrDefaults() *config.Config {
	cfg, err := config.Load()
	if err != nil || cfg == nil {
		return config.DefaultConfig()
	}
	return cfg
}

// applyBuildFlags overlays explicitly-set command line flags onto the
// resolved configuration. Unset flags leave config file and env values
// intact.
func applyBuildFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("include-core") {
		cfg.IncludeCore = buildIncludeCore
	}
	if flags.Changed("contrib") {
		cfg.IncludeContribExperimental = buildContrib
	}
	if flags.Changed("contrib-dir") {
		cfg.ContribDir = buildContribDir
	}
	if flags.Changed("output") {
		cfg.OutputPath = buildOutput
	}
	if flags.Changed("shell") {
		cfg.Installer.Shell = buildShell
	}
	if flags.Changed("timeout") {
		cfg.Installer.Timeout = buildTimeout
	}
}

// writeGallery marshals the gallery metadata and writes it in one shot.
func writeGallery(info gallery.GalleryInfo, path string) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return issue.WrapWithContext(err, "encode gallery artifact", path)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return issue.NewErrorContext().
			WithOperation("write gallery artifact").
			WithResource(path).
			WithSuggestion("Check that the output directory exists and is writable").
			WithSuggestion("Pass --output to write the artifact elsewhere").
			WithIssue(issue.OutputWriteFailedId).
			Wrap(err).
			BuildError()
	}
	return nil
}
