// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"gallery-cli/internal/config"
	"gallery-cli/internal/issue"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage gallery configuration",
	Long: `Manage gallery configuration.

Configuration is stored in:
  - Linux: ~/.config/gallery/config.cue
  - macOS: ~/Library/Application Support/gallery/config.cue
  - Windows: %APPDATA%\gallery\config.cue`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath()
		},
	})
}

func showConfig() error {
	cfg, err := config.Load()
	if err != nil {
		renderIssue(os.Stderr, issue.ConfigLoadFailedId)
		return err
	}

	headerStyle := TitleStyle
	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Println(headerStyle.Render("Current Configuration"))
	fmt.Println()

	if path, ok := configFilePath(); ok {
		fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), path)
	} else {
		fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Println()

	fmt.Printf("%s: %s\n", keyStyle.Render("contrib_dir"), valueStyle.Render(cfg.ContribDir))
	fmt.Printf("%s: %s\n", keyStyle.Render("output_path"), valueStyle.Render(cfg.OutputPath))
	fmt.Printf("%s: %s\n", keyStyle.Render("include_core"), valueStyle.Render(fmt.Sprintf("%t", cfg.IncludeCore)))
	fmt.Printf("%s: %s\n", keyStyle.Render("include_contrib_experimental"), valueStyle.Render(fmt.Sprintf("%t", cfg.IncludeContribExperimental)))
	fmt.Printf("%s: %s\n", keyStyle.Render("installer.command"), valueStyle.Render(cfg.Installer.Command))
	fmt.Printf("%s: %s\n", keyStyle.Render("installer.shell"), valueStyle.Render(cfg.Installer.Shell))
	fmt.Printf("%s: %s\n", keyStyle.Render("installer.timeout"), valueStyle.Render(cfg.Installer.Timeout))
	fmt.Printf("%s: %s\n", keyStyle.Render("ui.verbose"), valueStyle.Render(fmt.Sprintf("%t", cfg.UI.Verbose)))

	return nil
}

func showConfigPath() error {
	if path, ok := configFilePath(); ok {
		fmt.Println(path)
		return nil
	}

	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	fmt.Println(SubtitleStyle.Render("(not created yet) ") +
		filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))
	return nil
}

// configFilePath reports the config file location, if one exists on disk.
func configFilePath() (string, bool) {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return "", false
	}
	path := filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}
	return path, true
}
