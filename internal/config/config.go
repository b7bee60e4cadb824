// SPDX-License-Identifier: MPL-2.0

// Package config loads the gallery CLI configuration: compiled-in defaults,
// overlaid by an optional CUE config file validated against an embedded
// schema, overlaid by GALLERY_* environment variables.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"gallery-cli/internal/issue"
	"gallery-cli/pkg/cueutil"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "gallery"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
)

//go:embed config_schema.cue
var configSchema string

// configDirOverride lets tests and the --config flag redirect config
// resolution.
var (
	configDirOverride  string
	configFileOverride string
)

type (
	// InstallerConfig controls requirement installation.
	InstallerConfig struct {
		// Command is the package-manager command prefix.
		Command string `mapstructure:"command"`
		// Shell selects the installer backend: "native" or "virtual".
		Shell string `mapstructure:"shell"`
		// Timeout is the per-invocation bound as a Go duration string.
		Timeout string `mapstructure:"timeout"`
	}

	// UIConfig controls CLI output behavior.
	UIConfig struct {
		// Verbose enables debug-level logging.
		Verbose bool `mapstructure:"verbose"`
	}

	// Config is the resolved gallery CLI configuration.
	Config struct {
		// ContribDir is the contrib module tree to scan.
		ContribDir string `mapstructure:"contrib_dir"`
		// OutputPath is where the gallery JSON artifact is written.
		OutputPath string `mapstructure:"output_path"`
		// IncludeCore includes core expectations in the report.
		IncludeCore bool `mapstructure:"include_core"`
		// IncludeContribExperimental enables the contrib scan/install/load
		// phase.
		IncludeContribExperimental bool `mapstructure:"include_contrib_experimental"`

		Installer InstallerConfig `mapstructure:"installer"`
		UI        UIConfig        `mapstructure:"ui"`
	}
)

// DefaultConfig returns the compiled-in defaults.
func DefaultConfig() *Config {
	return &Config{
		ContribDir:                 filepath.Join(".", "contrib", "experimental"),
		OutputPath:                 filepath.Join(".", "expectation_library.json"),
		IncludeCore:                true,
		IncludeContribExperimental: true,
		Installer: InstallerConfig{
			Command: "pip install",
			Shell:   "native",
			Timeout: "5m",
		},
	}
}

// TimeoutDuration parses the installer timeout.
func (c InstallerConfig) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid installer timeout %q: %w", c.Timeout, err)
	}
	return d, nil
}

// SetConfigFilePathOverride points Load at an explicit config file
// (--config flag).
func SetConfigFilePathOverride(path string) {
	configFileOverride = path
}

// SetConfigDirOverride redirects config directory resolution (tests).
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// ConfigDir returns the gallery configuration directory using
// platform-specific conventions: Windows uses %APPDATA%, macOS uses
// ~/Library/Application Support, and Linux/others use $XDG_CONFIG_HOME
// (defaulting to ~/.config).
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// Load resolves the configuration: defaults, then the config file (explicit
// override, config dir, or current directory, first found wins), then
// GALLERY_* environment variables. A missing config file is not an error.
func Load() (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("contrib_dir", defaults.ContribDir)
	v.SetDefault("output_path", defaults.OutputPath)
	v.SetDefault("include_core", defaults.IncludeCore)
	v.SetDefault("include_contrib_experimental", defaults.IncludeContribExperimental)
	v.SetDefault("installer.command", defaults.Installer.Command)
	v.SetDefault("installer.shell", defaults.Installer.Shell)
	v.SetDefault("installer.timeout", defaults.Installer.Timeout)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFileOverride != "" {
		if !fileExists(configFileOverride) {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(configFileOverride).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'gallery config show' to see the default configuration").
				Wrap(fmt.Errorf("config file not found: %s", configFileOverride)).
				BuildError()
		}
		if err := loadCUEIntoViper(v, configFileOverride); err != nil {
			return nil, wrapConfigLoadError(err, configFileOverride)
		}
	} else {
		cfgDir, err := ConfigDir()
		if err != nil {
			return nil, err
		}

		cuePath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
		localPath := ConfigFileName + "." + ConfigFileExt
		switch {
		case fileExists(cuePath):
			if err := loadCUEIntoViper(v, cuePath); err != nil {
				return nil, wrapConfigLoadError(err, cuePath)
			}
		case fileExists(localPath):
			if err := loadCUEIntoViper(v, localPath); err != nil {
				return nil, wrapConfigLoadError(err, localPath)
			}
		}
		// No config file found: defaults apply.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// The schema leaves the timeout a plain string; parsing here is the
	// only syntax check, so later callers cannot hit a malformed value.
	if _, err := cfg.Installer.TimeoutDuration(); err != nil {
		return nil, wrapConfigLoadError(err, "installer.timeout")
	}

	return &cfg, nil
}

func wrapConfigLoadError(err error, resource string) error {
	return issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(resource).
		WithSuggestion("Check that the file contains valid CUE syntax").
		WithSuggestion("Verify the configuration values match the expected schema").
		WithSuggestion("See 'gallery config --help' for configuration options").
		WithIssue(issue.ConfigLoadFailedId).
		Wrap(err).
		BuildError()
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config
// schema, and merges its contents into Viper.
//
// This uses manual CUE parsing instead of cueutil.ParseAndDecode because the
// config decodes to map[string]any for Viper merging (preserving defaults
// and env overrides) rather than directly to a struct.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return cueutil.FormatError(userValue.Err(), path)
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return cueutil.FormatError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return cueutil.FormatError(err, path)
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
