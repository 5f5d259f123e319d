// Package config provides hierarchical configuration management for
// relnote using koanf. Configuration is loaded with priority:
// environment variables > project config (.relnote.yml) > user config
// (~/.config/relnote/config.yml) > defaults. Project files may also be
// written in JSON (.relnote.json).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	koanfjson "github.com/knadh/koanf/parsers/json"
	koanfyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces relnote's environment variables (RELNOTE_*).
const envPrefix = "RELNOTE_"

// Configuration holds the relnote CLI settings.
type Configuration struct {
	// MessagesDir is the release-note directory relative to the
	// working directory. Can be set via RELNOTE_MESSAGES_DIR.
	MessagesDir string `koanf:"messages_dir"`

	// Project names the project in rendered changelogs.
	Project string `koanf:"project"`

	// RepoURL enables comparison links in rendered changelogs
	// (e.g. "https://github.com/timbrel/GitSavvy").
	RepoURL string `koanf:"repo_url"`

	// RemoteURL overrides the raw content URL used by `relnote fetch`.
	RemoteURL string `koanf:"remote_url"`

	// ChangelogPath is where `relnote render` writes the aggregate
	// markdown document.
	ChangelogPath string `koanf:"changelog_path"`

	// Plain disables colors and icons in terminal output.
	// Can be set via RELNOTE_PLAIN=1.
	Plain bool `koanf:"plain"`

	// FetchTimeoutSeconds bounds remote fetches.
	FetchTimeoutSeconds int `koanf:"fetch_timeout"`
}

// Default returns the built-in configuration values.
func Default() *Configuration {
	return &Configuration{
		MessagesDir:         "messages",
		ChangelogPath:       "CHANGELOG.md",
		FetchTimeoutSeconds: 10,
	}
}

// Load loads configuration from user, project, and environment sources.
// Priority: environment variables > project config > user config > defaults.
// projectConfigPath overrides the project config location when non-empty.
func Load(projectConfigPath string) (*Configuration, error) {
	k := koanf.New(".")

	loadDefaults(k)

	if err := loadUserConfig(k); err != nil {
		return nil, err
	}
	if err := loadProjectConfig(k, projectConfigPath); err != nil {
		return nil, err
	}
	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling configuration: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks configuration values for obvious mistakes.
func Validate(cfg *Configuration) error {
	if cfg.MessagesDir == "" {
		return fmt.Errorf("messages_dir cannot be empty")
	}
	if cfg.FetchTimeoutSeconds <= 0 {
		return fmt.Errorf("fetch_timeout must be positive, got %d", cfg.FetchTimeoutSeconds)
	}
	return nil
}

func loadDefaults(k *koanf.Koanf) {
	defaults := Default()
	_ = k.Set("messages_dir", defaults.MessagesDir)
	_ = k.Set("changelog_path", defaults.ChangelogPath)
	_ = k.Set("fetch_timeout", defaults.FetchTimeoutSeconds)
}

// UserConfigPath returns the XDG-compliant user config location.
func UserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "relnote", "config.yml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "relnote", "config.yml")
}

func loadUserConfig(k *koanf.Koanf) error {
	path := UserConfigPath()
	if path == "" {
		return nil
	}
	return loadConfigFile(k, path, true)
}

// projectConfigCandidates lists the project config files in the order
// they are probed. YAML is preferred; JSON is accepted.
var projectConfigCandidates = []string{".relnote.yml", ".relnote.yaml", ".relnote.json"}

func loadProjectConfig(k *koanf.Koanf, override string) error {
	if override != "" {
		return loadConfigFile(k, override, false)
	}
	for _, candidate := range projectConfigCandidates {
		if _, err := os.Stat(candidate); err == nil {
			return loadConfigFile(k, candidate, false)
		}
	}
	return nil
}

// loadConfigFile merges one config file into k, choosing the parser by
// extension. A missing file is only tolerated when optional is true.
func loadConfigFile(k *koanf.Koanf, path string, optional bool) error {
	if _, err := os.Stat(path); err != nil {
		if optional && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config %s: %w", path, err)
	}

	var parser koanf.Parser = koanfyaml.Parser()
	if strings.HasSuffix(path, ".json") {
		parser = koanfjson.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// loadEnvironmentConfig merges RELNOTE_* environment variables, mapping
// RELNOTE_MESSAGES_DIR to messages_dir and so on.
func loadEnvironmentConfig(k *koanf.Koanf) error {
	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		return fmt.Errorf("loading environment config: %w", err)
	}
	return nil
}
