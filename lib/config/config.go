// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the variable Load reads the config path
// from.
const EnvironmentVariable = "PINDER_CONFIG"

// Config is the pinder configuration file.
type Config struct {
	// Profile is the profile used when none is named on the command
	// line.
	Profile string `yaml:"profile"`

	// Defaults supplies values every profile inherits.
	Defaults ProfileConfig `yaml:"defaults"`

	// Profiles are the configured accounts, by name.
	Profiles map[string]*ProfileConfig `yaml:"profiles"`

	// Paths configures directory locations.
	Paths PathsConfig `yaml:"paths"`

	// Chat configures polling and display.
	Chat ChatConfig `yaml:"chat"`
}

// ProfileConfig describes one account as written in the file. Empty
// fields inherit from Config.Defaults.
type ProfileConfig struct {
	// Subdomain is the account subdomain (acme for acme.campfirenow.com).
	Subdomain string `yaml:"subdomain"`

	// SSL selects https. Pointer so a profile can turn it off when
	// the defaults turn it on.
	SSL *bool `yaml:"ssl,omitempty"`

	// BaseURL overrides the subdomain-derived account URI.
	BaseURL string `yaml:"base_url"`

	// Email is the login email address.
	Email string `yaml:"email"`

	// PasswordFile holds the password on its first line. "-" reads
	// standard input. Empty prompts on the terminal.
	PasswordFile string `yaml:"password_file"`

	// PassphraseFile holds the passphrase that encrypts the saved
	// session. Empty stores the session unencrypted (mode 0600).
	PassphraseFile string `yaml:"passphrase_file"`

	// Timeout bounds each HTTP request ("10s"). Empty uses the client
	// default.
	Timeout string `yaml:"timeout"`
}

// PathsConfig configures directory locations.
type PathsConfig struct {
	// Root is the base directory for pinder data.
	Root string `yaml:"root"`

	// Sessions holds saved sessions.
	Sessions string `yaml:"sessions"`

	// Archives is where transcript archives are written by default.
	Archives string `yaml:"archives"`
}

// ChatConfig configures polling and message display.
type ChatConfig struct {
	// PollInterval is the delay between polls in tail and chat ("3s").
	PollInterval string `yaml:"poll_interval"`

	// Style is the chroma style used to highlight pastes.
	Style string `yaml:"style"`

	// Width wraps message bodies. Zero uses the terminal width.
	Width int `yaml:"width"`
}

// Profile is a resolved account: defaults merged with one profile.
type Profile struct {
	Name           string
	Subdomain      string
	SSL            bool
	BaseURL        string
	Email          string
	PasswordFile   string
	PassphraseFile string
	Timeout        time.Duration
}

// Default returns the default configuration. Values from the file are
// merged over it.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	defaultRoot := filepath.Join(homeDir, ".local", "share", "pinder")

	return &Config{
		Paths: PathsConfig{
			Root:     defaultRoot,
			Sessions: filepath.Join("${PINDER_ROOT}", "sessions"),
			Archives: filepath.Join("${PINDER_ROOT}", "archives"),
		},
		Chat: ChatConfig{
			PollInterval: "3s",
			Style:        "monokai",
		},
	}
}

// Load loads configuration from the file named by PINDER_CONFIG.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your pinder.yaml config file, or use --config flag", EnvironmentVariable)
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path and expands
// path variables.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	cfg.expandVariables()
	return cfg, nil
}

// LoadOrDefault loads path, or returns the expanded defaults when
// path is empty. The CLI uses it so that flags alone can describe an
// account when no config file exists.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		cfg := Default()
		cfg.expandVariables()
		return cfg, nil
	}
	return LoadFile(path)
}

// loadFile merges a file into the current config. JSON is a subset of
// YAML, so JSONC files are stripped of comments and handed to the
// same decoder.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		data = jsonc.ToJSON(data)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// ProfileNames returns the configured profile names, sorted.
func (c *Config) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve merges the defaults with the named profile. An empty name
// selects Config.Profile; when that is empty too and exactly one
// profile exists, that profile is used; with no profiles at all the
// defaults alone are resolved.
func (c *Config) Resolve(name string) (Profile, error) {
	if name == "" {
		name = c.Profile
	}
	if name == "" && len(c.Profiles) == 1 {
		name = c.ProfileNames()[0]
	}

	merged := c.Defaults
	if name != "" {
		override, ok := c.Profiles[name]
		if !ok || override == nil {
			return Profile{}, fmt.Errorf("unknown profile %q (configured: %s)",
				name, strings.Join(c.ProfileNames(), ", "))
		}
		merged = mergeProfile(merged, *override)
	} else if len(c.Profiles) > 1 {
		return Profile{}, fmt.Errorf("several profiles configured (%s); choose one with --profile or set profile:",
			strings.Join(c.ProfileNames(), ", "))
	}

	profile := Profile{
		Name:           name,
		Subdomain:      merged.Subdomain,
		BaseURL:        merged.BaseURL,
		Email:          merged.Email,
		PasswordFile:   merged.PasswordFile,
		PassphraseFile: merged.PassphraseFile,
	}
	if merged.SSL != nil {
		profile.SSL = *merged.SSL
	}
	if merged.Timeout != "" {
		timeout, err := time.ParseDuration(merged.Timeout)
		if err != nil {
			return Profile{}, fmt.Errorf("profile %q: invalid timeout %q: %w", name, merged.Timeout, err)
		}
		profile.Timeout = timeout
	}
	return profile, nil
}

// mergeProfile returns base with every non-empty field of override
// applied.
func mergeProfile(base, override ProfileConfig) ProfileConfig {
	if override.Subdomain != "" {
		base.Subdomain = override.Subdomain
	}
	if override.SSL != nil {
		base.SSL = override.SSL
	}
	if override.BaseURL != "" {
		base.BaseURL = override.BaseURL
	}
	if override.Email != "" {
		base.Email = override.Email
	}
	if override.PasswordFile != "" {
		base.PasswordFile = override.PasswordFile
	}
	if override.PassphraseFile != "" {
		base.PassphraseFile = override.PassphraseFile
	}
	if override.Timeout != "" {
		base.Timeout = override.Timeout
	}
	return base
}

// PollInterval returns Chat.PollInterval parsed. Validate reports a
// bad value; here it falls back to three seconds.
func (c *Config) PollInterval() time.Duration {
	interval, err := time.ParseDuration(c.Chat.PollInterval)
	if err != nil || interval <= 0 {
		return 3 * time.Second
	}
	return interval
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in
// paths and file references.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"PINDER_ROOT": c.Paths.Root,
		"HOME":        os.Getenv("HOME"),
	}

	c.Paths.Root = expandVars(c.Paths.Root, vars)
	vars["PINDER_ROOT"] = c.Paths.Root

	c.Paths.Sessions = expandVars(c.Paths.Sessions, vars)
	c.Paths.Archives = expandVars(c.Paths.Archives, vars)

	expandProfile := func(profile *ProfileConfig) {
		profile.PasswordFile = expandVars(profile.PasswordFile, vars)
		profile.PassphraseFile = expandVars(profile.PassphraseFile, vars)
	}
	expandProfile(&c.Defaults)
	for _, profile := range c.Profiles {
		if profile != nil {
			expandProfile(profile)
		}
	}
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Provided vars first, then the environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors. Every problem is
// reported, joined.
func (c *Config) Validate() error {
	var errs []error

	if c.Paths.Sessions == "" {
		errs = append(errs, fmt.Errorf("paths.sessions is required"))
	}
	if c.Profile != "" {
		if _, ok := c.Profiles[c.Profile]; !ok {
			errs = append(errs, fmt.Errorf("profile %q is not defined under profiles", c.Profile))
		}
	}

	if interval, err := time.ParseDuration(c.Chat.PollInterval); err != nil {
		errs = append(errs, fmt.Errorf("chat.poll_interval: %w", err))
	} else if interval <= 0 {
		errs = append(errs, fmt.Errorf("chat.poll_interval must be positive"))
	}
	if c.Chat.Width < 0 {
		errs = append(errs, fmt.Errorf("chat.width must not be negative"))
	}

	for _, name := range c.ProfileNames() {
		override := c.Profiles[name]
		if override == nil {
			errs = append(errs, fmt.Errorf("profiles.%s is empty", name))
			continue
		}
		merged := mergeProfile(c.Defaults, *override)
		if merged.Subdomain == "" && merged.BaseURL == "" {
			errs = append(errs, fmt.Errorf("profiles.%s: subdomain or base_url is required", name))
		}
		if merged.Email == "" {
			errs = append(errs, fmt.Errorf("profiles.%s: email is required", name))
		}
		if merged.Timeout != "" {
			if _, err := time.ParseDuration(merged.Timeout); err != nil {
				errs = append(errs, fmt.Errorf("profiles.%s.timeout: %w", name, err))
			}
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// EnsurePaths creates the session and archive directories. Sessions
// are private to the user.
func (c *Config) EnsurePaths() error {
	if c.Paths.Sessions != "" {
		if err := os.MkdirAll(c.Paths.Sessions, 0o700); err != nil {
			return fmt.Errorf("creating %s: %w", c.Paths.Sessions, err)
		}
	}
	if c.Paths.Archives != "" {
		if err := os.MkdirAll(c.Paths.Archives, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", c.Paths.Archives, err)
		}
	}
	return nil
}
