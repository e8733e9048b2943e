// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg, err := LoadOrDefault("")
	if err != nil {
		t.Fatalf("LoadOrDefault: %v", err)
	}
	if cfg.Chat.PollInterval != "3s" {
		t.Errorf("poll_interval = %q, want 3s", cfg.Chat.PollInterval)
	}
	if strings.Contains(cfg.Paths.Sessions, "${") {
		t.Errorf("sessions path not expanded: %q", cfg.Paths.Sessions)
	}
	if filepath.Dir(cfg.Paths.Sessions) != cfg.Paths.Root {
		t.Errorf("sessions %q is not under root %q", cfg.Paths.Sessions, cfg.Paths.Root)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestLoad_RequiresPinderConfig(t *testing.T) {
	t.Setenv(EnvironmentVariable, "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when PINDER_CONFIG not set, got nil")
	}
	if !strings.HasPrefix(err.Error(), "PINDER_CONFIG environment variable not set") {
		t.Errorf("unexpected error message %q", err.Error())
	}
}

func TestLoad_WithPinderConfig(t *testing.T) {
	path := writeConfig(t, "pinder.yaml", `
profile: work
paths:
  root: /test/root
profiles:
  work:
    subdomain: acme
    email: tom@example.com
`)
	t.Setenv(EnvironmentVariable, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Paths.Sessions != "/test/root/sessions" {
		t.Errorf("sessions = %q, want /test/root/sessions", cfg.Paths.Sessions)
	}
	if cfg.Profile != "work" {
		t.Errorf("profile = %q, want work", cfg.Profile)
	}
}

const profilesYAML = `
defaults:
  email: tom@example.com
  ssl: true
  timeout: 10s
  password_file: ${HOME}/.pinder-password
profiles:
  work:
    subdomain: acme
  home:
    subdomain: family
    email: tom@home.example
    ssl: false
    timeout: 30s
  local:
    base_url: http://localhost:8080
`

func TestResolveProfiles(t *testing.T) {
	t.Setenv("HOME", "/home/tom")
	cfg, err := LoadFile(writeConfig(t, "pinder.yaml", profilesYAML))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	tests := []struct {
		name string
		want Profile
	}{
		{"work", Profile{
			Name: "work", Subdomain: "acme", SSL: true, Email: "tom@example.com",
			PasswordFile: "/home/tom/.pinder-password", Timeout: 10 * time.Second,
		}},
		{"home", Profile{
			Name: "home", Subdomain: "family", SSL: false, Email: "tom@home.example",
			PasswordFile: "/home/tom/.pinder-password", Timeout: 30 * time.Second,
		}},
		{"local", Profile{
			Name: "local", BaseURL: "http://localhost:8080", SSL: true, Email: "tom@example.com",
			PasswordFile: "/home/tom/.pinder-password", Timeout: 10 * time.Second,
		}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			profile, err := cfg.Resolve(test.name)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if diff := cmp.Diff(test.want, profile); diff != "" {
				t.Errorf("Resolve mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if _, err := cfg.Resolve("missing"); err == nil {
		t.Error("Resolve of unknown profile succeeded")
	}
	if _, err := cfg.Resolve(""); err == nil {
		t.Error("Resolve with several profiles and no selection succeeded")
	}
}

func TestResolveSingleProfileAndDefaultsOnly(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, "pinder.yaml", `
profiles:
  only:
    subdomain: acme
    email: tom@example.com
`))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	profile, err := cfg.Resolve("")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if profile.Name != "only" || profile.Subdomain != "acme" {
		t.Errorf("Resolve(\"\") = %+v, want profile only", profile)
	}

	bare := Default()
	bare.Defaults.Subdomain = "acme"
	profile, err = bare.Resolve("")
	if err != nil {
		t.Fatalf("Resolve without profiles: %v", err)
	}
	if profile.Subdomain != "acme" || profile.Name != "" {
		t.Errorf("Resolve without profiles = %+v", profile)
	}
}

func TestLoadJSONC(t *testing.T) {
	path := writeConfig(t, "pinder.jsonc", `{
  // Work account.
  "profile": "work",
  "profiles": {
    "work": {
      "subdomain": "acme",
      "email": "tom@example.com", /* trailing comma below */
    },
  },
  "chat": {"poll_interval": "5s", "width": 100},
}`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.PollInterval() != 5*time.Second {
		t.Errorf("PollInterval = %v, want 5s", cfg.PollInterval())
	}
	if cfg.Chat.Width != 100 {
		t.Errorf("width = %d, want 100", cfg.Chat.Width)
	}
	if cfg.Chat.Style != "monokai" {
		t.Errorf("style = %q, want default monokai", cfg.Chat.Style)
	}
}

func TestEnvVarsDoNotOverride(t *testing.T) {
	t.Setenv("PINDER_SUBDOMAIN", "evil")
	cfg, err := LoadFile(writeConfig(t, "pinder.yaml", `
profiles:
  work: {subdomain: acme, email: tom@example.com}
`))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	profile, err := cfg.Resolve("work")
	if err != nil {
		t.Fatal(err)
	}
	if profile.Subdomain != "acme" {
		t.Errorf("subdomain = %q, environment leaked into config", profile.Subdomain)
	}
}

func TestExpandVars(t *testing.T) {
	t.Setenv("PINDER_TEST_VAR", "from-env")
	vars := map[string]string{"PINDER_ROOT": "/root/pinder", "EMPTY": ""}

	tests := []struct {
		input string
		want  string
	}{
		{"${PINDER_ROOT}/sessions", "/root/pinder/sessions"},
		{"${PINDER_TEST_VAR}", "from-env"},
		{"${EMPTY:-fallback}", "fallback"},
		{"${PINDER_UNSET_VAR:-default}", "default"},
		{"${PINDER_UNSET_VAR}", ""},
		{"no variables", "no variables"},
	}
	for _, test := range tests {
		if got := expandVars(test.input, vars); got != test.want {
			t.Errorf("expandVars(%q) = %q, want %q", test.input, got, test.want)
		}
	}
}

func TestValidate(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, "pinder.yaml", `
profile: nowhere
chat:
  poll_interval: soon
  width: -1
profiles:
  broken:
    timeout: forever
  empty:
`))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	err = cfg.Validate()
	if err == nil {
		t.Fatal("Validate accepted a broken config")
	}
	for _, fragment := range []string{
		`profile "nowhere"`,
		"chat.poll_interval",
		"chat.width",
		"profiles.broken: subdomain or base_url is required",
		"profiles.broken: email is required",
		"profiles.broken.timeout",
		"profiles.empty is empty",
	} {
		if !strings.Contains(err.Error(), fragment) {
			t.Errorf("Validate error missing %q:\n%v", fragment, err)
		}
	}
}

func TestEnsurePaths(t *testing.T) {
	root := t.TempDir()
	cfg := Default()
	cfg.Paths.Root = root
	cfg.expandVariables()

	if err := cfg.EnsurePaths(); err != nil {
		t.Fatalf("EnsurePaths: %v", err)
	}
	info, err := os.Stat(filepath.Join(root, "sessions"))
	if err != nil {
		t.Fatalf("sessions directory not created: %v", err)
	}
	if mode := info.Mode().Perm(); mode != 0o700 {
		t.Errorf("sessions mode = %o, want 700", mode)
	}
	if _, err := os.Stat(filepath.Join(root, "archives")); err != nil {
		t.Errorf("archives directory not created: %v", err)
	}
}
