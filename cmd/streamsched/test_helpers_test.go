package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"streamsched/internal/config"
	"streamsched/internal/daemon"
	"streamsched/internal/logging"
	"streamsched/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

// setupCLITestEnv writes a config whose API address never answers, so
// commands use the local database unless a test starts a daemon.
func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("STREAMSCHED_API_TOKEN", "")
	t.Setenv("STREAMSCHED_DISCORD_WEBHOOK", "")

	cfg := testsupport.NewConfig(t)
	cfg.Paths.APIBind = "127.0.0.1:1"

	configPath := filepath.Join(homeDir, ".config", "streamsched", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

// withWebhook points the announce webhook at url and rewrites the config.
func (env *cliTestEnv) withWebhook(t *testing.T, url string) {
	t.Helper()
	env.cfg.Announce.WebhookURL = url
	writeTestConfig(t, env.configPath, env.cfg)
}

// startDaemon runs a daemon over the environment's database and returns its
// API address.
func (env *cliTestEnv) startDaemon(t *testing.T) (string, *daemon.Daemon) {
	t.Helper()
	cfg := *env.cfg
	cfg.Paths.APIBind = "127.0.0.1:0"

	d, err := daemon.New(context.Background(), &cfg, testsupport.MustOpenKV(t, &cfg), logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("daemon.Start: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d.Addr(), d
}

func runCLI(t *testing.T, args []string, configPath, stdin string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\ndata_dir = %q\nlog_dir = %q\nconfig_file = %q\napi_bind = %q\n\n[announce]\nwebhook_url = %q\n\n[logging]\nlevel = \"error\"\n",
		cfg.Paths.DataDir,
		cfg.Paths.LogDir,
		cfg.Paths.ConfigFile,
		cfg.Paths.APIBind,
		cfg.Announce.WebhookURL,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
