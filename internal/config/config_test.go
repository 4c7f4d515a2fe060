package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// isolate points HOME at an empty directory and clears every variable Load
// consults, so a developer's environment cannot leak into a test.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, name := range []string{
		"BIND_ADDR", "WEB_ROOT", "MAX_DELAY", "CONFINE_ROOT", "SHUTDOWN_TIMEOUT",
		"LOG_LEVEL", "LOG_FORMAT", "ACCESS_LOG_DB",
		"SERVE_DELAYED_SERVER_BIND_ADDR", "SERVE_DELAYED_SERVER_WEB_ROOT",
	} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.BindAddr != "0.0.0.0:5000" {
		t.Errorf("BindAddr = %q, want %q", cfg.Server.BindAddr, "0.0.0.0:5000")
	}
	if cfg.Server.WebRoot != "./" {
		t.Errorf("WebRoot = %q, want %q", cfg.Server.WebRoot, "./")
	}
	if cfg.Server.MaxDelay != 0 {
		t.Errorf("MaxDelay = %s, want 0", cfg.Server.MaxDelay)
	}
	if cfg.Server.Confine {
		t.Error("Confine = true, want false")
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %s, want 10s", cfg.Server.ShutdownTimeout)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("Logging = %+v, want info/text", cfg.Logging)
	}
	if cfg.AccessLog.Path != "" {
		t.Errorf("AccessLog.Path = %q, want empty", cfg.AccessLog.Path)
	}
}

func TestLoadEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("BIND_ADDR", "127.0.0.1:8088")
	t.Setenv("WEB_ROOT", "/srv")
	t.Setenv("MAX_DELAY", "30s")
	t.Setenv("CONFINE_ROOT", "true")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.BindAddr != "127.0.0.1:8088" {
		t.Errorf("BindAddr = %q", cfg.Server.BindAddr)
	}
	if cfg.Server.WebRoot != "/srv" {
		t.Errorf("WebRoot = %q", cfg.Server.WebRoot)
	}
	if cfg.Server.MaxDelay != 30*time.Second {
		t.Errorf("MaxDelay = %s, want 30s", cfg.Server.MaxDelay)
	}
	if !cfg.Server.Confine {
		t.Error("Confine = false, want true")
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want json", cfg.Logging.Format)
	}
}

func TestLoadEmptyEnvUsesDefaults(t *testing.T) {
	isolate(t)
	t.Setenv("BIND_ADDR", "")
	t.Setenv("WEB_ROOT", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.BindAddr != DefaultBindAddr {
		t.Errorf("BindAddr = %q, want %q", cfg.Server.BindAddr, DefaultBindAddr)
	}
	if cfg.Server.WebRoot != DefaultWebRoot {
		t.Errorf("WebRoot = %q, want %q", cfg.Server.WebRoot, DefaultWebRoot)
	}
}

func TestLoadIsSnapshot(t *testing.T) {
	isolate(t)
	t.Setenv("WEB_ROOT", "/first")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	os.Setenv("WEB_ROOT", "/second")
	if cfg.Server.WebRoot != "/first" {
		t.Errorf("WebRoot changed after env mutation: %q", cfg.Server.WebRoot)
	}
}

func TestLoadFile(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "serve-delayed.yaml")
	content := `server:
  bind_addr: 127.0.0.1:9000
  web_root: /var/www
  max_delay: 2m
access_log:
  path: /tmp/requests.db
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.BindAddr != "127.0.0.1:9000" {
		t.Errorf("BindAddr = %q", cfg.Server.BindAddr)
	}
	if cfg.Server.WebRoot != "/var/www" {
		t.Errorf("WebRoot = %q", cfg.Server.WebRoot)
	}
	if cfg.Server.MaxDelay != 2*time.Minute {
		t.Errorf("MaxDelay = %s, want 2m", cfg.Server.MaxDelay)
	}
	if cfg.AccessLog.Path != "/tmp/requests.db" {
		t.Errorf("AccessLog.Path = %q", cfg.AccessLog.Path)
	}

	// Environment wins over the file.
	t.Setenv("WEB_ROOT", "/override")
	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.WebRoot != "/override" {
		t.Errorf("WebRoot = %q, want /override", cfg.Server.WebRoot)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)

	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Load: expected error for missing explicit config file")
	}
}

func TestLoadNegativeMaxDelay(t *testing.T) {
	isolate(t)
	t.Setenv("MAX_DELAY", "-1s")

	if _, err := Load(""); err == nil {
		t.Fatal("Load: expected error for negative max_delay")
	}
}
