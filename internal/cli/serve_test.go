package cli

import (
	"bytes"
	"os"
	"testing"

	"github.com/spf13/cobra"
	"github.com/wcrbrm/serve-delayed/internal/config"
)

// newServeCommand returns a command carrying the serve flags, with the
// environment cleared so only defaults and flags apply.
func newServeCommand(t *testing.T) *cobra.Command {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, name := range []string{"BIND_ADDR", "WEB_ROOT", "MAX_DELAY", "CONFINE_ROOT"} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
	t.Cleanup(func() {
		serveBind, serveRoot, serveMaxDelay, serveConfine = "", "", 0, false
	})

	cmd := &cobra.Command{Use: "serve"}
	addServeFlags(cmd)
	return cmd
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	printBanner(&buf, config.ServerConfig{BindAddr: "0.0.0.0:5000", WebRoot: "./"})

	want := "Starting server at http://0.0.0.0:5000/, static files root at ./\n"
	if buf.String() != want {
		t.Errorf("banner = %q, want %q", buf.String(), want)
	}
}

func TestBannerDefaults(t *testing.T) {
	cmd := newServeCommand(t)

	cfg := loadServeConfig(cmd)

	var buf bytes.Buffer
	printBanner(&buf, cfg.Server)
	want := "Starting server at http://0.0.0.0:5000/, static files root at ./\n"
	if buf.String() != want {
		t.Errorf("banner = %q, want %q", buf.String(), want)
	}
}

func TestBannerFlagOverrides(t *testing.T) {
	cmd := newServeCommand(t)
	t.Setenv("WEB_ROOT", "/from/env")

	if err := cmd.Flags().Set("bind", "127.0.0.1:8080"); err != nil {
		t.Fatal(err)
	}
	if err := cmd.Flags().Set("root", "/srv/dist"); err != nil {
		t.Fatal(err)
	}

	cfg := loadServeConfig(cmd)

	var buf bytes.Buffer
	printBanner(&buf, cfg.Server)
	want := "Starting server at http://127.0.0.1:8080/, static files root at /srv/dist\n"
	if buf.String() != want {
		t.Errorf("banner = %q, want %q", buf.String(), want)
	}
}
