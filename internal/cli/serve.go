package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/wcrbrm/serve-delayed/internal/config"
	"github.com/wcrbrm/serve-delayed/internal/logging"
	"github.com/wcrbrm/serve-delayed/internal/server"
	"github.com/wcrbrm/serve-delayed/internal/storage"
)

var (
	serveBind     string
	serveRoot     string
	serveMaxDelay time.Duration
	serveConfine  bool
)

// serveCmd starts the file server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the file server",
	Long: `Start the static file server.

Routes:
  GET /delay/{ms}/{path}  - serve {path} after waiting {ms} milliseconds
  GET /{path}             - serve {path}, or index.html when it does not exist

Every response carries permissive CORS headers; OPTIONS preflight requests
are answered directly.

Example:
  serve-delayed serve --root ./dist
  serve-delayed serve --bind 127.0.0.1:3000 --max-delay 1m --confine`,
	Run: runServe,
}

func init() {
	addServeFlags(serveCmd)
}

// addServeFlags registers the flags that override the loaded configuration.
func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&serveBind, "bind", "b", "", "address to listen on (overrides BIND_ADDR)")
	cmd.Flags().StringVarP(&serveRoot, "root", "r", "", "directory to serve (overrides WEB_ROOT)")
	cmd.Flags().DurationVar(&serveMaxDelay, "max-delay", 0, "upper bound for /delay requests, 0 for none (overrides MAX_DELAY)")
	cmd.Flags().BoolVar(&serveConfine, "confine", false, "keep resolved paths inside the web root (overrides CONFINE_ROOT)")
}

// loadServeConfig loads the configuration and applies flags that were set.
func loadServeConfig(cmd *cobra.Command) config.Config {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		exitError("failed to load config: %v", err)
	}

	flags := cmd.Flags()
	if flags.Changed("bind") && serveBind != "" {
		cfg.Server.BindAddr = serveBind
	}
	if flags.Changed("root") && serveRoot != "" {
		cfg.Server.WebRoot = serveRoot
	}
	if flags.Changed("max-delay") {
		if serveMaxDelay < 0 {
			exitError("--max-delay must not be negative")
		}
		cfg.Server.MaxDelay = serveMaxDelay
	}
	if flags.Changed("confine") {
		cfg.Server.Confine = serveConfine
	}
	return cfg
}

// printBanner writes the startup message.
func printBanner(w io.Writer, cfg config.ServerConfig) {
	fmt.Fprintf(w, "Starting server at http://%s/, static files root at %s\n", cfg.BindAddr, cfg.WebRoot)
}

func runServe(cmd *cobra.Command, args []string) {
	cfg := loadServeConfig(cmd)

	logger, err := logging.New(cfg.Logging, os.Stderr)
	if err != nil {
		exitError("failed to configure logging: %v", err)
	}
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	var recorder storage.Recorder
	if cfg.AccessLog.Path != "" {
		store, err := initStorage(context.Background(), cfg)
		if err != nil {
			exitError("%v", err)
		}
		defer store.Close()
		recorder = store
		logger.WithField("path", store.Path()).Info("recording requests")
	}

	srv := server.New(cfg.Server, logger, recorder)

	// Handle graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		<-stop
		logger.Info("shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.WithError(err).Error("error during shutdown")
		}
	}()

	printBanner(os.Stdout, cfg.Server)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Error("server stopped")
		exitError("server error: %v", err)
	}
	<-stopped
}
