// Package cli provides the command-line interface for serve-delayed.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command. Without a subcommand it serves.
var rootCmd = &cobra.Command{
	Use:   "serve-delayed",
	Short: "Static file server with SPA fallback and delay injection",
	Long: `serve-delayed serves static files from a web root. Paths that do not
exist are answered with index.html so a client-side router can take over.

GET /delay/{ms}/{path} serves the same file after holding the response for
{ms} milliseconds, for testing how clients behave on slow networks.

Configuration comes from environment variables (BIND_ADDR, WEB_ROOT, ...),
an optional serve-delayed.yaml file and command-line flags.

Examples:
  serve-delayed                          # serve ./ on 0.0.0.0:5000
  WEB_ROOT=./dist serve-delayed          # serve a build directory
  serve-delayed serve --bind 127.0.0.1:8080 --max-delay 30s
  serve-delayed requests ls              # show the access log
  serve-delayed routes                   # list the routes`,
	Run: runServe,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./serve-delayed.yaml or $HOME/.config/serve-delayed/serve-delayed.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	addServeFlags(rootCmd)

	// Add subcommands
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(requestsCmd)
	rootCmd.AddCommand(routesCmd)
	rootCmd.AddCommand(versionCmd)
}

// versionCmd shows version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("serve-delayed version 0.1.0")
	},
}

// exitError prints an error message and exits.
func exitError(msg string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
