package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/wcrbrm/serve-delayed/internal/config"
	"gopkg.in/yaml.v3"
)

// configCmd is the parent command for config operations.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Commands for managing serve-delayed configuration.`,
}

// configShowCmd shows the current configuration.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the configuration as the server would see it, after defaults, file and environment.`,
	Run:   runConfigShow,
}

// configPathCmd shows the config file path.
var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show config file path",
	Long:  `Display the path to the per-user configuration file.`,
	Run:   runConfigPath,
}

// configInitCmd initializes a config file.
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration file",
	Long:  `Create a default per-user configuration file.`,
	Run:   runConfigInit,
}

func init() {
	configShowCmd.Flags().BoolVar(&outputJSON, "json", false, "output as JSON")
	configShowCmd.Flags().BoolVar(&outputYAML, "yaml", false, "output as YAML")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		exitError("failed to load config: %v", err)
	}

	if printFormatted(cfg) {
		return
	}

	// Convert to YAML for display
	data, err := yaml.Marshal(cfg)
	if err != nil {
		exitError("failed to marshal config: %v", err)
	}

	fmt.Println("Current configuration:")
	fmt.Println()
	fmt.Println(string(data))
}

// userConfigPath returns the per-user config file path.
func userConfigPath() string {
	dir, err := config.ConfigDir()
	if err != nil {
		exitError("failed to get home directory: %v", err)
	}
	return filepath.Join(dir, "serve-delayed.yaml")
}

func runConfigPath(cmd *cobra.Command, args []string) {
	configPath := userConfigPath()
	fmt.Printf("Config file path: %s\n", configPath)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		fmt.Println("(file does not exist)")
	} else {
		fmt.Println("(file exists)")
	}
}

func runConfigInit(cmd *cobra.Command, args []string) {
	configPath := userConfigPath()

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		exitError("failed to create config directory: %v", err)
	}

	// Check if file exists
	if _, err := os.Stat(configPath); err == nil {
		exitError("config file already exists: %s", configPath)
	}

	// Create default config
	defaultConfig := `# serve-delayed configuration
# Environment variables (BIND_ADDR, WEB_ROOT, ...) override these values.

server:
  bind_addr: 0.0.0.0:5000
  web_root: ./
  # Upper bound for /delay/{ms}/ requests; 0s means no cap.
  max_delay: 0s
  # Keep resolved paths inside web_root.
  confine: false
  shutdown_timeout: 10s

logging:
  level: info
  format: text

# Record every request in SQLite; leave empty to disable.
access_log:
  path: ""
`

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0644); err != nil {
		exitError("failed to write config file: %v", err)
	}

	fmt.Printf("Created config file: %s\n", configPath)
}
