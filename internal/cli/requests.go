package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/wcrbrm/serve-delayed/internal/config"
	"github.com/wcrbrm/serve-delayed/internal/storage/sqlite"
	"github.com/wcrbrm/serve-delayed/pkg/types"
)

var (
	requestsLimit     int
	requestsOlderThan time.Duration
)

// initStorage opens the SQLite access log from config.
func initStorage(ctx context.Context, cfg config.Config) (*sqlite.SQLiteStorage, error) {
	storagePath := cfg.AccessLog.Path
	if storagePath == "" {
		return nil, fmt.Errorf("access log is disabled; set access_log.path or ACCESS_LOG_DB")
	}

	if err := config.EnsureStorageDir(storagePath); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	store, err := sqlite.New(storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	if err := store.Init(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	return store, nil
}

// requestsCmd is the parent command for access log operations.
var requestsCmd = &cobra.Command{
	Use:   "requests",
	Short: "Inspect the access log",
	Long:  `Commands for the requests recorded when access_log.path is set.`,
}

// requestsLsCmd lists recorded requests.
var requestsLsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List recorded requests",
	Long:    `List recorded requests, newest first.`,
	Run:     runRequestsList,
}

// requestsPruneCmd deletes old requests.
var requestsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old requests",
	Long:  `Delete requests recorded before the --older-than cutoff.`,
	Run:   runRequestsPrune,
}

func init() {
	requestsLsCmd.Flags().IntVarP(&requestsLimit, "limit", "n", 20, "maximum number of requests to show (0 for all)")
	requestsLsCmd.Flags().BoolVar(&outputJSON, "json", false, "output as JSON")
	requestsLsCmd.Flags().BoolVar(&outputYAML, "yaml", false, "output as YAML")

	requestsPruneCmd.Flags().DurationVar(&requestsOlderThan, "older-than", 24*time.Hour, "delete requests older than this")

	requestsCmd.AddCommand(requestsLsCmd)
	requestsCmd.AddCommand(requestsPruneCmd)
}

func runRequestsList(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		exitError("failed to load config: %v", err)
	}

	store, err := initStorage(ctx, cfg)
	if err != nil {
		exitError("%v", err)
	}
	defer store.Close()

	records, err := store.ListRequests(ctx, requestsLimit)
	if err != nil {
		exitError("failed to list requests: %v", err)
	}

	if len(records) == 0 {
		if outputJSON || outputYAML {
			fmt.Println("[]")
		} else {
			fmt.Println("No requests recorded.")
		}
		return
	}

	if printFormatted(records) {
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "When", "Method", "Path", "Status", "Size", "Delay", "Took", "Served"})
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)

	for _, rec := range records {
		table.Append([]string{
			shortID(rec.ID),
			humanize.Time(rec.CreatedAt),
			rec.Method,
			truncate(rec.Path, 40),
			statusText(rec.Status),
			humanize.Bytes(uint64(rec.Bytes)),
			(time.Duration(rec.DelayMs) * time.Millisecond).String(),
			(time.Duration(rec.DurationMs) * time.Millisecond).String(),
			servedText(rec),
		})
	}
	table.Render()
}

func runRequestsPrune(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		exitError("failed to load config: %v", err)
	}

	store, err := initStorage(ctx, cfg)
	if err != nil {
		exitError("%v", err)
	}
	defer store.Close()

	n, err := store.PruneRequests(ctx, time.Now().Add(-requestsOlderThan))
	if err != nil {
		exitError("failed to prune requests: %v", err)
	}
	fmt.Printf("Deleted %s requests older than %s\n", humanize.Comma(n), requestsOlderThan)
}

// statusText colours a status code by class.
func statusText(status int) string {
	s := strconv.Itoa(status)
	switch {
	case status == 0:
		return color.YellowString("aborted")
	case status >= 500:
		return color.RedString(s)
	case status >= 400:
		return color.YellowString(s)
	default:
		return color.GreenString(s)
	}
}

// servedText describes what the resolver picked for a request.
func servedText(rec *types.RequestRecord) string {
	switch {
	case rec.Resolved == "":
		return "-"
	case rec.Fallback:
		return "index.html (fallback)"
	default:
		return truncate(rec.Resolved, 40)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
