package cli

import (
	"io"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/wcrbrm/serve-delayed/internal/server"
)

// routeDescriptions documents the patterns registered by the server.
var routeDescriptions = map[string]string{
	"/delay/{delay}/*": "serve the file after {delay} milliseconds",
	"/*":               "serve the file, or index.html when missing",
}

// routesCmd prints the route table.
var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List the HTTP routes",
	Long:  `List the routes the server registers.`,
	Run:   runRoutes,
}

func init() {
	addServeFlags(routesCmd)
}

func runRoutes(cmd *cobra.Command, args []string) {
	cfg := loadServeConfig(cmd)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	routes, err := server.New(cfg.Server, logger, nil).Routes()
	if err != nil {
		exitError("failed to list routes: %v", err)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Method", "Pattern", "Description"})
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)

	for _, r := range routes {
		table.Append([]string{r.Method, r.Pattern, routeDescriptions[r.Pattern]})
	}
	table.Append([]string{"OPTIONS", "*", "CORS preflight, answered by middleware"})
	table.Render()
}
