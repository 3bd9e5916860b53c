package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "sales-report",
		Short:         "Explore a sales spreadsheet by province and customer",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	f := root.PersistentFlags()
	f.StringVar(&opts.file, "file", "", "path to the XLSX workbook (required)")
	f.StringVar(&opts.sheet, "sheet", "", "sheet name (defaults to the first sheet)")
	f.StringVar(&opts.aliases, "aliases", "", "YAML/JSON file with extra header aliases")
	f.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug|info|warn|error")
	_ = root.MarkPersistentFlagRequired("file")

	root.AddCommand(
		newProvincesCmd(opts),
		newCustomersCmd(opts),
		newCustomerCmd(opts),
		newExportCmd(opts),
	)
	return root
}
