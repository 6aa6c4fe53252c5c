package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bulkurl",
	Short: "Create and update a dataset from a list of URLs",
	Long: `bulkurl turns a tabular record source (CSV, JSON, or a SQL query) into a
dataset of downloaded files: each row resolves to a destination file name, a
source URL, and metadata, which are handed to git-annex in bulk.

Templates reference source fields as {name} or {0}, with {name!l} for
lowercasing. File name templates additionally understand "//" as a nested
subdataset boundary and the synthetic {_repindex}, {_url_hostname}, {_urlN},
and {_url_basename} placeholders.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration, templates, or parameters
  11 - URL file missing or unreadable
  12 - User denied overwrite approval
  13 - Resolved file names collide across the batch
  14 - The content store rejected every mutation`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
