// Command oracle runs the NVMe-lite schedule-aware differential fuzzing
// oracle, single-run or as a full experiment matrix.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "oracle",
	Short: "deterministic reference oracle for schedule-aware storage-queue fuzzing",
}

func init() {
	rootCmd.AddCommand(runOneCmd)
	rootCmd.AddCommand(runMatrixCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
