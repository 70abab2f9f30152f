package cmd

import (
	"github.com/spf13/cobra"

	"github.com/fakeyudi/cogtrace/internal/trace"
)

var pathCount bool

var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show where the trace log is written",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := storageDir()
		if err != nil {
			return err
		}
		log := trace.NewLog(dir)
		cmd.Println(log.Path())

		if pathCount {
			records, err := log.Records()
			if err != nil {
				return err
			}
			cmd.Printf("Events: %d\n", len(records))
		}
		return nil
	},
}

func init() {
	pathCmd.Flags().BoolVar(&pathCount, "count", false, "Also print the number of recorded events")
	rootCmd.AddCommand(pathCmd)
}
