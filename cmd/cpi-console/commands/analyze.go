package commands

import (
	"github.com/spf13/cobra"
)

var (
	analyzePeriod periodFlags
	analyzeLegacy bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Request statistics for a period and print them as cards",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctl, err := newController(cmd.Context(), stdoutView())
		if err != nil {
			return err
		}
		if legacyMode(analyzeLegacy) {
			return finish(ctl.RunLegacyAnalysis(cmd.Context()))
		}

		sel, err := analyzePeriod.selection()
		if err != nil {
			return err
		}
		return finish(ctl.RunAnalysis(cmd.Context(), sel))
	},
}

func init() {
	analyzePeriod.register(analyzeCmd)
	analyzeCmd.Flags().BoolVar(&analyzeLegacy, "legacy", false, "use the legacy endpoint with a service-selected period")
	rootCmd.AddCommand(analyzeCmd)
}
