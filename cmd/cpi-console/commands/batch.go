package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"cpi-console/internal/dispatch"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	batchPeriod  periodFlags
	batchConvert []string
	batchReport  bool
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run an analysis, the data export and PDF conversions concurrently",
	Long: `Run an analysis, the data export and any number of PDF conversions concurrently.
Each action keeps its own lifecycle; one failing does not stop the others. With --report
the press release is requested once the analysis has succeeded.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, err := batchPeriod.selection()
		if err != nil {
			return err
		}
		ctl, err := newController(cmd.Context(), stdoutView())
		if err != nil {
			return err
		}

		var (
			g       errgroup.Group
			results = make([]dispatch.Result, 2+len(batchConvert))
		)

		g.Go(func() error {
			res, err := ctl.RunAnalysis(cmd.Context(), sel)
			if err != nil {
				return err
			}
			results[0] = res
			if batchReport && !res.Failed() {
				res, err = ctl.DownloadReport(cmd.Context(), sel)
				if err != nil {
					return err
				}
				if err := showPage("press-release", res, cfg.OpenBrowser); err != nil {
					log.Warn().Err(err).Msg("Failed to save press release page")
				}
				if res.Failed() {
					results[0] = res
				}
			}
			return nil
		})

		g.Go(func() error {
			res, err := ctl.DownloadData(cmd.Context(), sel)
			results[1] = res
			return err
		})

		// Conversions share one action, so they run one after another.
		g.Go(func() error {
			for i, path := range batchConvert {
				res, err := convertPath(cmd, ctl, path)
				if err != nil {
					return err
				}
				results[2+i] = res
			}
			return nil
		})

		if err := g.Wait(); err != nil {
			return err
		}

		failed := 0
		for _, res := range results {
			if res.Failed() {
				failed++
			}
		}
		if failed > 0 {
			log.Warn().Int("failed", failed).Int("total", len(results)).Msg("Batch finished with errors")
			return ErrFailed
		}
		return nil
	},
}

func convertPath(cmd *cobra.Command, ctl *dispatch.Controller, path string) (dispatch.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return dispatch.Result{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return ctl.ConvertFile(cmd.Context(), filepath.Base(path), f)
}

func init() {
	batchPeriod.register(batchCmd)
	batchCmd.Flags().StringSliceVar(&batchConvert, "convert", nil, "PDF files to convert (repeatable)")
	batchCmd.Flags().BoolVar(&batchReport, "report", false, "request the press release after a successful analysis")
	rootCmd.AddCommand(batchCmd)
}
