package commands

import (
	"fmt"
	"path/filepath"

	"cpi-console/internal/dispatch"
	"cpi-console/internal/render"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	reportPeriod periodFlags
	reportLegacy bool
	reportOpen   bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate the press release for a period",
	Long: `Generate the press release for a period. The HTML release is saved as a page in the
download directory and optionally opened in the browser; with --legacy the DOCX document
of the legacy service is downloaded instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctl, err := newController(cmd.Context(), stdoutView())
		if err != nil {
			return err
		}
		if legacyMode(reportLegacy) {
			return finish(ctl.DownloadLegacyReport(cmd.Context()))
		}

		sel, err := reportPeriod.selection()
		if err != nil {
			return err
		}
		res, err := ctl.DownloadReport(cmd.Context(), sel)
		if err := finish(res, err); err != nil {
			return err
		}
		return showPage("press-release", res, reportOpen || cfg.OpenBrowser)
	},
}

// showPage saves the document of res as a page when downloads go to a local
// directory.
func showPage(name string, res dispatch.Result, open bool) error {
	if res.Document == nil || cfg.UseS3() {
		return nil
	}
	path, err := render.SavePage(cfg.DownloadDir, name, *res.Document)
	if err != nil {
		return err
	}
	fmt.Println(render.NoticeLine(path))
	if !open {
		return nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if err := render.Open(abs); err != nil {
		log.Warn().Err(err).Str("path", abs).Msg("Failed to open browser")
	}
	return nil
}

func init() {
	reportPeriod.register(reportCmd)
	reportCmd.Flags().BoolVar(&reportLegacy, "legacy", false, "download the legacy DOCX press release")
	reportCmd.Flags().BoolVar(&reportOpen, "open", false, "open the saved page in the browser")
	rootCmd.AddCommand(reportCmd)
}
