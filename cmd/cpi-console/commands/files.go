package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var dataPeriod periodFlags

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Download the spreadsheet export for a period",
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, err := dataPeriod.selection()
		if err != nil {
			return err
		}
		ctl, err := newController(cmd.Context(), stdoutView())
		if err != nil {
			return err
		}
		return finish(ctl.DownloadData(cmd.Context(), sel))
	},
}

var convertCmd = &cobra.Command{
	Use:   "convert <file.pdf>",
	Short: "Convert a PDF document to DOCX",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[0], err)
		}
		defer f.Close()

		ctl, err := newController(cmd.Context(), stdoutView())
		if err != nil {
			return err
		}
		return finish(ctl.ConvertFile(cmd.Context(), filepath.Base(args[0]), f))
	},
}

var uploadOpen bool

var uploadCmd = &cobra.Command{
	Use:   "upload <file.xlsx>",
	Short: "Upload a spreadsheet for analysis and print the insights",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[0], err)
		}
		defer f.Close()

		ctl, err := newController(cmd.Context(), stdoutView())
		if err != nil {
			return err
		}
		res, err := ctl.UploadSpreadsheet(cmd.Context(), filepath.Base(args[0]), f)
		if err := finish(res, err); err != nil {
			return err
		}
		return showPage("upload-report", res, uploadOpen || cfg.OpenBrowser)
	},
}

func init() {
	dataPeriod.register(dataCmd)
	uploadCmd.Flags().BoolVar(&uploadOpen, "open", false, "open the insights page in the browser")
	rootCmd.AddCommand(dataCmd, convertCmd, uploadCmd)
}
