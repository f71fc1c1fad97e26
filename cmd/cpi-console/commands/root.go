package commands

import (
	"context"
	"errors"
	"os"

	"cpi-console/internal/backend"
	"cpi-console/internal/config"
	"cpi-console/internal/delivery"
	"cpi-console/internal/dispatch"
	"cpi-console/internal/logging"
	"cpi-console/internal/render"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose    bool
	configFile string
	cfg        *config.AppConfig

	client backend.Client
)

// ErrFailed is returned when an action ended in the Error state. The view
// has already printed the message.
var ErrFailed = errors.New("operation failed")

var rootCmd = &cobra.Command{
	Use:   "cpi-console",
	Short: "cpi-console is a terminal and MCP client for the consumer price index service",
	Long: `A client for the consumer price index statistics service: runs period analyses,
downloads press releases and spreadsheet exports, converts PDF documents and uploads
spreadsheets for analysis. All statistics are computed by the service.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logging.Init(verbose); err != nil {
			return err
		}

		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return err
		}

		client = backend.NewClient(cfg.Backend)

		log.Debug().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Str("backend", cfg.Backend.BaseURL).
			Msg("cpi-console starting")
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "optional config file (json, yaml or toml)")
	rootCmd.Version = Version
}

func newSink(ctx context.Context) (delivery.Sink, error) {
	if cfg.UseS3() {
		return delivery.NewS3Sink(ctx, cfg.S3)
	}
	return delivery.DirSink{Dir: cfg.DownloadDir}, nil
}

// newController wires a controller for one-shot commands; report actions
// are unlocked because there is no earlier analysis to wait for.
func newController(ctx context.Context, view dispatch.View) (*dispatch.Controller, error) {
	sink, err := newSink(ctx)
	if err != nil {
		return nil, err
	}
	schedule, err := render.ScheduleFor(cfg.Variant)
	if err != nil {
		return nil, err
	}
	return dispatch.New(dispatch.Options{
		Client:        client,
		Delivery:      delivery.NewHandler(sink),
		View:          view,
		Schedule:      schedule,
		DatasetLabel:  cfg.DatasetLabel,
		UnlockReports: true,
	}), nil
}

// finish converts a dispatch outcome into the command's exit status.
func finish(res dispatch.Result, err error) error {
	if err != nil {
		return err
	}
	if res.Failed() {
		return ErrFailed
	}
	return nil
}

func legacyMode(flag bool) bool {
	return flag || cfg.Variant == render.VariantLegacy
}

func stdoutView() *terminalView {
	return newTerminalView(os.Stdout, os.Stderr)
}
