package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"cpi-console/internal/backend"
	"cpi-console/internal/delivery"
	"cpi-console/internal/dispatch"
	"cpi-console/internal/mcp"
	"cpi-console/internal/render"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the actions as MCP tools over stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		sink, err := newSink(ctx)
		if err != nil {
			return err
		}
		schedule, err := render.ScheduleFor(cfg.Variant)
		if err != nil {
			return err
		}

		// Agents follow the same gating as the browser front end: no report
		// before a successful analysis.
		ctl := dispatch.New(dispatch.Options{
			Client:       client,
			Delivery:     delivery.NewHandler(sink),
			Schedule:     schedule,
			DatasetLabel: cfg.DatasetLabel,
		})

		server := mcp.NewServer(ctl, Version, filepath.Join(cfg.DataPath, "pages"))
		if cfg.OpenBrowser {
			server.WithOpener(render.Open)
		}
		return server.Start(ctx)
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the statistics service is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		if err := client.Health(ctx); err != nil {
			var te *backend.TransportError
			if errors.As(err, &te) {
				return fmt.Errorf("서버 연결 오류: %s", te.Detail())
			}
			return err
		}
		log.Info().Str("backend", cfg.Backend.BaseURL).Msg("Service is healthy")
		fmt.Println(render.NoticeLine(cfg.Backend.BaseURL))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, healthCmd)
}
