package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"videodigest/internal/api"
	"videodigest/internal/pipeline"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the digest HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			address := strings.TrimSpace(bind)
			if address == "" {
				address = strings.TrimSpace(cfg.Paths.APIBind)
			}
			if address == "" {
				return fmt.Errorf("no bind address; set paths.api_bind or pass --bind")
			}

			runner, store, cleanup, err := buildRunner(cfg, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			serveCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			server := api.NewServer(logger, runner, store, pipeline.OptionsFromConfig(cfg))
			return server.ListenAndServe(serveCtx, address)
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Listen address, e.g. 127.0.0.1:7474")
	return cmd
}
