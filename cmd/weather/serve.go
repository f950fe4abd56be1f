package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	httpapi "github.com/MatviySuk/weather-cli/internal/api/http"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve saved places and forecasts over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.store.Get()
			if err != nil {
				return err
			}
			svc, err := a.service(cfg)
			if err != nil {
				return err
			}

			server := httpapi.NewApp(a.logger, a.registry)
			httpapi.RegisterRoutes(server, svc, cfg.Places)

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("http server listening", "port", a.env.Port, "provider", svc.ProviderName())
				errCh <- server.Listen(":" + a.env.Port)
			}()

			select {
			case err := <-errCh:
				return err
			case <-cmd.Context().Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.ShutdownWithContext(shutdownCtx); err != nil {
				a.logger.Error("error during shutdown", "error", err)
				return err
			}
			a.logger.Info("http server stopped")
			return nil
		},
	}
}
