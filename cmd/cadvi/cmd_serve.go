package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/cryptoedge/cadvi/internal/advisor"
	"github.com/cryptoedge/cadvi/internal/config"
	httpapi "github.com/cryptoedge/cadvi/internal/interfaces/http"
)

func newServeCmd() *cobra.Command {
	var (
		input   string
		refresh time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the scored snapshot over a local read-only JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flagConfig)
			if err != nil {
				return err
			}
			svc, err := advisor.NewService(cfg)
			if err != nil {
				return err
			}

			server := httpapi.NewServer(cfg.Server, svc)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			rescore := func() {
				records, err := loadRecords(ctx, cfg, input)
				if err != nil {
					log.Error().Err(err).Msg("Snapshot refresh failed, keeping previous snapshot")
					return
				}
				server.SetSnapshot(svc.Score(records))
			}
			rescore()

			if refresh > 0 && input == "" {
				go func() {
					ticker := time.NewTicker(refresh)
					defer ticker.Stop()
					for {
						select {
						case <-ctx.Done():
							return
						case <-ticker.C:
							rescore()
						}
					}
				}()
			}

			errCh := make(chan error, 1)
			go func() { errCh <- server.Start() }()

			select {
			case err := <-errCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "serve a saved listings JSON file instead of fetching live")
	cmd.Flags().DurationVar(&refresh, "refresh", 5*time.Minute, "live snapshot refresh interval, 0 disables")
	return cmd
}
