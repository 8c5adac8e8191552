// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/lvcorr/internal/api"
	"github.com/katalvlaran/lvcorr/source"
)

const shutdownGrace = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var (
		listen     string
		allowLocal bool
		workers    int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the correlation API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listen == "" {
				listen = a.cfg.ListenAddr
			}
			defer a.startPool(workers, a.cfg.LogicalCores)()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// Stores are dialled up front from whatever the config names.
			need := map[string]bool{
				source.SchemeS3:    a.cfg.S3Region != "" || a.cfg.S3Endpoint != "",
				source.SchemeMinio: a.cfg.MinioEndpoint != "",
				source.SchemeSQL:   allowLocal && a.cfg.PostgresDSN != "",
			}
			loader, closeLoader, err := a.newLoader(ctx, need)
			defer closeLoader()
			if err != nil {
				return err
			}

			h := api.NewHandler(&api.Executor{
				Loader:     loader,
				AllowLocal: allowLocal,
				Base:       a.baseOptions(),
			}, a.log)
			srv := &http.Server{
				Addr:              listen,
				Handler:           api.NewRouter(h, a.cfg.CORSOrigins),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errc := make(chan error, 1)
			go func() { errc <- srv.ListenAndServe() }()
			a.log.Info("serving", "addr", listen, "allow_local", allowLocal)

			select {
			case err := <-errc:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
			defer cancel()
			a.log.Info("shutting down")
			return srv.Shutdown(shutdownCtx)
		},
	}
	f := cmd.Flags()
	f.StringVar(&listen, "listen", "", "listen address (default from config listen_addr)")
	f.BoolVar(&allowLocal, "allow-local", false, "allow requests to read local files and run sql: queries")
	f.IntVar(&workers, "workers", 0, "worker pool size (0: config, then core count)")
	return cmd
}
