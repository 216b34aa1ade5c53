package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rgehrsitz/payplan/internal/api"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [input-file]",
		Short: "Serve the analysis API over HTTP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			portfolio, err := loadPortfolio(args[0])
			if err != nil {
				return err
			}

			logger := newLogger(cmd)
			if logger.GetLevel() < logrus.InfoLevel {
				logger.SetLevel(logrus.InfoLevel)
			}
			engine := newEngine(cmd, logger)
			handler := api.NewHandler(engine, portfolio)

			addr, _ := cmd.Flags().GetString("addr")
			origins, _ := cmd.Flags().GetStringSlice("origins")
			srv := api.NewServer(addr, api.NewRouter(handler, origins))

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Infof("serving %d customers from %s on %s", len(portfolio.Customers), args[0], addr)
			if err := api.ListenAndServe(ctx, srv, 30*time.Second); err != nil {
				return err
			}
			logger.Info("server stopped")
			return nil
		},
	}
	cmd.Flags().String("addr", ":8080", "Listen address")
	cmd.Flags().StringSlice("origins", nil, "Allowed CORS origins")
	cmd.Flags().Int("workers", 0, "Customers projected concurrently (0 for unbounded)")
	return cmd
}
