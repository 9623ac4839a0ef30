package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"goodfoods/internal/gateway"

	"github.com/spf13/cobra"
)

var gatewayAddr string

var gatewayCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Start the HTTP gateway server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		rt, err := buildRuntime(ctx)
		if err != nil {
			return err
		}
		defer rt.Close()

		addr := rt.cfg.Gateway.Addr
		if gatewayAddr != "" {
			addr = gatewayAddr
		}

		srv := gateway.NewServer(rt.runner)
		slog.Info("starting gateway", "addr", addr)
		return srv.ListenAndServe(ctx, addr)
	},
}

func init() {
	gatewayCmd.Flags().StringVarP(&gatewayAddr, "addr", "a", "", "override gateway listen address")
}
