package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"vibemaker/internal/logging"
	"vibemaker/internal/server"
	"vibemaker/internal/vibe"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var host string
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}
			if host != "" {
				cfg.Server.Host = host
			}
			if port != 0 {
				cfg.Server.Port = port
			}

			logger := logging.NewComponentLogger("server")
			metrics := vibe.NewMetrics()

			engine, err := buildEngine(cfg, logger, metrics)
			if err != nil {
				return err
			}

			srv := server.New(engine, metrics, logger, &server.Config{
				Host:           cfg.Server.Host,
				Port:           cfg.Server.Port,
				EnableCORS:     cfg.Server.EnableCORS,
				AllowedOrigins: cfg.Server.AllowedOrigins,
				Debug:          cfg.Server.Debug,
				ReadTimeout:    cfg.Server.ReadTimeout,
				WriteTimeout:   cfg.Server.WriteTimeout,
			})

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()

			fmt.Printf("%s http://%s:%d\n", green("vibemaker listening on"), cfg.Server.Host, cfg.Server.Port)

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				fmt.Printf("\n%s %v\n", yellow("shutting down on signal"), sig)
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Stop(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Bind address (overrides config)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Listen port (overrides config)")

	return cmd
}
