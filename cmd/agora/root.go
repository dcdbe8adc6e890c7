package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oenomel87/agora/chat"
	"github.com/oenomel87/agora/config"
	"github.com/oenomel87/agora/engine"
	"github.com/oenomel87/agora/httpapi"
	"github.com/oenomel87/agora/internal/db"
	"github.com/oenomel87/agora/internal/mylog"
	"github.com/oenomel87/agora/thread"
)

func newRootCmd() *cobra.Command {
	params := &struct {
		Port        int
		DatabaseUrl string
	}{}
	cmd := &cobra.Command{
		Use:   "agora",
		Short: "Multi-model discussion relay",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			cfg, err := config.NewServerConfig()
			if err != nil {
				return err
			}
			if params.Port != 0 {
				cfg.Port = params.Port
			}
			if params.DatabaseUrl != "" {
				cfg.DatabaseUrl = params.DatabaseUrl
			}

			logger := mylog.NewLogger(cfg.LogLevel, cfg.LogHandler)

			participants, err := config.LoadParticipants(cfg.ParticipantsFile)
			if err != nil {
				return err
			}

			gormDB, err := db.OpenDB(cfg.DatabaseUrl)
			if err != nil {
				return err
			}
			defer func() {
				if err := db.CloseDB(gormDB); err != nil {
					logger.Warn("failed to close database", mylog.Err(err))
				}
			}()

			if err := db.AutoMigrate(gormDB); err != nil {
				return err
			}

			threads := thread.NewManager(logger, gormDB)
			registry := engine.NewRegistryFromConfig(cfg, participants)
			chatService := chat.NewService(logger, threads, registry, cfg.ResponderTimeout)

			handler := httpapi.NewHandler(logger, threads, chatService, cfg.AllowedOrigins)

			server := &http.Server{
				Addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
				Handler: handler,
				BaseContext: func(l net.Listener) context.Context {
					return ctx
				},
			}

			go func() {
				<-ctx.Done()
				if err := server.Shutdown(context.WithoutCancel(ctx)); err != nil {
					logger.Error("failed to shutdown server", mylog.Err(err))
				}
			}()

			logger.Info("server started", "addr", server.Addr)
			defer logger.Info("server stopped")

			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}

			return nil
		},
	}

	cmd.Flags().IntVarP(&params.Port, "port", "p", 0, "Port to listen on")
	cmd.Flags().StringVar(&params.DatabaseUrl, "db", "", "Path to the sqlite database file")

	return cmd
}
