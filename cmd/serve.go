package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytbox/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v3"
)

// Serve runs the HTTP API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	host := cmd.String("host")
	if host == "" {
		host = r.config.Server.Host
	}
	port := cmd.Int("port")
	if port <= 0 {
		port = r.config.Server.Port
	}

	if r.logger.GetLevel() > log.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := server.New(server.Options{
		Manager:    r.manager,
		Commands:   r.commands,
		Logger:     r.logger,
		Currency:   r.config.Creator.Currency,
		SessionTTL: r.config.Server.SessionTTL(),
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx, net.JoinHostPort(host, strconv.Itoa(port)))
}
