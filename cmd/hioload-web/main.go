// File: cmd/hioload-web/main.go
// The hioload-web CLI: a cobra root command with a "serve" subcommand that
// loads the YAML config (internal/config), wires up logrus, builds a
// minimal router exposing a health-check route, and runs the HTTP engine
// (server package) until interrupted. Grounded on the ecosystem's cobra +
// logrus CLI pattern (docker-compose's cmd/compose package), generalized
// from momentics-hioload-ws's flag-based examples/*/main.go entrypoints.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/momentics/hioload-web/channel"
	"github.com/momentics/hioload-web/internal/config"
	"github.com/momentics/hioload-web/middleware"
	"github.com/momentics/hioload-web/router"
	"github.com/momentics/hioload-web/server"
	"github.com/momentics/hioload-web/ws"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "hioload-web",
		Short: "hioload-web is an HTTP/1.1 + WebSocket channel engine",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")

	root.AddCommand(newServeCmd(&configPath))
	return root
}

func newServeCmd(configPath *string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}

			log := newLogger(cfg)
			return runServe(cfg, log)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides the config file")
	return cmd
}

func newLogger(cfg config.Config) *logrus.Entry {
	logger := logrus.New()
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}
	if cfg.Debug {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logrus.NewEntry(logger)
}

// newHealthRouter builds the router every "serve" invocation starts from: a
// request-id middleware ahead of a liveness route and a "room:*" WebSocket
// channel mounted at /socket, demonstrating the channel.Mount wiring from
// an HTTP route to the channel protocol. Applications embedding this engine
// register their own routes and channels on the same *router.Router before
// calling server.New.
func newHealthRouter(log *logrus.Entry) *router.Router {
	r := router.New()
	r.Use(middleware.RequestID())
	r.GET("/healthz", func(ctx *middleware.Context) {
		ctx.Response.SetStatus(200)
		ctx.Response.Headers.Set("Content-Type", "text/plain; charset=utf-8")
		ctx.Response.SetBody([]byte("ok"))
	})

	broker := channel.NewBroker(log)
	chRouter := channel.NewRouter(broker, log)
	chRouter.Register(channel.Handler{
		Pattern: "room:*",
		Events: map[string]channel.EventFunc{
			"shout": func(socket *channel.Socket, topic, event string, payload json.RawMessage) (any, error) {
				return nil, broker.Publish(topic, "shout", payload)
			},
		},
	})
	r.GET("/socket", channel.Mount(chRouter, ws.Config{}))
	return r
}

func runServe(cfg config.Config, log *logrus.Entry) error {
	r := newHealthRouter(log)
	srv := server.New(r, server.Config{
		Addr:              cfg.Addr,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxBodySize:       cfg.MaxBodySize,
		Logger:            log,
		DebugLogging:      cfg.Debug,
	})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	log.WithField("addr", cfg.Addr).Info("hioload-web: listening")
	select {
	case err := <-errCh:
		return err
	case <-sig:
		log.Info("hioload-web: shutting down")
		return srv.Close()
	}
}
