package servecmder

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/mentor/cmd/mentor/setup"
	"github.com/papercomputeco/mentor/pkg/config"
	"github.com/papercomputeco/mentor/pkg/mentor"
	"github.com/papercomputeco/mentor/server"
)

const serveLongDesc string = `Serve the mentor over an HTTP JSON API.

Successful exchanges are archived in a content-addressed Merkle DAG,
in memory or in a SQLite database given with --db. With --watch the
retry policy is reloaded whenever the config file changes.

Examples:
  mentor serve
  mentor serve --listen :9000 --db ~/.mentor/archive.db
  mentor serve --config mentor.toml --watch`

const serveShortDesc string = "Run the mentor HTTP server"

const shutdownTimeout = 10 * time.Second

type serveCommander struct {
	flags      *setup.Flags
	listenAddr string
	dbPath     string
	watch      bool
}

func NewServeCmd(flags *setup.Flags) *cobra.Command {
	cmder := &serveCommander{flags: flags}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&cmder.listenAddr, "listen", "l", "", "Address to listen on (default from config, :8080)")
	cmd.Flags().StringVar(&cmder.dbPath, "db", "", "Path to the SQLite archive (default: in-memory)")
	cmd.Flags().BoolVar(&cmder.watch, "watch", false, "Reload the retry policy when the config file changes")

	return cmd
}

func (c *serveCommander) run(ctx context.Context) error {
	if c.watch && c.flags.ConfigPath == "" {
		return errors.New("--watch needs a config file (--config)")
	}

	env, err := c.flags.Load(ctx)
	if err != nil {
		return err
	}
	defer env.Close()
	log := env.Logger

	cfg := server.Config{
		ListenAddr: env.Config.Server.ListenAddr,
		DBPath:     env.Config.Server.DBPath,

		MaxSessions:    env.Config.Server.MaxSessions,
		SessionIdleTTL: env.Config.Server.SessionIdleTTL.Duration,
	}
	if c.listenAddr != "" {
		cfg.ListenAddr = c.listenAddr
	}
	if c.dbPath != "" {
		cfg.DBPath = c.dbPath
	}

	srv, err := server.New(cfg, env.Retry, log, mentor.WithHistoryWindow(env.Config.Mentor.HistoryWindow))
	if err != nil {
		return err
	}

	if c.watch {
		go func() {
			err := config.Watch(ctx, c.flags.ConfigPath, log, func(updated *config.Config) {
				env.Retry.SetPolicy(updated.RetryPolicy())
			})
			if err != nil {
				log.Error("config watcher stopped", zap.Error(err))
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	select {
	case err := <-errCh:
		_ = srv.Close()
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
