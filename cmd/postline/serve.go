package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/eringen/postline"
	"github.com/eringen/postline/views"
)

var staticDir string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the blog",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&staticDir, "static", "public", "directory served under /public")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log := logrus.NewEntry(logger).WithField("app", "postline")

	app := postline.New(cfg, views.Default(cfg),
		postline.WithLogger(log),
		postline.WithStaticDir(staticDir),
		postline.WithCustomRoutes(logRoutes),
	)
	defer app.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Setup(ctx); err != nil {
		return err
	}

	// SIGHUP re-reads the content directory.
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				n, err := app.Reload(ctx)
				if err != nil {
					log.WithError(err).Error("reload failed")
					continue
				}
				log.WithField("posts", n).Info("content reloaded")
			}
		}
	}()

	errc := make(chan error, 1)
	go func() {
		log.WithField("addr", app.Config.Addr).Info("listening")
		errc <- app.Echo.Start(app.Config.Addr)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.Echo.Shutdown(shutdownCtx)
}

func logRoutes(a *postline.App) {
	a.Log.WithField("routes", len(a.Echo.Routes())).Debug("routes registered")
}
