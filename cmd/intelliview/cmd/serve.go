package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/intelliview/intelliview-api/internal/bootstrap"
	"github.com/intelliview/intelliview-api/internal/config"
	"github.com/intelliview/intelliview-api/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.LoadOptions{
		ConfigFile: cfgFile,
		EnvFile:    envFile,
		SkipDotEnv: noDotEnv,
	})
	if err != nil {
		return err
	}
	if portFlag != "" {
		cfg.Server.Port = portFlag
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(ctx, cfg, bootstrap.Options{Version: Version})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := app.Container.Close(shutdownCtx); err != nil {
			app.Logger.WithError(err).Error("Failed to release resources")
		}
	}()

	app.Logger.WithFields(logrus.Fields{
		"env":     cfg.App.Env,
		"version": Version,
		"addr":    cfg.Server.Addr(),
	}).Infof("Starting %s", cfg.App.Name)

	return server.New(cfg.Server, app.Handler, app.Logger).Run(ctx)
}
