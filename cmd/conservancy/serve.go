package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/conservancy/internal/config"
	"github.com/alexisbeaulieu97/conservancy/internal/web"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site shell, design tokens and the appearance API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, app, err := loadAppContext(cmd, flags)
			if err != nil {
				return err
			}
			if address != "" {
				app.Config.Server.Address = address
				if err := config.ValidateConfig(app.Config); err != nil {
					return err
				}
			}

			gin.SetMode(gin.ReleaseMode)

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			app.Logger.Info(ctx, "starting server",
				"address", app.Config.Server.Address,
				"site", app.Config.Site.Name,
				"revalidation", app.Config.Cache.RevalidateSecret != "",
			)
			srv, err := web.New(web.Options{Config: app.Config, Logger: app.Logger})
			if err != nil {
				return err
			}
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "Listen address, overrides the configuration")

	return cmd
}
