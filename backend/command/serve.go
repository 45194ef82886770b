package command

import (
	"errors"
	"net/http"

	"feedback-board/backend/server"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func serveCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web application",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (runErr error) {
			app, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				if err := app.Close(); err != nil {
					runErr = errors.Join(runErr, err)
				}
			}()
			logger := zerolog.Ctx(cmd.Context())

			if addr == "" {
				addr = app.Cfg.HTTP.Addr()
			}
			grp, ctx := errgroup.WithContext(cmd.Context())

			if app.Cfg.Templates.Watch {
				grp.Go(func() error { return app.Views.Watch(ctx) })
			}

			ln, err := server.Listen(ctx, addr)
			if err != nil {
				return err
			}
			logger.Info().Str("address", ln.Addr().String()).Msg("starting http server")
			srv := &http.Server{Handler: app.Router} //nolint:gosec // Serve sets timeouts
			server.Serve(ctx, grp, srv, ln, server.ShutdownTimeout)
			return grp.Wait()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides http.host and http.port")
	return cmd
}
