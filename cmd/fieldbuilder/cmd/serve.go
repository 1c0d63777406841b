package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-fieldbuilder/internal/httphost"
	"github.com/goliatone/go-fieldbuilder/internal/store"
	"github.com/goliatone/go-fieldbuilder/pkg/lookup"
	"github.com/goliatone/go-fieldbuilder/pkg/renderers/html"
)

var serveIntro string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTML field builder",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := store.Open(ctx, store.Options{
			Driver:      cfg.Store.Driver,
			RedisURL:    cfg.Store.RedisURL,
			PostgresDSN: cfg.Store.PostgresDSN,
		})
		if err != nil {
			return err
		}
		defer st.Close()

		renderOpts := []html.Option{html.WithLogger(logger)}
		if cfg.Theme.Name != "" {
			renderOpts = append(renderOpts, html.WithTheme(builtinThemes(), cfg.Theme.Name, cfg.Theme.Variant))
		}
		renderer, err := html.New(renderOpts...)
		if err != nil {
			return err
		}

		opts := []httphost.Option{httphost.WithLogger(logger), httphost.WithIntro(serveIntro)}
		if cfg.Lookup.Endpoint != "" {
			client, err := lookup.NewClient(cfg.Lookup.Endpoint, lookup.WithCacheSize(cfg.Lookup.CacheSize))
			if err != nil {
				return err
			}
			opts = append(opts, httphost.WithLookup(client))
		}

		logger.WithField("store", cfg.Store.Driver).Info("serve: starting")
		return httphost.New(st, renderer, opts...).ListenAndServe(ctx, cfg.HTTP.Addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveIntro, "intro", "", "text shown above the builder (basic HTML allowed)")
}
