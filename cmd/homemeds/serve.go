package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"homemeds/m/internal/advisor"
	"homemeds/m/internal/api"
	"homemeds/m/internal/auth"
	"homemeds/m/internal/config"
	"homemeds/m/internal/inventory"
	"homemeds/m/internal/members"
	"homemeds/m/internal/metrics"
	"homemeds/m/internal/query"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := flags.config()
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			svc, err := openServices(ctx, cfg)
			if err != nil {
				return err
			}
			defer svc.Close()
			svc.seed.LoadOnStartup(ctx)

			srv := &http.Server{
				Addr:              ":" + cfg.HTTPPort,
				Handler:           newHandler(cfg, svc).Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				log.Printf("homemeds server starting on :%s", cfg.HTTPPort)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
				log.Printf("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			}
		},
	}
}

func newHandler(cfg config.Config, svc *services) *api.Handler {
	engine := query.NewEngine(svc.db)
	builder := advisor.NewBuilder(engine)

	var client advisor.Client
	if cfg.Chat.APIKey != "" {
		client = &advisor.ChatClient{APIKey: cfg.Chat.APIKey, BaseURL: cfg.Chat.BaseURL, Model: cfg.Chat.Model}
	} else {
		log.Printf("CHAT_API_KEY not set, advisor questions are disabled")
	}

	return api.New(api.Deps{
		Catalog:     svc.catalog,
		Inventory:   inventory.NewStore(svc.db),
		Query:       engine,
		Seed:        svc.seed,
		Builder:     builder,
		Advisor:     advisor.New(builder, client),
		Members:     members.NewStore(svc.db),
		Users:       auth.NewStore(svc.db, cfg.MaintainerKey),
		Tokens:      auth.NewTokens(cfg.Secret),
		Metrics:     metrics.Handler(metrics.NewCollector(engine, svc.catalog)),
		CORSOrigins: cfg.CORSOrigins,
	})
}
