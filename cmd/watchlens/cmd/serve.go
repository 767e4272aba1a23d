package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	httpDelivery "github.com/watchlens/scraper/internal/delivery/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves scrape runs over HTTP.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log.Printf("Starting watchlens v%s", Version)
		log.Printf("Environment: %s", cfg.Server.Environment)

		pipeline := buildPipeline(cfg)

		router := httpDelivery.SetupRouter(cfg, httpDelivery.NewHandler(pipeline, Version))
		server := &http.Server{
			Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
			Handler: router,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Printf("Server listening on %s", server.Addr)
			errCh <- server.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-cmd.Context().Done():
			log.Printf("Shutting down server")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(ctx)
		}
	},
}
