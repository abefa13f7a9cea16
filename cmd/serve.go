package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/stylefacet/tagger/internal/handlers"
	"github.com/stylefacet/tagger/internal/vocab"
)

func newServeCmd(vocabPath *string) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web review interface",
		Long: `Starts the Tagger review API on the specified port.

The API lets reviewers browse assembled records, correct individual
fields (triggering re-validation and re-scoring), approve finished
records, and tag freshly uploaded product images.`,
		Example: `  # Start server on default port 8888
  tagger serve

  # Start server on custom port
  tagger serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadVocabulary(*vocabPath)
			if err != nil {
				return err
			}
			handler := handlers.New(vocab.NewSnapshot(v))

			// Set up routes
			mux := http.NewServeMux()
			mux.HandleFunc("/api/records", handler.HandleRecords)
			mux.HandleFunc("/api/records/", handler.HandleRecordDetail)
			mux.HandleFunc("/api/vocabulary/", handler.HandleVocabulary)
			mux.HandleFunc("/api/upload", handler.HandleUpload)
			mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
				if _, err := w.Write([]byte("OK")); err != nil {
					slog.Error("Unable to write healthcheck", "err", err)
				}
			})

			addr := ":" + port
			server := &http.Server{
				Addr:    addr,
				Handler: mux,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Tagger review API available", "addr", addr, "url", "http://localhost"+addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				// Give server 5 seconds to shut down gracefully
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on")

	return cmd
}
