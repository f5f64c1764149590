package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/BrandonKowalski/birdhouse/pkg/birdhouse"
	"github.com/BrandonKowalski/birdhouse/pkg/birdhouse/constants"
)

var (
	serveAddr string
	serveRoot string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a site directory for local development",
	Long: `Serve the static files of a Birdhouse site: the shell, the routed page
documents under html/ and the page modules. Directory listings are disabled.
Navigation metrics are exposed on /metrics.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if _, err := loadConfig(); err != nil {
			return err
		}
		logger := birdhouse.GetLogger()

		root, err := filepath.Abs(serveRoot)
		if err != nil {
			return err
		}
		if info, err := os.Stat(root); err != nil || !info.IsDir() {
			return errors.New("site root must be a directory: " + root)
		}

		srv := &http.Server{
			Addr:              serveAddr,
			Handler:           newServeHandler(root),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			logger.Info("Serving site", "addr", serveAddr, "root", root)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.DefaultShutdownTimeout)
		defer cancel()
		logger.Info("Shutting down")
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "localhost:5173", "listen address")
	serveCmd.Flags().StringVar(&serveRoot, "root", ".", "site directory")
}

// newServeHandler serves files under root without directory listings.
func newServeHandler(root string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/*", http.FileServer(noListing{http.Dir(root)}))

	return r
}

// noListing hides directories that have no index.html.
type noListing struct {
	fs http.FileSystem
}

func (n noListing) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if !info.IsDir() {
		return f, nil
	}

	index, err := n.fs.Open(strings.TrimSuffix(name, "/") + "/index.html")
	if err != nil {
		f.Close()
		return nil, os.ErrNotExist
	}
	index.Close()
	return f, nil
}
