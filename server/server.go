package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/indieinfra/photobin/config"
	"github.com/indieinfra/photobin/media"
	mediahandler "github.com/indieinfra/photobin/server/handler/media"
	"github.com/indieinfra/photobin/server/middleware"
	"github.com/indieinfra/photobin/server/resp"
	"github.com/indieinfra/photobin/server/state"
	blobfactory "github.com/indieinfra/photobin/storage/blob/factory"
	metafactory "github.com/indieinfra/photobin/storage/meta/factory"
)

func HandleHealth(w http.ResponseWriter, r *http.Request) {
	resp.WriteOK(w, map[string]bool{"ok": true})
}

// NewHandler builds the full HTTP surface around the provided state.
func NewHandler(st *state.AppState) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", HandleHealth)
	mux.Handle("GET /media/by-item/{itemId}", mediahandler.HandleListByItem(st))
	mux.Handle("GET /media/{id}", mediahandler.HandleGetVariant(st))
	mux.Handle("DELETE /media/{id}", mediahandler.HandleDelete(st))
	mux.Handle("POST /media/upload", mediahandler.HandleUpload(st))

	var handler http.Handler = mux
	handler = middleware.RequestLoggerMiddleware(st.Log, handler)
	handler = middleware.CorsMiddleware(st.Cfg, handler)

	return handler
}

// NewState wires the configured stores into the domain service.
func NewState(cfg *config.Config, log *zap.SugaredLogger) (*state.AppState, error) {
	metaStore, err := metafactory.Create(&cfg.Metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize metadata store: %w", err)
	}

	blobStore, err := blobfactory.Create(&cfg.Blobs)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize blob store: %w", err)
	}

	return &state.AppState{
		Cfg: cfg,
		Svc: media.NewService(metaStore, blobStore),
		Log: log,
	}, nil
}

// StartServer serves http requests until SIGINT or SIGTERM, then shuts
// down gracefully.
func StartServer(cfg *config.Config, log *zap.SugaredLogger) error {
	st, err := NewState(cfg, log)
	if err != nil {
		return err
	}

	bindAddress := fmt.Sprintf("%v:%v", cfg.Server.Address, cfg.Server.Port)
	srv := &http.Server{
		Addr:         bindAddress,
		Handler:      NewHandler(st),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("serving http requests", "address", bindAddress)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Infow("shutdown requested", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	log.Info("shutdown completed")
	return nil
}
