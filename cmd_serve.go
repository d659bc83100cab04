package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookstall/covers"
	"bookstall/web"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web storefront",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	shop, err := newShop(store)
	if err != nil {
		return err
	}

	thumbs := &covers.Thumbnailer{
		SourceDir: resolvePath(cfg.CoversDir),
		CacheDir:  resolvePath(cfg.CoverCacheDir),
		Height:    cfg.CoverHeight,
		Logger:    logger,
	}
	webInterface := web.NewWebInterface(shop, thumbs, cfg.ShopTitle, logger)

	watcher, err := startWatcher(ctx, webInterface.SetCatalog)
	if err != nil {
		logger.Warn("catalog watcher disabled", zap.Error(err))
	}
	if watcher != nil {
		defer watcher.Stop()
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           webInterface.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down web storefront")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown failed", zap.Error(err))
			server.Close()
		}
	}()

	logger.Info("web storefront listening",
		zap.Int("port", cfg.Port),
		zap.Int("books", shop.Catalog().Len()))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}
