package main

import (
	"context"
	"fmt"

	"bookstall/app"
	"bookstall/cart"
	"bookstall/catalog"
	"bookstall/storage"

	"go.uber.org/zap"
)

func loadCatalog() (*catalog.Catalog, error) {
	if cfg.CatalogFile == "" {
		return catalog.Default(), nil
	}
	path := resolvePath(cfg.CatalogFile)
	c, err := catalog.Load(path)
	if err != nil {
		return nil, err
	}
	logger.Info("catalog loaded", zap.String("path", path), zap.Int("books", c.Len()))
	return c, nil
}

// newShop assembles the storefront over store
func newShop(store storage.Store) (*app.Shop, error) {
	cat, err := loadCatalog()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	c := cart.New(store, cfg.CartKey, logger)
	c.Load()
	return app.NewShop(cat, c, app.StubCheckout{}, cfg.CurrentYear, logger), nil
}

// startWatcher reloads the catalog file on change when watch_catalog is set.
// It returns nil when watching is off.
func startWatcher(ctx context.Context, onReload func(*catalog.Catalog)) (*catalog.Watcher, error) {
	if !cfg.WatchCatalog || cfg.CatalogFile == "" {
		return nil, nil
	}
	w, err := catalog.NewWatcher(resolvePath(cfg.CatalogFile), onReload, logger)
	if err != nil {
		return nil, err
	}
	if err := w.Start(ctx); err != nil {
		return nil, fmt.Errorf("watch catalog: %w", err)
	}
	return w, nil
}

// withShop opens the store, builds a shop, runs fn and closes the store
func withShop(fn func(*app.Shop) error) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	shop, err := newShop(store)
	if err != nil {
		return err
	}
	return fn(shop)
}
