package main

import (
	"context"

	"bookstall/catalog"
	"bookstall/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Open the terminal storefront",
	Args:  cobra.NoArgs,
	RunE:  runBrowse,
}

func runBrowse(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	shop, err := newShop(store)
	if err != nil {
		return err
	}

	p := tea.NewProgram(tui.New(shop, cfg.PriceStepDecimal()), tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	// reloads are handed to the event loop instead of touching the shop directly
	watcher, err := startWatcher(ctx, func(c *catalog.Catalog) {
		p.Send(tui.CatalogReloadedMsg{Catalog: c})
	})
	if err != nil {
		logger.Warn("catalog watcher disabled", zap.Error(err))
	}
	if watcher != nil {
		defer watcher.Stop()
	}

	_, err = p.Run()
	return err
}
