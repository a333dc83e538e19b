package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"shop-backoffice/internal/backend"
	"shop-backoffice/internal/config"
	"shop-backoffice/internal/notify"
	"shop-backoffice/internal/picker"
	"shop-backoffice/internal/tui"
	"shop-backoffice/internal/wizard"
)

func main() {
	orderID := flag.String("order", "", "edit an existing order instead of drafting a new one")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger, err := buildLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	client := backend.New(cfg.APIBaseURL, cfg.RequestTimeout, logger)
	notes := &notify.Recorder{}

	var wiz *wizard.Wizard
	if *orderID != "" {
		wiz = wizard.NewEdit(*orderID, client, client, notes, logger)
	} else {
		wiz = wizard.NewCreate(client, client, notes, logger)
	}
	flow := picker.New(client, wiz.Draft(), logger)

	model := tui.New(wiz, flow, notes, cfg.PageSize)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		logger.Error("tui exited", zap.Error(err))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// buildLogger writes to the configured log file. The terminal belongs to the
// TUI, so without a file all logging is dropped.
func buildLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.LogFile == "" {
		return zap.NewNop(), nil
	}
	lvl, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = lvl
	zcfg.OutputPaths = []string{cfg.LogFile}
	zcfg.ErrorOutputPaths = []string{cfg.LogFile}
	return zcfg.Build()
}
