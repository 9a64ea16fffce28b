package main

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/jask/plotbench/internal/config"
	"github.com/jask/plotbench/internal/database"
	"github.com/jask/plotbench/internal/service"
	"github.com/jask/plotbench/internal/signal"
	"github.com/jask/plotbench/internal/tui"
	"github.com/jask/plotbench/internal/workbench"
)

func main() {
	flags := config.Flags()
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flags)
			return
		}
		log.Fatalf("flags: %v", err)
	}
	if help, _ := flags.GetBool("help"); help {
		printHelp(flags)
		return
	}

	cfg, err := config.Load(flags)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if write, _ := flags.GetBool("write-config"); write {
		path := config.Path(flags)
		if err := config.Save(path, cfg); err != nil {
			log.Fatalf("save config: %v", err)
		}
		fmt.Printf("wrote %s\n", path)
		return
	}

	logFile, err := tea.LogToFile(cfg.UI.LogPath, "plotbench")
	if err != nil {
		log.Fatalf("log: %v", err)
	}
	defer logFile.Close()
	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)

	reg := signal.NewRegistry()
	signal.RegisterBuiltins(reg)
	for _, sc := range cfg.Signals {
		gen, err := sc.Generator()
		if err != nil {
			log.Fatalf("config: %v", err)
		}
		reg.Register(sc.Name, sc.Color, gen)
	}

	wb := workbench.New(reg, workbench.Options{
		DefaultHeight: cfg.Panes.DefaultHeight,
		MinHeight:     cfg.Panes.MinHeight,
		Logger:        logger.With("component", "workbench"),
	})
	wb.AddPane()

	var exporter *service.Exporter
	if cfg.Database.Path != "" {
		if err := database.RunMigrations(cfg.Database.Path); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		db, err := database.Open(cfg.Database.Path)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		defer db.Close()
		exporter = service.NewExporter(db)
		exporter.Log = logger.With("component", "export")
	}

	logger.Info("starting", "signals", reg.Len(), "export_db", cfg.Database.Path)
	p := tea.NewProgram(
		tui.New(wb, cfg, exporter, logger.With("component", "tui")),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithReportFocus(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}

func printHelp(flags *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `plotbench: compose time-series signals across plot panes.

Drag a signal from the sidebar onto a pane with the mouse, or grab it with g
and drop it on the focused pane with enter.

Usage:
  plotbench [flags]

Flags:
%s`, flags.FlagUsages())
}
