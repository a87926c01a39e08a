// Command matrixwiz runs the matrix wizard in the terminal.
package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/JonMunkholm/MatrixWizard/internal/config"
	"github.com/JonMunkholm/MatrixWizard/internal/logging"
	"github.com/JonMunkholm/MatrixWizard/internal/tui"
	"github.com/JonMunkholm/MatrixWizard/internal/wizard"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// The screen belongs to the program, so logs go to a file.
	f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open log file: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	logger := logging.New(f, cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(logger)

	m := tui.New(wizard.Options{
		MaxRows:           cfg.Session.GridSize,
		MaxCols:           cfg.Session.GridSize,
		FillEmptyWithZero: cfg.Session.FillEmptyWithZero,
		Logger:            logger,
	})

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		slog.Error("program failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
