package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jwebster45206/adventure-engine/internal/content"
	"github.com/jwebster45206/adventure-engine/pkg/dialogue"
	"github.com/jwebster45206/adventure-engine/pkg/game"
	"github.com/jwebster45206/adventure-engine/pkg/storage"
)

func main() {
	dataDir := getEnv("DATA_DIR", "data")

	c, err := content.Load(filepath.Join(dataDir, "content.yaml"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load game content: %v\n", err)
		os.Exit(1)
	}

	// The TUI owns the terminal, so logs go to a file when asked for.
	logger := slog.New(slog.DiscardHandler)
	if path := os.Getenv("CONSOLE_LOG"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	session, err := game.New(context.Background(), game.Options{
		Content:     c,
		Dialogues:   dialogue.NewFileLoader(filepath.Join(dataDir, "dialogues")),
		Store:       storage.NewMockStorage(),
		Logger:      logger,
		AutoPresent: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start game: %v\n", err)
		os.Exit(1)
	}
	defer session.Close()

	p := tea.NewProgram(NewConsoleUI(session), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
