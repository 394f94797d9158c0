package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

// setupLogging sends all logging to cfg.Path so the TUI owns the
// terminal. The returned closer flushes and closes the file.
func setupLogging(cfg LogConfig) (io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := tea.LogToFile(cfg.Path, "picker")
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetDefault(log.NewWithOptions(file, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		Level:           level,
		TimeFormat:      time.Kitchen,
	}))
	return file, nil
}
