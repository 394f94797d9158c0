package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestSetupLogging(t *testing.T) {
	prev := log.Default()
	t.Cleanup(func() { log.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "logs", "debug.log")
	closer, err := setupLogging(LogConfig{Path: path, Level: "warn"})
	if err != nil {
		t.Fatalf("setupLogging: %v", err)
	}

	log.Info("hidden message")
	log.Warn("visible message")
	closer.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "hidden message") {
		t.Error("info should be filtered at warn level")
	}
	if !strings.Contains(string(data), "visible message") {
		t.Errorf("warn message missing from log:\n%s", data)
	}
}
