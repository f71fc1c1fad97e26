package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestNew_WritesConsoleAndJSON(t *testing.T) {
	var console, file bytes.Buffer
	logger := New(&console, true, &file)
	logger.Info().Str("action", "analyze").Msg("Dispatch finished")

	if !strings.Contains(console.String(), "Dispatch finished") || !strings.Contains(console.String(), "action=analyze") {
		t.Errorf("console output = %q", console.String())
	}
	if !strings.Contains(file.String(), `"action":"analyze"`) {
		t.Errorf("json output = %q", file.String())
	}
}

func TestSetLevel(t *testing.T) {
	prev := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(prev)

	SetLevel(true)
	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Errorf("verbose level = %s", zerolog.GlobalLevel())
	}
	SetLevel(false)
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Errorf("default level = %s", zerolog.GlobalLevel())
	}
}

func TestInit_CreatesLogFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	t.Setenv("LOGS_FOLDER", dir)
	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	defer func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	}()

	if err := Init(false); err != nil {
		t.Fatalf("Init: %v", err)
	}
	log.Info().Msg("hello")

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Errorf("log file = %q", data)
	}
}

func TestDir(t *testing.T) {
	exePath, err := os.Executable()
	if err != nil {
		t.Skip("no executable path")
	}
	tests := []struct {
		name       string
		logsFolder string
		dataPath   string
		want       string
	}{
		{"explicit folder wins", "/var/log/cpi", "/srv/cpi", "/var/log/cpi"},
		{"under data path", "", "/srv/cpi", filepath.Join("/srv/cpi", "logs")},
		{"next to executable", "", "", filepath.Join(filepath.Dir(exePath), "logs")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Dir(tt.logsFolder, tt.dataPath); got != tt.want {
				t.Errorf("Dir(%q, %q) = %q, want %q", tt.logsFolder, tt.dataPath, got, tt.want)
			}
		})
	}
}

func TestInit_UsesDataPath(t *testing.T) {
	dataPath := t.TempDir()
	t.Setenv("LOGS_FOLDER", "")
	t.Setenv("DATA_PATH", dataPath)
	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	defer func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	}()

	if err := Init(false); err != nil {
		t.Fatalf("Init: %v", err)
	}
	log.Info().Msg("hello")

	if _, err := os.Stat(filepath.Join(dataPath, "logs", FileName)); err != nil {
		t.Errorf("log file not under DATA_PATH: %v", err)
	}
}
