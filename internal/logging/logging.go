package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileName is the name of the rotating log file inside the log directory.
const FileName = "cpi-console.log"

// Init initializes the global logger with dual sinks: os.Stderr and a
// rotating file in the directory returned by Dir.
func Init(verbose bool) error {
	// Init runs before config.Load, so LOGS_FOLDER may still sit in the
	// binary's .env.
	if exePath, err := os.Executable(); err == nil {
		_ = godotenv.Load(filepath.Join(filepath.Dir(exePath), ".env"))
	}

	logDir := Dir(os.Getenv("LOGS_FOLDER"), os.Getenv("DATA_PATH"))
	fileWriter, err := rotatingFile(logDir)
	if err != nil {
		return err
	}

	isTerminal := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	log.Logger = New(os.Stderr, !isTerminal, fileWriter)
	SetLevel(verbose)
	return nil
}

// Dir resolves the log directory: logsFolder when set, otherwise "logs"
// under dataPath, otherwise "logs" next to the executable.
func Dir(logsFolder, dataPath string) string {
	if logsFolder != "" {
		return logsFolder
	}
	if dataPath == "" {
		dataPath = "."
		if exePath, err := os.Executable(); err == nil {
			dataPath = filepath.Dir(exePath)
		}
	}
	return filepath.Join(dataPath, "logs")
}

// New builds a logger writing human-readable lines to console and JSON
// lines to every extra writer.
func New(console io.Writer, noColor bool, extra ...io.Writer) zerolog.Logger {
	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:        console,
		TimeFormat: time.RFC3339,
		NoColor:    noColor,
	}}
	writers = append(writers, extra...)

	return zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().
		Timestamp().
		Logger()
}

// SetLevel switches between info and debug output.
func SetLevel(verbose bool) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
}

func rotatingFile(logDir string) (*lumberjack.Logger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %q: %w", logDir, err)
	}

	// MkdirAll succeeds on existing read-only directories.
	testFile := filepath.Join(logDir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
		return nil, fmt.Errorf("log directory %q is not writable: %w", logDir, err)
	}
	_ = os.Remove(testFile)

	return &lumberjack.Logger{
		Filename:   filepath.Join(logDir, FileName),
		MaxSize:    16, // megabytes
		MaxBackups: 32,
		MaxAge:     365, // days
		Compress:   true,
	}, nil
}
