// Package logging configures the process-wide slog logger. Logs are
// discarded unless debug mode is on; debug mode writes JSON lines to a
// per-run file under the OS state directory, keeping at most maxLogFiles
// files around.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"github.com/google/uuid"
)

const maxLogFiles = 20

// Logger is the shared logger instance. Initialize replaces it; until then
// it discards everything.
var Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))

// Initialize sets up the logger. Debug mode comes from the flag or the
// BLOCKFLOW_DEBUG environment variable.
func Initialize(debug bool) error {
	if os.Getenv("BLOCKFLOW_DEBUG") == "1" {
		debug = true
	}
	if !debug {
		Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
		return nil
	}

	logDir, err := getLogDir()
	if err != nil {
		return fmt.Errorf("resolve log directory: %w", err)
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	if err := rotateLogs(logDir, maxLogFiles); err != nil {
		// Rotation failure should not prevent logging.
		fmt.Fprintf(os.Stderr, "warning: log rotation failed: %v\n", err)
	}

	logPath := filepath.Join(logDir, fmt.Sprintf("%s.log", uuid.New().String()))
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("create log file: %w", err)
	}

	Logger = slog.New(slog.NewJSONHandler(logFile, &slog.HandlerOptions{Level: slog.LevelDebug}))
	Logger.Info("debug logging initialized", "log_file", logPath)
	return nil
}

// rotateLogs removes the oldest log files when the directory holds more than
// max.
func rotateLogs(logDir string, max int) error {
	entries, err := os.ReadDir(logDir)
	if err != nil {
		return fmt.Errorf("read log directory: %w", err)
	}

	type logFile struct {
		path    string
		modTime time.Time
	}
	var files []logFile
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".log" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, logFile{path: filepath.Join(logDir, entry.Name()), modTime: info.ModTime()})
	}

	if len(files) < max {
		return nil
	}
	sort.Slice(files, func(i, j int) bool { return files[i].modTime.Before(files[j].modTime) })

	numToDelete := len(files) - max + 1
	for i := 0; i < numToDelete && i < len(files); i++ {
		if err := os.Remove(files[i].path); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to delete old log file %s: %v\n", files[i].path, err)
		}
	}
	return nil
}

func getLogDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir, "Library", "Logs", "blockflow"), nil
	case "linux":
		stateHome := os.Getenv("XDG_STATE_HOME")
		if stateHome == "" {
			stateHome = filepath.Join(homeDir, ".local", "state")
		}
		return filepath.Join(stateHome, "blockflow"), nil
	case "windows":
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			localAppData = filepath.Join(homeDir, "AppData", "Local")
		}
		return filepath.Join(localAppData, "blockflow", "logs"), nil
	default:
		return filepath.Join(homeDir, ".blockflow", "logs"), nil
	}
}
