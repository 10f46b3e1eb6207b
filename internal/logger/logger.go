package logger

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

// Environment variable to configure log file path.
const envLogPath = "LOL_MCP_LOG"

// Until Init is called, output goes to stderr; stdout belongs to the MCP
// stdio transport and must never be written to.
var (
	mu      sync.Mutex
	std     = newLogger()
	logFile *os.File
)

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000000",
	})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// DefaultPath returns LOL_MCP_LOG or lol-esports-mcp.log next to the executable.
func DefaultPath() string {
	if path := os.Getenv(envLogPath); path != "" {
		return path
	}
	if exePath, err := os.Executable(); err == nil {
		return filepath.Join(filepath.Dir(exePath), "lol-esports-mcp.log")
	}
	return "./lol-esports-mcp.log"
}

// InitFromEnv initializes the logger using LOL_MCP_LOG or a default path.
func InitFromEnv() error {
	return Init(DefaultPath())
}

// Init redirects output to the provided file path.
// It creates parent directories if needed and opens the file in append mode.
// Calling Init again switches to the new file.
func Init(path string) error {
	if err := ensureParentDir(path); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		_ = logFile.Close()
	}
	logFile = f
	std.SetOutput(f)
	return nil
}

// SetLevel parses a level name (debug, info, warn, error). Unknown names are
// rejected and the current level is kept.
func SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	std.SetLevel(lvl)
	return nil
}

// Close closes the underlying log file, if open, and falls back to stderr.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return nil
	}
	std.SetOutput(os.Stderr)
	err := logFile.Close()
	logFile = nil
	return err
}

// WithFields returns an entry carrying structured fields.
func WithFields(fields logrus.Fields) *logrus.Entry { return std.WithFields(fields) }

// Printf logs a formatted message at info level.
func Printf(format string, args ...any) { std.Infof(format, args...) }

// Debugf logs diagnostic messages.
func Debugf(format string, args ...any) { std.Debugf(format, args...) }

// Infof logs informational messages.
func Infof(format string, args ...any) { std.Infof(format, args...) }

// Warnf logs warnings.
func Warnf(format string, args ...any) { std.Warnf(format, args...) }

// Errorf logs errors.
func Errorf(format string, args ...any) { std.Errorf(format, args...) }

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
