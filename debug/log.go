package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	file    *os.File
	mu      sync.Mutex
	enabled bool
	logger  = newLogger(io.Discard)
)

func newLogger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})
	if on, err := strconv.ParseBool(os.Getenv("CHANNELIZE_DEBUG")); err == nil && on {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}

// Path returns ~/.config/go-channelize/debug.log
func Path() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "go-channelize", "debug.log")
}

// Enable starts debug logging to Path()
func Enable() error {
	logPath := Path()
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	return enable(f, f)
}

// EnableWriter sends debug logging to w instead of the log file.
func EnableWriter(w io.Writer) error {
	return enable(w, nil)
}

func enable(w io.Writer, f *os.File) error {
	mu.Lock()
	defer mu.Unlock()

	if enabled {
		if f != nil {
			f.Close()
		}
		return nil
	}

	file = f
	logger = newLogger(w)
	enabled = true
	logger.WithField("category", "debug").Info("=== Debug logging started ===")
	return nil
}

// Disable stops debug logging
func Disable() {
	mu.Lock()
	defer mu.Unlock()

	if file != nil {
		file.Close()
		file = nil
	}
	logger = newLogger(io.Discard)
	enabled = false
	counters = make(map[string]int)
}

// Enabled reports whether logging is on.
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// Log writes a message to the debug log
func Log(category, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if !enabled {
		return
	}
	logger.WithField("category", category).Info(fmt.Sprintf(format, args...))
}

// Debugf writes a message only at debug level (CHANNELIZE_DEBUG=1).
func Debugf(category, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if !enabled {
		return
	}
	logger.WithField("category", category).Debugf(format, args...)
}

// LogEvery logs only every N calls (use for high-frequency events)
var counters = make(map[string]int)

func LogEvery(n int, category, format string, args ...any) {
	mu.Lock()
	key := category + format
	counters[key]++
	count := counters[key]
	mu.Unlock()

	if n > 0 && count%n == 0 {
		Log(category, format+" (every %d, count=%d)", append(args, n, count)...)
	}
}
