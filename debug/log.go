// Package debug is a category-tagged file logger for the realtime paths,
// where writing to the terminal would fight the TUI.
package debug

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	mu      sync.Mutex
	file    *os.File
	enabled bool

	// counters backs LogEvery
	counters = make(map[string]int)
)

// Enable starts logging to ~/.config/go-erae/debug.log, truncating any
// previous run's log.
func Enable() error {
	mu.Lock()
	defer mu.Unlock()

	if enabled {
		return nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	dir := filepath.Join(home, ".config", "go-erae")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(filepath.Join(dir, "debug.log"), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	file = f
	enabled = true

	ts := time.Now().Format("15:04:05.000")
	fmt.Fprintf(file, "[%s] %-8s %s\n", ts, "debug", "=== logging started ===")
	file.Sync()
	return nil
}

// Disable stops logging and closes the file.
func Disable() {
	mu.Lock()
	defer mu.Unlock()

	if file != nil {
		file.Close()
		file = nil
	}
	enabled = false
}

// Log writes one line tagged with a category.
func Log(category, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	write(category, format, args...)
}

// LogEvery writes only every nth call with the same category+format, for
// per-report paths that would otherwise flood the log.
func LogEvery(n int, category, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	key := category + format
	counters[key]++
	if counters[key]%n != 0 {
		return
	}
	write(category, format+" (count=%d)", append(args, counters[key])...)
}

// write assumes mu is held
func write(category, format string, args ...any) {
	if !enabled || file == nil {
		return
	}
	ts := time.Now().Format("15:04:05.000")
	fmt.Fprintf(file, "[%s] %-8s %s\n", ts, category, fmt.Sprintf(format, args...))
	file.Sync() // flush immediately so crashes still leave a trail
}
