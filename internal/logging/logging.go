// Package logging builds the structured logger every component receives.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// New returns a timestamped logger writing to w at the named level
// ("debug", "info", "warn", "error"). An unknown level falls back to info.
func New(w io.Writer, level string) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Prefix:          "cdico",
	})
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	l.SetLevel(lvl)
	l.SetStyles(styles())
	return l
}

// NewFile returns a logger appending to path, for the interactive page where
// stderr belongs to the terminal renderer. The returned closer closes the file.
func NewFile(path, level string) (*log.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, fmt.Errorf("creating log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	l := New(f, level)
	l.SetFormatter(log.LogfmtFormatter)
	return l, f, nil
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

func styles() *log.Styles {
	s := log.DefaultStyles()
	s.Timestamp = lipgloss.NewStyle().Foreground(lipgloss.Color("#555555"))
	s.Prefix = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#9B5DE5"))
	s.Key = lipgloss.NewStyle().Foreground(lipgloss.Color("#00B4D8"))
	s.Levels[log.WarnLevel] = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB800")).SetString("WARN")
	s.Levels[log.ErrorLevel] = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4444")).SetString("ERROR")
	return s
}
