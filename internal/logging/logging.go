package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

const DefaultLevel = "warn"

func New(w io.Writer, level string) (*log.Logger, error) {
	if strings.TrimSpace(level) == "" {
		level = DefaultLevel
	}

	parsed, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}

	return log.NewWithOptions(w, log.Options{
		Level:           parsed,
		Prefix:          "healthnav",
		ReportTimestamp: true,
	}), nil
}

// OrDiscard returns logger, or a logger that drops everything when nil.
func OrDiscard(logger *log.Logger) *log.Logger {
	if logger != nil {
		return logger
	}
	return log.New(io.Discard)
}
