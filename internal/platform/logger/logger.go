package logger

import (
	"log/slog"
	"os"
)

// New returns the process-wide structured logger. Text output keeps local
// development readable; set SWAPSECURE_LOG_JSON=true for machine ingestion.
func New() *slog.Logger {
	if os.Getenv("SWAPSECURE_LOG_JSON") == "true" {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
