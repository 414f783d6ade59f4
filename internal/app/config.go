package app

import (
	"log/slog"

	"github.com/jeffjose/utter/internal/config"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	Home string        // config directory, e.g. ~/.config/utterd
	File config.Config // merged file/env/flag configuration
	Log  *slog.Logger
}
