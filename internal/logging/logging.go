package logging

import (
	"log"
	"log/slog"
	"os"
	"path/filepath"
)

// Init initializes the logging system. With an empty path logs go to
// stderr; otherwise they are appended to the given file. Uses text
// format for human readability.
func Init(path string) error {
	out := os.Stderr

	if path != "" {
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		out = file
	}

	handler := slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	slog.SetDefault(slog.New(handler))

	// Redirect standard log package output to the same destination
	log.SetOutput(out)
	log.SetFlags(log.LstdFlags)

	return nil
}
