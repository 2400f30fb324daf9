package logger

import (
	"io"
	"log/slog"
	"os"
)

// Log is the shared structured logger.  Handlers attach operation names
// and key identifiers so failures can be traced without client-visible
// detail.
var Log *slog.Logger

func init() {
	// Append to service.log alongside stdout; the file keeps full error
	// detail that never leaves the server.
	file, err := os.OpenFile("service.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o666)
	if err != nil {
		panic("failed to open log file: " + err.Error())
	}

	writer := io.MultiWriter(os.Stdout, file)
	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	Log = slog.New(handler)
}
