package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// ColorMode represents the color capability of the terminal
type ColorMode int

const (
	ColorModeNone ColorMode = iota
	ColorMode16
	ColorMode256
)

// Special attribute key for marking success messages
const successKey = "_success"

// palette holds the ANSI sequences for one color mode
type palette struct {
	reset   string
	debug   string
	warn    string
	err     string
	key     string
	value   string
	success string
}

var palette256 = palette{
	reset:   "\033[0m",
	debug:   "\033[90m",
	warn:    "\033[38;5;214m", // Brighter orange
	err:     "\033[38;5;203m", // Lighter red
	key:     "\033[38;5;219m", // Medium pink
	value:   "\033[38;5;117m",
	success: "\033[38;5;156m", // Light green
}

var palette16 = palette{
	reset:   "\033[0m",
	debug:   "\033[90m", // Bright black
	warn:    "\033[33m", // Yellow as fallback
	err:     "\033[31m",
	key:     "\033[35m", // Magenta as fallback
	value:   "\033[36m", // Cyan as fallback
	success: "\033[32m",
}

// detectColorMode detects the terminal's color capability from the environment
func detectColorMode() ColorMode {
	// NO_COLOR set to any value disables color output
	if os.Getenv("NO_COLOR") != "" {
		return ColorModeNone
	}

	term := os.Getenv("TERM")

	// No TERM set means no color support
	if term == "" {
		return ColorModeNone
	}

	if strings.Contains(term, "256color") {
		return ColorMode256
	}

	// Any other non-empty TERM means basic ANSI color support
	return ColorMode16
}

// Handler is a custom slog handler that formats log output without timestamps or levels
type Handler struct {
	w         io.Writer
	level     slog.Leveler
	attrs     []slog.Attr
	group     string
	colorMode ColorMode
	mu        sync.Mutex
}

// NewHandler creates a new Handler
func NewHandler(w io.Writer, level slog.Leveler) *Handler {
	return &Handler{
		w:         w,
		level:     level,
		colorMode: detectColorMode(),
	}
}

// Enabled reports whether the handler handles records at the given level
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and writes a log record
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var pal palette
	switch h.colorMode {
	case ColorMode256:
		pal = palette256
	case ColorMode16:
		pal = palette16
	}

	var prefix, color string
	switch r.Level {
	case slog.LevelDebug:
		prefix, color = "debug: ", pal.debug
	case slog.LevelInfo:
		prefix = "info: "
	case slog.LevelWarn:
		prefix, color = "warning: ", pal.warn
	case slog.LevelError:
		prefix, color = "error: ", pal.err
	}

	// Prefixes are for terminals without color support only
	if h.colorMode != ColorModeNone {
		prefix = ""
	}

	// Check attributes for the success marker before writing the message
	attrs := make([]slog.Attr, 0, r.NumAttrs())
	isSuccess := false
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == successKey {
			isSuccess = true
			return true // Skip adding the success marker to output
		}
		attrs = append(attrs, a)
		return true
	})

	// Add handler-level attributes
	attrs = append(h.attrs, attrs...)

	if isSuccess && color == "" {
		color = pal.success
	}

	if color != "" {
		fmt.Fprintf(h.w, "%s%s%s", color, r.Message, pal.reset)
	} else {
		fmt.Fprintf(h.w, "%s%s", prefix, r.Message)
	}

	for _, attr := range attrs {
		h.writeAttr(attr, pal)
	}

	fmt.Fprintln(h.w)

	return nil
}

// writeAttr formats a single attribute after the message
func (h *Handler) writeAttr(attr slog.Attr, pal palette) {
	// Error values get the error color on the whole pair
	if attr.Value.Kind() == slog.KindAny {
		if _, isErr := attr.Value.Any().(error); isErr {
			if h.colorMode != ColorModeNone {
				fmt.Fprintf(h.w, " %s%s=%q%s", pal.err, attr.Key, attr.Value, pal.reset)
			} else {
				fmt.Fprintf(h.w, " %s=%q", attr.Key, attr.Value)
			}
			return
		}
	}

	// Numeric values are written without quotes
	isNumeric := attr.Value.Kind() == slog.KindInt64 ||
		attr.Value.Kind() == slog.KindUint64 ||
		attr.Value.Kind() == slog.KindFloat64

	if h.colorMode != ColorModeNone {
		if isNumeric {
			fmt.Fprintf(h.w, " %s%s%s=%s%v%s", pal.key, attr.Key, pal.reset, pal.value, attr.Value, pal.reset)
		} else {
			fmt.Fprintf(h.w, " %s%s%s=%s%q%s", pal.key, attr.Key, pal.reset, pal.value, attr.Value, pal.reset)
		}
	} else {
		if isNumeric {
			fmt.Fprintf(h.w, " %s=%v", attr.Key, attr.Value)
		} else {
			fmt.Fprintf(h.w, " %s=%q", attr.Key, attr.Value)
		}
	}
}

// WithAttrs returns a new Handler with the given attributes
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{
		w:         h.w,
		level:     h.level,
		attrs:     append(h.attrs, attrs...),
		group:     h.group,
		colorMode: h.colorMode,
	}
}

// WithGroup returns a new Handler with the given group
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &Handler{
		w:         h.w,
		level:     h.level,
		attrs:     h.attrs,
		group:     h.group + name + ".",
		colorMode: h.colorMode,
	}
}

// Success returns an Attr that marks a log message as a success message
func Success() slog.Attr {
	return slog.Bool(successKey, true)
}
