// Package logging bridges the module's slog-based logging to zerolog.
//
// The core packages log through the *slog.Logger carried in context. Host
// applications that standardize on zerolog can install this handler so all
// pipeline logs flow through their existing zerolog writer and level rules.
package logging

import (
	"context"
	"io"
	"log/slog"

	"github.com/rs/zerolog"
)

// ZerologHandler is a slog.Handler backed by a zerolog.Logger.
type ZerologHandler struct {
	logger zerolog.Logger
	level  slog.Level
	attrs  []slog.Attr
	group  string
}

// NewZerologHandler creates a handler writing zerolog output to w at the
// given minimum level.
//
// Example:
//
//	handler := logging.NewZerologHandler(os.Stderr, slog.LevelInfo)
//	ctx := corpora.WithLogger(ctx, slog.New(handler))
func NewZerologHandler(w io.Writer, level slog.Level) *ZerologHandler {
	return &ZerologHandler{
		logger: zerolog.New(w).With().Timestamp().Logger(),
		level:  level,
	}
}

// NewZerologHandlerFrom wraps an existing zerolog.Logger, preserving its
// writer, level, and accumulated context fields.
func NewZerologHandlerFrom(logger zerolog.Logger, level slog.Level) *ZerologHandler {
	return &ZerologHandler{logger: logger, level: level}
}

// Enabled implements slog.Handler.
func (h *ZerologHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

// Handle implements slog.Handler by translating the record into a zerolog
// event at the matching level.
func (h *ZerologHandler) Handle(_ context.Context, record slog.Record) error {
	evt := h.event(record.Level)
	// Stored attrs already carry the group prefix they were added under.
	for _, attr := range h.attrs {
		evt = appendAttr(evt, "", attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		evt = appendAttr(evt, h.group, attr)
		return true
	})
	evt.Msg(record.Message)
	return nil
}

// WithAttrs implements slog.Handler. Keys are qualified with the current
// group here, so attrs added before a WithGroup keep their unprefixed names.
func (h *ZerologHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append([]slog.Attr(nil), h.attrs...)
	for _, attr := range attrs {
		if h.group != "" {
			attr.Key = h.group + "." + attr.Key
		}
		clone.attrs = append(clone.attrs, attr)
	}
	return &clone
}

// WithGroup implements slog.Handler.
func (h *ZerologHandler) WithGroup(name string) slog.Handler {
	clone := *h
	if h.group != "" {
		clone.group = h.group + "." + name
	} else {
		clone.group = name
	}
	return &clone
}

func (h *ZerologHandler) event(level slog.Level) *zerolog.Event {
	switch {
	case level >= slog.LevelError:
		return h.logger.Error()
	case level >= slog.LevelWarn:
		return h.logger.Warn()
	case level >= slog.LevelInfo:
		return h.logger.Info()
	default:
		return h.logger.Debug()
	}
}

func appendAttr(evt *zerolog.Event, group string, attr slog.Attr) *zerolog.Event {
	key := attr.Key
	if group != "" {
		key = group + "." + key
	}
	switch attr.Value.Kind() {
	case slog.KindString:
		return evt.Str(key, attr.Value.String())
	case slog.KindInt64:
		return evt.Int64(key, attr.Value.Int64())
	case slog.KindFloat64:
		return evt.Float64(key, attr.Value.Float64())
	case slog.KindBool:
		return evt.Bool(key, attr.Value.Bool())
	case slog.KindDuration:
		return evt.Dur(key, attr.Value.Duration())
	case slog.KindTime:
		return evt.Time(key, attr.Value.Time())
	case slog.KindGroup:
		for _, nested := range attr.Value.Group() {
			evt = appendAttr(evt, key, nested)
		}
		return evt
	default:
		return evt.Interface(key, attr.Value.Any())
	}
}
