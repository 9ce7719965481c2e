package logging

import (
	"context"
	"log/slog"
)

// FieldSessionID is the standardized structured logging key for CLI invocation identifiers.
const FieldSessionID = "session_id"

// sessionIDHandler wraps another handler to inject a session_id attribute into all records.
type sessionIDHandler struct {
	base      slog.Handler
	sessionID string
}

func newSessionIDHandler(base slog.Handler, sessionID string) slog.Handler {
	if base == nil {
		return NoopHandler{}
	}
	return &sessionIDHandler{base: base, sessionID: sessionID}
}

// WithSession tags every record emitted through the returned logger with sessionID.
func WithSession(logger *slog.Logger, sessionID string) *slog.Logger {
	if logger == nil || sessionID == "" {
		return logger
	}
	return slog.New(newSessionIDHandler(logger.Handler(), sessionID))
}

func (h *sessionIDHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

func (h *sessionIDHandler) Handle(ctx context.Context, record slog.Record) error {
	record.AddAttrs(slog.String(FieldSessionID, h.sessionID))
	return h.base.Handle(ctx, record)
}

func (h *sessionIDHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &sessionIDHandler{base: h.base.WithAttrs(attrs), sessionID: h.sessionID}
}

func (h *sessionIDHandler) WithGroup(name string) slog.Handler {
	return &sessionIDHandler{base: h.base.WithGroup(name), sessionID: h.sessionID}
}

// CloneWithLevel keeps the session tag when a component override is applied
// on top of a session logger.
func (h *sessionIDHandler) CloneWithLevel(level slog.Level) slog.Handler {
	if cloner, ok := h.base.(interface{ CloneWithLevel(slog.Level) slog.Handler }); ok {
		return &sessionIDHandler{base: cloner.CloneWithLevel(level), sessionID: h.sessionID}
	}
	return &sessionIDHandler{base: newLevelOverrideHandler(h.base, level), sessionID: h.sessionID}
}
