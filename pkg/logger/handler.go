package logger

import (
	"context"
	"log/slog"
	"os"
)

type (
	handleFunc func(context.Context, slog.Record) error
	middleware func(handleFunc) handleFunc
)

// middlewareHandler runs records through middlewares before the wrapped handler.
// The first middleware sees the record first.
type middlewareHandler struct {
	slog.Handler
	middlewares []middleware
}

func newChainHandlers(handler slog.Handler, middlewares ...middleware) slog.Handler {
	if len(middlewares) == 0 {
		return handler
	}
	return &middlewareHandler{Handler: handler, middlewares: middlewares}
}

func (h *middlewareHandler) Handle(ctx context.Context, rec slog.Record) error {
	next := h.Handler.Handle
	for i := len(h.middlewares) - 1; i >= 0; i-- {
		next = h.middlewares[i](next)
	}
	return next(ctx, rec)
}

func (h *middlewareHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &middlewareHandler{Handler: h.Handler.WithAttrs(attrs), middlewares: h.middlewares}
}

func (h *middlewareHandler) WithGroup(name string) slog.Handler {
	return &middlewareHandler{Handler: h.Handler.WithGroup(name), middlewares: h.middlewares}
}

// NewGCPHandler writes JSON records with Cloud Logging field names and severities.
func NewGCPHandler(opts *slog.HandlerOptions) slog.Handler {
	return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   true,
		Level:       opts.Level,
		ReplaceAttr: attrReplacerChain(GCPAttrReplacer, opts.ReplaceAttr),
	})
}

// GCPAttrReplacer renames the built-in keys to the Cloud Logging ones.
func GCPAttrReplacer(_ []string, attr slog.Attr) slog.Attr {
	switch attr.Key {
	case MessageKey:
		attr.Key = "message"
	case SourceKey:
		attr.Key = "logging.googleapis.com/sourceLocation"
	case LevelKey:
		attr.Key = "severity"
		if lvl, ok := attr.Value.Any().(slog.Level); ok {
			attr.Value = slog.StringValue(gcpSeverity(lvl))
		}
	}
	return attr
}
