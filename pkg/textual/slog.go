package textual

import (
	"context"
	"log/slog"
	"unicode/utf8"
)

// Slog returns a pass-through stage logging every token it sees: tokens
// carrying an error at warn level, the others at debug level. A nil logger
// means slog.Default().
func Slog[S Carrier[S]](logger *slog.Logger, label string) ProcessorFunc[S] {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, in <-chan S) <-chan S {
		return Async(ctx, in, func(s S) S {
			text := s.UTF8String()
			attrs := []any{"index", s.GetIndex(), "bytes", len(text), "runes", utf8.RuneCountInString(text)}
			if err := s.GetError(); err != nil {
				logger.WarnContext(ctx, label, append(attrs, "err", err)...)
			} else {
				logger.DebugContext(ctx, label, attrs...)
			}
			return s
		})
	}
}
