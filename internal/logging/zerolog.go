package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ZerologLogger adapts a zerolog.Logger to Logger.
type ZerologLogger struct {
	z zerolog.Logger
}

func NewZerologLogger(z zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{z: z}
}

func (l *ZerologLogger) Debug(ctx context.Context, msg string, args ...any) {
	l.z.Debug().Ctx(ctx).Fields(args).Msg(msg)
}

func (l *ZerologLogger) Info(ctx context.Context, msg string, args ...any) {
	l.z.Info().Ctx(ctx).Fields(args).Msg(msg)
}

func (l *ZerologLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.z.Warn().Ctx(ctx).Fields(args).Msg(msg)
}

func (l *ZerologLogger) Error(ctx context.Context, msg string, args ...any) {
	l.z.Error().Ctx(ctx).Fields(args).Msg(msg)
}

func (l *ZerologLogger) With(args ...any) Logger {
	return &ZerologLogger{z: l.z.With().Fields(args).Logger()}
}
