package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/currency_rate_app/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Logger *slog.Logger
}

// GetLogger prefers the request-scoped logger and falls back to the service logger.
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := middleware.LoggerFromCtx(ctx); ok {
		return logger
	}
	return s.fallback()
}

func (s *BaseService) fallback() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

// LogWarn logs a warning with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}
