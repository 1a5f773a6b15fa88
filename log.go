package pbuf

import "go.uber.org/zap"

// NewDevelopmentLogger builds a *zap.Logger suitable for passing to
// WithLogger during development and tests — human-readable output, debug
// level enabled. Production callers typically build their own
// zap.NewProduction() logger instead (the pattern used throughout
// o3willard-AI-SSSonector's cmd/*/main.go entry points) and pass it in the
// same way.
func NewDevelopmentLogger() (*zap.Logger, error) {
	return zap.NewDevelopment()
}
