package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// New builds a production logger for env "production" and a development
// logger otherwise.
func New(env string) (*zap.Logger, error) {
	var (
		log *zap.Logger
		err error
	)
	if strings.EqualFold(strings.TrimSpace(env), "production") {
		log, err = zap.NewProduction()
	} else {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}
	return log.With(zap.String("service", "pulsecare")), nil
}

// Sync flushes buffered entries, discarding the error.
func Sync(log *zap.Logger) {
	_ = log.Sync()
}
