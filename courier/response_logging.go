package courier

import (
	"time"

	"go.uber.org/zap"
)

func logResponse(logger *zap.Logger, op Operation, status, size int, dur time.Duration) {
	logger.Info("carrier response",
		zap.Stringer("operation", op),
		zap.Int("status", status),
		zap.Int("bytes", size),
		zap.Duration("duration", dur),
	)
}
