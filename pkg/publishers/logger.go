package publishers

import "github.com/bankdesk/bank-console/internal/logger"

func ensureLogger(log logger.Logger) logger.Logger {
	if log == nil {
		return logger.NopLogger{}
	}
	return log
}
