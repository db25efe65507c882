package common

import (
	"errors"
	"net/http"

	errs "github.com/amirhossein-jamali/canteen-wallet/internal/domain/error"
	coreport "github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/core"
)

type fieldLogger interface {
	LogFields() map[string]any
}

// LogFailure logs a failed operation. Business rejections are warnings,
// store and unexpected failures are errors.
func LogFailure(logger coreport.Logger, msg string, err error, fields map[string]any) {
	merged := make(map[string]any, len(fields)+4)
	for k, v := range fields {
		merged[k] = v
	}
	var typed fieldLogger
	if errors.As(err, &typed) {
		for k, v := range typed.LogFields() {
			merged[k] = v
		}
	}
	merged["error"] = err.Error()

	if errs.HTTPStatus(err) >= http.StatusInternalServerError {
		logger.Error(msg, merged)
		return
	}
	logger.Warn(msg, merged)
}
