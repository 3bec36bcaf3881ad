package pages

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Page operation errors. Each wraps the underlying driver or parsing failure.
var (
	ErrNavigationFailed   = errors.New("navigation failed")
	ErrSearchFailed       = errors.New("search failed")
	ErrVerificationFailed = errors.New("product verification failed")
	ErrCountNotFound      = errors.New("search results count not found")
)

// fail logs the failure and wraps cause with the operation's sentinel.
func fail(logger *zap.Logger, sentinel, cause error, msg string, fields ...zap.Field) error {
	logger.Error(msg, append(fields, zap.Error(cause))...)
	if errors.Is(cause, sentinel) {
		return cause
	}
	return fmt.Errorf("%w: %w", sentinel, cause)
}
