// Package worker attaches background event consumers at boot.
package worker

import (
	"go.uber.org/zap"
)

// Subscriber attaches its handlers to the event dispatcher.
type Subscriber interface {
	RegisterHandlers()
}

// StartSubscribers registers every subscriber once. Handlers run inline on
// the publishing request, so there is nothing to stop on shutdown.
func StartSubscribers(logger *zap.Logger, subscribers ...Subscriber) int {
	registered := 0
	for _, s := range subscribers {
		if s == nil {
			continue
		}
		s.RegisterHandlers()
		registered++
	}
	logger.Info("event subscribers registered", zap.Int("count", registered))
	return registered
}
