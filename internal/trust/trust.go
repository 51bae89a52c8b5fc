package trust

import (
	"strings"

	"go.uber.org/zap"
)

// Registry holds sender identifiers registered as trusted, typically
// official institutional short codes. Messages from these senders skip
// analysis entirely.
type Registry struct {
	senders map[string]struct{}
	logger  *zap.Logger
}

// NewRegistry creates a registry from the configured sender list
func NewRegistry(senders []string, logger *zap.Logger) *Registry {
	normalized := make(map[string]struct{}, len(senders))
	for _, sender := range senders {
		sender = strings.TrimSpace(sender)
		if sender != "" {
			normalized[sender] = struct{}{}
		}
	}

	if len(normalized) > 0 && logger != nil {
		logger.Info("Initialized trusted sender registry", zap.Int("count", len(normalized)))
	}

	return &Registry{
		senders: normalized,
		logger:  logger,
	}
}

// IsTrusted reports whether the sender identifier is registered
func (r *Registry) IsTrusted(sender string) bool {
	if len(r.senders) == 0 {
		return false
	}
	_, ok := r.senders[strings.TrimSpace(sender)]
	if ok && r.logger != nil {
		r.logger.Debug("Sender is trusted", zap.String("sender", sender))
	}
	return ok
}
