package rules

import (
	"go.uber.org/zap"
)

// Engine runs the local heuristic checks: URL safety, sensitive-action
// correlation and sending-pattern analysis. It owns no network access;
// everything here is deterministic string and history work.
type Engine struct {
	history *HistoryStore
	logger  *zap.Logger
}

// NewEngine creates a rule engine backed by the given history store
func NewEngine(history *HistoryStore, logger *zap.Logger) *Engine {
	return &Engine{
		history: history,
		logger:  logger,
	}
}

// History exposes the backing store, mainly for tests and diagnostics
func (e *Engine) History() *HistoryStore {
	return e.history
}
