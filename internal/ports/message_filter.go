package ports

import (
	"context"

	"github.com/mikey/smishing-guard/internal/core"
)

// MessageFilter defines the interface for message analysis transports
type MessageFilter interface {
	// ProcessMessage analyzes a message and returns the verdict
	ProcessMessage(ctx context.Context, msg *core.Message) (*core.AnalysisResult, error)

	// Start starts the filter service
	Start() error

	// Stop stops the filter service
	Stop() error
}
