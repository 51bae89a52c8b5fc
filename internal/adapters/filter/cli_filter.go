package filter

import (
	"context"
	"fmt"
	"time"

	"github.com/mikey/smishing-guard/internal/core"
	"go.uber.org/zap"
)

// CliFilter implements a command-line interface for message analysis
type CliFilter struct {
	service *core.AnalyzerService
	logger  *zap.Logger
	verbose bool
}

// NewCliFilter creates a new CLI filter
func NewCliFilter(service *core.AnalyzerService, logger *zap.Logger, verbose bool) (*CliFilter, error) {
	return &CliFilter{
		service: service,
		logger:  logger,
		verbose: verbose,
	}, nil
}

// ProcessMessage analyzes a message and displays the results
func (f *CliFilter) ProcessMessage(ctx context.Context, msg *core.Message) (*core.AnalysisResult, error) {
	f.logger.Debug("Processing message", zap.String("sender", msg.Sender))

	fmt.Printf("\n=== Message Summary ===\n")
	if msg.Sender != "" {
		fmt.Printf("Sender: %s\n", msg.Sender)
	}
	if !msg.Timestamp.IsZero() {
		fmt.Printf("Timestamp: %s\n", msg.Timestamp.Format(time.RFC3339))
	}
	fmt.Printf("Text length: %d bytes\n", len(msg.Text))

	if f.verbose {
		preview := msg.Text
		if len(preview) > 500 {
			preview = preview[:500] + "..."
		}
		fmt.Printf("\nText preview:\n%s\n", preview)
	}

	fmt.Printf("\n=== Analysis ===\n")
	startTime := time.Now()
	result := f.service.AnalyzeText(ctx, msg)
	duration := time.Since(startTime)

	fmt.Printf("\n=== Results ===\n")
	fmt.Printf("Is smishing: %t\n", result.IsSmishing)
	fmt.Printf("Risk score: %d\n", result.RiskScore)
	fmt.Printf("Risk level: %s\n", result.RiskLevel)
	fmt.Printf("Local risk: %d\n", result.LocalRisk)
	fmt.Printf("Model used: %s\n", result.UsedModelTier)
	if result.Error != "" {
		fmt.Printf("Error: %s\n", result.Error)
	}
	if len(result.Reasons) > 0 {
		fmt.Printf("\nReasons:\n")
		for _, reason := range result.Reasons {
			fmt.Printf("  - %s\n", reason)
		}
	}
	if len(result.SafeActions) > 0 {
		fmt.Printf("\nSafe actions:\n")
		for _, action := range result.SafeActions {
			fmt.Printf("  - %s\n", action)
		}
	}
	fmt.Printf("\nProcessing time: %v\n", duration)

	return result, nil
}

// Start is a no-op for the CLI filter
func (f *CliFilter) Start() error {
	return nil
}

// Stop is a no-op for the CLI filter
func (f *CliFilter) Stop() error {
	return nil
}
