package core

import (
	"context"
	"time"
)

// Classifier defines the interface for the external AI classifier
type Classifier interface {
	// ClassifyText classifies a message text at the given model tier
	ClassifyText(ctx context.Context, text string, tier ModelTier) (*ClassifierOutput, error)

	// ModelName reports the concrete model serving a tier
	ModelName(tier ModelTier) string
}

// RuleEngine defines the interface to the local heuristic analyzers
type RuleEngine interface {
	// CheckSensitiveLinkAbuse scores sensitive actions steered through links
	CheckSensitiveLinkAbuse(text string) SensitiveLinkResult

	// CheckURLSafety scores embedded URLs for disguise techniques
	CheckURLSafety(text string) URLSafetyResult

	// CheckSendingPattern flags behavioral anomalies and records the
	// message in the sender history
	CheckSendingPattern(text, sender string, timestamp time.Time) PatternResult
}

// TrustChecker reports whether a sender identifier is registered as trusted
type TrustChecker interface {
	IsTrusted(sender string) bool
}

// ClassifierCache defines the interface for caching classifier verdicts
type ClassifierCache interface {
	// Get retrieves a cached verdict by key
	Get(ctx context.Context, key string) (*CacheEntry, error)

	// Set stores a cache entry
	Set(ctx context.Context, entry *CacheEntry) error

	// Delete removes a cache entry
	Delete(ctx context.Context, key string) error

	// Cleanup removes expired entries
	Cleanup(ctx context.Context) error
}
