package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Risk-level thresholds. The merge pass and the final weighted pass
// deliberately use different cut points; the final set is a coarser
// calibration that overrides the level (but not is_smishing) of the
// first.
const (
	mergeHighThreshold   = 70
	mergeMediumThreshold = 50

	finalHighThreshold   = 75
	finalMediumThreshold = 40
)

// Fixed strings used on degraded paths
const (
	reasonAnalysisError = "analysis error occurred"
	safeActionConsult   = "Consult a specialist."
	safeActionRetry     = "Try again later."

	fallbackRiskScore = 50

	trustedTierName = "trusted"
)

// AnalyzerService fuses the local heuristic analyzers with the
// external classifier into one calibrated verdict per message. Every
// code path returns a complete AnalysisResult; no analyzer error
// escapes the entry point.
type AnalyzerService struct {
	classifier          Classifier
	rules               RuleEngine
	trusted             TrustChecker
	cache               ClassifierCache
	logger              *zap.Logger
	cacheEnabled        bool
	cacheTTL            time.Duration
	escalationThreshold int
}

// NewAnalyzerService creates a new analysis service
func NewAnalyzerService(
	classifier Classifier,
	rules RuleEngine,
	trusted TrustChecker,
	cache ClassifierCache,
	logger *zap.Logger,
	cacheEnabled bool,
	cacheTTL time.Duration,
	escalationThreshold int,
) *AnalyzerService {
	return &AnalyzerService{
		classifier:          classifier,
		rules:               rules,
		trusted:             trusted,
		cache:               cache,
		logger:              logger,
		cacheEnabled:        cacheEnabled,
		cacheTTL:            cacheTTL,
		escalationThreshold: escalationThreshold,
	}
}

// AnalyzeText analyzes a message and returns the fused verdict
func (s *AnalyzerService) AnalyzeText(ctx context.Context, msg *Message) *AnalysisResult {
	now := time.Now()
	processingID := uuid.NewString()

	// Registered institutional senders bypass analysis entirely
	if s.trusted != nil && msg.Sender != "" && s.trusted.IsTrusted(msg.Sender) {
		s.logger.Info("Skipping analysis for trusted sender",
			zap.String("sender", msg.Sender),
			zap.String("action", "trust_bypass"))
		return &AnalysisResult{
			RiskScore:     0,
			IsSmishing:    false,
			RiskLevel:     RiskLevelSafe,
			Reasons:       []string{"sender is a registered trusted identifier"},
			SafeActions:   []string{},
			UsedModelTier: trustedTierName,
			AnalyzedAt:    now,
			ProcessingID:  processingID,
		}
	}

	timestamp := msg.Timestamp
	if timestamp.IsZero() {
		timestamp = now
	}

	// Run the local analyzers once; their results feed both the
	// escalation signal and the later merge. The pattern check also
	// records the message in the sender history.
	sensitive := s.rules.CheckSensitiveLinkAbuse(msg.Text)
	urlSafety := s.rules.CheckURLSafety(msg.Text)
	pattern := s.rules.CheckSendingPattern(msg.Text, msg.Sender, timestamp)

	// local_risk is an escalation/weighting signal, not a reported
	// score, so the per-analyzer sums are not re-clamped here.
	localRisk := sensitive.RiskScore + urlSafety.RiskScore
	if msg.Sender != "" {
		localRisk += pattern.RiskScore
	}

	tier := TierDefault
	if localRisk >= s.escalationThreshold {
		tier = TierEscalated
	}
	modelName := s.classifier.ModelName(tier)

	s.logger.Debug("Local precheck complete",
		zap.Int("local_risk", localRisk),
		zap.String("model_tier", string(tier)),
		zap.String("model", modelName))

	output, parseFailure, err := s.classify(ctx, msg.Text, tier, modelName)
	if err != nil {
		// No base classification exists to merge onto; return the
		// terminal degraded result.
		s.logger.Error("Classifier call failed", zap.Error(err))
		return &AnalysisResult{
			RiskScore:     0,
			IsSmishing:    false,
			RiskLevel:     RiskLevelError,
			Reasons:       []string{fmt.Sprintf("error during analysis: %v", err)},
			SafeActions:   []string{safeActionRetry},
			UsedModelTier: modelName,
			LocalRisk:     localRisk,
			Error:         err.Error(),
			AnalyzedAt:    now,
			ProcessingID:  processingID,
		}
	}

	result := &AnalysisResult{
		RiskScore:     ClampScore(output.RiskScore),
		IsSmishing:    output.IsSmishing,
		RiskLevel:     output.RiskLevel,
		Reasons:       append([]string(nil), output.Reasons...),
		SafeActions:   append([]string(nil), output.SafeActions...),
		UsedModelTier: modelName,
		LocalRisk:     localRisk,
		Error:         parseFailure,
		AnalyzedAt:    now,
		ProcessingID:  processingID,
	}

	// Merge local findings onto the classifier verdict, clamping after
	// each step. Reason ordering is fixed: classifier reasons first,
	// then sensitive-link violations, URL findings, pattern anomalies.
	if sensitive.IsViolation {
		result.RiskScore = ClampScore(result.RiskScore + sensitive.RiskScore)
		for _, v := range sensitive.Violations {
			result.Reasons = append(result.Reasons, v.Message)
		}
		if sensitive.Recommendation != "" {
			result.SafeActions = append([]string{sensitive.Recommendation}, result.SafeActions...)
		}
	}

	if len(urlSafety.SuspiciousURLs) > 0 {
		result.RiskScore = ClampScore(result.RiskScore + urlSafety.RiskScore)
		for _, finding := range urlSafety.SuspiciousURLs {
			name := finding.Domain
			if name == "" {
				name = finding.URL
			}
			result.Reasons = append(result.Reasons,
				fmt.Sprintf("suspicious URL %s: %s", name, strings.Join(finding.Reasons, ", ")))
		}
	}

	if len(pattern.Anomalies) > 0 {
		result.RiskScore = ClampScore(result.RiskScore + pattern.RiskScore)
		for _, anomaly := range pattern.Anomalies {
			result.Reasons = append(result.Reasons, fmt.Sprintf("%s: %s", anomaly.Kind, anomaly.Detail))
		}
	}

	// First re-derivation from the merged score
	switch {
	case result.RiskScore >= mergeHighThreshold:
		result.IsSmishing = true
		result.RiskLevel = RiskLevelHigh
	case result.RiskScore >= mergeMediumThreshold:
		result.RiskLevel = RiskLevelMedium
	default:
		result.RiskLevel = RiskLevelLow
	}

	// Final weighted merge: fold floor(local_risk * 0.3) back in and
	// re-derive the level with the coarser thresholds. is_smishing
	// keeps its first-pass value.
	result.RiskScore = ClampScore(result.RiskScore + localRisk*3/10)
	switch {
	case result.RiskScore >= finalHighThreshold:
		result.RiskLevel = RiskLevelHigh
	case result.RiskScore >= finalMediumThreshold:
		result.RiskLevel = RiskLevelMedium
	default:
		result.RiskLevel = RiskLevelLow
	}

	result.SecurityChecks = &SecurityChecks{
		SensitiveLinkAbuse: sensitive,
		URLSafety:          urlSafety,
		SendingPattern:     pattern,
	}

	return result
}

// classify obtains a classifier verdict, consulting the cache first.
// A malformed response degrades to the fixed fallback verdict with the
// parse failure detail returned alongside; only transport-level
// failures surface as errors.
func (s *AnalyzerService) classify(ctx context.Context, text string, tier ModelTier, modelName string) (*ClassifierOutput, string, error) {
	key := cacheKey(modelName, text)

	if s.cacheEnabled && s.cache != nil {
		if entry, err := s.cache.Get(ctx, key); err == nil {
			s.logger.Debug("Classifier cache hit", zap.String("model", modelName))
			output := entry.Output
			return &output, "", nil
		}
	}

	output, err := s.classifier.ClassifyText(ctx, text, tier)
	if err != nil {
		if errors.Is(err, ErrMalformedOutput) {
			s.logger.Warn("Classifier returned malformed output, using fallback verdict", zap.Error(err))
			return &ClassifierOutput{
				RiskScore:   fallbackRiskScore,
				IsSmishing:  false,
				RiskLevel:   RiskLevelMedium,
				Reasons:     []string{reasonAnalysisError},
				SafeActions: []string{safeActionConsult},
			}, err.Error(), nil
		}
		return nil, "", err
	}

	if s.cacheEnabled && s.cache != nil {
		entry := &CacheEntry{
			Key:       key,
			ModelName: modelName,
			Output:    *output,
			LastSeen:  time.Now(),
			ExpiresAt: time.Now().Add(s.cacheTTL),
		}
		if err := s.cache.Set(ctx, entry); err != nil {
			s.logger.Error("Failed to update classifier cache", zap.Error(err))
		}
	}

	return output, "", nil
}

// cacheKey derives a cache key from the model and the full message
// text. Hashing keeps message bodies out of cache keys.
func cacheKey(modelName, text string) string {
	sum := sha256.Sum256([]byte(modelName + "\n" + text))
	return hex.EncodeToString(sum[:])
}
