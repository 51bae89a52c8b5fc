package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeClassifier struct {
	output   *ClassifierOutput
	err      error
	calls    int
	lastTier ModelTier
}

func (f *fakeClassifier) ClassifyText(ctx context.Context, text string, tier ModelTier) (*ClassifierOutput, error) {
	f.calls++
	f.lastTier = tier
	if f.err != nil {
		return nil, f.err
	}
	output := *f.output
	return &output, nil
}

func (f *fakeClassifier) ModelName(tier ModelTier) string {
	if tier == TierEscalated {
		return "model-large"
	}
	return "model-small"
}

type fakeRules struct {
	sensitive SensitiveLinkResult
	urls      URLSafetyResult
	pattern   PatternResult
}

func (f *fakeRules) CheckSensitiveLinkAbuse(text string) SensitiveLinkResult { return f.sensitive }

func (f *fakeRules) CheckURLSafety(text string) URLSafetyResult { return f.urls }

func (f *fakeRules) CheckSendingPattern(text, sender string, timestamp time.Time) PatternResult {
	result := f.pattern
	result.Timestamp = timestamp
	return result
}

type fakeTrust struct{ trusted string }

func (f *fakeTrust) IsTrusted(sender string) bool { return sender == f.trusted }

type fakeCache struct {
	entry     *CacheEntry
	setCalled int
}

func (f *fakeCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	if f.entry == nil {
		return nil, errors.New("not found")
	}
	return f.entry, nil
}

func (f *fakeCache) Set(ctx context.Context, entry *CacheEntry) error {
	f.setCalled++
	f.entry = entry
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, key string) error { return nil }

func (f *fakeCache) Cleanup(ctx context.Context) error { return nil }

func newTestService(classifier Classifier, rules RuleEngine) *AnalyzerService {
	return NewAnalyzerService(classifier, rules, nil, nil, zap.NewNop(), false, 0, 50)
}

func cleanVerdict() *ClassifierOutput {
	return &ClassifierOutput{
		RiskScore:   10,
		IsSmishing:  false,
		RiskLevel:   RiskLevelLow,
		Reasons:     []string{"model reason"},
		SafeActions: []string{"do x"},
	}
}

func TestTrustedSenderBypassesAnalysis(t *testing.T) {
	classifier := &fakeClassifier{output: cleanVerdict()}
	service := NewAnalyzerService(classifier, &fakeRules{}, &fakeTrust{trusted: "1588-0000"}, nil,
		zap.NewNop(), false, 0, 50)

	result := service.AnalyzeText(context.Background(), &Message{Text: "statement ready", Sender: "1588-0000"})
	assert.Equal(t, 0, result.RiskScore)
	assert.False(t, result.IsSmishing)
	assert.Equal(t, RiskLevelSafe, result.RiskLevel)
	assert.Equal(t, trustedTierName, result.UsedModelTier)
	assert.Equal(t, 0, classifier.calls)
	assert.Nil(t, result.SecurityChecks)
}

func TestClassifierFailureReturnsTerminalResult(t *testing.T) {
	classifier := &fakeClassifier{err: errors.New("connection refused")}
	rules := &fakeRules{urls: URLSafetyResult{RiskScore: 30}}
	service := newTestService(classifier, rules)

	result := service.AnalyzeText(context.Background(), &Message{Text: "hello"})
	assert.Equal(t, 0, result.RiskScore)
	assert.False(t, result.IsSmishing)
	assert.Equal(t, RiskLevelError, result.RiskLevel)
	require.Len(t, result.Reasons, 1)
	assert.Contains(t, result.Reasons[0], "error during analysis")
	assert.Contains(t, result.Reasons[0], "connection refused")
	assert.Equal(t, []string{safeActionRetry}, result.SafeActions)
	assert.Equal(t, "connection refused", result.Error)
	assert.Nil(t, result.SecurityChecks)
	assert.Equal(t, 30, result.LocalRisk)
}

func TestMalformedOutputFallsBackAndStillMerges(t *testing.T) {
	classifier := &fakeClassifier{err: fmt.Errorf("%w: missing required field", ErrMalformedOutput)}
	rules := &fakeRules{
		urls: URLSafetyResult{
			SuspiciousURLs: []URLFinding{{URL: "https://bit.ly/x", Domain: "bit.ly", RiskScore: 40, Reasons: []string{"shortened URL"}}},
			RiskScore:      40,
			URLCount:       1,
		},
	}
	service := newTestService(classifier, rules)

	result := service.AnalyzeText(context.Background(), &Message{Text: "see https://bit.ly/x"})
	// Fallback verdict (50, medium) merged with the URL signal
	assert.Equal(t, reasonAnalysisError, result.Reasons[0])
	assert.Contains(t, result.SafeActions, safeActionConsult)
	assert.NotEmpty(t, result.Error)
	require.NotNil(t, result.SecurityChecks)
	// 50 + 40 = 90 merged, then + floor(40*0.3) clamps at 100
	assert.Equal(t, 100, result.RiskScore)
	assert.True(t, result.IsSmishing)
	assert.Equal(t, RiskLevelHigh, result.RiskLevel)
}

func TestMergeOrderingAndEscalation(t *testing.T) {
	classifier := &fakeClassifier{output: cleanVerdict()}
	rules := &fakeRules{
		sensitive: SensitiveLinkResult{
			IsViolation:    true,
			RiskScore:      35,
			Violations:     []Violation{{Kind: "sensitive-action-via-link", Keyword: "password", Message: "sensitive hit"}},
			Recommendation: "use the app",
		},
		urls: URLSafetyResult{
			SuspiciousURLs: []URLFinding{{URL: "https://bit.ly/x", Domain: "bit.ly", RiskScore: 40, Reasons: []string{"shortened URL"}}},
			RiskScore:      40,
			URLCount:       1,
		},
		pattern: PatternResult{
			Anomalies: []Anomaly{{Kind: "off-hours sending", Detail: "sent at 03:00"}},
			RiskScore: 25,
		},
	}
	service := newTestService(classifier, rules)

	result := service.AnalyzeText(context.Background(), &Message{Text: "reset now https://bit.ly/x", Sender: "01012341234"})

	// All three analyzers count toward local risk when a sender exists
	assert.Equal(t, 100, result.LocalRisk)
	assert.Equal(t, TierEscalated, classifier.lastTier)
	assert.Equal(t, "model-large", result.UsedModelTier)

	assert.Equal(t, []string{
		"model reason",
		"sensitive hit",
		"suspicious URL bit.ly: shortened URL",
		"off-hours sending: sent at 03:00",
	}, result.Reasons)
	assert.Equal(t, []string{"use the app", "do x"}, result.SafeActions)

	assert.Equal(t, 100, result.RiskScore)
	assert.True(t, result.IsSmishing)
	assert.Equal(t, RiskLevelHigh, result.RiskLevel)

	require.NotNil(t, result.SecurityChecks)
	assert.True(t, result.SecurityChecks.SensitiveLinkAbuse.IsViolation)
	assert.Equal(t, 1, result.SecurityChecks.URLSafety.URLCount)
}

func TestFinalPassUsesCoarserThresholds(t *testing.T) {
	classifier := &fakeClassifier{output: cleanVerdict()}
	rules := &fakeRules{
		urls: URLSafetyResult{
			SuspiciousURLs: []URLFinding{{URL: "http://x.example", Domain: "x.example", RiskScore: 30, Reasons: []string{"URL parse failure: bad host"}}},
			RiskScore:      30,
			URLCount:       1,
		},
	}
	service := newTestService(classifier, rules)

	result := service.AnalyzeText(context.Background(), &Message{Text: "see http://x.example"})

	// Merged 10+30=40 stays "low" on the first pass, but the final
	// weighted merge (40 + floor(30*0.3) = 49) crosses the coarser
	// medium threshold. is_smishing keeps its first-pass value.
	assert.Equal(t, 30, result.LocalRisk)
	assert.Equal(t, TierDefault, classifier.lastTier)
	assert.Equal(t, 49, result.RiskScore)
	assert.Equal(t, RiskLevelMedium, result.RiskLevel)
	assert.False(t, result.IsSmishing)
}

func TestPatternExcludedFromLocalRiskWithoutSender(t *testing.T) {
	classifier := &fakeClassifier{output: cleanVerdict()}
	rules := &fakeRules{
		pattern: PatternResult{
			Anomalies: []Anomaly{{Kind: "off-hours sending", Detail: "sent at 03:00"}},
			RiskScore: 25,
		},
	}
	service := newTestService(classifier, rules)

	result := service.AnalyzeText(context.Background(), &Message{Text: "late night message"})
	assert.Equal(t, 0, result.LocalRisk)
	assert.Equal(t, TierDefault, classifier.lastTier)
	// The anomaly still appears in the merged explanation
	assert.Contains(t, result.Reasons, "off-hours sending: sent at 03:00")
}

func TestResultAlwaysWithinBounds(t *testing.T) {
	classifier := &fakeClassifier{output: &ClassifierOutput{
		RiskScore:   260,
		IsSmishing:  true,
		RiskLevel:   RiskLevelCritical,
		Reasons:     []string{"obvious scam"},
		SafeActions: []string{"delete it"},
	}}
	rules := &fakeRules{
		sensitive: SensitiveLinkResult{IsViolation: true, RiskScore: 100, Violations: []Violation{{Message: "v"}}},
		urls:      URLSafetyResult{RiskScore: 100, SuspiciousURLs: []URLFinding{{RiskScore: 100}}, URLCount: 1},
		pattern:   PatternResult{RiskScore: 100, Anomalies: []Anomaly{{Kind: "k", Detail: "d"}}},
	}
	service := newTestService(classifier, rules)

	result := service.AnalyzeText(context.Background(), &Message{Text: "scam", Sender: "01012341234"})
	assert.GreaterOrEqual(t, result.RiskScore, 0)
	assert.LessOrEqual(t, result.RiskScore, 100)
	assert.Contains(t, []string{
		RiskLevelSafe, RiskLevelLow, RiskLevelMedium, RiskLevelHigh, RiskLevelCritical, RiskLevelError,
	}, result.RiskLevel)
}

func TestCacheHitSkipsClassifier(t *testing.T) {
	classifier := &fakeClassifier{output: cleanVerdict()}
	cached := &fakeCache{entry: &CacheEntry{Output: *cleanVerdict()}}
	service := NewAnalyzerService(classifier, &fakeRules{}, nil, cached, zap.NewNop(), true, time.Hour, 50)

	result := service.AnalyzeText(context.Background(), &Message{Text: "hello there friend"})
	assert.Equal(t, 0, classifier.calls)
	assert.Contains(t, result.Reasons, "model reason")
}

func TestCacheMissStoresVerdict(t *testing.T) {
	classifier := &fakeClassifier{output: cleanVerdict()}
	cached := &fakeCache{}
	service := NewAnalyzerService(classifier, &fakeRules{}, nil, cached, zap.NewNop(), true, time.Hour, 50)

	service.AnalyzeText(context.Background(), &Message{Text: "hello there friend"})
	assert.Equal(t, 1, classifier.calls)
	assert.Equal(t, 1, cached.setCalled)
	require.NotNil(t, cached.entry)
	assert.Equal(t, "model-small", cached.entry.ModelName)
}
