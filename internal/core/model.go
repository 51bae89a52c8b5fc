package core

import (
	"time"
)

// Message represents an incoming SMS-style text message
type Message struct {
	Text      string
	Sender    string
	Timestamp time.Time // zero value means unknown; the engine substitutes the wall clock
}

// Risk levels reported in AnalysisResult and ClassifierOutput
const (
	RiskLevelSafe     = "safe"
	RiskLevelLow      = "low"
	RiskLevelMedium   = "medium"
	RiskLevelHigh     = "high"
	RiskLevelCritical = "critical"
	RiskLevelError    = "error"
)

// ModelTier selects the capability tier of the external classifier
type ModelTier string

const (
	// TierDefault is the everyday classifier model
	TierDefault ModelTier = "default"
	// TierEscalated is the highest-capability model, requested when
	// local heuristics already indicate elevated risk
	TierEscalated ModelTier = "escalated"
)

// ClassifierOutput is the decoded verdict of the external classifier
type ClassifierOutput struct {
	RiskScore   int      `json:"risk_score"`
	IsSmishing  bool     `json:"is_smishing"`
	RiskLevel   string   `json:"risk_level"`
	Reasons     []string `json:"reasons"`
	SafeActions []string `json:"safe_actions"`
}

// URLFinding describes one suspicious URL and why it was flagged
type URLFinding struct {
	URL       string   `json:"url"`
	Domain    string   `json:"domain,omitempty"`
	RiskScore int      `json:"risk_score"`
	Reasons   []string `json:"reasons"`
}

// Violation is a sensitive-action rule hit from the correlator
type Violation struct {
	Kind    string `json:"kind"`
	Keyword string `json:"keyword,omitempty"`
	Message string `json:"message"`
}

// Anomaly is a sending-pattern rule hit
type Anomaly struct {
	Kind   string `json:"kind"`
	Detail string `json:"detail"`
}

// SensitiveLinkResult is the sensitive-action correlator's output
type SensitiveLinkResult struct {
	IsViolation    bool        `json:"is_violation"`
	RiskScore      int         `json:"risk_score"`
	Violations     []Violation `json:"violations"`
	Recommendation string      `json:"recommendation,omitempty"`
}

// URLSafetyResult is the URL risk analyzer's output
type URLSafetyResult struct {
	SuspiciousURLs []URLFinding `json:"suspicious_urls"`
	RiskScore      int          `json:"risk_score"`
	URLCount       int          `json:"url_count"`
}

// PatternResult is the sending-pattern analyzer's output
type PatternResult struct {
	Anomalies []Anomaly `json:"anomalies"`
	RiskScore int       `json:"risk_score"`
	Timestamp time.Time `json:"timestamp"`
}

// SecurityChecks bundles the detailed findings of the local analyzers
type SecurityChecks struct {
	SensitiveLinkAbuse SensitiveLinkResult `json:"sensitive_link_abuse"`
	URLSafety          URLSafetyResult     `json:"url_safety"`
	SendingPattern     PatternResult       `json:"sending_pattern"`
}

// AnalysisResult is the final fused verdict for one message.
// SecurityChecks is nil when the classifier call itself failed and no
// local merge took place.
type AnalysisResult struct {
	RiskScore      int             `json:"risk_score"`
	IsSmishing     bool            `json:"is_smishing"`
	RiskLevel      string          `json:"risk_level"`
	Reasons        []string        `json:"reasons"`
	SafeActions    []string        `json:"safe_actions"`
	SecurityChecks *SecurityChecks `json:"security_checks,omitempty"`
	UsedModelTier  string          `json:"used_model_tier,omitempty"`
	LocalRisk      int             `json:"local_risk"`
	Error          string          `json:"error,omitempty"`
	AnalyzedAt     time.Time       `json:"analyzed_at"`
	ProcessingID   string          `json:"processing_id,omitempty"`
}

// CacheEntry is one cached classifier verdict
type CacheEntry struct {
	Key       string
	ModelName string
	Output    ClassifierOutput
	LastSeen  time.Time
	ExpiresAt time.Time
}

// ClampScore clamps a risk score into [0,100]. Every aggregation step
// in the engine passes through here.
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
