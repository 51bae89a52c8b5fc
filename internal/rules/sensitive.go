package rules

import (
	"fmt"
	"strings"

	"github.com/mikey/smishing-guard/internal/core"
	"github.com/mikey/smishing-guard/internal/utils"
)

// Violation kinds produced by the sensitive-action correlator
const (
	ViolationSensitiveLink = "sensitive-action-via-link"
	ViolationUrgencyCombo  = "urgency-plus-sensitive-action"
)

// RecommendationOpenApp is the safe action attached whenever a
// sensitive-action violation is present.
const RecommendationOpenApp = "Open the official app directly to check; do not follow links inside the message."

// sensitiveActionKeywords cover password/reset, payment/refund,
// national-ID, account/card, verification and login terms. Korean and
// English synonyms are both recognized; matching is on lower-cased
// literal substrings.
var sensitiveActionKeywords = []string{
	"비밀번호", "password", "재설정", "reset",
	"결제", "payment", "환불", "refund",
	"주민등록", "주민번호", "신분증",
	"계좌", "account", "카드", "card",
	"인증", "본인확인", "verification",
	"로그인", "login", "접속",
}

// urgencyKeywords are pressure words pushing immediate action
var urgencyKeywords = []string{
	"클릭", "바로", "즉시", "지금", "긴급", "오늘", "24시간",
	"click", "right away", "immediately", "now", "urgent", "today", "24 hours",
}

const (
	riskSensitiveLink = 35
	riskUrgencyCombo  = 30
)

// CheckSensitiveLinkAbuse scores the text for sensitive actions being
// steered through a link, and for the urgency + sensitive-action +
// link combination.
func (e *Engine) CheckSensitiveLinkAbuse(text string) core.SensitiveLinkResult {
	urls := ExtractURLs(text)
	lower := strings.ToLower(utils.FoldCompat(text))

	var violations []core.Violation
	risk := 0

	if len(urls) > 0 {
		for _, keyword := range sensitiveActionKeywords {
			if strings.Contains(lower, keyword) {
				violations = append(violations, core.Violation{
					Kind:    ViolationSensitiveLink,
					Keyword: keyword,
					Message: fmt.Sprintf("%q action steered through a link", keyword),
				})
				risk += riskSensitiveLink
			}
		}
	}

	hasUrgency := containsAny(lower, urgencyKeywords)
	hasSensitive := containsAny(lower, sensitiveActionKeywords)
	if hasUrgency && hasSensitive && len(urls) > 0 {
		violations = append(violations, core.Violation{
			Kind:    ViolationUrgencyCombo,
			Message: "urgency language steering a sensitive action through a link",
		})
		risk += riskUrgencyCombo
	}

	result := core.SensitiveLinkResult{
		IsViolation: len(violations) > 0,
		RiskScore:   core.ClampScore(risk),
		Violations:  violations,
	}
	if result.IsViolation {
		result.Recommendation = RecommendationOpenApp
	}
	return result
}

// containsAny reports whether any keyword occurs in text as a substring
func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
