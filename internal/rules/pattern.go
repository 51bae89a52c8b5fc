package rules

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mikey/smishing-guard/internal/core"
	"github.com/mikey/smishing-guard/internal/utils"
)

// Anomaly kinds produced by the sending-pattern analyzer
const (
	AnomalyOffHours       = "off-hours sending"
	AnomalySenderMismatch = "sender/brand mismatch"
	AnomalyBulkSending    = "bulk sending burst"
	AnomalyLength         = "abnormal length"
	AnomalySpecialChars   = "excess special characters"
)

// personalMobilePrefix is the domestic personal mobile number prefix.
// Institutions send from registered short codes, not personal numbers.
const personalMobilePrefix = "010"

// institutionNames are well-known e-commerce, bank and government
// brands commonly impersonated in smishing campaigns.
var institutionNames = []string{
	"쿠팡", "네이버", "카카오", "은행", "KB", "신한", "우리", "NH", "정부", "경찰", "국세청",
}

// specialCharSet is the punctuation/symbol class counted for density
const specialCharSet = "!@#$%^&*()_+=[]{};:'\",.<>?/\\|`~"

const (
	offHoursEnd = 6 // [00:00, 06:00)

	burstWindow   = 50
	burstMinCount = 10
	burstInterval = 5 * time.Minute

	minTextLength = 20
	maxTextLength = 500

	maxSpecialChars = 10

	historyPrefixLen = 50

	riskOffHours      = 25
	riskImpersonation = 40
	riskBurst         = 35
	riskTooShort      = 10
	riskTooLong       = 15
	riskSpecialChars  = 20
)

// CheckSendingPattern flags behavioral anomalies for the current
// message against the bounded sender history, then records the message
// in the history. The burst lookup and the append are a single atomic
// step on the store.
func (e *Engine) CheckSendingPattern(text, sender string, timestamp time.Time) core.PatternResult {
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	var anomalies []core.Anomaly
	risk := 0

	// Legitimate institutions rarely message between midnight and 6am
	if hour := timestamp.Hour(); hour < offHoursEnd {
		anomalies = append(anomalies, core.Anomaly{
			Kind:   AnomalyOffHours,
			Detail: fmt.Sprintf("sent at %02d:00; legitimate organizations rarely message before 06:00", hour),
		})
		risk += riskOffHours
	}

	if sender != "" && strings.HasPrefix(sender, personalMobilePrefix) {
		for _, name := range institutionNames {
			if strings.Contains(text, name) {
				anomalies = append(anomalies, core.Anomaly{
					Kind:   AnomalySenderMismatch,
					Detail: fmt.Sprintf("personal mobile number while naming %q", name),
				})
				risk += riskImpersonation
				break
			}
		}
	}

	matches := e.history.Observe(SenderHistoryEntry{
		Sender:     sender,
		Timestamp:  timestamp,
		TextPrefix: utils.PrefixRunes(text, historyPrefixLen),
	}, burstWindow)

	if sender != "" && len(matches) >= burstMinCount {
		nthRecent := matches[len(matches)-burstMinCount]
		if timestamp.Sub(nthRecent.Timestamp) <= burstInterval {
			anomalies = append(anomalies, core.Anomaly{
				Kind:   AnomalyBulkSending,
				Detail: fmt.Sprintf("%d messages within 5 minutes; automated sending suspected", len(matches)),
			})
			risk += riskBurst
		}
	}

	// At most one length anomaly per message
	switch length := utf8.RuneCountInString(text); {
	case length < minTextLength:
		anomalies = append(anomalies, core.Anomaly{
			Kind:   AnomalyLength,
			Detail: "message abnormally short; too little content to be legitimate",
		})
		risk += riskTooShort
	case length > maxTextLength:
		anomalies = append(anomalies, core.Anomaly{
			Kind:   AnomalyLength,
			Detail: "message abnormally long; excessive content",
		})
		risk += riskTooLong
	}

	if count := countSpecialChars(text); count > maxSpecialChars {
		anomalies = append(anomalies, core.Anomaly{
			Kind:   AnomalySpecialChars,
			Detail: fmt.Sprintf("%d special characters; spam likely", count),
		})
		risk += riskSpecialChars
	}

	return core.PatternResult{
		Anomalies: anomalies,
		RiskScore: core.ClampScore(risk),
		Timestamp: timestamp,
	}
}

// countSpecialChars counts characters from the fixed symbol class
func countSpecialChars(text string) int {
	count := 0
	for _, r := range text {
		if strings.ContainsRune(specialCharSet, r) {
			count++
		}
	}
	return count
}
