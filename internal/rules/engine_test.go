package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordResetShortenerScenario(t *testing.T) {
	e := newTestEngine()
	text := "[Web발신] 비밀번호 재설정: https://bit.ly/abc123"

	sensitive := e.CheckSensitiveLinkAbuse(text)
	assert.True(t, sensitive.IsViolation)

	urlSafety := e.CheckURLSafety(text)
	require.Len(t, urlSafety.SuspiciousURLs, 1)
	assert.Equal(t, "bit.ly", urlSafety.SuspiciousURLs[0].Domain)
	assert.Contains(t, urlSafety.SuspiciousURLs[0].Reasons, "shortened URL")

	assert.GreaterOrEqual(t, sensitive.RiskScore+urlSafety.RiskScore, 75)
}

func TestBankBrandFromPersonalNumberScenario(t *testing.T) {
	e := newTestEngine()

	result := e.CheckSendingPattern("고객님 신한은행 계좌 점검 안내입니다 확인 부탁드립니다", "01099999999", noon)
	assert.Contains(t, anomalyKinds(result.Anomalies), AnomalySenderMismatch)
	assert.GreaterOrEqual(t, result.RiskScore, 40)
}
