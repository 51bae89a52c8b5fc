package filter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mikey/smishing-guard/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubClassifier struct{}

func (stubClassifier) ClassifyText(ctx context.Context, text string, tier core.ModelTier) (*core.ClassifierOutput, error) {
	return &core.ClassifierOutput{
		RiskScore:   15,
		IsSmishing:  false,
		RiskLevel:   core.RiskLevelLow,
		Reasons:     []string{"no strong smishing signals"},
		SafeActions: []string{},
	}, nil
}

func (stubClassifier) ModelName(tier core.ModelTier) string { return "stub-model" }

type stubRules struct{}

func (stubRules) CheckSensitiveLinkAbuse(text string) core.SensitiveLinkResult {
	return core.SensitiveLinkResult{}
}

func (stubRules) CheckURLSafety(text string) core.URLSafetyResult { return core.URLSafetyResult{} }

func (stubRules) CheckSendingPattern(text, sender string, timestamp time.Time) core.PatternResult {
	return core.PatternResult{Timestamp: timestamp}
}

func newTestFilter() *HTTPFilter {
	service := core.NewAnalyzerService(stubClassifier{}, stubRules{}, nil, nil, zap.NewNop(), false, 0, 50)
	return NewHTTPFilter(service, zap.NewNop(), "127.0.0.1:0", time.Second, time.Second)
}

func TestHandleAnalyzeText(t *testing.T) {
	f := newTestFilter()

	body := `{"text":"check https://example.com","sender":"15880000","timestamp":"2026-03-14T12:30:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/analyze/text", strings.NewReader(body))
	rec := httptest.NewRecorder()

	f.handleAnalyzeText(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var result core.AnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, core.RiskLevelLow, result.RiskLevel)
	assert.Equal(t, "stub-model", result.UsedModelTier)
	assert.NotNil(t, result.SecurityChecks)
}

func TestHandleAnalyzeTextRejectsEmptyText(t *testing.T) {
	f := newTestFilter()

	req := httptest.NewRequest(http.MethodPost, "/analyze/text", strings.NewReader(`{"text":"  "}`))
	rec := httptest.NewRecorder()

	f.handleAnalyzeText(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAnalyzeTextRejectsBadTimestamp(t *testing.T) {
	f := newTestFilter()

	req := httptest.NewRequest(http.MethodPost, "/analyze/text",
		strings.NewReader(`{"text":"hello","timestamp":"yesterday"}`))
	rec := httptest.NewRecorder()

	f.handleAnalyzeText(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAnalyzeTextRejectsMalformedBody(t *testing.T) {
	f := newTestFilter()

	req := httptest.NewRequest(http.MethodPost, "/analyze/text", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	f.handleAnalyzeText(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	f := newTestFilter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	f.handleHealth(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}
