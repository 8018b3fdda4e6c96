package narrator

import (
	"context"
	"errors"
	"testing"

	"erp_analytics/pkg/core/insight"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

func sampleReport() insight.Report {
	return insight.Report{
		Title:  "영업 분석 리포트",
		Counts: insight.Counts{Critical: 1, Warning: 1, Positive: 1},
		Sections: []insight.Section{
			{Title: "수금", Insights: []insight.Insight{
				{Severity: insight.Critical, Title: "수금률 저조"},
				{Severity: insight.Positive, Title: "DSO 양호"},
			}},
			{Title: "매출", Insights: []insight.Insight{
				{Severity: insight.Warning, Title: "계획 미달"},
			}},
		},
		Narrative: "이전 의견",
	}
}

func TestStaticNarrator(t *testing.T) {
	text, err := StaticNarrator{}.Narrate(context.Background(), sampleReport())
	require.NoError(t, err)
	assert.Contains(t, text, "위험 신호가 1건")
	assert.Contains(t, text, "수금률 저조")
	assert.Contains(t, text, "계획 미달")
	assert.Contains(t, text, "DSO 양호")
}

func TestStaticNarratorEmptyReport(t *testing.T) {
	text, err := StaticNarrator{}.Narrate(context.Background(), insight.Report{})
	require.NoError(t, err)
	assert.Contains(t, text, "특이사항")
}

func TestGeminiNarratorUsesGenerator(t *testing.T) {
	var gotModel, gotPrompt string
	g := &GeminiNarrator{generate: func(_ context.Context, model, prompt string, cfg *genai.GenerateContentConfig) (string, error) {
		gotModel, gotPrompt = model, prompt
		require.NotNil(t, cfg.SystemInstruction)
		return "  요약 문단  ", nil
	}}
	text, err := g.Narrate(context.Background(), sampleReport())
	require.NoError(t, err)
	assert.Equal(t, "요약 문단", text)
	assert.Equal(t, DefaultModel, gotModel)
	assert.Contains(t, gotPrompt, "수금률 저조")
	assert.NotContains(t, gotPrompt, "이전 의견")
}

func TestGeminiNarratorWithoutKey(t *testing.T) {
	_, err := (&GeminiNarrator{}).Narrate(context.Background(), sampleReport())
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestGeminiNarratorEmptyText(t *testing.T) {
	g := &GeminiNarrator{generate: func(context.Context, string, string, *genai.GenerateContentConfig) (string, error) {
		return " ", nil
	}}
	_, err := g.Narrate(context.Background(), sampleReport())
	assert.ErrorIs(t, err, ErrEmptyNarrative)
}

func TestFallback(t *testing.T) {
	failing := &GeminiNarrator{generate: func(context.Context, string, string, *genai.GenerateContentConfig) (string, error) {
		return "", errors.New("quota exceeded")
	}}
	f := Fallback{Primary: failing, Secondary: StaticNarrator{}, Log: zap.NewNop()}
	text, err := f.Narrate(context.Background(), sampleReport())
	require.NoError(t, err)
	assert.Contains(t, text, "위험 신호")

	_, err = Fallback{Primary: failing}.Narrate(context.Background(), sampleReport())
	assert.ErrorIs(t, err, ErrEmptyNarrative)
}

func TestNewWithoutKeyIsStatic(t *testing.T) {
	assert.IsType(t, StaticNarrator{}, New("", "", nil))
	assert.IsType(t, Fallback{}, New("key", "", zap.NewNop()))
}

func TestApply(t *testing.T) {
	r := sampleReport()
	require.NoError(t, Apply(context.Background(), StaticNarrator{}, &r))
	assert.NotEqual(t, "이전 의견", r.Narrative)
}
