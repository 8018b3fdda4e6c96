package narrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"erp_analytics/pkg/core/insight"

	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// ErrNoAPIKey is returned when the Gemini narrator has no key.
var ErrNoAPIKey = errors.New("gemini api key not set")

const systemPrompt = `당신은 제조·유통 기업의 영업관리 담당 임원에게 보고하는 재무 분석가입니다.
제공된 분석 리포트만 근거로 3~5문장의 한국어 종합 의견을 작성하십시오.
위험 항목을 먼저 언급하고, 수치는 리포트에 있는 값만 인용하며, 마크다운 제목이나 목록은 쓰지 마십시오.`

// generateFunc performs one generation call.
type generateFunc func(ctx context.Context, model, prompt string, cfg *genai.GenerateContentConfig) (string, error)

// GeminiNarrator asks Gemini for the summary paragraph.
type GeminiNarrator struct {
	APIKey string
	Model  string

	generate generateFunc
}

var _ Narrator = (*GeminiNarrator)(nil)

func (g *GeminiNarrator) Narrate(ctx context.Context, r insight.Report) (string, error) {
	model := g.Model
	if model == "" {
		model = DefaultModel
	}
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0.2)),
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		},
	}

	gen := g.generate
	if gen == nil {
		if g.APIKey == "" {
			return "", ErrNoAPIKey
		}
		gen = g.callGemini
	}
	text, err := gen(ctx, model, BuildPrompt(r), cfg)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyNarrative
	}
	return text, nil
}

func (g *GeminiNarrator) callGemini(ctx context.Context, model, prompt string, cfg *genai.GenerateContentConfig) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create GenAI client: %w", err)
	}
	result, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}
	return result.Text(), nil
}

// BuildPrompt renders the report without its narrative as the model input.
func BuildPrompt(r insight.Report) string {
	r.Narrative = ""
	return "다음은 영업 분석 리포트입니다.\n\n" + insight.RenderMarkdown(r)
}
