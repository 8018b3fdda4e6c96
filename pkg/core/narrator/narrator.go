// Package narrator writes the executive summary paragraph of a report,
// either from the insight counts alone or through Gemini.
package narrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"erp_analytics/pkg/core/insight"

	"go.uber.org/zap"
)

// ErrEmptyNarrative is returned when a narrator produced no text.
var ErrEmptyNarrative = errors.New("narrator returned empty text")

// Narrator writes the narrative section of a report.
type Narrator interface {
	Narrate(ctx context.Context, r insight.Report) (string, error)
}

// =============================================================================
// STATIC
// =============================================================================

// StaticNarrator builds the summary from the report itself. It never fails.
type StaticNarrator struct {
	// MaxHighlights caps the insights quoted per severity; 0 means 3.
	MaxHighlights int
}

var _ Narrator = StaticNarrator{}

func (n StaticNarrator) Narrate(_ context.Context, r insight.Report) (string, error) {
	limit := n.MaxHighlights
	if limit <= 0 {
		limit = 3
	}
	c := r.Counts
	var b strings.Builder
	if c.Critical+c.Warning+c.Positive+c.Neutral == 0 {
		b.WriteString("분석 대상 데이터에서 특이사항이 발견되지 않았습니다.")
		return b.String(), nil
	}

	switch {
	case c.Critical > 0:
		fmt.Fprintf(&b, "즉시 조치가 필요한 위험 신호가 %d건 있습니다.", c.Critical)
	case c.Warning > 0:
		fmt.Fprintf(&b, "위험 신호는 없으나 주의가 필요한 항목이 %d건 있습니다.", c.Warning)
	default:
		b.WriteString("전반적으로 양호한 상태입니다.")
	}

	critical := titles(r, insight.Critical, limit)
	warning := titles(r, insight.Warning, limit)
	positive := titles(r, insight.Positive, limit)
	if len(critical) > 0 {
		fmt.Fprintf(&b, " 우선 %s 항목을 점검하십시오.", strings.Join(critical, ", "))
	}
	if len(warning) > 0 {
		fmt.Fprintf(&b, " 이어서 %s 추이를 관찰할 필요가 있습니다.", strings.Join(warning, ", "))
	}
	if len(positive) > 0 {
		fmt.Fprintf(&b, " 반면 %s 부문은 긍정적입니다.", strings.Join(positive, ", "))
	}
	return b.String(), nil
}

func titles(r insight.Report, sev insight.Severity, limit int) []string {
	var out []string
	for _, s := range r.Sections {
		for _, ins := range s.Insights {
			if ins.Severity == sev && len(out) < limit {
				out = append(out, ins.Title)
			}
		}
	}
	return out
}

// =============================================================================
// FALLBACK
// =============================================================================

// Fallback tries Primary and uses Secondary when it fails.
type Fallback struct {
	Primary   Narrator
	Secondary Narrator
	Log       *zap.Logger
}

func (f Fallback) Narrate(ctx context.Context, r insight.Report) (string, error) {
	if f.Primary != nil {
		text, err := f.Primary.Narrate(ctx, r)
		if err == nil {
			return text, nil
		}
		if f.Log != nil {
			f.Log.Warn("primary narrator failed, using fallback", zap.Error(err))
		}
	}
	if f.Secondary == nil {
		return "", ErrEmptyNarrative
	}
	return f.Secondary.Narrate(ctx, r)
}

// New returns a Gemini narrator backed by the static one when apiKey is set,
// otherwise the static narrator alone.
func New(apiKey, model string, log *zap.Logger) Narrator {
	if apiKey == "" {
		return StaticNarrator{}
	}
	return Fallback{
		Primary:   &GeminiNarrator{APIKey: apiKey, Model: model},
		Secondary: StaticNarrator{},
		Log:       log,
	}
}

// Apply fills the report's narrative. Errors leave it unchanged.
func Apply(ctx context.Context, n Narrator, r *insight.Report) error {
	text, err := n.Narrate(ctx, *r)
	if err != nil {
		return err
	}
	r.Narrative = text
	return nil
}
