package insight

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"erp_analytics/pkg/core/utils"

	"github.com/google/uuid"
)

// Meta describes the report being built.
type Meta struct {
	Title       string
	Period      string
	GeneratedAt time.Time
}

// Section groups the insights of one category.
type Section struct {
	Category Category  `json:"category"`
	Title    string    `json:"title"`
	Severity Severity  `json:"severity"` // most severe insight in the section
	Insights []Insight `json:"insights"`
}

// Counts tallies insights by severity.
type Counts struct {
	Critical int `json:"critical"`
	Warning  int `json:"warning"`
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
}

// Headline is one row of the report's KPI table.
type Headline struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Report is the assembled analysis report.
type Report struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Period      string     `json:"period"`
	GeneratedAt time.Time  `json:"generated_at"`
	Counts      Counts     `json:"counts"`
	Headlines   []Headline `json:"headlines"`
	Sections    []Section  `json:"sections"`
	Narrative   string     `json:"narrative,omitempty"`
}

// BuildReport runs the rules and arranges the result into sections. Sections
// holding a critical insight come first, then warnings, then the rest; ties
// keep the category order of Categories.
func BuildReport(in Input, meta Meta) Report {
	insights := SortBySeverity(Generate(in))
	r := Report{
		ID:          uuid.NewString(),
		Title:       meta.Title,
		Period:      meta.Period,
		GeneratedAt: meta.GeneratedAt,
		Headlines:   headlines(in),
	}
	if r.Title == "" {
		r.Title = "영업 분석 리포트"
	}
	if r.GeneratedAt.IsZero() {
		r.GeneratedAt = time.Now()
	}

	byCat := map[Category][]Insight{}
	for _, ins := range insights {
		byCat[ins.Category] = append(byCat[ins.Category], ins)
		switch ins.Severity {
		case Critical:
			r.Counts.Critical++
		case Warning:
			r.Counts.Warning++
		case Positive:
			r.Counts.Positive++
		default:
			r.Counts.Neutral++
		}
	}
	for _, cat := range Categories {
		list := byCat[cat]
		if len(list) == 0 {
			continue
		}
		r.Sections = append(r.Sections, Section{
			Category: cat,
			Title:    cat.Label(),
			Severity: list[0].Severity,
			Insights: list,
		})
	}
	sort.SliceStable(r.Sections, func(i, j int) bool {
		return severityRank[r.Sections[i].Severity] < severityRank[r.Sections[j].Severity]
	})
	return r
}

func headlines(in Input) []Headline {
	o := in.Overview
	out := []Headline{
		{Label: "매출", Value: utils.FormatEok(o.TotalSales)},
		{Label: "수주", Value: utils.FormatEok(o.TotalOrders)},
		{Label: "수금", Value: utils.FormatEok(o.TotalCollections)},
		{Label: "수금률", Value: utils.FormatPercent(o.CollectionRate)},
	}
	if o.SalesPlan > 0 {
		out = append(out, Headline{Label: "계획달성률", Value: utils.FormatPercent(o.PlanAchievement)})
	}
	if o.SalesActual != 0 {
		out = append(out,
			Headline{Label: "매출총이익률", Value: utils.FormatPercent(o.GrossMargin)},
			Headline{Label: "영업이익률", Value: utils.FormatPercent(o.OperatingMargin)})
	}
	if in.DSOMeasured {
		out = append(out, Headline{Label: "DSO", Value: utils.FormatDays(in.DSO)})
	}
	return out
}

var severityBadge = map[Severity]string{
	Critical: "[위험]",
	Warning:  "[주의]",
	Positive: "[긍정]",
	Neutral:  "[참고]",
}

// RenderMarkdown writes the report as GitHub-flavoured markdown.
func RenderMarkdown(r Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", r.Title)
	if r.Period != "" {
		fmt.Fprintf(&b, "- 기간: %s\n", r.Period)
	}
	fmt.Fprintf(&b, "- 생성: %s\n", r.GeneratedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "- 요약: 위험 %d · 주의 %d · 긍정 %d · 참고 %d\n\n",
		r.Counts.Critical, r.Counts.Warning, r.Counts.Positive, r.Counts.Neutral)

	if len(r.Headlines) > 0 {
		b.WriteString("## 핵심 지표\n\n| 지표 | 값 |\n|---|---|\n")
		for _, h := range r.Headlines {
			fmt.Fprintf(&b, "| %s | %s |\n", h.Label, h.Value)
		}
		b.WriteString("\n")
	}

	if r.Narrative != "" {
		b.WriteString("## 종합 의견\n\n")
		b.WriteString(strings.TrimSpace(r.Narrative))
		b.WriteString("\n\n")
	}

	for _, s := range r.Sections {
		fmt.Fprintf(&b, "## %s\n\n", s.Title)
		for _, ins := range s.Insights {
			fmt.Fprintf(&b, "- %s **%s**: %s\n", severityBadge[ins.Severity], ins.Title, ins.Message)
		}
		b.WriteString("\n")
	}
	if len(r.Sections) == 0 {
		b.WriteString("특이사항이 없습니다.\n")
	}
	return b.String()
}

// RenderHTML converts the markdown rendering to HTML.
func RenderHTML(r Report) (string, error) {
	html, err := utils.MarkdownToHTML(RenderMarkdown(r))
	if err != nil {
		return "", fmt.Errorf("render report %s: %w", r.ID, err)
	}
	return html, nil
}
