package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"erp_analytics/pkg/core/config"
	"erp_analytics/pkg/core/dashboard"
	"erp_analytics/pkg/core/ingest"
	"erp_analytics/pkg/core/insight"
	"erp_analytics/pkg/core/narrator"
	"erp_analytics/pkg/models"

	"go.uber.org/zap"
)

// kindFiles collects repeated -in kind=path flags.
type kindFiles []string

func (k *kindFiles) String() string     { return strings.Join(*k, ",") }
func (k *kindFiles) Set(v string) error { *k = append(*k, v); return nil }

func main() {
	var inputs kindFiles
	flag.Var(&inputs, "in", "kind=path of a report export, repeatable (kinds: "+kindList()+")")
	configPath := flag.String("config", "", "analysis settings file")
	format := flag.String("format", "markdown", "output format: markdown, html, json or snapshot")
	out := flag.String("out", "", "output file (default stdout)")
	orgs := flag.String("orgs", "", "comma separated organizations")
	from := flag.String("from", "", "first month, YYYY-MM")
	to := flag.String("to", "", "last month, YYYY-MM")
	cmpFrom := flag.String("cmp-from", "", "comparison first month")
	cmpTo := flag.String("cmp-to", "", "comparison last month")
	narrate := flag.Bool("narrate", false, "write the summary with Gemini when GEMINI_API_KEY is set")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		logger = zap.NewNop()
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if len(inputs) == 0 {
		fmt.Fprintln(os.Stderr, "usage: report -in sales=sales.xlsx [-in aging=aging.xlsx ...]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] Failed to load config: %v\n", err)
		os.Exit(1)
	}

	var ds models.Dataset
	for _, in := range inputs {
		res, err := load(in, &ds)
		if err != nil {
			fmt.Fprintf(os.Stderr, "[FATAL] %s: %v\n", in, err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "[INGEST] %s: %d rows, %d totals skipped\n", res.Kind, res.Rows, res.SkippedTotals)
		for _, w := range res.Warnings {
			fmt.Fprintf(os.Stderr, "  - %s\n", w)
		}
		if res.DroppedWarnings > 0 {
			fmt.Fprintf(os.Stderr, "  - ... %d more\n", res.DroppedWarnings)
		}
		for _, c := range res.Checks {
			if c.Status != ingest.CheckMatch {
				fmt.Fprintf(os.Stderr, "  ! %s: calculated %.0f, reported %.0f (%s)\n", c.Name, c.Calculated, c.Reported, c.Status)
			}
		}
	}

	f := models.Filter{
		Range:      models.DateRange{From: *from, To: *to},
		Comparison: models.DateRange{From: *cmpFrom, To: *cmpTo},
	}
	for _, o := range strings.Split(*orgs, ",") {
		if o = strings.TrimSpace(o); o != "" {
			f.Orgs = append(f.Orgs, o)
		}
	}

	engine := dashboard.NewEngine(cfg.Analysis)
	snap := engine.Build(ds, f)
	report := engine.Report(snap, period(f.Range))

	var n narrator.Narrator = narrator.StaticNarrator{}
	if *narrate {
		n = narrator.New(cfg.Gemini.APIKey, cfg.Gemini.Model, logger)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	if err := narrator.Apply(ctx, n, &report); err != nil {
		logger.Warn("narrative unavailable", zap.Error(err))
	}

	body, err := render(*format, snap, report)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] %v\n", err)
		os.Exit(1)
	}
	if *out == "" {
		fmt.Print(body)
		return
	}
	if err := os.WriteFile(*out, []byte(body), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "[REPORT] %d critical, %d warning insights written to %s\n",
		report.Counts.Critical, report.Counts.Warning, *out)
}

func load(arg string, ds *models.Dataset) (ingest.Result, error) {
	name, path, ok := strings.Cut(arg, "=")
	if !ok {
		return ingest.Result{}, fmt.Errorf("expected kind=path")
	}
	kind, err := ingest.ParseKind(name)
	if err != nil {
		return ingest.Result{}, err
	}
	sheet := ""
	if p, s, ok := strings.Cut(path, "#"); ok {
		path, sheet = p, s
	}
	fh, err := os.Open(path)
	if err != nil {
		return ingest.Result{}, err
	}
	defer fh.Close()
	table, err := ingest.ReadSheet(fh, sheet, 0)
	if err != nil {
		return ingest.Result{}, err
	}
	return ingest.Parse(kind, table, ds)
}

func render(format string, snap *dashboard.Snapshot, report insight.Report) (string, error) {
	switch format {
	case "markdown", "md":
		return insight.RenderMarkdown(report), nil
	case "html":
		return insight.RenderHTML(report)
	case "json":
		b, err := json.MarshalIndent(report, "", "  ")
		return string(b) + "\n", err
	case "snapshot":
		b, err := json.MarshalIndent(snap, "", "  ")
		return string(b) + "\n", err
	}
	return "", fmt.Errorf("unknown format %q", format)
}

func period(r models.DateRange) string {
	if r.IsZero() {
		return "전체 기간"
	}
	return strings.TrimSpace(r.From + " ~ " + r.To)
}

func kindList() string {
	names := make([]string, len(ingest.Kinds))
	for i, k := range ingest.Kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}
