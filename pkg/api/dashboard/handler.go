// Package dashboard exposes uploads, dashboard snapshots, scenarios and the
// report over HTTP.
package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"erp_analytics/pkg/core/calc"
	coreDashboard "erp_analytics/pkg/core/dashboard"
	"erp_analytics/pkg/core/ingest"
	"erp_analytics/pkg/core/insight"
	"erp_analytics/pkg/core/narrator"
	"erp_analytics/pkg/core/profitability"
	"erp_analytics/pkg/core/store"
	"erp_analytics/pkg/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SnapshotStore persists built snapshots.
type SnapshotStore interface {
	Save(ctx context.Context, s *coreDashboard.Snapshot) error
	Load(ctx context.Context, id string) (*coreDashboard.Snapshot, error)
	List(ctx context.Context, limit int) ([]store.Summary, error)
}

// Handler serves the dashboard API over one in-memory dataset.
type Handler struct {
	engine    *coreDashboard.Engine
	snapshots SnapshotStore
	narrator  narrator.Narrator
	log       *zap.Logger
	maxUpload int64

	orgs *calc.OrgRegistry

	mu      sync.RWMutex
	dataset models.Dataset
	uploads map[ingest.Kind]ingest.Result
}

// Options configures a Handler. Snapshots and Narrator may be nil.
type Options struct {
	Engine      *coreDashboard.Engine
	Snapshots   SnapshotStore
	Narrator    narrator.Narrator
	Logger      *zap.Logger
	MaxUploadMB int
}

// NewHandler creates a handler.
func NewHandler(opts Options) *Handler {
	h := &Handler{
		engine:    opts.Engine,
		snapshots: opts.Snapshots,
		narrator:  opts.Narrator,
		log:       opts.Logger,
		maxUpload: int64(opts.MaxUploadMB) << 20,
		orgs:      calc.NewOrgRegistry(),
		uploads:   map[ingest.Kind]ingest.Result{},
	}
	if h.log == nil {
		h.log = zap.NewNop()
	}
	if h.narrator == nil {
		h.narrator = narrator.StaticNarrator{}
	}
	if h.maxUpload <= 0 {
		h.maxUpload = 32 << 20
	}
	return h
}

// RegisterRoutes mounts the API under r.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.POST("/upload/:kind", h.Upload)
	r.GET("/dataset", h.DatasetStatus)
	r.DELETE("/dataset", h.ResetDataset)
	r.POST("/dashboard", h.Dashboard)
	r.POST("/whatif", h.WhatIf)
	r.POST("/sensitivity", h.Sensitivity)
	r.GET("/report", h.Report)
	r.GET("/snapshots", h.ListSnapshots)
	r.GET("/snapshots/:id", h.GetSnapshot)
}

// Response is the common envelope.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Code: 0, Message: "success", Data: data})
}

func errorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Code: status, Message: message})
}

// =============================================================================
// UPLOADS
// =============================================================================

// Upload parses one report file into the dataset slice of its kind. The
// form field "file" carries the payload; "sheet" and "header_rows" are
// optional.
func (h *Handler) Upload(c *gin.Context) {
	kind, err := ingest.ParseKind(c.Param("kind"))
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "알 수 없는 업로드 유형입니다: "+c.Param("kind"))
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "파일을 업로드하십시오")
		return
	}
	defer file.Close()

	headerRows := 0
	if v := c.PostForm("header_rows"); v != "" {
		if headerRows, err = strconv.Atoi(v); err != nil || headerRows < 0 {
			errorResponse(c, http.StatusBadRequest, "header_rows 값이 올바르지 않습니다")
			return
		}
	}
	content, err := io.ReadAll(file)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "파일을 읽을 수 없습니다")
		return
	}
	table, err := ingest.ReadSheet(bytes.NewReader(content), c.PostForm("sheet"), headerRows)
	if err != nil {
		h.log.Warn("upload unreadable", zap.String("kind", string(kind)), zap.String("file", header.Filename), zap.Error(err))
		errorResponse(c, http.StatusUnprocessableEntity, "파일 형식을 해석할 수 없습니다: "+err.Error())
		return
	}

	h.mu.Lock()
	next := h.dataset
	res, err := ingest.Parse(kind, table, &next)
	if err == nil {
		h.dataset = next
		h.uploads[kind] = res
		h.orgs.Replace(next.Orgs())
	}
	h.mu.Unlock()
	if err != nil {
		h.log.Warn("upload rejected", zap.String("kind", string(kind)), zap.String("file", header.Filename), zap.Error(err))
		errorResponse(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	h.log.Info("upload parsed",
		zap.String("kind", string(kind)),
		zap.String("file", header.Filename),
		zap.Int("rows", res.Rows),
		zap.Int("warnings", len(res.Warnings)+res.DroppedWarnings))
	success(c, res)
}

// DatasetStatus lists the uploads held and the organizations they cover.
func (h *Handler) DatasetStatus(c *gin.Context) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	uploads := make([]ingest.Result, 0, len(h.uploads))
	for _, k := range ingest.Kinds {
		if r, ok := h.uploads[k]; ok {
			uploads = append(uploads, r)
		}
	}
	success(c, gin.H{"uploads": uploads, "orgs": h.orgs.Snapshot().Names()})
}

// ResetDataset drops every upload.
func (h *Handler) ResetDataset(c *gin.Context) {
	h.mu.Lock()
	h.dataset = models.Dataset{}
	h.uploads = map[ingest.Kind]ingest.Result{}
	h.orgs.Replace(nil)
	h.mu.Unlock()
	success(c, gin.H{"reset": true})
}

func (h *Handler) snapshotDataset() models.Dataset {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.dataset
}

// =============================================================================
// DASHBOARD
// =============================================================================

// DashboardRequest selects the filter and optional setting overrides
// (JSON or Hjson text applied over the configured analysis settings).
type DashboardRequest struct {
	Filter    models.Filter   `json:"filter"`
	Overrides json.RawMessage `json:"overrides,omitempty"`
	Save      *bool           `json:"save,omitempty"`
}

// Dashboard builds a snapshot and stores it unless save is false.
func (h *Handler) Dashboard(c *gin.Context) {
	var req DashboardRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		errorResponse(c, http.StatusBadRequest, "요청 형식이 올바르지 않습니다: "+err.Error())
		return
	}
	if err := h.checkOrgs(req.Filter); err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	engine, err := h.engineFor(req.Overrides)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	snap := engine.Build(h.snapshotDataset(), req.Filter)
	if h.snapshots != nil && (req.Save == nil || *req.Save) {
		if err := h.snapshots.Save(c.Request.Context(), snap); err != nil {
			h.log.Error("snapshot save failed", zap.String("id", snap.ID), zap.Error(err))
		}
	}
	success(c, snap)
}

// checkOrgs rejects filter orgs that no upload mentions. Before any upload
// every name passes.
func (h *Handler) checkOrgs(f models.Filter) error {
	if !h.orgs.Loaded() {
		return nil
	}
	known := h.orgs.Snapshot()
	var unknown []string
	for _, o := range f.Orgs {
		if !known.Contains(o) {
			unknown = append(unknown, o)
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("알 수 없는 조직입니다: %s", strings.Join(unknown, ", "))
	}
	return nil
}

// engineFor returns the configured engine, or a copy with overrides applied.
func (h *Handler) engineFor(overrides json.RawMessage) (*coreDashboard.Engine, error) {
	raw := strings.TrimSpace(string(overrides))
	if raw == "" || raw == "null" {
		return h.engine, nil
	}
	// a JSON string carries Hjson text
	var text string
	if json.Unmarshal(overrides, &text) == nil {
		raw = text
	}
	settings, err := h.engine.Settings().WithOverrides(raw)
	if err != nil {
		return nil, fmt.Errorf("설정 변경값이 올바르지 않습니다: %w", err)
	}
	return coreDashboard.NewEngine(settings), nil
}

// =============================================================================
// SCENARIOS
// =============================================================================

// WhatIfRequest applies one scenario to the filtered org profit figures.
type WhatIfRequest struct {
	Filter   models.Filter          `json:"filter"`
	Scenario profitability.Scenario `json:"scenario"`
}

// WhatIf runs a single scenario.
func (h *Handler) WhatIf(c *gin.Context) {
	var req WhatIfRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "요청 형식이 올바르지 않습니다: "+err.Error())
		return
	}
	if err := h.checkOrgs(req.Filter); err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	base := h.baseFigures(req.Filter)
	success(c, profitability.CalcWhatIfScenario(base, req.Scenario))
}

// SensitivityRequest runs a price x volume grid. A nil grid uses the
// configured one.
type SensitivityRequest struct {
	Filter models.Filter           `json:"filter"`
	Grid   *profitability.GridSpec `json:"grid,omitempty"`
}

// Sensitivity runs the sensitivity grid.
func (h *Handler) Sensitivity(c *gin.Context) {
	var req SensitivityRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		errorResponse(c, http.StatusBadRequest, "요청 형식이 올바르지 않습니다: "+err.Error())
		return
	}
	if err := h.checkOrgs(req.Filter); err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	spec := h.engine.Settings().Sensitivity
	if req.Grid != nil {
		spec = *req.Grid
	}
	grid, err := profitability.CalcSensitivityGrid(h.baseFigures(req.Filter), spec)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	success(c, grid)
}

func (h *Handler) baseFigures(f models.Filter) profitability.Figures {
	ds := h.snapshotDataset()
	return profitability.BaseFigures(calc.FilterOrgProfit(ds.OrgProfit, f))
}

// =============================================================================
// REPORT AND SNAPSHOTS
// =============================================================================

// Report renders the prioritised report for the filter in the query string:
// orgs (comma separated), from, to, cmp_from, cmp_to and format (json,
// markdown or html).
func (h *Handler) Report(c *gin.Context) {
	f := filterFromQuery(c)
	if err := h.checkOrgs(f); err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	snap := h.engine.Build(h.snapshotDataset(), f)
	report := h.engine.Report(snap, periodLabel(f.Range))
	if err := narrator.Apply(c.Request.Context(), h.narrator, &report); err != nil {
		h.log.Warn("narrative unavailable", zap.Error(err))
	}

	switch c.DefaultQuery("format", "markdown") {
	case "json":
		success(c, report)
	case "html":
		html, err := insight.RenderHTML(report)
		if err != nil {
			errorResponse(c, http.StatusInternalServerError, err.Error())
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
	case "markdown", "md":
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(insight.RenderMarkdown(report)))
	default:
		errorResponse(c, http.StatusBadRequest, "지원하지 않는 형식입니다: "+c.Query("format"))
	}
}

// GetSnapshot returns a stored snapshot.
func (h *Handler) GetSnapshot(c *gin.Context) {
	if h.snapshots == nil {
		errorResponse(c, http.StatusServiceUnavailable, "스냅샷 저장소가 설정되지 않았습니다")
		return
	}
	snap, err := h.snapshots.Load(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, store.ErrNotFound):
		errorResponse(c, http.StatusNotFound, "스냅샷을 찾을 수 없습니다")
	case errors.Is(err, store.ErrInvalidID):
		errorResponse(c, http.StatusBadRequest, "스냅샷 ID가 올바르지 않습니다")
	case err != nil:
		h.log.Error("snapshot load failed", zap.String("id", c.Param("id")), zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, "스냅샷을 불러오지 못했습니다")
	default:
		success(c, snap)
	}
}

// ListSnapshots lists stored snapshots, newest first.
func (h *Handler) ListSnapshots(c *gin.Context) {
	if h.snapshots == nil {
		success(c, []store.Summary{})
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	list, err := h.snapshots.List(c.Request.Context(), limit)
	if err != nil {
		h.log.Error("snapshot list failed", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, "스냅샷 목록을 불러오지 못했습니다")
		return
	}
	success(c, list)
}

// =============================================================================
// HELPERS
// =============================================================================

// bindOptionalJSON binds a JSON body, accepting an empty one.
func bindOptionalJSON(c *gin.Context, v any) error {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil
	}
	return c.ShouldBindJSON(v)
}

func filterFromQuery(c *gin.Context) models.Filter {
	var f models.Filter
	for _, o := range strings.Split(c.Query("orgs"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			f.Orgs = append(f.Orgs, o)
		}
	}
	f.Range = models.DateRange{From: c.Query("from"), To: c.Query("to")}
	f.Comparison = models.DateRange{From: c.Query("cmp_from"), To: c.Query("cmp_to")}
	return f
}

func periodLabel(r models.DateRange) string {
	switch {
	case r.IsZero():
		return "전체 기간"
	case r.From == "":
		return "~ " + r.To
	case r.To == "":
		return r.From + " ~"
	}
	return r.From + " ~ " + r.To
}
