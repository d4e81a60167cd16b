package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/rentability/internal/analysis"
	"github.com/iwvelando/rentability/internal/config"
	"github.com/iwvelando/rentability/internal/export"
	"github.com/iwvelando/rentability/internal/metrics"
	"github.com/iwvelando/rentability/internal/property"
	"github.com/iwvelando/rentability/internal/reconcile"
	"github.com/iwvelando/rentability/pkg/constants"
	"github.com/iwvelando/rentability/pkg/mathutil"
	"github.com/iwvelando/rentability/pkg/welcometax"
	"go.uber.org/zap"
)

// Options configure the HTTP handler. Zero values select defaults.
type Options struct {
	MaxUploadSize int64
	Version       string
	Engine        *analysis.Engine
	LockedFields  *reconcile.LockedFields
	Metrics       *metrics.Metrics
	Now           func() time.Time
}

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	engine        *analysis.Engine
	locked        reconcile.LockedFields
	metrics       *metrics.Metrics
	now           func() time.Time
}

// NewHandler constructs the HTTP handler that serves the analysis API.
func NewHandler(logger *zap.Logger, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	maxUploadSize := opts.MaxUploadSize
	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:        logger,
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
		engine:        opts.Engine,
		locked:        reconcile.DefaultLockedFields(),
		metrics:       opts.Metrics,
		now:           opts.Now,
	}
	if h.engine == nil {
		h.engine = analysis.NewEngine(logger, analysis.DefaultOptions())
	}
	if opts.LockedFields != nil {
		h.locked = *opts.LockedFields
	}
	if h.metrics == nil {
		h.metrics = metrics.New(metrics.Options{})
	}
	if h.now == nil {
		h.now = time.Now
	}

	mux := http.NewServeMux()
	mux.Handle("/api/analysis", h.instrument("/api/analysis", h.handleAnalysis))
	mux.Handle("/api/reconcile", h.instrument("/api/reconcile", h.handleReconcile))
	mux.Handle("/api/welcome-tax", h.instrument("/api/welcome-tax", h.handleWelcomeTax))
	mux.Handle("/api/export", h.instrument("/api/export", h.handleExport))
	mux.Handle("/api/import", h.instrument("/api/import", h.handleImport))
	mux.Handle("/api/version", h.instrument("/api/version", h.handleVersion))
	mux.Handle("/metrics", h.metrics.Handler())

	return mux
}

// NewServer wraps handler in an http.Server using the listen address and
// timeouts from cfg.
func NewServer(cfg *Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Address,
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeoutDuration(),
		ReadHeaderTimeout: cfg.ReadTimeoutDuration(),
	}
}

// EngineFromConfig builds the engine and locked fields described by an
// analysis configuration file. An empty path yields the defaults.
func EngineFromConfig(logger *zap.Logger, path string) (*analysis.Engine, reconcile.LockedFields, error) {
	if path == "" {
		return analysis.NewEngine(logger, analysis.DefaultOptions()), reconcile.DefaultLockedFields(), nil
	}
	cfg, err := config.LoadConfiguration(path)
	if err != nil {
		return nil, reconcile.LockedFields{}, fmt.Errorf("failed to load analysis config: %w", err)
	}
	opts, err := cfg.EngineOptions()
	if err != nil {
		return nil, reconcile.LockedFields{}, fmt.Errorf("invalid analysis config: %w", err)
	}
	return analysis.NewEngine(logger, opts), cfg.LockedFields, nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (h *handler) instrument(route string, fn http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		fn(rec, r)
		h.metrics.Requests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		h.metrics.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

type analysisRequest struct {
	Property     map[string]interface{}  `json:"property"`
	ExpenseMode  interface{}             `json:"expenseMode"`
	LockedFields *reconcile.LockedFields `json:"lockedFields,omitempty"`
}

type analysisResponse struct {
	Property property.Property `json:"property"`
	Patch    property.Patch    `json:"patch"`
	Analysis analysis.Result   `json:"analysis"`
	Warnings []string          `json:"warnings,omitempty"`
	Duration string            `json:"duration"`
}

type reconcileResponse struct {
	Patch property.Patch `json:"patch"`
}

type welcomeTaxResponse struct {
	Price      float64                 `json:"price"`
	WelcomeTax float64                 `json:"welcomeTax"`
	Rounded    int64                   `json:"rounded"`
	Brackets   []welcometax.BracketTax `json:"brackets"`
}

type importResponse struct {
	ID          string            `json:"id"`
	ExpenseMode string            `json:"expenseMode"`
	Property    property.Property `json:"property"`
	Patch       property.Patch    `json:"patch"`
	Analysis    analysis.Result   `json:"analysis"`
}

func (h *handler) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAnalysis"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	req, ok := h.decodeAnalysisRequest(w, r, op)
	if !ok {
		return
	}

	mode := analysis.ParseExpenseMode(req.ExpenseMode)
	current, patch := h.reconcile(req)
	result := h.engine.Compute(current, mode)
	elapsed := time.Since(start)

	h.logger.Info("analysis computed",
		zap.String("op", op),
		zap.String("expenseMode", mode.String()),
		zap.Int("patchedFields", len(patch)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, analysisResponse{
		Property: current,
		Patch:    patch,
		Analysis: result,
		Warnings: config.PropertyValidator(current).ValidateAll(),
		Duration: elapsed.String(),
	})
}

func (h *handler) handleReconcile(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleReconcile"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	req, ok := h.decodeAnalysisRequest(w, r, op)
	if !ok {
		return
	}

	locked := h.locked
	if req.LockedFields != nil {
		locked = *req.LockedFields
	}
	h.writeJSON(w, http.StatusOK, reconcileResponse{
		Patch: reconcile.Reconcile(property.Property(req.Property), locked),
	})
}

func (h *handler) handleWelcomeTax(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleWelcomeTax"
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	raw := strings.TrimSpace(r.URL.Query().Get("price"))
	if raw == "" {
		h.respondErrorWithOp(w, http.StatusBadRequest, "missing price parameter", op)
		return
	}
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("invalid price %q", raw), op)
		return
	}

	tax := welcometax.Compute(price)
	h.writeJSON(w, http.StatusOK, welcomeTaxResponse{
		Price:      price,
		WelcomeTax: tax,
		Rounded:    mathutil.RoundWholeInt(tax),
		Brackets:   welcometax.Breakdown(price),
	})
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleExport"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	req, ok := h.decodeAnalysisRequest(w, r, op)
	if !ok {
		return
	}

	mode := analysis.ParseExpenseMode(req.ExpenseMode)
	current, _ := h.reconcile(req)
	doc, err := export.Build(current, mode, h.engine.Compute(current, mode), h.now())
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to build export: %v", err), op)
		return
	}
	data, err := export.Marshal(doc)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode export: %v", err), op)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"id":           doc.ID,
		"documentYaml": string(data),
	})
}

func (h *handler) handleImport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleImport"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		h.respondBodyError(w, err, op)
		return
	}

	doc, err := export.Parse(data)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	mode := analysis.ParseExpenseMode(doc.ExpenseMode)
	current, patch := h.reconcile(analysisRequest{Property: doc.Property})
	h.writeJSON(w, http.StatusOK, importResponse{
		ID:          doc.ID,
		ExpenseMode: mode.String(),
		Property:    current,
		Patch:       patch,
		Analysis:    h.engine.Compute(current, mode),
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) decodeAnalysisRequest(w http.ResponseWriter, r *http.Request, op string) (analysisRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	var req analysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondBodyError(w, err, op)
		return analysisRequest{}, false
	}
	if req.Property == nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, "missing property payload", op)
		return analysisRequest{}, false
	}
	return req, true
}

// reconcile runs the locked-field reconciler through a store, the same
// single mutation point the orchestrator uses, and returns the settled
// record with the patch that was applied.
func (h *handler) reconcile(req analysisRequest) (property.Property, property.Patch) {
	locked := h.locked
	if req.LockedFields != nil {
		locked = *req.LockedFields
	}
	store := property.NewStore(property.Property(req.Property))
	patch := reconcile.Reconcile(store.CurrentValue(), locked)
	store.ApplyPatch(patch)
	return store.CurrentValue(), patch
}

func (h *handler) respondBodyError(w http.ResponseWriter, err error, op string) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("request exceeds limit of %d bytes", h.maxUploadSize), op)
		return
	}
	h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response",
			zap.String("op", "server.writeJSON"),
			zap.Error(err),
		)
	}
}
