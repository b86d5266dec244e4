package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Mapharazzo/mortgauge/internal/cache"
	"github.com/Mapharazzo/mortgauge/internal/config"
	"github.com/Mapharazzo/mortgauge/internal/metrics"
	"github.com/Mapharazzo/mortgauge/internal/projection"
	"github.com/Mapharazzo/mortgauge/internal/tracing"
	"github.com/Mapharazzo/mortgauge/pkg/constants"
	"github.com/Mapharazzo/mortgauge/pkg/loans"
	"github.com/Mapharazzo/mortgauge/pkg/mathutil"
	"github.com/Mapharazzo/mortgauge/pkg/output"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	headerProjectionID = "X-Projection-ID"
	headerNonFinite    = "X-Projection-Non-Finite"
	headerCache        = "X-Cache"

	contentTypeJSON = "application/json"
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypePDF  = "application/pdf"
)

// Options configure NewHandler.
type Options struct {
	MaxBodySize int64
	Version     string
	// Cache stores rendered responses. Nil disables caching.
	Cache    cache.CacheRepository
	CacheTTL time.Duration
	// RateLimiter bounds requests per client. Nil disables limiting.
	RateLimiter *RateLimiter
}

type handler struct {
	logger      *zap.Logger
	maxBodySize int64
	version     string
	cache       cache.CacheRepository
	cacheTTL    time.Duration
}

// NewHandler constructs the HTTP handler that serves the projection API.
func NewHandler(logger *zap.Logger, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	maxBodySize := opts.MaxBodySize
	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:      logger,
		maxBodySize: maxBodySize,
		version:     trimmedVersion,
		cache:       opts.Cache,
		cacheTTL:    opts.CacheTTL,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.handleHealth)
	r.Get("/api/version", h.handleVersion)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if opts.RateLimiter != nil {
			r.Use(opts.RateLimiter.Middleware)
		}

		// The original calculator endpoint, kept for existing clients.
		r.Post("/calculate", h.handleProjection)
		r.Post("/api/projection", h.handleProjection)
		r.Post("/api/report", h.handleReport)
		r.Post("/api/report.pdf", h.handleReportPDF)
		r.Post("/api/schedule", h.handleSchedule)
		r.Post("/api/export", h.handleConfigExport)
	})

	return r
}

// projectionRequest is the body accepted by every projection endpoint: the
// parameters plus the analysis year the calculator form sends along.
type projectionRequest struct {
	projection.Parameters
	AnalysisYears int `json:"analysisYears,omitempty"`
}

type reportResponse struct {
	MonthlyPayment float64            `json:"monthlyPayment"`
	AnalysisYear   int                `json:"analysisYear"`
	Index          int                `json:"index"`
	Snapshot       any                `json:"snapshot"`
	Summary        projection.Summary `json:"summary"`
	NonFinite      bool               `json:"nonFinite,omitempty"`
}

// scheduleResponse figures are null when the schedule overflowed.
type scheduleResponse struct {
	MonthlyPayment *float64 `json:"monthlyPayment"`
	TotalInterest  *float64 `json:"totalInterest"`
	Payments       any      `json:"payments"`
	NonFinite      bool     `json:"nonFinite,omitempty"`
}

// rendered is a response body ready to be written and cached.
type rendered struct {
	body        []byte
	contentType string
	nonFinite   bool
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) handleVersion(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleProjection(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleProjection"

	outputFormat := r.URL.Query().Get("format")
	if outputFormat == "" {
		outputFormat = constants.OutputFormatJSON
	}
	if outputFormat != constants.OutputFormatJSON && outputFormat != constants.OutputFormatCSV {
		h.respondErrorWithOp(w, http.StatusBadRequest,
			fmt.Sprintf("unsupported format %q, expected json or csv", outputFormat), op)
		return
	}

	req, ok := h.decodeRequest(w, r, op)
	if !ok {
		return
	}

	h.serve(w, r, op, "projection:"+outputFormat, req.Parameters, func(ctx context.Context) (rendered, error) {
		result, err := h.project(ctx, req.Parameters)
		if err != nil {
			return rendered{}, err
		}

		if outputFormat == constants.OutputFormatCSV {
			data, err := output.CSVFormatter{}.Format(result)
			return rendered{body: data, contentType: contentTypeCSV, nonFinite: result.NonFinite}, err
		}
		data, err := json.Marshal(output.JSONSeries(result))
		return rendered{body: data, contentType: contentTypeJSON, nonFinite: result.NonFinite}, err
	})
}

func (h *handler) handleReport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleReport"

	req, ok := h.decodeRequest(w, r, op)
	if !ok {
		return
	}
	year, err := reportYear(r, req)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	h.serve(w, r, op, fmt.Sprintf("report:%d", year), req.Parameters, func(ctx context.Context) (rendered, error) {
		result, err := h.project(ctx, req.Parameters)
		if err != nil {
			return rendered{}, err
		}
		snapshot, err := result.SnapshotForYear(year)
		if err != nil {
			return rendered{}, err
		}

		summary := result.Summary()
		response := reportResponse{
			MonthlyPayment: result.MonthlyPayment,
			AnalysisYear:   year,
			Index:          projection.AnalysisIndex(year),
			Snapshot:       output.JSONSnapshot(snapshot),
			Summary:        summary,
			NonFinite:      result.NonFinite,
		}
		if result.NonFinite {
			// Summary figures may be NaN; only the flags survive encoding.
			response.MonthlyPayment = 0
			response.Summary = projection.Summary{Months: summary.Months, NonFinite: true}
		}
		data, err := json.Marshal(response)
		return rendered{body: data, contentType: contentTypeJSON, nonFinite: result.NonFinite}, err
	})
}

func (h *handler) handleReportPDF(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleReportPDF"

	req, ok := h.decodeRequest(w, r, op)
	if !ok {
		return
	}
	year, err := reportYear(r, req)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	h.serve(w, r, op, fmt.Sprintf("report.pdf:%d", year), req.Parameters, func(ctx context.Context) (rendered, error) {
		result, err := h.project(ctx, req.Parameters)
		if err != nil {
			return rendered{}, err
		}
		data, err := output.PDFFormatter{Options: output.Options{Year: year}}.Format(result)
		return rendered{body: data, contentType: contentTypePDF, nonFinite: result.NonFinite}, err
	})
}

func (h *handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSchedule"

	req, ok := h.decodeRequest(w, r, op)
	if !ok {
		return
	}

	h.serve(w, r, op, "schedule", req.Parameters, func(ctx context.Context) (rendered, error) {
		_, span := tracing.Tracer().Start(ctx, "loans.GenerateSchedule")
		defer span.End()

		params := req.Parameters
		schedule, err := loans.NewAmortizationScheduleGenerator(h.logger).
			GenerateSchedule(params.Mortgage(), params.AnnualInterestRate, params.NumberOfPeriods())
		if err != nil {
			return rendered{}, err
		}

		payment := loans.CalculateMonthlyPayment(params.Mortgage(), params.AnnualInterestRate, params.NumberOfPeriods())
		totalInterest := loans.TotalInterest(schedule)
		payments, nonFinite := output.JSONSchedule(schedule)
		nonFinite = nonFinite || !mathutil.IsFinite(payment) || !mathutil.IsFinite(totalInterest)
		span.SetAttributes(attribute.Bool("projection.non_finite", nonFinite))

		response := scheduleResponse{
			MonthlyPayment: output.Nullable(payment),
			TotalInterest:  output.Nullable(totalInterest),
			Payments:       payments,
			NonFinite:      nonFinite,
		}
		data, err := json.Marshal(response)
		if err != nil {
			return rendered{}, fmt.Errorf("failed to encode schedule: %w", err)
		}
		return rendered{body: data, contentType: contentTypeJSON, nonFinite: nonFinite}, nil
	})
}

func (h *handler) handleConfigExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleConfigExport"

	req, ok := h.decodeRequest(w, r, op)
	if !ok {
		return
	}
	if !h.validate(w, req.Parameters, op) {
		return
	}

	conf := config.Configuration{Parameters: req.Parameters}
	conf.Analysis.Year = req.AnalysisYears
	yamlBytes, err := yaml.Marshal(conf)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode configuration: %v", err), op)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"configYaml": string(yamlBytes),
	})
}

var errTrailingData = errors.New("unexpected data after the JSON body")

// decodeRequest reads exactly one JSON object within the configured size limit
// and rejects it when a required parameter is missing or null.
func (h *handler) decodeRequest(w http.ResponseWriter, r *http.Request, op string) (projectionRequest, bool) {
	var req projectionRequest

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	dec := json.NewDecoder(r.Body)

	var raw json.RawMessage
	err := dec.Decode(&raw)
	if err == nil {
		var extra json.RawMessage
		switch trailing := dec.Decode(&extra); {
		case trailing == nil:
			err = errTrailingData
		case !errors.Is(trailing, io.EOF):
			err = trailing
		}
	}
	if err == nil {
		err = json.Unmarshal(raw, &req)
	}
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesErr):
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize), op)
		case errors.Is(err, io.EOF):
			h.respondErrorWithOp(w, http.StatusBadRequest, "request body is empty", op)
		default:
			h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode parameters: %v", err), op)
		}
		return req, false
	}

	// raw already decoded into a struct, so it is an object or null.
	var fields map[string]json.RawMessage
	_ = json.Unmarshal(raw, &fields)
	present := make(map[string]bool, len(fields))
	for key, value := range fields {
		present[key] = string(value) != "null"
	}
	if err := projection.RequireFields(present); err != nil {
		h.rejectParameters(w, err, op)
		return req, false
	}
	return req, true
}

// validate rejects bad parameters before any cache lookup or computation.
func (h *handler) validate(w http.ResponseWriter, params projection.Parameters, op string) bool {
	err := projection.Validate(params)
	if err == nil {
		return true
	}
	h.rejectParameters(w, err, op)
	return false
}

func (h *handler) rejectParameters(w http.ResponseWriter, err error, op string) {
	for _, field := range invalidFields(err) {
		metrics.ValidationErrors.WithLabelValues(field).Inc()
	}
	h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
}

// serve validates the parameters, answers from the cache when possible, and
// otherwise renders, writes and caches a fresh response.
func (h *handler) serve(w http.ResponseWriter, r *http.Request, op, namespace string, params projection.Parameters, render func(context.Context) (rendered, error)) {
	if !h.validate(w, params, op) {
		return
	}

	key := ""
	if h.cache != nil {
		canonical, err := json.Marshal(params)
		if err == nil {
			key = cache.Key(namespace, canonical)
			if body, hit := h.cache.Get(r.Context(), key); hit {
				metrics.CacheLookups.WithLabelValues("hit").Inc()
				w.Header().Set(headerCache, "HIT")
				h.writeBody(w, contentTypeFor(namespace), body)
				return
			}
			metrics.CacheLookups.WithLabelValues("miss").Inc()
			w.Header().Set(headerCache, "MISS")
		}
	}

	result, err := render(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, projection.ErrInvalidParameter), errors.Is(err, projection.ErrYearOutOfRange):
			h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		default:
			h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
		}
		return
	}

	if result.nonFinite {
		w.Header().Set(headerNonFinite, "true")
	} else if key != "" {
		if err := h.cache.Set(r.Context(), key, result.body, h.cacheTTL); err != nil {
			h.logger.Warn("failed to cache response",
				zap.String("op", op),
				zap.Error(err),
			)
		}
	}

	h.writeBody(w, result.contentType, result.body)
}

// project runs the engine inside a span and records its duration.
func (h *handler) project(ctx context.Context, params projection.Parameters) (*projection.Projection, error) {
	_, span := tracing.Tracer().Start(ctx, "projection.GetProjection")
	defer span.End()
	span.SetAttributes(
		attribute.Int("mortgage.term_years", params.MortgageTermYears),
		attribute.Bool("projection.extended", params.Extended()),
	)

	start := time.Now()
	result, err := projection.GetProjection(h.logger, params)
	metrics.ProjectionDuration.WithLabelValues(metrics.Variant(params.Extended())).Observe(time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "projection failed")
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("projection.months", len(result.Snapshots)),
		attribute.Bool("projection.non_finite", result.NonFinite),
	)
	return result, nil
}

// reportYear resolves the analysis year from the query string, then the body,
// then the default.
func reportYear(r *http.Request, req projectionRequest) (int, error) {
	if raw := r.URL.Query().Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return 0, fmt.Errorf("invalid year %q: %w", raw, err)
		}
		return year, nil
	}
	if req.AnalysisYears != 0 {
		return req.AnalysisYears, nil
	}
	return constants.DefaultAnalysisYear, nil
}

func invalidFields(err error) []string {
	var errs []error
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	} else {
		errs = []error{err}
	}

	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		var paramErr *projection.ParameterError
		if errors.As(e, &paramErr) {
			fields = append(fields, paramErr.Field)
		}
	}
	return fields
}

func contentTypeFor(namespace string) string {
	switch {
	case strings.HasPrefix(namespace, "projection:csv"):
		return contentTypeCSV
	case strings.HasPrefix(namespace, "report.pdf"):
		return contentTypePDF
	}
	return contentTypeJSON
}

func (h *handler) writeBody(w http.ResponseWriter, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set(headerProjectionID, uuid.NewString())
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		h.logger.Error("failed to write response", zap.String("op", "server.writeBody"), zap.Error(err))
	}
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	level := h.logger.Warn
	if status >= http.StatusInternalServerError {
		level = h.logger.Error
	}
	level("projection request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.String("op", "server.writeJSON"), zap.Error(err))
	}
}
