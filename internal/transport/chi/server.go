package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	gochi "github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/stationview/internal/domain"
	domquery "github.com/kailas-cloud/stationview/internal/domain/query"
	"github.com/kailas-cloud/stationview/internal/logger"
	healthuc "github.com/kailas-cloud/stationview/internal/usecase/health"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the station API.
type Server struct {
	schema          SchemaService
	stations        StationService
	health          HealthService
	defaultPageSize int
	logger          *zap.Logger
	errorHandlers   []errorHandler
}

// NewServer creates an HTTP API server. defaultPageSize <= 0 uses the domain default.
func NewServer(
	schema SchemaService,
	stations StationService,
	health HealthService,
	defaultPageSize int,
	logger *zap.Logger,
) *Server {
	if defaultPageSize <= 0 {
		defaultPageSize = domquery.DefaultPageSize
	}
	s := &Server{
		schema:          schema,
		stations:        stations,
		health:          health,
		defaultPageSize: defaultPageSize,
		logger:          logger,
	}
	s.errorHandlers = []errorHandler{
		validationHandler,
		sentinelHandler(domain.ErrInvalidID, http.StatusBadRequest, ErrorResponseCodeInvalidID),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorResponseCodeNotFound),
		sentinelHandler(domain.ErrUpstreamFetch, http.StatusBadGateway, ErrorResponseCodeUpstreamError),
		sentinelHandler(domain.ErrEmptySchema, http.StatusInternalServerError, ErrorResponseCodeEmptySchema),
		sentinelHandler(domain.ErrSchemaDerivation,
			http.StatusInternalServerError, ErrorResponseCodeSchemaDerivationFailed),
	}
	return s
}

// Register mounts the API routes on r.
func (s *Server) Register(r gochi.Router) {
	r.Get("/schema", s.GetSchema)
	r.Post("/data", s.PostData)
	r.Get("/data/{id}", s.GetStation)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, ErrorResponseCodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrorResponseCodeBadRequest, "method not allowed")
	})
}

// GetSchema handles GET /schema.
func (s *Server) GetSchema(w http.ResponseWriter, r *http.Request) {
	fields, err := s.schema.Derive(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fields)
}

// PostData handles POST /data.
func (s *Server) PostData(w http.ResponseWriter, r *http.Request) {
	q, err := parseDataRequest(r.Body, s.defaultPageSize)
	if err != nil {
		if errors.Is(err, errMalformedBody) {
			writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid request body")
			return
		}
		s.handleDomainError(w, r, err)
		return
	}

	res, err := s.stations.FetchFilteredData(r.Context(), q)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GetStation handles GET /data/{id}.
func (s *Server) GetStation(w http.ResponseWriter, r *http.Request) {
	var id int
	err := runtime.BindStyledParameterWithOptions("simple", "id", gochi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		s.handleDomainError(w, r, fmt.Errorf("%w: %w", domain.ErrInvalidID, err))
		return
	}

	rec, err := s.stations.FetchStationByID(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, HealthResponse{Status: string(report.Status), Checks: checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorResponseCode, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// domainSentinels are checked in order; the first match names the error to the client.
var domainSentinels = []error{
	domain.ErrValidation,
	domain.ErrInvalidID,
	domain.ErrNotFound,
	domain.ErrUpstreamFetch,
	domain.ErrEmptySchema,
	domain.ErrSchemaDerivation,
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	for _, s := range domainSentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// validationHandler answers ErrValidation with every collected message.
func validationHandler(w http.ResponseWriter, err error, _ string) bool {
	if !errors.Is(err, domain.ErrValidation) {
		return false
	}
	resp := ErrorResponse{Code: ErrorResponseCodeValidationFailed, Message: "Validation error"}
	var verr *ValidationError
	if errors.As(err, &verr) {
		resp.Errors = verr.Messages
	}
	writeJSON(w, http.StatusBadRequest, resp)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContextOr(r.Context(), s.logger)
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			log.Warn("domain error", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorResponseCodeInternalError, "internal error")
}
