// Package handler exposes the license engine over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"licenseguard/internal/license/models"
	dErrors "licenseguard/pkg/domain-errors"
	"licenseguard/pkg/platform/httputil"
	"licenseguard/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks

// Engine is the validation engine surface used by the handler.
type Engine interface {
	Validate(ctx context.Context, req *models.CheckRequest) (*models.Result, error)
	Activate(ctx context.Context, req *models.CheckRequest) (*models.Result, error)
	Verify(ctx context.Context, req *models.CheckRequest) (*models.Result, error)
	Deactivate(ctx context.Context, key, domain string) (models.DeactivationResult, error)
	Info(ctx context.Context, key string) (*models.LicenseInfo, error)
}

// Lifter clears restrictions on operator request.
type Lifter interface {
	Lift(ctx context.Context, key, reason string) error
}

// IncidentLog lists recorded incidents.
type IncidentLog interface {
	ListByLicense(ctx context.Context, key string, limit int) ([]*models.Incident, error)
}

const (
	defaultIncidentLimit = 50
	maxIncidentLimit     = 500
)

type Handler struct {
	engine    Engine
	lifter    Lifter
	incidents IncidentLog
	logger    *slog.Logger
}

func New(engine Engine, lifter Lifter, incidents IncidentLog, logger *slog.Logger) *Handler {
	return &Handler{
		engine:    engine,
		lifter:    lifter,
		incidents: incidents,
		logger:    logger,
	}
}

// Register mounts the public license endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/licenses/validate", h.check(h.engine.Validate))
	r.Post("/v1/licenses/activate", h.check(h.engine.Activate))
	r.Post("/v1/licenses/verify", h.check(h.engine.Verify))
	r.Post("/v1/licenses/deactivate", h.HandleDeactivate)
	r.Get("/v1/licenses/{key}", h.HandleInfo)
}

// RegisterAdmin mounts operator endpoints. Callers wrap r with access control.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/admin/licenses/{key}/lift", h.HandleLift)
	r.Get("/admin/licenses/{key}/incidents", h.HandleIncidents)
}

type checkFunc func(ctx context.Context, req *models.CheckRequest) (*models.Result, error)

func (h *Handler) check(run checkFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		body, err := httputil.DecodeJSON[CheckRequest](r)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}

		result, err := run(ctx, body.toModel(ctx))
		if err != nil {
			h.logger.WarnContext(ctx, "license check rejected",
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
			httputil.WriteError(w, err)
			return
		}
		httputil.WriteJSON(w, StatusFor(result.Code), result)
	}
}

// HandleDeactivate handles POST /v1/licenses/deactivate.
func (h *Handler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	body, err := httputil.DecodeJSON[DeactivateRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	res, err := h.engine.Deactivate(ctx, body.LicenseKey, body.Domain)
	if err != nil {
		h.logError(ctx, "deactivation failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, DeactivateResponse{Result: res, Removed: res == models.DeactivationRemoved})
}

// HandleInfo handles GET /v1/licenses/{key}.
func (h *Handler) HandleInfo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	info, err := h.engine.Info(ctx, chi.URLParam(r, "key"))
	if err != nil {
		h.logError(ctx, "license info failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newLicenseInfoResponse(info))
}

// HandleLift handles POST /admin/licenses/{key}/lift.
func (h *Handler) HandleLift(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var reason string
	if r.ContentLength > 0 {
		body, err := httputil.DecodeJSON[LiftRequest](r)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		reason = body.Reason
	}
	key := chi.URLParam(r, "key")
	if err := h.lifter.Lift(ctx, key, reason); err != nil {
		h.logError(ctx, "restriction lift failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"license_key": key, "status": "lifted"})
}

// HandleIncidents handles GET /admin/licenses/{key}/incidents?limit=N.
func (h *Handler) HandleIncidents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit := defaultIncidentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "limit must be a positive integer"))
			return
		}
		limit = min(n, maxIncidentLimit)
	}
	incidents, err := h.incidents.ListByLicense(ctx, chi.URLParam(r, "key"), limit)
	if err != nil {
		h.logError(ctx, "incident listing failed", err)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list incidents"))
		return
	}
	if incidents == nil {
		incidents = []*models.Incident{}
	}
	httputil.WriteJSON(w, http.StatusOK, IncidentsResponse{Incidents: incidents})
}

func (h *Handler) logError(ctx context.Context, msg string, err error) {
	if dErrors.CodeOf(err) != dErrors.CodeInternal {
		return
	}
	h.logger.ErrorContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
}

// StatusFor maps an outcome code to its HTTP status.
func StatusFor(code models.Code) int {
	switch code {
	case models.CodeValid:
		return http.StatusOK
	case models.CodeRateLimitExceeded, models.CodeLicenseRestricted:
		return http.StatusTooManyRequests
	case models.CodeSystemError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusForbidden
	}
}
