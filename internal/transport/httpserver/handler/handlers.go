package handler

import (
	"context"
	"net/http"
	"time"

	"staff-console-go/internal/domain/avatars"
	"staff-console-go/internal/domain/dashboard"
	employeesdomain "staff-console-go/internal/domain/employees"
	teamsdomain "staff-console-go/internal/domain/teams"
	"staff-console-go/internal/notify"
	"staff-console-go/internal/resultset"
	"staff-console-go/internal/transport/httpserver/middleware"
	"staff-console-go/pkg/logger"
)

const (
	employeesEntity = resultset.EntityEmployees
	teamsEntity     = resultset.EntityTeams
	avatarsEntity   = "avatars"
)

type Handlers struct {
	Employees *employeesdomain.Service
	Teams     *teamsdomain.Service
	Avatars   *avatars.Service
	Dashboard *dashboard.Service

	employeeRows    *resultset.Cache[[]employeesdomain.Employee]
	employeeOptions *resultset.Cache[[]employeesdomain.Option]
	employeeCount   *resultset.Cache[int64]
	teamRows        *resultset.Cache[[]teamsdomain.Team]
	teamOptions     *resultset.Cache[[]teamsdomain.Summary]
	teamCount       *resultset.Cache[int64]

	notify notify.Sink
	log    logger.Logger
}

type Deps struct {
	Employees *employeesdomain.Service
	Teams     *teamsdomain.Service
	Avatars   *avatars.Service
	Dashboard *dashboard.Service
	Store     resultset.Store
	CacheTTL  time.Duration
	Notify    notify.Sink
}

func New(deps Deps, log logger.Logger) *Handlers {
	store := deps.Store
	if store == nil {
		store = resultset.Noop()
	}
	sink := deps.Notify
	if sink == nil {
		sink = notify.Nop()
	}
	if log == nil {
		log = logger.Nop()
	}
	ttl := deps.CacheTTL

	return &Handlers{
		Employees: deps.Employees,
		Teams:     deps.Teams,
		Avatars:   deps.Avatars,
		Dashboard: deps.Dashboard,

		employeeRows:    resultset.New[[]employeesdomain.Employee](store, resultset.EntityEmployees, ttl, log),
		employeeOptions: resultset.New[[]employeesdomain.Option](store, resultset.EntityEmployees, ttl, log),
		employeeCount:   resultset.New[int64](store, resultset.EntityEmployees, ttl, log),
		teamRows:        resultset.New[[]teamsdomain.Team](store, resultset.EntityTeams, ttl, log),
		teamOptions:     resultset.New[[]teamsdomain.Summary](store, resultset.EntityTeams, ttl, log),
		teamCount:       resultset.New[int64](store, resultset.EntityTeams, ttl, log),

		notify: sink,
		log:    log,
	}
}

// logger is the request-scoped logger. The auth middleware has already
// tagged it with the operator.
func (h *Handlers) logger(r *http.Request) logger.Logger {
	return logger.FromContext(r.Context(), h.log)
}

// emit stamps event with the operator of r and reports it.
func (h *Handlers) emit(r *http.Request, event notify.Event) {
	if operator, ok := middleware.OperatorFromContext(r.Context()); ok {
		event.Actor = operator.Label()
	}
	h.notify.Notify(r.Context(), event)
}

// afterWrite drops the cached result sets of the written entity, then
// reports the outcome.
func (h *Handlers) afterWrite(r *http.Request, invalidate func(context.Context) error, event notify.Event) {
	if err := invalidate(r.Context()); err != nil {
		h.logger(r).InternalError("cache.invalidate: failed", err, "entity", event.Entity)
	}
	h.emit(r, event)
}

func (h *Handlers) notifyFailure(r *http.Request, entity, action string, id int64, message string) {
	h.emit(r, notify.Event{Kind: notify.KindError, Entity: entity, Action: action, ID: id, Message: message})
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type dashboardResponse struct {
	Employees int64 `json:"employees"`
	Teams     int64 `json:"teams"`
}

func (h *Handlers) GetDashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Dashboard.Summary(r.Context())
	if err != nil {
		h.logger(r).InternalError("dashboard.get: count failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, dashboardResponse{Employees: summary.Employees, Teams: summary.Teams})
}
