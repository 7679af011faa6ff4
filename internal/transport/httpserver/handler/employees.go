package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	employeesdomain "staff-console-go/internal/domain/employees"
	"staff-console-go/internal/domain/validation"
	"staff-console-go/internal/notify"
	"staff-console-go/internal/resultset"
)

const (
	msgEmployeeCreated      = "Employee created successfully."
	msgEmployeeCreateFailed = "Oops! Something went wrong when adding employee"
	msgUpdated              = "Updated successfully."
	msgUpdateFailed         = "Oops! Something went wrong"
	msgDeleted              = "Deleted successfully."
	msgDeleteFailed         = "Oops! Something went wrong"
)

type employeeRequest struct {
	Avatar        string    `json:"avatar"`
	FirstName     string    `json:"first_name"`
	MiddleName    string    `json:"middle_name"`
	LastName      string    `json:"last_name"`
	DOB           string    `json:"dob"`
	Gender        string    `json:"gender"`
	Address       string    `json:"address"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	JobPosition   string    `json:"job_position"`
	Team          textValue `json:"team"`
	StartAt       string    `json:"start_at"`
	EndsIn        string    `json:"ends_in"`
	IsBillable    *bool     `json:"is_billable"`
	BillableHours textValue `json:"billable_hours"`
}

func (req employeeRequest) form() employeesdomain.Form {
	billable := true
	if req.IsBillable != nil {
		billable = *req.IsBillable
	}
	return employeesdomain.Form{
		Avatar:        req.Avatar,
		FirstName:     req.FirstName,
		MiddleName:    req.MiddleName,
		LastName:      req.LastName,
		DOB:           req.DOB,
		Gender:        req.Gender,
		Address:       req.Address,
		Phone:         req.Phone,
		Email:         req.Email,
		JobPosition:   req.JobPosition,
		Team:          string(req.Team),
		StartAt:       req.StartAt,
		EndsIn:        req.EndsIn,
		Billable:      billable,
		BillableHours: string(req.BillableHours),
	}
}

type teamSummaryResponse struct {
	ID       int64  `json:"id"`
	TeamName string `json:"team_name"`
}

type employeeResponse struct {
	ID            int64                `json:"id"`
	FirstName     string               `json:"first_name"`
	MiddleName    string               `json:"middle_name"`
	LastName      string               `json:"last_name"`
	FullName      string               `json:"full_name"`
	DOB           string               `json:"dob"`
	Gender        string               `json:"gender"`
	Address       string               `json:"address"`
	Phone         string               `json:"phone"`
	Email         string               `json:"email"`
	JobPosition   string               `json:"job_position"`
	Team          *teamSummaryResponse `json:"team"`
	TeamLabel     string               `json:"team_label"`
	StartAt       string               `json:"start_at"`
	EndsIn        string               `json:"ends_in"`
	BillableHours int                  `json:"billable_hours"`
	Avatar        string               `json:"avatar"`
	CreatedAt     time.Time            `json:"created_at"`
}

type employeeOptionResponse struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
}

type countResponse struct {
	Count int64 `json:"count"`
}

func newEmployeeResponse(e employeesdomain.Employee) employeeResponse {
	resp := employeeResponse{
		ID:            e.ID,
		FirstName:     e.FirstName,
		MiddleName:    e.MiddleName,
		LastName:      e.LastName,
		FullName:      e.FullName(),
		DOB:           e.DOB.Format("2006-01-02"),
		Gender:        e.Gender,
		Address:       e.Address,
		Phone:         e.Phone,
		Email:         e.Email,
		JobPosition:   e.JobPosition,
		TeamLabel:     e.TeamLabel(),
		StartAt:       e.StartAt,
		EndsIn:        e.EndsIn,
		BillableHours: e.BillableHours,
		Avatar:        e.Avatar,
		CreatedAt:     e.CreatedAt,
	}
	if e.TeamID != nil && e.Team != nil {
		resp.Team = &teamSummaryResponse{ID: e.Team.ID, TeamName: e.Team.TeamName}
	}
	return resp
}

func (h *Handlers) ListEmployees(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	items, err := h.employeeRows.Fetch(r.Context(), resultset.QueryKey(query), func(ctx context.Context) ([]employeesdomain.Employee, error) {
		return h.Employees.Search(ctx, query)
	})
	if err != nil {
		h.logger(r).InternalError("employees.list: search failed", err, "q", query)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	resp := make([]employeeResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, newEmployeeResponse(item))
	}
	writeJSON(w, http.StatusOK, newListResponse(resp))
}

func (h *Handlers) ListEmployeeOptions(w http.ResponseWriter, r *http.Request) {
	options, err := h.employeeOptions.Fetch(r.Context(), resultset.KeyOptions, h.Employees.Options)
	if err != nil {
		h.logger(r).InternalError("employees.options: list failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	resp := make([]employeeOptionResponse, 0, len(options))
	for _, option := range options {
		resp = append(resp, employeeOptionResponse{ID: option.ID, FullName: option.FullName})
	}
	writeJSON(w, http.StatusOK, newListResponse(resp))
}

func (h *Handlers) CountEmployees(w http.ResponseWriter, r *http.Request) {
	count, err := h.employeeCount.Fetch(r.Context(), resultset.KeyCount, h.Employees.Count)
	if err != nil {
		h.logger(r).InternalError("employees.count: count failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, countResponse{Count: count})
}

func (h *Handlers) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	employee, err := h.Employees.GetByID(r.Context(), id)
	if err != nil {
		h.writeEmployeeError(w, r, "employees.get", err, id)
		return
	}
	writeJSON(w, http.StatusOK, newEmployeeResponse(*employee))
}

func (h *Handlers) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req employeeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	employee, err := h.Employees.Create(r.Context(), req.form())
	if err != nil {
		if !isValidationError(err) {
			h.notifyFailure(r, employeesEntity, notify.ActionCreated, 0, msgEmployeeCreateFailed)
		}
		h.writeEmployeeError(w, r, "employees.create", err, 0)
		return
	}

	h.afterWrite(r, h.employeeRows.Invalidate, notify.Event{
		Kind: notify.KindSuccess, Entity: employeesEntity, Action: notify.ActionCreated, ID: employee.ID, Message: msgEmployeeCreated,
	})
	writeJSON(w, http.StatusCreated, newEmployeeResponse(*employee))
}

func (h *Handlers) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	var req employeeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	employee, err := h.Employees.Update(r.Context(), id, req.form())
	if err != nil {
		if !isValidationError(err) {
			h.notifyFailure(r, employeesEntity, notify.ActionUpdated, id, msgUpdateFailed)
		}
		h.writeEmployeeError(w, r, "employees.update", err, id)
		return
	}

	h.afterWrite(r, h.employeeRows.Invalidate, notify.Event{
		Kind: notify.KindSuccess, Entity: employeesEntity, Action: notify.ActionUpdated, ID: id, Message: msgUpdated,
	})
	writeJSON(w, http.StatusOK, newEmployeeResponse(*employee))
}

func (h *Handlers) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := h.Employees.Delete(r.Context(), id); err != nil {
		h.notifyFailure(r, employeesEntity, notify.ActionDeleted, id, msgDeleteFailed)
		h.logger(r).InternalError("employees.delete: delete failed", err, "employee_id", id)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	h.afterWrite(r, h.employeeRows.Invalidate, notify.Event{
		Kind: notify.KindSuccess, Entity: employeesEntity, Action: notify.ActionDeleted, ID: id, Message: msgDeleted,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) writeEmployeeError(w http.ResponseWriter, r *http.Request, op string, err error, id int64) {
	var fieldErrs validation.Errors
	switch {
	case errors.As(err, &fieldErrs):
		h.logger(r).BusinessError(op+": invalid input", err, "employee_id", id)
		writeValidationError(w, fieldErrs)
	case errors.Is(err, employeesdomain.ErrEmployeeNotFound):
		h.logger(r).BusinessError(op+": employee not found", err, "employee_id", id)
		writeError(w, http.StatusNotFound, "employee_not_found", "employee not found")
	case errors.Is(err, employeesdomain.ErrTeamNotFound):
		h.logger(r).BusinessError(op+": team not found", err, "employee_id", id)
		writeValidationError(w, validation.Errors{employeesdomain.FieldTeam: "Invalid team"})
	default:
		h.logger(r).InternalError(op+": failed", err, "employee_id", id)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
