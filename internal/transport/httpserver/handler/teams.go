package handler

import (
	"context"
	"errors"
	"mime"
	"net/http"
	"strconv"
	"time"

	teamsdomain "staff-console-go/internal/domain/teams"
	"staff-console-go/internal/domain/validation"
	"staff-console-go/internal/notify"
	"staff-console-go/internal/qrcode"
	"staff-console-go/internal/resultset"
)

const (
	msgTeamCreated      = "Team created successfully."
	msgTeamCreateFailed = "Oops! Something went wrong when adding team"
)

type teamRequest struct {
	TeamName      string    `json:"team_name"`
	TeamPassword  string    `json:"team_password"`
	TeamMembers   string    `json:"team_members"`
	BillableHours textValue `json:"billable_hours"`
}

func (req teamRequest) form() teamsdomain.Form {
	return teamsdomain.Form{
		TeamName:      req.TeamName,
		TeamPassword:  req.TeamPassword,
		TeamMembers:   req.TeamMembers,
		BillableHours: string(req.BillableHours),
	}
}

type verifyTeamRequest struct {
	TeamName     string `json:"team_name"`
	TeamPassword string `json:"team_password"`
}

type teamResponse struct {
	ID            int64     `json:"id"`
	TeamName      string    `json:"team_name"`
	TeamPassword  string    `json:"team_password"`
	TeamMembers   string    `json:"team_members"`
	BillableHours int       `json:"billable_hours"`
	QRCode        *string   `json:"qr_code"`
	CreatedAt     time.Time `json:"created_at"`
}

func newTeamResponse(t teamsdomain.Team) teamResponse {
	return teamResponse{
		ID:            t.ID,
		TeamName:      t.TeamName,
		TeamPassword:  t.TeamPassword,
		TeamMembers:   t.TeamMembers,
		BillableHours: t.BillableHours,
		QRCode:        t.QRCode,
		CreatedAt:     t.CreatedAt,
	}
}

// ListTeams serves the full list, a name search (q) or the billable hours
// filter (max_hours). max_hours wins when both are given.
func (h *Handlers) ListTeams(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	maxHours, err := parseOptionalIntParam(query.Get("max_hours"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid max_hours")
		return
	}

	var (
		key  string
		load func(ctx context.Context) ([]teamsdomain.Team, error)
	)
	if maxHours != nil {
		limit := *maxHours
		key = resultset.MaxKey(limit)
		load = func(ctx context.Context) ([]teamsdomain.Team, error) {
			return h.Teams.SearchByRange(ctx, limit)
		}
	} else {
		q := query.Get("q")
		key = resultset.QueryKey(q)
		load = func(ctx context.Context) ([]teamsdomain.Team, error) {
			return h.Teams.Search(ctx, q)
		}
	}

	items, err := h.teamRows.Fetch(r.Context(), key, load)
	if err != nil {
		if errors.Is(err, teamsdomain.ErrInvalidRange) {
			h.logger(r).BusinessError("teams.list: invalid range", err)
			writeError(w, http.StatusBadRequest, "invalid_range", "invalid max_hours")
			return
		}
		h.logger(r).InternalError("teams.list: search failed", err, "key", key)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	resp := make([]teamResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, newTeamResponse(item))
	}
	writeJSON(w, http.StatusOK, newListResponse(resp))
}

func (h *Handlers) ListTeamOptions(w http.ResponseWriter, r *http.Request) {
	options, err := h.teamOptions.Fetch(r.Context(), resultset.KeyOptions, h.Teams.Options)
	if err != nil {
		h.logger(r).InternalError("teams.options: list failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	resp := make([]teamSummaryResponse, 0, len(options))
	for _, option := range options {
		resp = append(resp, teamSummaryResponse{ID: option.ID, TeamName: option.TeamName})
	}
	writeJSON(w, http.StatusOK, newListResponse(resp))
}

func (h *Handlers) CountTeams(w http.ResponseWriter, r *http.Request) {
	count, err := h.teamCount.Fetch(r.Context(), resultset.KeyCount, h.Teams.Count)
	if err != nil {
		h.logger(r).InternalError("teams.count: count failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, countResponse{Count: count})
}

func (h *Handlers) GetTeam(w http.ResponseWriter, r *http.Request) {
	team, ok := h.loadTeam(w, r, "teams.get")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newTeamResponse(*team))
}

func (h *Handlers) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var req teamRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	team, err := h.Teams.Create(r.Context(), req.form())
	if err != nil {
		if !isValidationError(err) {
			h.notifyFailure(r, teamsEntity, notify.ActionCreated, 0, msgTeamCreateFailed)
		}
		h.writeTeamError(w, r, "teams.create", err, 0)
		return
	}

	h.afterWrite(r, h.teamRows.Invalidate, notify.Event{
		Kind: notify.KindSuccess, Entity: teamsEntity, Action: notify.ActionCreated, ID: team.ID, Message: msgTeamCreated,
	})
	writeJSON(w, http.StatusCreated, newTeamResponse(*team))
}

func (h *Handlers) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	var req teamRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	team, err := h.Teams.Update(r.Context(), id, req.form())
	if err != nil {
		if !isValidationError(err) {
			h.notifyFailure(r, teamsEntity, notify.ActionUpdated, id, msgUpdateFailed)
		}
		h.writeTeamError(w, r, "teams.update", err, id)
		return
	}

	h.afterWrite(r, h.teamRows.Invalidate, notify.Event{
		Kind: notify.KindSuccess, Entity: teamsEntity, Action: notify.ActionUpdated, ID: id, Message: msgUpdated,
	})
	writeJSON(w, http.StatusOK, newTeamResponse(*team))
}

func (h *Handlers) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := h.Teams.Delete(r.Context(), id); err != nil {
		h.notifyFailure(r, teamsEntity, notify.ActionDeleted, id, msgDeleteFailed)
		h.logger(r).InternalError("teams.delete: delete failed", err, "team_id", id)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	h.afterWrite(r, h.teamRows.Invalidate, notify.Event{
		Kind: notify.KindSuccess, Entity: teamsEntity, Action: notify.ActionDeleted, ID: id, Message: msgDeleted,
	})
	w.WriteHeader(http.StatusNoContent)
}

// VerifyTeam resolves the credentials read from a team QR code.
func (h *Handlers) VerifyTeam(w http.ResponseWriter, r *http.Request) {
	var req verifyTeamRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	team, err := h.Teams.VerifyCredentials(r.Context(), req.TeamName, req.TeamPassword)
	if err != nil {
		if errors.Is(err, teamsdomain.ErrInvalidCredentials) {
			h.logger(r).BusinessError("teams.verify: rejected", err, "team_name", req.TeamName)
			writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid team credentials")
			return
		}
		h.logger(r).InternalError("teams.verify: failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, teamSummaryResponse{ID: team.ID, TeamName: team.TeamName})
}

func (h *Handlers) DownloadTeamQRCode(w http.ResponseWriter, r *http.Request) {
	team, png, ok := h.renderTeamQRCode(w, r, "teams.qrcode")
	if !ok {
		return
	}

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": teamsdomain.QRFilename(team.TeamName)})
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", disposition)
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (h *Handlers) PrintTeamQRCode(w http.ResponseWriter, r *http.Request) {
	team, png, ok := h.renderTeamQRCode(w, r, "teams.qrcode_print")
	if !ok {
		return
	}

	page, err := qrcode.PrintPage(team.TeamName, png)
	if err != nil {
		h.logger(r).InternalError("teams.qrcode_print: render page failed", err, "team_id", team.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(page)
}

// renderTeamQRCode encodes the team's current QR payload. A team without a
// payload has nothing to download.
func (h *Handlers) renderTeamQRCode(w http.ResponseWriter, r *http.Request, op string) (*teamsdomain.Team, []byte, bool) {
	team, ok := h.loadTeam(w, r, op)
	if !ok {
		return nil, nil, false
	}

	payload, defined := teamsdomain.QRPayload(team.TeamName, team.TeamPassword)
	if !defined {
		h.logger(r).BusinessError(op+": no payload", qrcode.ErrEmptyPayload, "team_id", team.ID)
		writeError(w, http.StatusNotFound, "qr_code_unavailable", "qr code unavailable")
		return nil, nil, false
	}

	png, err := qrcode.PNG(payload)
	if err != nil {
		h.logger(r).InternalError(op+": encode failed", err, "team_id", team.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return nil, nil, false
	}
	return team, png, true
}

func (h *Handlers) loadTeam(w http.ResponseWriter, r *http.Request, op string) (*teamsdomain.Team, bool) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return nil, false
	}

	team, err := h.Teams.GetByID(r.Context(), id)
	if err != nil {
		h.writeTeamError(w, r, op, err, id)
		return nil, false
	}
	return team, true
}

func (h *Handlers) writeTeamError(w http.ResponseWriter, r *http.Request, op string, err error, id int64) {
	var fieldErrs validation.Errors
	switch {
	case errors.As(err, &fieldErrs):
		h.logger(r).BusinessError(op+": invalid input", err, "team_id", id)
		writeValidationError(w, fieldErrs)
	case errors.Is(err, teamsdomain.ErrTeamNotFound):
		h.logger(r).BusinessError(op+": team not found", err, "team_id", id)
		writeError(w, http.StatusNotFound, "team_not_found", "team not found")
	default:
		h.logger(r).InternalError(op+": failed", err, "team_id", id)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
