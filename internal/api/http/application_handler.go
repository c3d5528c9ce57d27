package http

import (
	"encoding/json"
	"net/http"
	"time"

	"nestio-backend/internal/domain"
	"nestio-backend/internal/service"

	"github.com/gorilla/mux"
)

type ApplicationHandler struct {
	appSvc service.ApplicationService
}

func NewApplicationHandler(appSvc service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{appSvc: appSvc}
}

type submitApplicationRequest struct {
	ApplicantName  string   `json:"applicant_name"`
	ApplicantEmail string   `json:"applicant_email"`
	ApplicantPhone string   `json:"applicant_phone"`
	ProposedRent   *float64 `json:"proposed_rent"`
	MoveInDate     *string  `json:"move_in_date"` // YYYY-MM-DD
}

func (h *ApplicationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	moveIn, ok := parseDate(req.MoveInDate)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "move_in_date must be YYYY-MM-DD"})
		return
	}
	in := service.SubmitApplicationInput{
		ApplicantName:  req.ApplicantName,
		ApplicantEmail: req.ApplicantEmail,
		ApplicantPhone: req.ApplicantPhone,
		ProposedRent:   req.ProposedRent,
		MoveInDate:     moveIn,
	}
	app, err := h.appSvc.Submit(r.Context(), CallerFromContext(r.Context()), mux.Vars(r)["slug"], in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

type transitionRequest struct {
	Status domain.ApplicationStatus `json:"status"`
	Notes  *string                  `json:"notes"`
}

func (h *ApplicationHandler) Transition(w http.ResponseWriter, r *http.Request) {
	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	app, err := h.appSvc.Transition(r.Context(), CallerFromContext(r.Context()), mux.Vars(r)["slug"], req.Status, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *ApplicationHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	app, err := h.appSvc.Withdraw(r.Context(), CallerFromContext(r.Context()), mux.Vars(r)["slug"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

type updateApplicationRequest struct {
	LandlordNotes *string  `json:"landlord_notes"`
	ProposedRent  *float64 `json:"proposed_rent"`
	MoveInDate    *string  `json:"move_in_date"`
}

func (h *ApplicationHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	moveIn, ok := parseDate(req.MoveInDate)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "move_in_date must be YYYY-MM-DD"})
		return
	}
	upd := service.ApplicationUpdate{
		LandlordNotes: req.LandlordNotes,
		ProposedRent:  req.ProposedRent,
		MoveInDate:    moveIn,
	}
	app, err := h.appSvc.UpdateDetails(r.Context(), CallerFromContext(r.Context()), mux.Vars(r)["slug"], upd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *ApplicationHandler) ListForProperty(w http.ResponseWriter, r *http.Request) {
	page := parseInt64(r.URL.Query().Get("page"), 1)
	limit := parseInt64(r.URL.Query().Get("limit"), 0)
	apps, meta, err := h.appSvc.ListForProperty(r.Context(), CallerFromContext(r.Context()), mux.Vars(r)["slug"], page, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": apps, "meta": meta})
}

func (h *ApplicationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	page := parseInt64(r.URL.Query().Get("page"), 1)
	limit := parseInt64(r.URL.Query().Get("limit"), 0)
	apps, meta, err := h.appSvc.ListMine(r.Context(), CallerFromContext(r.Context()), page, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": apps, "meta": meta})
}

func parseDate(raw *string) (*time.Time, bool) {
	if raw == nil || *raw == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", *raw)
	if err != nil {
		return nil, false
	}
	return &t, true
}
