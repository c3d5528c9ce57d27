package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"nestio-backend/internal/domain"
	"nestio-backend/internal/service"

	"github.com/gorilla/mux"
)

// PropertyHandler is a thin shim over PropertyService; all listing semantics
// live in the service layer.
type PropertyHandler struct {
	propSvc service.PropertyService
}

func NewPropertyHandler(propSvc service.PropertyService) *PropertyHandler {
	return &PropertyHandler{propSvc: propSvc}
}

type createPropertyRequest struct {
	Kind        domain.ListingKind `json:"kind"`
	Price       float64            `json:"price"`
	City        string             `json:"city"`
	Country     string             `json:"country"`
	Lat         *float64           `json:"lat"`
	Lng         *float64           `json:"lng"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	PhotoURLs   []string           `json:"photo_urls"`
	Features    domain.FeatureBag  `json:"features"`
}

func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	p := &domain.Property{
		Kind:        req.Kind,
		Price:       req.Price,
		City:        req.City,
		Country:     req.Country,
		Lat:         req.Lat,
		Lng:         req.Lng,
		Title:       req.Title,
		Description: req.Description,
		PhotoURLs:   req.PhotoURLs,
		Features:    req.Features,
	}
	if err := h.propSvc.AddProperty(r.Context(), CallerFromContext(r.Context()), p); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *PropertyHandler) Get(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	p, err := h.propSvc.GetProperty(r.Context(), CallerFromContext(r.Context()), slug)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type updatePropertyRequest struct {
	Kind         *domain.ListingKind        `json:"kind"`
	Price        *float64                   `json:"price"`
	City         *string                    `json:"city"`
	Country      *string                    `json:"country"`
	Lat          *float64                   `json:"lat"`
	Lng          *float64                   `json:"lng"`
	Title        *string                    `json:"title"`
	Description  *string                    `json:"description"`
	PhotoURLs    *[]string                  `json:"photo_urls"`
	Features     *domain.FeatureBag         `json:"features"`
	Availability *domain.AvailabilityStatus `json:"availability"`
	IsActive     *bool                      `json:"is_active"`
}

func (h *PropertyHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updatePropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	upd := service.PropertyUpdate{
		Kind:         req.Kind,
		Price:        req.Price,
		City:         req.City,
		Country:      req.Country,
		Lat:          req.Lat,
		Lng:          req.Lng,
		Title:        req.Title,
		Description:  req.Description,
		PhotoURLs:    req.PhotoURLs,
		Features:     req.Features,
		Availability: req.Availability,
		IsActive:     req.IsActive,
	}
	p, err := h.propSvc.UpdateProperty(r.Context(), CallerFromContext(r.Context()), mux.Vars(r)["slug"], upd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *PropertyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.propSvc.DeleteProperty(r.Context(), CallerFromContext(r.Context()), mux.Vars(r)["slug"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PropertyHandler) Search(w http.ResponseWriter, r *http.Request) {
	// Flatten the query string; the service ignores what it does not know.
	raw := map[string]string{}
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			raw[key] = values[0]
		}
	}
	page := parseInt64(raw["page"], 1)
	pageSize := parseInt64(raw["limit"], 0)

	props, meta, err := h.propSvc.SearchProperties(r.Context(), CallerFromContext(r.Context()), raw, page, pageSize, raw["sort"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": props, "meta": meta})
}

func (h *PropertyHandler) PriceHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.propSvc.PriceHistory(r.Context(), CallerFromContext(r.Context()), mux.Vars(r)["slug"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": history})
}

func parseInt64(raw string, fallback int64) int64 {
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return v
}
