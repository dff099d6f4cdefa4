package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/service"
)

type DonorHandler struct {
	search service.DonorSearchService
	users  service.UserService
}

func NewDonorHandler(search service.DonorSearchService, users service.UserService) *DonorHandler {
	return &DonorHandler{search: search, users: users}
}

type searchDonorsResponse struct {
	Donors []domain.DonorMatch `json:"donors"`
	Count  int                 `json:"count"`
}

type availabilityPayload struct {
	IsAvailable bool `json:"is_available"`
}

// Search looks up eligible donors around a point. Query parameters:
// blood_type (recipient's type, optional), lon, lat, radius_km.
func (h *DonorHandler) Search(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := UserFromContext(r.Context()); !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	q := r.URL.Query()
	lon, lonErr := strconv.ParseFloat(q.Get("lon"), 64)
	lat, latErr := strconv.ParseFloat(q.Get("lat"), 64)
	if lonErr != nil || latErr != nil {
		writeError(w, domain.Validationf("lon and lat are required numeric query parameters"))
		return
	}

	radiusKm := 0.0
	if raw := q.Get("radius_km"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, domain.Validationf("invalid radius_km %q", raw))
			return
		}
		radiusKm = v
	}

	origin := domain.Coordinate{Lon: lon, Lat: lat}
	matches, err := h.search.FindDonors(r.Context(), domain.BloodType(q.Get("blood_type")), &origin, radiusKm)
	if err != nil {
		writeError(w, err)
		return
	}
	if matches == nil {
		matches = []domain.DonorMatch{}
	}
	writeJSON(w, http.StatusOK, searchDonorsResponse{Donors: matches, Count: len(matches)})
}

func (h *DonorHandler) UpdateAvailability(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var payload availabilityPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, domain.Validationf("invalid request body: %v", err))
		return
	}

	if err := h.users.UpdateAvailability(r.Context(), userID, payload.IsAvailable); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"is_available": payload.IsAvailable})
}

func (h *DonorHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.users.GetProfile(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
