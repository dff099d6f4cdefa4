package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/service"
)

type RequestHandler struct {
	requests service.RequestService
}

func NewRequestHandler(requests service.RequestService) *RequestHandler {
	return &RequestHandler{requests: requests}
}

// hospitalPayload is the wire shape for hospital details. Coordinates come in
// as a [lon, lat] pair; anything other than exactly two numbers is rejected.
type hospitalPayload struct {
	Name          string    `json:"name"`
	Address       string    `json:"address"`
	Coordinates   []float64 `json:"coordinates"`
	ContactNumber string    `json:"contact_number"`
}

type createRequestPayload struct {
	BloodType     string          `json:"blood_type"`
	Urgency       string          `json:"urgency"`
	Hospital      hospitalPayload `json:"hospital"`
	RequiredUnits int32           `json:"required_units"`
	Description   string          `json:"description"`
}

type respondPayload struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

type cancelPayload struct {
	Reason string `json:"reason"`
}

type listRequestsResponse struct {
	Requests []domain.BloodRequest `json:"requests"`
	Total    int32                 `json:"total"`
	Page     int32                 `json:"page"`
	PageSize int32                 `json:"page_size"`
}

func (h *RequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var payload createRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, domain.Validationf("invalid request body: %v", err))
		return
	}
	if len(payload.Hospital.Coordinates) != 2 {
		writeError(w, domain.Validationf("hospital coordinates must be a [lon, lat] pair"))
		return
	}

	in := service.CreateRequestInput{
		BloodType: domain.BloodType(payload.BloodType),
		Urgency:   domain.UrgencyLevel(payload.Urgency),
		Hospital: domain.Hospital{
			Name:    payload.Hospital.Name,
			Address: payload.Hospital.Address,
			Location: domain.Coordinate{
				Lon: payload.Hospital.Coordinates[0],
				Lat: payload.Hospital.Coordinates[1],
			},
			ContactNumber: payload.Hospital.ContactNumber,
		},
		RequiredUnits: payload.RequiredUnits,
		Description:   payload.Description,
	}

	req, err := h.requests.CreateRequest(r.Context(), userID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (h *RequestHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	requestID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	req, err := h.requests.GetRequest(r.Context(), userID, requestID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (h *RequestHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	status := domain.RequestStatus(r.URL.Query().Get("status"))
	page, pageSize := pagination(r)

	requests, total, err := h.requests.ListRequests(r.Context(), userID, role, status, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listRequestsResponse{
		Requests: requests,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

func (h *RequestHandler) Respond(w http.ResponseWriter, r *http.Request) {
	donorID, _, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	requestID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var payload respondPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, domain.Validationf("invalid request body: %v", err))
		return
	}

	req, err := h.requests.RecordDonorResponse(r.Context(), requestID, donorID, domain.ResponseStatus(payload.Status), payload.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (h *RequestHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	requestID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	req, err := h.requests.CompleteRequest(r.Context(), requestID, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (h *RequestHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	requestID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var payload cancelPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, domain.Validationf("invalid request body: %v", err))
		return
	}

	req, err := h.requests.CancelRequest(r.Context(), requestID, userID, payload.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (h *RequestHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var scope domain.StatScope
	switch role {
	case domain.RolePatient:
		scope.PatientID = &userID
	case domain.RoleDonor:
		scope.DonorID = &userID
	}
	// Admins see the global aggregation.

	stats, err := h.requests.GetStatistics(r.Context(), scope)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func pathID(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, domain.Validationf("invalid %s %q", name, raw)
	}
	return int32(id), nil
}

func pagination(r *http.Request) (page, pageSize int32) {
	page, pageSize = 1, 20
	if v, err := strconv.ParseInt(r.URL.Query().Get("page"), 10, 32); err == nil && v > 0 {
		page = int32(v)
	}
	if v, err := strconv.ParseInt(r.URL.Query().Get("page_size"), 10, 32); err == nil && v > 0 && v <= 100 {
		pageSize = int32(v)
	}
	return page, pageSize
}
