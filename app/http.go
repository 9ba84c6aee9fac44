package app

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"webgwas/domain/gwas"
)

// NewRouter builds the thin demo HTTP front door. Routing, auth, and
// cohort/feature metadata storage are external collaborators this module
// does not own; this front door exists only so Service is reachable over
// the network in a standalone binary.
func NewRouter(svc *Service) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/cohorts", svc.handleListCohorts)
	r.Post("/cohorts/{cohortID}/validate", svc.handleValidate)
	r.Post("/cohorts/{cohortID}/phenotypes", svc.handleSubmit)
	r.Get("/phenotypes/{requestID}", svc.handleGetResult)

	return r
}

func (s *Service) handleListCohorts(w http.ResponseWriter, r *http.Request) {
	cohorts, err := s.ListCohorts(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, cohorts)
}

type validateRequest struct {
	Expression string `json:"expression"`
}

func (s *Service) handleValidate(w http.ResponseWriter, r *http.Request) {
	cohortID, err := strconv.Atoi(chi.URLParam(r, "cohortID"))
	if err != nil {
		http.Error(w, "invalid cohort id", http.StatusBadRequest)
		return
	}

	var body validateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := s.Validate(r.Context(), cohortID, body.Expression)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type submitRequest struct {
	Expression string `json:"expression"`
}

type submitResponse struct {
	RequestID string `json:"request_id"`
}

func (s *Service) handleSubmit(w http.ResponseWriter, r *http.Request) {
	cohortID, err := strconv.Atoi(chi.URLParam(r, "cohortID"))
	if err != nil {
		http.Error(w, "invalid cohort id", http.StatusBadRequest)
		return
	}

	var body submitRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	valid, err := s.Validate(r.Context(), cohortID, body.Expression)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if !valid.IsValid {
		http.Error(w, valid.Message, http.StatusUnprocessableEntity)
		return
	}

	id := s.Submit(cohortID, valid.ValidNodes)
	writeJSON(w, http.StatusAccepted, submitResponse{RequestID: id.String()})
}

func (s *Service) handleGetResult(w http.ResponseWriter, r *http.Request) {
	id, err := gwas.ParseRequestID(chi.URLParam(r, "requestID"))
	if err != nil {
		http.Error(w, "invalid request id", http.StatusBadRequest)
		return
	}

	result, ok := s.GetResult(id)
	if !ok {
		http.Error(w, "unknown request id", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
